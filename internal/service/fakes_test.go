package service

import (
	"context"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/teamtacles/teamtacles-api/dao/model"
)

// opLog records the order of side effects across fakes, so tests can assert
// the remote cascade runs before the local delete.
type opLog struct {
	entries []string
}

func (l *opLog) record(op string) {
	if l != nil {
		l.entries = append(l.entries, op)
	}
}

type fakeProjectStore struct {
	projects map[uint]*model.Project
	nextID   uint
	updates  int
	log      *opLog
}

func newFakeProjectStore() *fakeProjectStore {
	return &fakeProjectStore{projects: map[uint]*model.Project{}, nextID: 1}
}

func (f *fakeProjectStore) seed(project *model.Project) *model.Project {
	if project.ID == 0 {
		project.ID = f.nextID
		f.nextID++
	}
	f.projects[project.ID] = project
	return project
}

func (f *fakeProjectStore) GetByID(_ context.Context, id uint) (*model.Project, error) {
	project, ok := f.projects[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return project, nil
}

func (f *fakeProjectStore) Create(_ context.Context, project *model.Project) error {
	f.seed(project)
	return nil
}

func (f *fakeProjectStore) Update(_ context.Context, project *model.Project) error {
	f.updates++
	f.projects[project.ID] = project
	return nil
}

func (f *fakeProjectStore) ReplaceTeam(_ context.Context, project *model.Project, team []model.User) error {
	project.Team = team
	f.projects[project.ID] = project
	return nil
}

func (f *fakeProjectStore) Delete(_ context.Context, id uint) error {
	f.log.record("local-delete")
	delete(f.projects, id)
	return nil
}

func (f *fakeProjectStore) all() []model.Project {
	rows := make([]model.Project, 0, len(f.projects))
	for _, project := range f.projects {
		rows = append(rows, *project)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID > rows[j].ID })
	return rows
}

func paginate(rows []model.Project, offset, limit int) []model.Project {
	if offset >= len(rows) {
		return nil
	}
	rows = rows[offset:]
	if limit < len(rows) {
		rows = rows[:limit]
	}
	return rows
}

func (f *fakeProjectStore) ListAll(_ context.Context, offset, limit int) ([]model.Project, int64, error) {
	rows := f.all()
	return paginate(rows, offset, limit), int64(len(rows)), nil
}

func (f *fakeProjectStore) ListAccessible(_ context.Context, userID uint, offset, limit int) ([]model.Project, int64, error) {
	var rows []model.Project
	for _, project := range f.all() {
		if project.CreatorID == userID || project.IsTeamMember(userID) {
			rows = append(rows, project)
		}
	}
	return paginate(rows, offset, limit), int64(len(rows)), nil
}

type fakeUserStore struct {
	users  map[uint]*model.User
	roles  map[model.RoleName]*model.Role
	nextID uint
}

func newFakeUserStore() *fakeUserStore {
	f := &fakeUserStore{
		users:  map[uint]*model.User{},
		roles:  map[model.RoleName]*model.Role{},
		nextID: 1,
	}
	for i, name := range []model.RoleName{model.RoleNameUser, model.RoleNameAdmin} {
		role := &model.Role{Name: name}
		role.ID = uint(i + 1)
		f.roles[name] = role
	}
	return f
}

func (f *fakeUserStore) addUser(name, email string, roleNames ...model.RoleName) *model.User {
	user := &model.User{Name: name, Email: email}
	for _, rn := range roleNames {
		user.Roles = append(user.Roles, *f.roles[rn])
	}
	user.ID = f.nextID
	f.nextID++
	f.users[user.ID] = user
	return user
}

func (f *fakeUserStore) GetByID(_ context.Context, id uint) (*model.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (f *fakeUserStore) GetByName(_ context.Context, name string) (*model.User, error) {
	for _, user := range f.users {
		if user.Name == name {
			return user, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserStore) GetByIDs(_ context.Context, ids []uint) ([]model.User, error) {
	var users []model.User
	for _, id := range ids {
		if user, ok := f.users[id]; ok {
			users = append(users, *user)
		}
	}
	return users, nil
}

func (f *fakeUserStore) ExistsByName(_ context.Context, name string) (bool, error) {
	for _, user := range f.users {
		if user.Name == name {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserStore) ExistsByEmail(_ context.Context, email string) (bool, error) {
	for _, user := range f.users {
		if strings.EqualFold(user.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserStore) Create(_ context.Context, user *model.User) error {
	user.ID = f.nextID
	f.nextID++
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserStore) GetRoleByName(_ context.Context, name model.RoleName) (*model.Role, error) {
	role, ok := f.roles[name]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return role, nil
}

func (f *fakeUserStore) ReplaceRoles(_ context.Context, user *model.User, roles []model.Role) error {
	user.Roles = roles
	return nil
}

func (f *fakeUserStore) List(_ context.Context, offset, limit int) ([]model.User, int64, error) {
	rows := make([]model.User, 0, len(f.users))
	for _, user := range f.users {
		rows = append(rows, *user)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
	total := int64(len(rows))
	if offset >= len(rows) {
		return nil, total, nil
	}
	rows = rows[offset:]
	if limit < len(rows) {
		rows = rows[:limit]
	}
	return rows, total, nil
}

type gatewayCall struct {
	projectID uint
	token     string
}

type fakeTaskGateway struct {
	err   error
	calls []gatewayCall
	log   *opLog
}

func (f *fakeTaskGateway) DeleteAllTasksFromProject(_ context.Context, projectID uint, token string) error {
	f.calls = append(f.calls, gatewayCall{projectID: projectID, token: token})
	if f.err != nil {
		return f.err
	}
	f.log.record("cascade")
	return nil
}
