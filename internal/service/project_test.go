package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamtacles/teamtacles-api/dao/model"
	"github.com/teamtacles/teamtacles-api/internal/apperror"
	"github.com/teamtacles/teamtacles-api/internal/policy"
)

func newProjectFixture() (*ProjectService, *fakeProjectStore, *fakeUserStore, *fakeTaskGateway) {
	projects := newFakeProjectStore()
	users := newFakeUserStore()
	gateway := &fakeTaskGateway{}

	log := &opLog{}
	projects.log = log
	gateway.log = log

	return NewProjectService(projects, users, gateway), projects, users, gateway
}

func asPrincipal(user *model.User) policy.Principal {
	return policy.Principal{UserID: user.ID, Username: user.Name, Roles: user.RoleNames()}
}

func seedProject(projects *fakeProjectStore, creator *model.User, team ...*model.User) *model.Project {
	desc := "a project"
	project := &model.Project{
		Name:        "ocean",
		Description: &desc,
		Status:      model.StatusActive,
		CreatorID:   creator.ID,
		Creator:     *creator,
	}
	for _, member := range team {
		project.Team = append(project.Team, *member)
	}
	return projects.seed(project)
}

func TestProjectCreate(t *testing.T) {
	svc, projects, users, _ := newProjectFixture()
	creator := users.addUser("alice", "alice@example.com", model.RoleNameUser)
	member := users.addUser("bob", "bob@example.com", model.RoleNameUser)

	created, err := svc.Create(context.Background(), CreateProjectParams{
		Name:        "atlantis",
		Description: "deep sea",
		Team:        []uint{member.ID, member.ID}, // duplicates collapse
	}, asPrincipal(creator))
	require.NoError(t, err)

	assert.Equal(t, "atlantis", created.Name)
	assert.Equal(t, creator.ID, created.CreatorID)
	assert.Equal(t, model.StatusActive, created.Status)
	require.Len(t, created.Team, 1)
	assert.Equal(t, member.ID, created.Team[0].ID)
	assert.Len(t, projects.projects, 1)
}

func TestProjectCreateUnknownMember(t *testing.T) {
	svc, projects, users, _ := newProjectFixture()
	creator := users.addUser("alice", "alice@example.com", model.RoleNameUser)

	_, err := svc.Create(context.Background(), CreateProjectParams{
		Name: "atlantis",
		Team: []uint{404},
	}, asPrincipal(creator))
	assert.Equal(t, apperror.NotFound, apperror.KindOf(err))
	assert.Empty(t, projects.projects, "nothing persists when a member id is unknown")
}

func TestProjectGetByID(t *testing.T) {
	svc, projects, users, _ := newProjectFixture()
	creator := users.addUser("alice", "alice@example.com", model.RoleNameUser)
	member := users.addUser("bob", "bob@example.com", model.RoleNameUser)
	outsider := users.addUser("mallory", "mallory@example.com", model.RoleNameUser)
	admin := users.addUser("root", "root@example.com", model.RoleNameAdmin)
	project := seedProject(projects, creator, member)

	// missing id is NotFound even for admins
	_, err := svc.GetByID(context.Background(), 999, asPrincipal(admin))
	assert.Equal(t, apperror.NotFound, apperror.KindOf(err))

	// an existing but inaccessible project is Forbidden, not NotFound
	_, err = svc.GetByID(context.Background(), project.ID, asPrincipal(outsider))
	assert.Equal(t, apperror.Forbidden, apperror.KindOf(err))

	for _, viewer := range []*model.User{creator, member, admin} {
		got, err := svc.GetByID(context.Background(), project.ID, asPrincipal(viewer))
		require.NoError(t, err, "viewer %s", viewer.Name)
		assert.Equal(t, project.ID, got.ID)
	}
}

func TestProjectList(t *testing.T) {
	svc, projects, users, _ := newProjectFixture()
	alice := users.addUser("alice", "alice@example.com", model.RoleNameUser)
	bob := users.addUser("bob", "bob@example.com", model.RoleNameUser)
	admin := users.addUser("root", "root@example.com", model.RoleNameAdmin)

	seedProject(projects, alice)      // alice is creator
	seedProject(projects, bob, alice) // alice is member
	seedProject(projects, bob)        // alice has no relation

	rows, count, err := svc.List(context.Background(), 0, 10, asPrincipal(alice))
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
	assert.Len(t, rows, 2)

	rows, count, err = svc.List(context.Background(), 0, 10, asPrincipal(admin))
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
	assert.Len(t, rows, 3)

	// second page: count stays total, rows shrink
	rows, count, err = svc.List(context.Background(), 1, 2, asPrincipal(admin))
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
	assert.Len(t, rows, 1)
}

func TestProjectUpdate(t *testing.T) {
	svc, projects, users, _ := newProjectFixture()
	creator := users.addUser("alice", "alice@example.com", model.RoleNameUser)
	member := users.addUser("bob", "bob@example.com", model.RoleNameUser)
	newcomer := users.addUser("carol", "carol@example.com", model.RoleNameUser)
	project := seedProject(projects, creator, member)

	// a plain team member may view but not modify
	_, err := svc.Update(context.Background(), project.ID, UpdateProjectParams{
		Name: "renamed", Status: model.StatusActive,
	}, asPrincipal(member))
	assert.Equal(t, apperror.Forbidden, apperror.KindOf(err))

	updated, err := svc.Update(context.Background(), project.ID, UpdateProjectParams{
		Name:        "renamed",
		Description: "new description",
		Status:      model.StatusInactive,
		Team:        []uint{newcomer.ID},
	}, asPrincipal(creator))
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Name)
	assert.Equal(t, "new description", *updated.Description)
	assert.Equal(t, model.StatusInactive, updated.Status)
	require.Len(t, updated.Team, 1)
	assert.Equal(t, newcomer.ID, updated.Team[0].ID)
	// creator never changes on update
	assert.Equal(t, creator.ID, updated.CreatorID)
}

func TestProjectPartialUpdate(t *testing.T) {
	svc, projects, users, _ := newProjectFixture()
	creator := users.addUser("alice", "alice@example.com", model.RoleNameUser)
	member := users.addUser("bob", "bob@example.com", model.RoleNameUser)
	project := seedProject(projects, creator, member)
	originalDesc := *project.Description

	name := "patched"
	patched, err := svc.PartialUpdate(context.Background(), project.ID, PatchProjectParams{
		Name: &name,
	}, asPrincipal(creator))
	require.NoError(t, err)

	assert.Equal(t, "patched", patched.Name)
	// absent fields stay untouched
	assert.Equal(t, originalDesc, *patched.Description)
	assert.Equal(t, model.StatusActive, patched.Status)
	require.Len(t, patched.Team, 1)
	assert.Equal(t, member.ID, patched.Team[0].ID)

	// an empty-but-present team clears membership
	empty := []uint{}
	patched, err = svc.PartialUpdate(context.Background(), project.ID, PatchProjectParams{
		Team: &empty,
	}, asPrincipal(creator))
	require.NoError(t, err)
	assert.Empty(t, patched.Team)
}

func TestProjectPartialUpdateUnknownMember(t *testing.T) {
	svc, projects, users, _ := newProjectFixture()
	creator := users.addUser("alice", "alice@example.com", model.RoleNameUser)
	member := users.addUser("bob", "bob@example.com", model.RoleNameUser)
	project := seedProject(projects, creator, member)

	name := "renamed-by-failed-patch"
	unknown := []uint{404}
	_, err := svc.PartialUpdate(context.Background(), project.ID, PatchProjectParams{
		Name: &name,
		Team: &unknown,
	}, asPrincipal(creator))
	assert.Equal(t, apperror.NotFound, apperror.KindOf(err))

	// the failed patch persisted nothing, not even its valid fields
	stored := projects.projects[project.ID]
	assert.Equal(t, "ocean", stored.Name)
	require.Len(t, stored.Team, 1)
	assert.Equal(t, member.ID, stored.Team[0].ID)
	assert.Zero(t, projects.updates)
}

func TestProjectPartialUpdateTeamOnly(t *testing.T) {
	svc, projects, users, _ := newProjectFixture()
	creator := users.addUser("alice", "alice@example.com", model.RoleNameUser)
	member := users.addUser("bob", "bob@example.com", model.RoleNameUser)
	project := seedProject(projects, creator)

	team := []uint{member.ID}
	patched, err := svc.PartialUpdate(context.Background(), project.ID, PatchProjectParams{
		Team: &team,
	}, asPrincipal(creator))
	require.NoError(t, err)

	require.Len(t, patched.Team, 1)
	assert.Equal(t, member.ID, patched.Team[0].ID)
	// no scalar field was present, so no scalar write happened
	assert.Zero(t, projects.updates)
	assert.Equal(t, "ocean", patched.Name)
}

func TestProjectGetByIDRepeatedReads(t *testing.T) {
	svc, projects, users, _ := newProjectFixture()
	creator := users.addUser("alice", "alice@example.com", model.RoleNameUser)
	member := users.addUser("bob", "bob@example.com", model.RoleNameUser)
	project := seedProject(projects, creator, member)

	first, err := svc.GetByID(context.Background(), project.ID, asPrincipal(creator))
	require.NoError(t, err)
	second, err := svc.GetByID(context.Background(), project.ID, asPrincipal(creator))
	require.NoError(t, err)

	// repeated reads of an unchanged project return an identical view
	assert.Equal(t, first, second)
	assert.Equal(t, *first, *second)
}

func TestProjectDeleteCascadeOrdering(t *testing.T) {
	svc, projects, users, gateway := newProjectFixture()
	creator := users.addUser("alice", "alice@example.com", model.RoleNameUser)
	project := seedProject(projects, creator)

	err := svc.Delete(context.Background(), project.ID, asPrincipal(creator), "raw-token")
	require.NoError(t, err)

	require.Len(t, gateway.calls, 1)
	assert.Equal(t, project.ID, gateway.calls[0].projectID)
	assert.Equal(t, "raw-token", gateway.calls[0].token)
	assert.Equal(t, []string{"cascade", "local-delete"}, projects.log.entries)
	assert.Empty(t, projects.projects)
}

func TestProjectDeleteAbortsWhenCascadeFails(t *testing.T) {
	remoteFailures := []apperror.Kind{
		apperror.AccessDenied,
		apperror.ServiceUnavailable,
		apperror.RemoteOperationFailed,
		apperror.NetworkError,
	}
	for _, kind := range remoteFailures {
		svc, projects, users, gateway := newProjectFixture()
		creator := users.addUser("alice", "alice@example.com", model.RoleNameUser)
		project := seedProject(projects, creator)
		gateway.err = apperror.New(kind, "remote refused")

		err := svc.Delete(context.Background(), project.ID, asPrincipal(creator), "raw-token")
		assert.Equal(t, kind, apperror.KindOf(err))

		// the local record survives every remote failure
		_, ok := projects.projects[project.ID]
		assert.True(t, ok, "kind %s must not delete locally", kind)
		assert.Empty(t, projects.log.entries)
	}
}

func TestProjectDeleteForbidden(t *testing.T) {
	svc, projects, users, gateway := newProjectFixture()
	creator := users.addUser("alice", "alice@example.com", model.RoleNameUser)
	member := users.addUser("bob", "bob@example.com", model.RoleNameUser)
	project := seedProject(projects, creator, member)

	err := svc.Delete(context.Background(), project.ID, asPrincipal(member), "raw-token")
	assert.Equal(t, apperror.Forbidden, apperror.KindOf(err))
	assert.Empty(t, gateway.calls, "cascade must not start for forbidden callers")
	assert.Len(t, projects.projects, 1)
}

func TestProjectDeleteByAdmin(t *testing.T) {
	svc, projects, users, _ := newProjectFixture()
	creator := users.addUser("alice", "alice@example.com", model.RoleNameUser)
	admin := users.addUser("root", "root@example.com", model.RoleNameAdmin)
	project := seedProject(projects, creator)

	err := svc.Delete(context.Background(), project.ID, asPrincipal(admin), "raw-token")
	require.NoError(t, err)
	assert.Empty(t, projects.projects)
}
