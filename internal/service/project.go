package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/teamtacles/teamtacles-api/dao/model"
	"github.com/teamtacles/teamtacles-api/internal/apperror"
	"github.com/teamtacles/teamtacles-api/internal/policy"
	"github.com/teamtacles/teamtacles-api/pkg/logutils"
)

// ProjectService exclusively owns project mutation. Every operation loads
// the target, consults the access policy, and only then touches state.
type ProjectService struct {
	projects ProjectStore
	users    UserStore
	tasks    TaskGateway
	policy   policy.AccessPolicy
}

func NewProjectService(projects ProjectStore, users UserStore, tasks TaskGateway) *ProjectService {
	return &ProjectService{
		projects: projects,
		users:    users,
		tasks:    tasks,
		policy:   policy.New(),
	}
}

type (
	CreateProjectParams struct {
		Name        string
		Description string
		Team        []uint
	}

	UpdateProjectParams struct {
		Name        string
		Description string
		Status      model.Status
		Team        []uint
	}

	// PatchProjectParams updates only the present fields. Field presence,
	// not null-vs-default, decides what is overwritten.
	PatchProjectParams struct {
		Name        *string
		Description *string
		Status      *model.Status
		Team        *[]uint
	}
)

// Create persists a new project with the principal as its immutable creator.
// No authorization gate beyond being authenticated.
func (s *ProjectService) Create(ctx context.Context, params CreateProjectParams, principal policy.Principal) (*model.Project, error) {
	team, err := s.resolveTeam(ctx, params.Team)
	if err != nil {
		return nil, err
	}

	project := &model.Project{
		Name:        params.Name,
		Description: &params.Description,
		Status:      model.StatusActive,
		CreatorID:   principal.UserID,
		Team:        team,
	}
	if err := s.projects.Create(ctx, project); err != nil {
		return nil, err
	}
	return s.projects.GetByID(ctx, project.ID)
}

// GetByID fails NotFound before Forbidden: a missing project is reported as
// missing, an existing one the principal may not see is reported Forbidden.
// The two outcomes stay distinct.
func (s *ProjectService) GetByID(ctx context.Context, id uint, principal policy.Principal) (*model.Project, error) {
	project, err := s.loadProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.policy.CanView(principal, project) {
		return nil, apperror.New(apperror.Forbidden, "you do not have permission to view this project")
	}
	return project, nil
}

// List returns all projects for administrators, otherwise the union of
// projects the principal created or belongs to. Ordering is stable across
// calls for unchanged data.
func (s *ProjectService) List(ctx context.Context, pageIndex, pageSize int, principal policy.Principal) ([]model.Project, int64, error) {
	offset := pageIndex * pageSize
	if s.policy.CanAdminister(principal) {
		return s.projects.ListAll(ctx, offset, pageSize)
	}
	return s.projects.ListAccessible(ctx, principal.UserID, offset, pageSize)
}

// Update replaces every mutable field. Creator and status transitions are
// not part of a full update; status is set to the requested value while the
// project stays active (no lifecycle transition happens here).
func (s *ProjectService) Update(ctx context.Context, id uint, params UpdateProjectParams, principal policy.Principal) (*model.Project, error) {
	project, err := s.loadProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.policy.CanModify(principal, project) {
		return nil, apperror.New(apperror.Forbidden, "you do not have permission to modify this project")
	}

	team, err := s.resolveTeam(ctx, params.Team)
	if err != nil {
		return nil, err
	}

	project.Name = params.Name
	project.Description = &params.Description
	project.Status = params.Status
	if err := s.projects.Update(ctx, project); err != nil {
		return nil, err
	}
	if err := s.projects.ReplaceTeam(ctx, project, team); err != nil {
		return nil, err
	}
	return project, nil
}

// PartialUpdate applies only the fields present in the patch; unspecified
// fields are left untouched.
func (s *ProjectService) PartialUpdate(ctx context.Context, id uint, params PatchProjectParams, principal policy.Principal) (*model.Project, error) {
	project, err := s.loadProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.policy.CanModify(principal, project) {
		return nil, apperror.New(apperror.Forbidden, "you do not have permission to modify this project")
	}

	// Resolve the requested team before touching any field, so an unknown
	// member id fails the whole patch with nothing persisted.
	var team []model.User
	if params.Team != nil {
		if team, err = s.resolveTeam(ctx, *params.Team); err != nil {
			return nil, err
		}
	}

	scalarChanged := false
	if params.Name != nil {
		project.Name = *params.Name
		scalarChanged = true
	}
	if params.Description != nil {
		project.Description = params.Description
		scalarChanged = true
	}
	if params.Status != nil {
		project.Status = *params.Status
		scalarChanged = true
	}
	if scalarChanged {
		if err := s.projects.Update(ctx, project); err != nil {
			return nil, err
		}
	}

	if params.Team != nil {
		if err := s.projects.ReplaceTeam(ctx, project, team); err != nil {
			return nil, err
		}
	}
	return project, nil
}

// Delete removes the project and its dependent remote tasks. The remote
// cascade runs first so that a failure still references a valid project id
// and can be retried externally; any gateway error aborts the local delete,
// leaving the record in place. A crash between the remote call succeeding
// and the local delete committing leaves a remotely-deleted but locally
// present project; that window is accepted, not hidden behind a false
// transactional guarantee.
func (s *ProjectService) Delete(ctx context.Context, id uint, principal policy.Principal, authToken string) error {
	project, err := s.loadProject(ctx, id)
	if err != nil {
		return err
	}
	if !s.policy.CanModify(principal, project) {
		return apperror.New(apperror.Forbidden, "you do not have permission to delete this project")
	}

	if err := s.tasks.DeleteAllTasksFromProject(ctx, project.ID, authToken); err != nil {
		logutils.Log.WithFields(logutils.Fields{
			"project": project.ID,
			"user":    principal.UserID,
		}).Errorf("task cascade failed, local delete aborted: %v", err)
		return err
	}

	return s.projects.Delete(ctx, project.ID)
}

func (s *ProjectService) loadProject(ctx context.Context, id uint) (*model.Project, error) {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Newf(apperror.NotFound, "project %d not found", id)
		}
		return nil, err
	}
	return project, nil
}

// resolveTeam loads the requested member set. Unknown ids fail the whole
// operation before anything persists.
func (s *ProjectService) resolveTeam(ctx context.Context, ids []uint) ([]model.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	unique := make([]uint, 0, len(ids))
	seen := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	users, err := s.users.GetByIDs(ctx, unique)
	if err != nil {
		return nil, err
	}
	if len(users) != len(unique) {
		return nil, apperror.New(apperror.NotFound, "one or more team members do not exist")
	}
	return users, nil
}
