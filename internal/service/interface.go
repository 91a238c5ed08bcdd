// Package service holds the orchestrators: they load state through the
// store boundaries, gate every operation on the access policy, and decide
// how remote gateway failures affect the overall outcome.
package service

import (
	"context"

	"github.com/teamtacles/teamtacles-api/dao/model"
)

// ProjectStore is the persistence boundary for projects. Implemented by
// dao/store; faked in tests.
type ProjectStore interface {
	GetByID(ctx context.Context, id uint) (*model.Project, error)
	Create(ctx context.Context, project *model.Project) error
	Update(ctx context.Context, project *model.Project) error
	ReplaceTeam(ctx context.Context, project *model.Project, team []model.User) error
	Delete(ctx context.Context, id uint) error
	ListAll(ctx context.Context, offset, limit int) ([]model.Project, int64, error)
	ListAccessible(ctx context.Context, userID uint, offset, limit int) ([]model.Project, int64, error)
}

// UserStore is the persistence boundary for users and roles.
type UserStore interface {
	GetByID(ctx context.Context, id uint) (*model.User, error)
	GetByName(ctx context.Context, name string) (*model.User, error)
	GetByIDs(ctx context.Context, ids []uint) ([]model.User, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user *model.User) error
	GetRoleByName(ctx context.Context, name model.RoleName) (*model.Role, error)
	ReplaceRoles(ctx context.Context, user *model.User, roles []model.Role) error
	List(ctx context.Context, offset, limit int) ([]model.User, int64, error)
}

// TaskGateway bridges to the remote task-owning service. Implemented by
// pkg/taskservice.
type TaskGateway interface {
	DeleteAllTasksFromProject(ctx context.Context, projectID uint, token string) error
}
