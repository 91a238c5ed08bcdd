package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/teamtacles/teamtacles-api/dao/model"
	"github.com/teamtacles/teamtacles-api/internal/apperror"
)

// UserService owns user and role records. The admin gate for role exchange
// and listing is enforced by the route tier, not here.
type UserService struct {
	users UserStore
}

func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

type RegisterParams struct {
	UserName        string
	Email           string
	Password        string
	PasswordConfirm string
}

// Register creates a user with the default USER role, so every user holds
// at least one role from the moment of creation.
func (s *UserService) Register(ctx context.Context, params RegisterParams) (*model.User, error) {
	if exists, err := s.users.ExistsByName(ctx, params.UserName); err != nil {
		return nil, err
	} else if exists {
		return nil, apperror.New(apperror.Conflict, "username/email already exists")
	}
	if exists, err := s.users.ExistsByEmail(ctx, params.Email); err != nil {
		return nil, err
	} else if exists {
		return nil, apperror.New(apperror.Conflict, "username/email already exists")
	}
	if params.Password != params.PasswordConfirm {
		return nil, apperror.New(apperror.Conflict, "password and confirmation don't match")
	}

	role, err := s.users.GetRoleByName(ctx, model.RoleNameUser)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	password := string(hash)

	user := &model.User{
		Name:     params.UserName,
		Email:    params.Email,
		Password: &password,
		Roles:    []model.Role{*role},
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ExchangeRole replaces the user's entire role set with the single resolved
// role. This is a full reassignment, not an addition: a user with {USER}
// exchanged to ADMIN ends with exactly {ADMIN}.
func (s *UserService) ExchangeRole(ctx context.Context, userID uint, roleName string) (*model.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Newf(apperror.NotFound, "user %d not found", userID)
		}
		return nil, err
	}

	name, ok := model.ParseRoleName(roleName)
	if !ok {
		return nil, apperror.Newf(apperror.InvalidRequest, "unknown role name %q", roleName)
	}
	role, err := s.users.GetRoleByName(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.Newf(apperror.NotFound, "role %s not found", name)
		}
		return nil, err
	}

	if err := s.users.ReplaceRoles(ctx, user, []model.Role{*role}); err != nil {
		return nil, err
	}
	return user, nil
}

// List returns all users, paginated. Admin view.
func (s *UserService) List(ctx context.Context, pageIndex, pageSize int) ([]model.User, int64, error) {
	return s.users.List(ctx, pageIndex*pageSize, pageSize)
}

// Authenticate verifies local credentials. The caller reports any failure
// uniformly, without distinguishing missing users from wrong passwords.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.users.GetByName(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("wrong username or password")
	}
	if user.Password == nil {
		return nil, fmt.Errorf("user does not have a password")
	}
	if bcrypt.CompareHashAndPassword([]byte(*user.Password), []byte(password)) != nil {
		return nil, fmt.Errorf("wrong username or password")
	}
	return user, nil
}
