package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/nurpe/wasteops-admin/internal/model"
)

type UserStore interface {
	GetUser(ctx context.Context, id uuid.UUID) (*model.User, error)
	ListUsers(ctx context.Context, filter model.UserFilter) ([]model.User, error)
}

// UserService is the read-only user directory. Accounts are managed by the
// identity service that issues access tokens.
type UserService struct {
	repo UserStore
}

func NewUserService(repo UserStore) *UserService {
	return &UserService{repo: repo}
}

// List returns every user, or only those holding role when it is set.
func (s *UserService) List(ctx context.Context, principal model.Principal, role *model.Role) ([]model.User, error) {
	if err := requireRole(principal, model.RoleAdmin); err != nil {
		return nil, err
	}
	users, err := s.repo.ListUsers(ctx, model.UserFilter{Role: role})
	if err != nil {
		return nil, translateStoreError(err)
	}
	return users, nil
}

func (s *UserService) Get(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.User, error) {
	if err := requireRole(principal, model.RoleCitizen, model.RoleCollector, model.RoleAdmin); err != nil {
		return nil, err
	}
	if !principal.IsAdmin() && principal.UserID != id {
		return nil, ErrPermissionDenied
	}
	user, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return nil, translateStoreError(err)
	}
	return user, nil
}
