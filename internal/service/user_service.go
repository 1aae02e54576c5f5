package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/portal-service/internal/auth"
	"github.com/spec-kit/portal-service/internal/domain"
	"github.com/spec-kit/portal-service/internal/repository"
	apperrors "github.com/spec-kit/portal-service/pkg/util"
)

// UserService covers administrative account management. Every operation here
// is admin-gated at the route level; moderators are deliberately excluded
// from user management.
type UserService struct {
	users      repository.UserRepository
	bcryptCost int
}

// UserCreateInput describes an account created by an administrator.
type UserCreateInput struct {
	Email    string
	Name     string
	Password string
	Role     domain.Role
}

// NewUserService builds the service.
func NewUserService(users repository.UserRepository, bcryptCost int) *UserService {
	return &UserService{users: users, bcryptCost: bcryptCost}
}

// List returns accounts ordered by creation time.
func (s *UserService) List(ctx context.Context, limit, offset int) ([]domain.AppUser, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.users.List(ctx, limit, offset)
}

// Create registers a new account with the given role.
func (s *UserService) Create(ctx context.Context, input UserCreateInput) (*domain.AppUser, error) {
	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, apperrors.NewConflict("email already registered", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.AppUser{
		Email:        input.Email,
		Name:         input.Name,
		PasswordHash: hash,
		Role:         input.Role,
		Active:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SetRole changes an account's role. Takes effect on the next resolution;
// outstanding session tokens keep their embedded role until they expire.
func (s *UserService) SetRole(ctx context.Context, id string, role domain.Role) (*domain.AppUser, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Role = role
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// SetActive toggles an account's active flag.
func (s *UserService) SetActive(ctx context.Context, id string, active bool) error {
	return s.users.SetActive(ctx, id, active)
}

// Get fetches a single account.
func (s *UserService) Get(ctx context.Context, id string) (*domain.AppUser, error) {
	return s.users.GetByID(ctx, id)
}
