package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/portal-service/internal/auth"
	"github.com/spec-kit/portal-service/internal/domain"
	"github.com/spec-kit/portal-service/internal/repository"
	apperrors "github.com/spec-kit/portal-service/pkg/util"
)

// AuthService coordinates the portal's own login flow, which mints the local
// session tokens. Delegated provider tokens never pass through here; they are
// handled entirely by the resolver.
type AuthService struct {
	users      repository.UserRepository
	sessions   *auth.SessionTokenManager
	throttle   *LoginThrottle
	bcryptCost int
}

// NewAuthService builds the service.
func NewAuthService(users repository.UserRepository, sessions *auth.SessionTokenManager, throttle *LoginThrottle, bcryptCost int) *AuthService {
	return &AuthService{
		users:      users,
		sessions:   sessions,
		throttle:   throttle,
		bcryptCost: bcryptCost,
	}
}

// Login authenticates against app_users and mints a session token carrying
// the account's current role.
func (s *AuthService) Login(ctx context.Context, email, password, ip string) (*domain.AppUser, string, time.Time, error) {
	if s.throttle.Blocked(ctx, email, ip) {
		return nil, "", time.Time{}, apperrors.NewTooManyRequests("too many login attempts")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.throttle.RecordFailure(ctx, email, ip)
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, apperrors.NewUpstreamUnavailable("data store", err)
	}
	if !user.Active {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("account deactivated")
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		s.throttle.RecordFailure(ctx, email, ip)
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}

	token, exp, err := s.sessions.Mint(user.ID, user.Role, user.Name)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	s.throttle.Reset(ctx, email, ip)
	return user, token, exp, nil
}

// SessionManager exposes the token manager for resolver wiring.
func (s *AuthService) SessionManager() *auth.SessionTokenManager {
	return s.sessions
}
