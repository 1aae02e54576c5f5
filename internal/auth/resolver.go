package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/portal-service/internal/domain"
	"github.com/spec-kit/portal-service/internal/identity"
	apperrors "github.com/spec-kit/portal-service/pkg/util"
)

// CredentialSource records which verification strategy resolved a principal.
type CredentialSource string

const (
	SourceSession   CredentialSource = "session"
	SourceDelegated CredentialSource = "delegated"
)

// Principal represents the authenticated caller for one request.
type Principal struct {
	ID     string
	Role   domain.Role
	Name   string
	Email  string
	Source CredentialSource
}

// UserDirectory is the slice of the user store the resolver needs: a single
// row lookup by principal id. pgx.ErrNoRows marks an absent row.
type UserDirectory interface {
	GetByID(ctx context.Context, id string) (*domain.AppUser, error)
}

// Resolver turns credential candidates into a Principal. Two strategies are
// tried per candidate, local session token first, then delegated lookup via
// the identity provider. Per-candidate failures advance to the next
// candidate; only after the list is exhausted does resolution fail.
type Resolver struct {
	sessions *SessionTokenManager
	provider identity.Verifier
	users    UserDirectory
	logger   *zap.Logger
}

// NewResolver constructs a resolver.
func NewResolver(sessions *SessionTokenManager, provider identity.Verifier, users UserDirectory, logger *zap.Logger) *Resolver {
	return &Resolver{sessions: sessions, provider: provider, users: users, logger: logger}
}

// Resolve tries each candidate in order. Roles are re-read on every request;
// there is no cross-request cache, so an out-of-band role change takes effect
// on the next resolution.
func (r *Resolver) Resolve(ctx context.Context, candidates []string) (*Principal, error) {
	for _, candidate := range candidates {
		if claims, err := r.sessions.Verify(candidate); err == nil {
			return &Principal{
				ID:     claims.Subject,
				Role:   domain.ParseRole(claims.Role),
				Name:   claims.Name,
				Source: SourceSession,
			}, nil
		}

		principal, err := r.resolveDelegated(ctx, candidate)
		if err != nil {
			if errors.Is(err, identity.ErrInvalidToken) {
				continue
			}
			return nil, err
		}
		return principal, nil
	}

	return nil, apperrors.NewUnauthorized("no valid credential")
}

// resolveDelegated asks the identity provider for the token's subject and
// then looks the application role up in the user store. A missing row
// defaults to the base role; an inactive row denies access outright.
func (r *Resolver) resolveDelegated(ctx context.Context, candidate string) (*Principal, error) {
	ident, err := r.provider.Lookup(ctx, candidate)
	if err != nil {
		if errors.Is(err, identity.ErrUnavailable) {
			r.logger.Warn("identity provider unreachable", zap.Error(err))
			return nil, apperrors.NewUpstreamUnavailable("identity provider", err)
		}
		return nil, identity.ErrInvalidToken
	}

	principal := &Principal{
		ID:     ident.ID,
		Email:  ident.Email,
		Name:   ident.Name,
		Source: SourceDelegated,
	}

	user, err := r.users.GetByID(ctx, ident.ID)
	switch {
	case err == nil:
		if !user.Active {
			return nil, apperrors.NewUnauthorized("account deactivated")
		}
		principal.Role = user.Role
		if principal.Name == "" {
			principal.Name = user.Name
		}
	case errors.Is(err, pgx.ErrNoRows):
		// Provider-verified identity without a portal row gets the base role.
		principal.Role = domain.RoleUser
	default:
		r.logger.Error("role lookup failed", zap.Error(err))
		return nil, apperrors.NewUpstreamUnavailable("data store", err)
	}

	return principal, nil
}
