package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/portal-service/internal/domain"
	"github.com/spec-kit/portal-service/internal/identity"
	apperrors "github.com/spec-kit/portal-service/pkg/util"
)

type fakeVerifier struct {
	identities map[string]*identity.Identity
	err        error
	calls      int
}

func (f *fakeVerifier) Lookup(ctx context.Context, token string) (*identity.Identity, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if ident, ok := f.identities[token]; ok {
		return ident, nil
	}
	return nil, identity.ErrInvalidToken
}

type fakeDirectory struct {
	users map[string]*domain.AppUser
	err   error
}

func (f *fakeDirectory) GetByID(ctx context.Context, id string) (*domain.AppUser, error) {
	if f.err != nil {
		return nil, f.err
	}
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, pgx.ErrNoRows
}

func newTestResolver(provider identity.Verifier, users UserDirectory) (*Resolver, *SessionTokenManager) {
	sessions := NewSessionTokenManager("test-secret", time.Hour)
	return NewResolver(sessions, provider, users, zap.NewNop()), sessions
}

func TestResolveLocalSessionToken(t *testing.T) {
	provider := &fakeVerifier{}
	resolver, sessions := newTestResolver(provider, &fakeDirectory{})

	token, _, err := sessions.Mint("user-1", domain.RoleAdmin, "Ada")
	require.NoError(t, err)

	p, err := resolver.Resolve(context.Background(), []string{token})
	require.NoError(t, err)
	assert.Equal(t, "user-1", p.ID)
	assert.Equal(t, domain.RoleAdmin, p.Role)
	assert.Equal(t, "Ada", p.Name)
	assert.Equal(t, SourceSession, p.Source)
	assert.Zero(t, provider.calls, "local session verification must not call the provider")
}

func TestResolveDelegatedWithRoleLookup(t *testing.T) {
	provider := &fakeVerifier{identities: map[string]*identity.Identity{
		"opaque-token": {ID: "user-2", Email: "lead@example.com"},
	}}
	users := &fakeDirectory{users: map[string]*domain.AppUser{
		"user-2": {ID: "user-2", Name: "Lena", Role: domain.RoleTeamleiter, Active: true},
	}}
	resolver, _ := newTestResolver(provider, users)

	p, err := resolver.Resolve(context.Background(), []string{"opaque-token"})
	require.NoError(t, err)
	assert.Equal(t, "user-2", p.ID)
	assert.Equal(t, domain.RoleTeamleiter, p.Role)
	assert.Equal(t, "Lena", p.Name)
	assert.Equal(t, "lead@example.com", p.Email)
	assert.Equal(t, SourceDelegated, p.Source)
}

func TestResolveDelegatedWithoutRowDefaultsToBaseRole(t *testing.T) {
	provider := &fakeVerifier{identities: map[string]*identity.Identity{
		"opaque-token": {ID: "unknown-user", Email: "new@example.com"},
	}}
	resolver, _ := newTestResolver(provider, &fakeDirectory{})

	p, err := resolver.Resolve(context.Background(), []string{"opaque-token"})
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, p.Role)
}

func TestResolveDelegatedInactiveAccountDenied(t *testing.T) {
	provider := &fakeVerifier{identities: map[string]*identity.Identity{
		"opaque-token": {ID: "user-3"},
	}}
	users := &fakeDirectory{users: map[string]*domain.AppUser{
		"user-3": {ID: "user-3", Role: domain.RoleUser, Active: false},
	}}
	resolver, _ := newTestResolver(provider, users)

	_, err := resolver.Resolve(context.Background(), []string{"opaque-token"})
	require.Error(t, err)
	de := apperrors.ToDomainError(err)
	assert.Equal(t, http.StatusUnauthorized, de.HTTPStatus)
	assert.Equal(t, "unauthorized", de.Code)
}

func TestResolveAdvancesPastInvalidCandidates(t *testing.T) {
	provider := &fakeVerifier{identities: map[string]*identity.Identity{
		"good-token": {ID: "user-4"},
	}}
	resolver, _ := newTestResolver(provider, &fakeDirectory{})

	p, err := resolver.Resolve(context.Background(), []string{"stale-token", "good-token"})
	require.NoError(t, err)
	assert.Equal(t, "user-4", p.ID)
}

func TestResolveExhaustedCandidates(t *testing.T) {
	resolver, _ := newTestResolver(&fakeVerifier{}, &fakeDirectory{})

	_, err := resolver.Resolve(context.Background(), []string{"bad-1", "bad-2"})
	require.Error(t, err)
	de := apperrors.ToDomainError(err)
	assert.Equal(t, http.StatusUnauthorized, de.HTTPStatus)
}

func TestResolveProviderOutageIsNotUnauthorized(t *testing.T) {
	provider := &fakeVerifier{err: fmt.Errorf("%w: connection refused", identity.ErrUnavailable)}
	resolver, _ := newTestResolver(provider, &fakeDirectory{})

	_, err := resolver.Resolve(context.Background(), []string{"opaque-token"})
	require.Error(t, err)
	de := apperrors.ToDomainError(err)
	assert.Equal(t, http.StatusServiceUnavailable, de.HTTPStatus)
	assert.Equal(t, "upstream_unavailable", de.Code)
}

func TestResolveDirectoryOutageIsNotUnauthorized(t *testing.T) {
	provider := &fakeVerifier{identities: map[string]*identity.Identity{
		"opaque-token": {ID: "user-5"},
	}}
	users := &fakeDirectory{err: errors.New("connection reset")}
	resolver, _ := newTestResolver(provider, users)

	_, err := resolver.Resolve(context.Background(), []string{"opaque-token"})
	require.Error(t, err)
	de := apperrors.ToDomainError(err)
	assert.Equal(t, http.StatusServiceUnavailable, de.HTTPStatus)
}
