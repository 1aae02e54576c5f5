package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/portal-service/internal/auth"
	"github.com/spec-kit/portal-service/internal/domain"
	apperrors "github.com/spec-kit/portal-service/pkg/util"
)

func TestUserCreate(t *testing.T) {
	repo := &fakeUserRepo{}
	svc := NewUserService(repo, 4)

	user, err := svc.Create(context.Background(), UserCreateInput{
		Email:    "ada@example.com",
		Name:     "Ada",
		Password: "hunter2",
		Role:     domain.RoleModerator,
	})
	require.NoError(t, err)
	assert.True(t, user.Active)
	assert.Equal(t, domain.RoleModerator, user.Role)
	assert.NoError(t, auth.ComparePassword(user.PasswordHash, "hunter2"))
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	repo := &fakeUserRepo{byEmail: map[string]*domain.AppUser{
		"ada@example.com": {ID: "user-1", Email: "ada@example.com"},
	}}
	svc := NewUserService(repo, 4)

	_, err := svc.Create(context.Background(), UserCreateInput{Email: "ada@example.com", Password: "x"})
	de := apperrors.ToDomainError(err)
	assert.Equal(t, http.StatusConflict, de.HTTPStatus)
	assert.Equal(t, "conflict", de.Code)
}

func TestUserSetRole(t *testing.T) {
	account := &domain.AppUser{ID: "user-1", Email: "ada@example.com", Role: domain.RoleUser, Active: true}
	repo := &fakeUserRepo{byID: map[string]*domain.AppUser{"user-1": account}}
	svc := NewUserService(repo, 4)

	user, err := svc.SetRole(context.Background(), "user-1", domain.RoleTeamleiter)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleTeamleiter, user.Role)
	assert.Equal(t, domain.RoleTeamleiter, repo.byID["user-1"].Role)
}

func TestUserSetRoleUnknownUser(t *testing.T) {
	svc := NewUserService(&fakeUserRepo{}, 4)

	_, err := svc.SetRole(context.Background(), "missing", domain.RoleAdmin)
	de := apperrors.ToDomainError(err)
	assert.Equal(t, http.StatusNotFound, de.HTTPStatus)
}
