package service

import (
	"context"
	"strings"

	"github.com/spec-kit/portal-service/internal/domain"
	"github.com/spec-kit/portal-service/internal/repository"
	apperrors "github.com/spec-kit/portal-service/pkg/util"
)

// GroupService manages self-service interest groups.
type GroupService struct {
	groups repository.GroupRepository
}

// NewGroupService constructs the service.
func NewGroupService(groups repository.GroupRepository) *GroupService {
	return &GroupService{groups: groups}
}

// List returns all groups.
func (s *GroupService) List(ctx context.Context) ([]domain.Group, error) {
	return s.groups.List(ctx)
}

// Create adds a group; any authenticated user may start one.
func (s *GroupService) Create(ctx context.Context, creatorID, name, description string) (*domain.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}

	group := &domain.Group{Name: name, Description: description, CreatedBy: creatorID}
	if err := s.groups.Create(ctx, group); err != nil {
		return nil, err
	}
	// The creator starts as a member.
	if err := s.groups.Join(ctx, group.ID, creatorID); err != nil {
		return nil, err
	}
	return group, nil
}

// Delete removes a group. Admin only, enforced at the route.
func (s *GroupService) Delete(ctx context.Context, id string) error {
	return s.groups.Delete(ctx, id)
}

// Join adds the caller to a group; joining twice is a no-op.
func (s *GroupService) Join(ctx context.Context, groupID, userID string) error {
	if _, err := s.groups.GetByID(ctx, groupID); err != nil {
		return err
	}
	return s.groups.Join(ctx, groupID, userID)
}

// Leave removes the caller from a group.
func (s *GroupService) Leave(ctx context.Context, groupID, userID string) error {
	return s.groups.Leave(ctx, groupID, userID)
}

// Members lists a group's memberships.
func (s *GroupService) Members(ctx context.Context, groupID string) ([]domain.GroupMembership, error) {
	if _, err := s.groups.GetByID(ctx, groupID); err != nil {
		return nil, err
	}
	return s.groups.ListMembers(ctx, groupID)
}
