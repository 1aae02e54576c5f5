package service

import (
	"context"
	"strings"

	"github.com/spec-kit/portal-service/internal/domain"
	"github.com/spec-kit/portal-service/internal/repository"
	apperrors "github.com/spec-kit/portal-service/pkg/util"
)

// TeamService manages the team hub: teams, memberships and leads.
type TeamService struct {
	teams repository.TeamRepository
}

// NewTeamService constructs the service.
func NewTeamService(teams repository.TeamRepository) *TeamService {
	return &TeamService{teams: teams}
}

// ListActive returns active teams.
func (s *TeamService) ListActive(ctx context.Context) ([]domain.Team, error) {
	return s.teams.ListActive(ctx)
}

// Get fetches one team with its memberships.
func (s *TeamService) Get(ctx context.Context, id string) (*domain.Team, []domain.TeamMembership, error) {
	team, err := s.teams.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	members, err := s.teams.ListMemberships(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return team, members, nil
}

// Create adds a team.
func (s *TeamService) Create(ctx context.Context, name, description string) (*domain.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationError("name required", nil)
	}
	team := &domain.Team{Name: name, Description: description, IsActive: true}
	if err := s.teams.Create(ctx, team); err != nil {
		return nil, err
	}
	return team, nil
}

// Update edits a team.
func (s *TeamService) Update(ctx context.Context, id, name, description string, active bool) (*domain.Team, error) {
	team, err := s.teams.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	team.Name = name
	team.Description = description
	team.IsActive = active
	if err := s.teams.Update(ctx, team); err != nil {
		return nil, err
	}
	return team, nil
}

// SetMember adds or updates a membership.
func (s *TeamService) SetMember(ctx context.Context, teamID, userID string, role domain.TeamRole) (*domain.TeamMembership, error) {
	if role != domain.TeamRoleMember && role != domain.TeamRoleLead {
		return nil, apperrors.NewValidationError("role must be member or lead", nil)
	}
	if _, err := s.teams.GetByID(ctx, teamID); err != nil {
		return nil, err
	}
	m := &domain.TeamMembership{TeamID: teamID, UserID: userID, Role: role, Active: true}
	if err := s.teams.AddMember(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

// RemoveMember deletes a membership.
func (s *TeamService) RemoveMember(ctx context.Context, teamID, userID string) error {
	return s.teams.RemoveMember(ctx, teamID, userID)
}
