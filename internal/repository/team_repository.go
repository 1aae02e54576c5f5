package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/portal-service/internal/domain"
)

// TeamRepository manages persistence for teams and memberships.
type TeamRepository interface {
	Create(ctx context.Context, team *domain.Team) error
	Update(ctx context.Context, team *domain.Team) error
	GetByID(ctx context.Context, id string) (*domain.Team, error)
	ListActive(ctx context.Context) ([]domain.Team, error)
	AddMember(ctx context.Context, m *domain.TeamMembership) error
	RemoveMember(ctx context.Context, teamID, userID string) error
	ListMemberships(ctx context.Context, teamID string) ([]domain.TeamMembership, error)
	LeadsTeamOf(ctx context.Context, leadID, memberID string) (bool, error)
}

type teamRepository struct {
	pool *pgxpool.Pool
}

// NewTeamRepository constructs repository.
func NewTeamRepository(pool *pgxpool.Pool) TeamRepository {
	return &teamRepository{pool: pool}
}

func (r *teamRepository) Create(ctx context.Context, team *domain.Team) error {
	const query = `
        INSERT INTO teams (name, description, is_active)
        VALUES ($1,$2,$3)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		team.Name,
		team.Description,
		team.IsActive,
	).Scan(&team.ID, &team.CreatedAt, &team.UpdatedAt)
}

func (r *teamRepository) Update(ctx context.Context, team *domain.Team) error {
	const query = `
        UPDATE teams SET name=$1, description=$2, is_active=$3, updated_at=NOW()
        WHERE id=$4`
	cmd, err := r.pool.Exec(ctx, query,
		team.Name,
		team.Description,
		team.IsActive,
		team.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *teamRepository) GetByID(ctx context.Context, id string) (*domain.Team, error) {
	const query = `
        SELECT id, name, description, is_active, created_at, updated_at
        FROM teams WHERE id=$1`
	var team domain.Team
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&team.ID,
		&team.Name,
		&team.Description,
		&team.IsActive,
		&team.CreatedAt,
		&team.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &team, nil
}

func (r *teamRepository) ListActive(ctx context.Context) ([]domain.Team, error) {
	const query = `
        SELECT id, name, description, is_active, created_at, updated_at
        FROM teams WHERE is_active=TRUE ORDER BY name`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Team
	for rows.Next() {
		var team domain.Team
		if err := rows.Scan(&team.ID, &team.Name, &team.Description, &team.IsActive, &team.CreatedAt, &team.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, team)
	}
	return result, rows.Err()
}

func (r *teamRepository) AddMember(ctx context.Context, m *domain.TeamMembership) error {
	const query = `
        INSERT INTO team_memberships (team_id, user_id, role, active)
        VALUES ($1,$2,$3,$4)
        ON CONFLICT (team_id, user_id)
        DO UPDATE SET role=EXCLUDED.role, active=EXCLUDED.active
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		m.TeamID,
		m.UserID,
		string(m.Role),
		m.Active,
	).Scan(&m.ID, &m.CreatedAt)
}

func (r *teamRepository) RemoveMember(ctx context.Context, teamID, userID string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM team_memberships WHERE team_id=$1 AND user_id=$2`, teamID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *teamRepository) ListMemberships(ctx context.Context, teamID string) ([]domain.TeamMembership, error) {
	const query = `
        SELECT id, team_id, user_id, role, active, created_at
        FROM team_memberships WHERE team_id=$1 ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TeamMembership
	for rows.Next() {
		var m domain.TeamMembership
		var role string
		if err := rows.Scan(&m.ID, &m.TeamID, &m.UserID, &role, &m.Active, &m.CreatedAt); err != nil {
			return nil, err
		}
		m.Role = domain.TeamRole(role)
		result = append(result, m)
	}
	return result, rows.Err()
}

// LeadsTeamOf reports whether leadID actively leads a team that memberID is
// an active member of. Both memberships must belong to an active team.
func (r *teamRepository) LeadsTeamOf(ctx context.Context, leadID, memberID string) (bool, error) {
	const query = `
        SELECT EXISTS (
            SELECT 1
            FROM team_memberships lead
            JOIN team_memberships member ON member.team_id = lead.team_id
            JOIN teams t ON t.id = lead.team_id
            WHERE lead.user_id=$1 AND lead.role='lead' AND lead.active=TRUE
              AND member.user_id=$2 AND member.active=TRUE
              AND t.is_active=TRUE
        )`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, leadID, memberID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
