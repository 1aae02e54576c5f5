package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/portal-service/internal/domain"
)

// EventRepository manages persistence for events and RSVPs.
type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) error
	Update(ctx context.Context, event *domain.Event) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Event, error)
	ListUpcoming(ctx context.Context, limit, offset int) ([]domain.Event, error)
	ListStartingBetween(ctx context.Context, from, to time.Time) ([]domain.Event, error)
	UpsertRSVP(ctx context.Context, rsvp *domain.RSVP) error
	ListRSVPs(ctx context.Context, eventID string) ([]domain.RSVP, error)
}

type eventRepository struct {
	pool *pgxpool.Pool
}

// NewEventRepository constructs repository.
func NewEventRepository(pool *pgxpool.Pool) EventRepository {
	return &eventRepository{pool: pool}
}

const eventColumns = `id, title, description, location, starts_at, ends_at, created_by, created_at, updated_at`

func scanEvent(row pgx.Row) (*domain.Event, error) {
	var event domain.Event
	if err := row.Scan(
		&event.ID,
		&event.Title,
		&event.Description,
		&event.Location,
		&event.StartsAt,
		&event.EndsAt,
		&event.CreatedBy,
		&event.CreatedAt,
		&event.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *eventRepository) Create(ctx context.Context, event *domain.Event) error {
	const query = `
        INSERT INTO events (title, description, location, starts_at, ends_at, created_by)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		event.Title,
		event.Description,
		event.Location,
		event.StartsAt,
		event.EndsAt,
		event.CreatedBy,
	).Scan(&event.ID, &event.CreatedAt, &event.UpdatedAt)
}

func (r *eventRepository) Update(ctx context.Context, event *domain.Event) error {
	const query = `
        UPDATE events SET title=$1, description=$2, location=$3, starts_at=$4, ends_at=$5, updated_at=NOW()
        WHERE id=$6`
	cmd, err := r.pool.Exec(ctx, query,
		event.Title,
		event.Description,
		event.Location,
		event.StartsAt,
		event.EndsAt,
		event.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM events WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	return scanEvent(r.pool.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id=$1`, id))
}

func (r *eventRepository) ListUpcoming(ctx context.Context, limit, offset int) ([]domain.Event, error) {
	const query = `
        SELECT ` + eventColumns + `
        FROM events WHERE starts_at >= NOW()
        ORDER BY starts_at LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEvents(rows)
}

func (r *eventRepository) ListStartingBetween(ctx context.Context, from, to time.Time) ([]domain.Event, error) {
	const query = `
        SELECT ` + eventColumns + `
        FROM events WHERE starts_at >= $1 AND starts_at < $2
        ORDER BY starts_at`
	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEvents(rows)
}

func collectEvents(rows pgx.Rows) ([]domain.Event, error) {
	var result []domain.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *event)
	}
	return result, rows.Err()
}

// UpsertRSVP records or replaces a user's answer. The unique constraint on
// (event_id, user_id) is what dedupes repeated answers.
func (r *eventRepository) UpsertRSVP(ctx context.Context, rsvp *domain.RSVP) error {
	const query = `
        INSERT INTO event_rsvps (event_id, user_id, status)
        VALUES ($1,$2,$3)
        ON CONFLICT (event_id, user_id)
        DO UPDATE SET status=EXCLUDED.status, updated_at=NOW()
        RETURNING id, updated_at`
	return r.pool.QueryRow(ctx, query,
		rsvp.EventID,
		rsvp.UserID,
		string(rsvp.Status),
	).Scan(&rsvp.ID, &rsvp.UpdatedAt)
}

func (r *eventRepository) ListRSVPs(ctx context.Context, eventID string) ([]domain.RSVP, error) {
	const query = `
        SELECT id, event_id, user_id, status, updated_at
        FROM event_rsvps WHERE event_id=$1 ORDER BY updated_at`
	rows, err := r.pool.Query(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.RSVP
	for rows.Next() {
		var rsvp domain.RSVP
		var status string
		if err := rows.Scan(&rsvp.ID, &rsvp.EventID, &rsvp.UserID, &status, &rsvp.UpdatedAt); err != nil {
			return nil, err
		}
		rsvp.Status = domain.RSVPStatus(status)
		result = append(result, rsvp)
	}
	return result, rows.Err()
}
