package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/portal-service/internal/domain"
)

// PollRepository manages persistence for polls, options and votes.
type PollRepository interface {
	Create(ctx context.Context, poll *domain.Poll, options []domain.PollOption) error
	GetByID(ctx context.Context, id string) (*domain.Poll, []domain.PollOption, error)
	ListOpen(ctx context.Context) ([]domain.Poll, error)
	UpsertVote(ctx context.Context, vote *domain.PollVote) error
	Results(ctx context.Context, pollID string) ([]domain.PollResult, error)
	Close(ctx context.Context, pollID string) error
	CloseDue(ctx context.Context, now time.Time) ([]string, error)
}

type pollRepository struct {
	pool *pgxpool.Pool
}

// NewPollRepository constructs repository.
func NewPollRepository(pool *pgxpool.Pool) PollRepository {
	return &pollRepository{pool: pool}
}

// Create inserts the poll and its options in one transaction so a poll never
// exists without answers.
func (r *pollRepository) Create(ctx context.Context, poll *domain.Poll, options []domain.PollOption) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	const pollQuery = `
        INSERT INTO polls (question, created_by, closes_at)
        VALUES ($1,$2,$3)
        RETURNING id, created_at`
	if err := tx.QueryRow(ctx, pollQuery, poll.Question, poll.CreatedBy, poll.ClosesAt).
		Scan(&poll.ID, &poll.CreatedAt); err != nil {
		return err
	}

	const optionQuery = `
        INSERT INTO poll_options (poll_id, label, position)
        VALUES ($1,$2,$3)
        RETURNING id`
	for i := range options {
		options[i].PollID = poll.ID
		options[i].Position = i
		if err := tx.QueryRow(ctx, optionQuery, poll.ID, options[i].Label, i).Scan(&options[i].ID); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *pollRepository) GetByID(ctx context.Context, id string) (*domain.Poll, []domain.PollOption, error) {
	const pollQuery = `
        SELECT id, question, created_by, closes_at, closed_at, created_at
        FROM polls WHERE id=$1`
	var poll domain.Poll
	if err := r.pool.QueryRow(ctx, pollQuery, id).Scan(
		&poll.ID,
		&poll.Question,
		&poll.CreatedBy,
		&poll.ClosesAt,
		&poll.ClosedAt,
		&poll.CreatedAt,
	); err != nil {
		return nil, nil, err
	}

	const optionQuery = `
        SELECT id, poll_id, label, position
        FROM poll_options WHERE poll_id=$1 ORDER BY position`
	rows, err := r.pool.Query(ctx, optionQuery, id)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var options []domain.PollOption
	for rows.Next() {
		var opt domain.PollOption
		if err := rows.Scan(&opt.ID, &opt.PollID, &opt.Label, &opt.Position); err != nil {
			return nil, nil, err
		}
		options = append(options, opt)
	}
	return &poll, options, rows.Err()
}

func (r *pollRepository) ListOpen(ctx context.Context) ([]domain.Poll, error) {
	const query = `
        SELECT id, question, created_by, closes_at, closed_at, created_at
        FROM polls
        WHERE closed_at IS NULL AND (closes_at IS NULL OR closes_at > NOW())
        ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Poll
	for rows.Next() {
		var poll domain.Poll
		if err := rows.Scan(&poll.ID, &poll.Question, &poll.CreatedBy, &poll.ClosesAt, &poll.ClosedAt, &poll.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, poll)
	}
	return result, rows.Err()
}

// UpsertVote records or replaces the voter's choice. Per-voter dedup rests on
// the unique constraint on (poll_id, voter_id).
func (r *pollRepository) UpsertVote(ctx context.Context, vote *domain.PollVote) error {
	const query = `
        INSERT INTO poll_votes (poll_id, option_id, voter_id)
        VALUES ($1,$2,$3)
        ON CONFLICT (poll_id, voter_id)
        DO UPDATE SET option_id=EXCLUDED.option_id, updated_at=NOW()
        RETURNING updated_at`
	return r.pool.QueryRow(ctx, query,
		vote.PollID,
		vote.OptionID,
		vote.VoterID,
	).Scan(&vote.UpdatedAt)
}

func (r *pollRepository) Results(ctx context.Context, pollID string) ([]domain.PollResult, error) {
	const query = `
        SELECT o.id, o.label, COUNT(v.voter_id)
        FROM poll_options o
        LEFT JOIN poll_votes v ON v.option_id = o.id
        WHERE o.poll_id=$1
        GROUP BY o.id, o.label, o.position
        ORDER BY o.position`
	rows, err := r.pool.Query(ctx, query, pollID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.PollResult
	for rows.Next() {
		var res domain.PollResult
		if err := rows.Scan(&res.OptionID, &res.Label, &res.Votes); err != nil {
			return nil, err
		}
		result = append(result, res)
	}
	return result, rows.Err()
}

func (r *pollRepository) Close(ctx context.Context, pollID string) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE polls SET closed_at=NOW() WHERE id=$1 AND closed_at IS NULL`, pollID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// CloseDue closes every poll whose deadline has passed and returns their ids.
func (r *pollRepository) CloseDue(ctx context.Context, now time.Time) ([]string, error) {
	const query = `
        UPDATE polls SET closed_at=$1
        WHERE closed_at IS NULL AND closes_at IS NOT NULL AND closes_at <= $1
        RETURNING id`
	rows, err := r.pool.Query(ctx, query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
