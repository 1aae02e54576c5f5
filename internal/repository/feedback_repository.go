package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/portal-service/internal/domain"
)

// FeedbackRepository manages persistence for imported feedback entries.
type FeedbackRepository interface {
	CreateBatch(ctx context.Context, entries []domain.Feedback) (int64, error)
	GetByID(ctx context.Context, id string) (*domain.Feedback, error)
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]domain.Feedback, error)
}

type feedbackRepository struct {
	pool *pgxpool.Pool
}

// NewFeedbackRepository constructs repository.
func NewFeedbackRepository(pool *pgxpool.Pool) FeedbackRepository {
	return &feedbackRepository{pool: pool}
}

// CreateBatch bulk-inserts one import batch via the COPY protocol.
func (r *feedbackRepository) CreateBatch(ctx context.Context, entries []domain.Feedback) (int64, error) {
	if len(entries) == 0 {
		return 0, nil
	}

	rows := make([][]any, 0, len(entries))
	for i := range entries {
		e := &entries[i]
		rows = append(rows, []any{e.OwnerID, string(e.Category), e.Subject, e.Body, e.Score, e.BatchID})
	}

	return r.pool.CopyFrom(ctx,
		pgx.Identifier{"feedback_entries"},
		[]string{"owner_id", "category", "subject", "body", "score", "batch_id"},
		pgx.CopyFromRows(rows),
	)
}

func (r *feedbackRepository) GetByID(ctx context.Context, id string) (*domain.Feedback, error) {
	const query = `
        SELECT id, owner_id, category, subject, body, score, batch_id, created_at
        FROM feedback_entries WHERE id=$1`
	var fb domain.Feedback
	var category string
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&fb.ID,
		&fb.OwnerID,
		&category,
		&fb.Subject,
		&fb.Body,
		&fb.Score,
		&fb.BatchID,
		&fb.CreatedAt,
	); err != nil {
		return nil, err
	}
	fb.Category = domain.FeedbackCategory(category)
	return &fb, nil
}

func (r *feedbackRepository) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]domain.Feedback, error) {
	const query = `
        SELECT id, owner_id, category, subject, body, score, batch_id, created_at
        FROM feedback_entries WHERE owner_id=$1
        ORDER BY created_at DESC LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Feedback
	for rows.Next() {
		var fb domain.Feedback
		var category string
		if err := rows.Scan(&fb.ID, &fb.OwnerID, &category, &fb.Subject, &fb.Body, &fb.Score, &fb.BatchID, &fb.CreatedAt); err != nil {
			return nil, err
		}
		fb.Category = domain.FeedbackCategory(category)
		result = append(result, fb)
	}
	return result, rows.Err()
}
