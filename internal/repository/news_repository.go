package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/portal-service/internal/domain"
)

// NewsRepository manages persistence for the news feed.
type NewsRepository interface {
	Create(ctx context.Context, post *domain.NewsPost) error
	Update(ctx context.Context, post *domain.NewsPost) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.NewsPost, error)
	ListPublished(ctx context.Context, limit, offset int) ([]domain.NewsPost, error)
}

type newsRepository struct {
	pool *pgxpool.Pool
}

// NewNewsRepository constructs repository.
func NewNewsRepository(pool *pgxpool.Pool) NewsRepository {
	return &newsRepository{pool: pool}
}

func (r *newsRepository) Create(ctx context.Context, post *domain.NewsPost) error {
	const query = `
        INSERT INTO news_posts (author_id, title, body, pinned, published_at)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		post.AuthorID,
		post.Title,
		post.Body,
		post.Pinned,
		post.PublishedAt,
	).Scan(&post.ID, &post.CreatedAt, &post.UpdatedAt)
}

func (r *newsRepository) Update(ctx context.Context, post *domain.NewsPost) error {
	const query = `
        UPDATE news_posts SET title=$1, body=$2, pinned=$3, published_at=$4, updated_at=NOW()
        WHERE id=$5`
	cmd, err := r.pool.Exec(ctx, query,
		post.Title,
		post.Body,
		post.Pinned,
		post.PublishedAt,
		post.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *newsRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM news_posts WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *newsRepository) GetByID(ctx context.Context, id string) (*domain.NewsPost, error) {
	const query = `
        SELECT id, author_id, title, body, pinned, published_at, created_at, updated_at
        FROM news_posts WHERE id=$1`
	var post domain.NewsPost
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&post.ID,
		&post.AuthorID,
		&post.Title,
		&post.Body,
		&post.Pinned,
		&post.PublishedAt,
		&post.CreatedAt,
		&post.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *newsRepository) ListPublished(ctx context.Context, limit, offset int) ([]domain.NewsPost, error) {
	const query = `
        SELECT id, author_id, title, body, pinned, published_at, created_at, updated_at
        FROM news_posts
        WHERE published_at IS NOT NULL AND published_at <= NOW()
        ORDER BY pinned DESC, published_at DESC
        LIMIT $1 OFFSET $2`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.NewsPost
	for rows.Next() {
		var post domain.NewsPost
		if err := rows.Scan(&post.ID, &post.AuthorID, &post.Title, &post.Body, &post.Pinned, &post.PublishedAt, &post.CreatedAt, &post.UpdatedAt); err != nil {
			return nil, err
		}
		result = append(result, post)
	}
	return result, rows.Err()
}
