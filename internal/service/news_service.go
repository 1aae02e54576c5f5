package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/portal-service/internal/domain"
	"github.com/spec-kit/portal-service/internal/events"
	"github.com/spec-kit/portal-service/internal/repository"
	apperrors "github.com/spec-kit/portal-service/pkg/util"
)

// NewsService coordinates the company news feed.
type NewsService struct {
	news       repository.NewsRepository
	dispatcher events.Dispatcher
}

// NewsInput describes a post create/update payload.
type NewsInput struct {
	Title   string
	Body    string
	Pinned  bool
	Publish bool
}

// NewNewsService constructs the service.
func NewNewsService(news repository.NewsRepository, dispatcher events.Dispatcher) *NewsService {
	return &NewsService{news: news, dispatcher: dispatcher}
}

// ListFeed returns the published feed, pinned posts first.
func (s *NewsService) ListFeed(ctx context.Context, limit, offset int) ([]domain.NewsPost, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.news.ListPublished(ctx, limit, offset)
}

// Get fetches a single post.
func (s *NewsService) Get(ctx context.Context, id string) (*domain.NewsPost, error) {
	return s.news.GetByID(ctx, id)
}

// Create publishes or drafts a post authored by the caller.
func (s *NewsService) Create(ctx context.Context, authorID string, input NewsInput) (*domain.NewsPost, error) {
	if input.Title == "" || input.Body == "" {
		return nil, apperrors.NewValidationError("title and body required", nil)
	}

	post := &domain.NewsPost{
		AuthorID: authorID,
		Title:    input.Title,
		Body:     input.Body,
		Pinned:   input.Pinned,
	}
	if input.Publish {
		now := time.Now()
		post.PublishedAt = &now
	}
	if err := s.news.Create(ctx, post); err != nil {
		return nil, err
	}

	if post.Published() {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventNewsPublished,
			SubjectID: post.ID,
			ActorID:   authorID,
			Timestamp: time.Now(),
			Payload:   events.NewsPublishedPayload{Title: post.Title, Pinned: post.Pinned},
		})
	}
	return post, nil
}

// Update edits an existing post.
func (s *NewsService) Update(ctx context.Context, id string, input NewsInput) (*domain.NewsPost, error) {
	post, err := s.news.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	wasPublished := post.Published()
	post.Title = input.Title
	post.Body = input.Body
	post.Pinned = input.Pinned
	if input.Publish && post.PublishedAt == nil {
		now := time.Now()
		post.PublishedAt = &now
	}
	if err := s.news.Update(ctx, post); err != nil {
		return nil, err
	}

	if !wasPublished && post.Published() {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventNewsPublished,
			SubjectID: post.ID,
			Timestamp: time.Now(),
			Payload:   events.NewsPublishedPayload{Title: post.Title, Pinned: post.Pinned},
		})
	}
	return post, nil
}

// Delete removes a post.
func (s *NewsService) Delete(ctx context.Context, id string) error {
	return s.news.Delete(ctx, id)
}
