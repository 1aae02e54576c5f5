package service

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/portal-service/internal/domain"
	"github.com/spec-kit/portal-service/internal/events"
	apperrors "github.com/spec-kit/portal-service/pkg/util"
)

type fakeNewsRepo struct {
	posts  map[string]*domain.NewsPost
	nextID int
}

func newFakeNewsRepo() *fakeNewsRepo {
	return &fakeNewsRepo{posts: map[string]*domain.NewsPost{}}
}

func (f *fakeNewsRepo) Create(ctx context.Context, post *domain.NewsPost) error {
	f.nextID++
	post.ID = fmt.Sprintf("post-%d", f.nextID)
	f.posts[post.ID] = post
	return nil
}

func (f *fakeNewsRepo) Update(ctx context.Context, post *domain.NewsPost) error {
	if _, ok := f.posts[post.ID]; !ok {
		return pgx.ErrNoRows
	}
	f.posts[post.ID] = post
	return nil
}

func (f *fakeNewsRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.posts[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.posts, id)
	return nil
}

func (f *fakeNewsRepo) GetByID(ctx context.Context, id string) (*domain.NewsPost, error) {
	if p, ok := f.posts[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeNewsRepo) ListPublished(ctx context.Context, limit, offset int) ([]domain.NewsPost, error) {
	var out []domain.NewsPost
	for _, p := range f.posts {
		if p.Published() {
			out = append(out, *p)
		}
	}
	return out, nil
}

func capturedEventTypes(d events.Dispatcher, types ...events.EventType) *[]events.EventType {
	var seen []events.EventType
	for _, t := range types {
		d.Subscribe(t, func(ctx context.Context, e events.Event) error {
			seen = append(seen, e.Type)
			return nil
		})
	}
	return &seen
}

func TestNewsCreateDraftStaysOutOfFeed(t *testing.T) {
	repo := newFakeNewsRepo()
	dispatcher := events.NewInMemoryDispatcher()
	seen := capturedEventTypes(dispatcher, events.EventNewsPublished)
	svc := NewNewsService(repo, dispatcher)
	ctx := context.Background()

	_, err := svc.Create(ctx, "author-1", NewsInput{Title: "Draft", Body: "wip"})
	require.NoError(t, err)

	feed, err := svc.ListFeed(ctx, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, feed)
	assert.Empty(t, *seen, "drafts do not announce")
}

func TestNewsPublishAnnouncesOnce(t *testing.T) {
	repo := newFakeNewsRepo()
	dispatcher := events.NewInMemoryDispatcher()
	seen := capturedEventTypes(dispatcher, events.EventNewsPublished)
	svc := NewNewsService(repo, dispatcher)
	ctx := context.Background()

	post, err := svc.Create(ctx, "author-1", NewsInput{Title: "Draft", Body: "wip"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, post.ID, NewsInput{Title: "Done", Body: "final", Publish: true})
	require.NoError(t, err)
	assert.Len(t, *seen, 1)

	// Editing an already-published post does not re-announce.
	_, err = svc.Update(ctx, post.ID, NewsInput{Title: "Done v2", Body: "final", Publish: true})
	require.NoError(t, err)
	assert.Len(t, *seen, 1)
}

func TestNewsCreateValidation(t *testing.T) {
	svc := NewNewsService(newFakeNewsRepo(), events.NewInMemoryDispatcher())

	_, err := svc.Create(context.Background(), "author-1", NewsInput{Title: "", Body: "x"})
	assert.Equal(t, http.StatusBadRequest, apperrors.ToDomainError(err).HTTPStatus)
}
