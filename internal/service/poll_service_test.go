package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/portal-service/internal/domain"
	"github.com/spec-kit/portal-service/internal/events"
	apperrors "github.com/spec-kit/portal-service/pkg/util"
)

type fakePollRepo struct {
	polls        map[string]*domain.Poll
	options      map[string][]domain.PollOption
	votes        map[string]map[string]string // pollID -> voterID -> optionID
	resultsCalls int
}

func newFakePollRepo() *fakePollRepo {
	return &fakePollRepo{
		polls:   map[string]*domain.Poll{},
		options: map[string][]domain.PollOption{},
		votes:   map[string]map[string]string{},
	}
}

func (f *fakePollRepo) Create(ctx context.Context, poll *domain.Poll, options []domain.PollOption) error {
	poll.ID = "poll-" + poll.Question
	f.polls[poll.ID] = poll
	for i := range options {
		options[i].ID = poll.ID + "-opt-" + options[i].Label
		options[i].PollID = poll.ID
		options[i].Position = i
	}
	f.options[poll.ID] = options
	return nil
}

func (f *fakePollRepo) GetByID(ctx context.Context, id string) (*domain.Poll, []domain.PollOption, error) {
	poll, ok := f.polls[id]
	if !ok {
		return nil, nil, pgx.ErrNoRows
	}
	return poll, f.options[id], nil
}

func (f *fakePollRepo) ListOpen(ctx context.Context) ([]domain.Poll, error) {
	var out []domain.Poll
	now := time.Now()
	for _, p := range f.polls {
		if p.Open(now) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePollRepo) UpsertVote(ctx context.Context, vote *domain.PollVote) error {
	if f.votes[vote.PollID] == nil {
		f.votes[vote.PollID] = map[string]string{}
	}
	f.votes[vote.PollID][vote.VoterID] = vote.OptionID
	return nil
}

func (f *fakePollRepo) Results(ctx context.Context, pollID string) ([]domain.PollResult, error) {
	f.resultsCalls++
	var out []domain.PollResult
	for _, opt := range f.options[pollID] {
		var votes int64
		for _, optionID := range f.votes[pollID] {
			if optionID == opt.ID {
				votes++
			}
		}
		out = append(out, domain.PollResult{OptionID: opt.ID, Label: opt.Label, Votes: votes})
	}
	return out, nil
}

func (f *fakePollRepo) Close(ctx context.Context, pollID string) error {
	poll, ok := f.polls[pollID]
	if !ok {
		return pgx.ErrNoRows
	}
	now := time.Now()
	poll.ClosedAt = &now
	return nil
}

func (f *fakePollRepo) CloseDue(ctx context.Context, now time.Time) ([]string, error) {
	var ids []string
	for id, p := range f.polls {
		if p.ClosedAt == nil && p.ClosesAt != nil && !now.Before(*p.ClosesAt) {
			p.ClosedAt = &now
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func newCachedPollService(t *testing.T, repo *fakePollRepo) (*PollService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewPollService(repo, client, events.NewInMemoryDispatcher(), zap.NewNop()), mr
}

func createTestPoll(t *testing.T, svc *PollService, question string, options ...string) (*domain.Poll, []domain.PollOption) {
	t.Helper()
	poll, opts, err := svc.Create(context.Background(), "creator-1", PollInput{Question: question, Options: options})
	require.NoError(t, err)
	return poll, opts
}

func TestPollCreateValidation(t *testing.T) {
	svc, _ := newCachedPollService(t, newFakePollRepo())
	ctx := context.Background()

	_, _, err := svc.Create(ctx, "creator-1", PollInput{Question: "  ", Options: []string{"a", "b"}})
	assert.Equal(t, http.StatusBadRequest, apperrors.ToDomainError(err).HTTPStatus)

	_, _, err = svc.Create(ctx, "creator-1", PollInput{Question: "Lunch?", Options: []string{"pizza", " ", ""}})
	assert.Equal(t, http.StatusBadRequest, apperrors.ToDomainError(err).HTTPStatus)

	_, _, err = svc.Create(ctx, "creator-1", PollInput{Question: "Lunch?", Options: []string{"pizza", "pizza"}})
	de := apperrors.ToDomainError(err)
	assert.Equal(t, http.StatusBadRequest, de.HTTPStatus)
	assert.Equal(t, "validation_failed", de.Code)
}

func TestPollVoteReplacesPreviousChoice(t *testing.T) {
	repo := newFakePollRepo()
	svc, _ := newCachedPollService(t, repo)
	ctx := context.Background()

	poll, opts := createTestPoll(t, svc, "Lunch?", "pizza", "salad")

	require.NoError(t, svc.Vote(ctx, poll.ID, opts[0].ID, "voter-1"))
	require.NoError(t, svc.Vote(ctx, poll.ID, opts[1].ID, "voter-1"))

	results, err := svc.Results(ctx, poll.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), results[0].Votes)
	assert.Equal(t, int64(1), results[1].Votes)
}

func TestPollVoteRejectsForeignOption(t *testing.T) {
	svc, _ := newCachedPollService(t, newFakePollRepo())
	ctx := context.Background()

	poll, _ := createTestPoll(t, svc, "Lunch?", "pizza", "salad")
	_, otherOpts := createTestPoll(t, svc, "Snack?", "chips", "fruit")

	err := svc.Vote(ctx, poll.ID, otherOpts[0].ID, "voter-1")
	de := apperrors.ToDomainError(err)
	assert.Equal(t, http.StatusBadRequest, de.HTTPStatus)
}

func TestPollVoteRejectsClosedPoll(t *testing.T) {
	repo := newFakePollRepo()
	svc, _ := newCachedPollService(t, repo)
	ctx := context.Background()

	poll, opts := createTestPoll(t, svc, "Lunch?", "pizza", "salad")
	require.NoError(t, svc.Close(ctx, poll.ID))

	err := svc.Vote(ctx, poll.ID, opts[0].ID, "voter-1")
	de := apperrors.ToDomainError(err)
	assert.Equal(t, http.StatusConflict, de.HTTPStatus)
	assert.Equal(t, "conflict", de.Code)
}

func TestPollVoteRejectsPastDeadline(t *testing.T) {
	repo := newFakePollRepo()
	svc, _ := newCachedPollService(t, repo)
	ctx := context.Background()

	past := time.Now().Add(-time.Hour)
	poll := &domain.Poll{Question: "Old?", ClosesAt: &past}
	require.NoError(t, repo.Create(ctx, poll, []domain.PollOption{{Label: "yes"}, {Label: "no"}}))

	err := svc.Vote(ctx, poll.ID, repo.options[poll.ID][0].ID, "voter-1")
	assert.Equal(t, http.StatusConflict, apperrors.ToDomainError(err).HTTPStatus)
}

func TestPollResultsServedFromCache(t *testing.T) {
	repo := newFakePollRepo()
	svc, _ := newCachedPollService(t, repo)
	ctx := context.Background()

	poll, opts := createTestPoll(t, svc, "Lunch?", "pizza", "salad")
	require.NoError(t, svc.Vote(ctx, poll.ID, opts[0].ID, "voter-1"))

	_, err := svc.Results(ctx, poll.ID)
	require.NoError(t, err)
	queries := repo.resultsCalls

	_, err = svc.Results(ctx, poll.ID)
	require.NoError(t, err)
	assert.Equal(t, queries, repo.resultsCalls, "second read must hit the cache")
}

func TestPollVoteInvalidatesCache(t *testing.T) {
	repo := newFakePollRepo()
	svc, _ := newCachedPollService(t, repo)
	ctx := context.Background()

	poll, opts := createTestPoll(t, svc, "Lunch?", "pizza", "salad")

	results, err := svc.Results(ctx, poll.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), results[0].Votes)

	require.NoError(t, svc.Vote(ctx, poll.ID, opts[0].ID, "voter-1"))

	results, err = svc.Results(ctx, poll.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), results[0].Votes, "vote must not be hidden by a stale cache entry")
}

func TestPollResultsCacheExpires(t *testing.T) {
	repo := newFakePollRepo()
	svc, mr := newCachedPollService(t, repo)
	ctx := context.Background()

	poll, _ := createTestPoll(t, svc, "Lunch?", "pizza", "salad")

	_, err := svc.Results(ctx, poll.ID)
	require.NoError(t, err)
	queries := repo.resultsCalls

	mr.FastForward(time.Minute)

	_, err = svc.Results(ctx, poll.ID)
	require.NoError(t, err)
	assert.Equal(t, queries+1, repo.resultsCalls)
}

func TestPollResultsCacheOutageDegradesToStore(t *testing.T) {
	repo := newFakePollRepo()
	svc, mr := newCachedPollService(t, repo)
	ctx := context.Background()

	poll, _ := createTestPoll(t, svc, "Lunch?", "pizza", "salad")
	mr.Close()

	results, err := svc.Results(ctx, poll.ID)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestPollCloseDue(t *testing.T) {
	repo := newFakePollRepo()
	svc, _ := newCachedPollService(t, repo)
	ctx := context.Background()

	past := time.Now().Add(-time.Hour)
	due := &domain.Poll{Question: "Due?", ClosesAt: &past}
	require.NoError(t, repo.Create(ctx, due, []domain.PollOption{{Label: "a"}, {Label: "b"}}))
	createTestPoll(t, svc, "Still open?", "a", "b")

	ids, err := svc.CloseDue(ctx)
	require.NoError(t, err)
	require.Len(t, ids, 1)
	assert.Equal(t, due.ID, ids[0])

	open, err := svc.ListOpen(ctx)
	require.NoError(t, err)
	assert.Len(t, open, 1)
}
