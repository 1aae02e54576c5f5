package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/portal-service/internal/domain"
	"github.com/spec-kit/portal-service/internal/events"
	"github.com/spec-kit/portal-service/internal/repository"
	apperrors "github.com/spec-kit/portal-service/pkg/util"
)

const pollResultsTTL = 30 * time.Second

// PollService coordinates polls and voting. Result tallies are cached in
// Redis briefly and invalidated on every vote; a cache outage degrades to
// querying the database directly.
type PollService struct {
	polls      repository.PollRepository
	cache      *redis.Client
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// PollInput describes a poll creation payload.
type PollInput struct {
	Question string
	Options  []string
	ClosesAt *time.Time
}

// NewPollService constructs the service.
func NewPollService(polls repository.PollRepository, cache *redis.Client, dispatcher events.Dispatcher, logger *zap.Logger) *PollService {
	return &PollService{polls: polls, cache: cache, dispatcher: dispatcher, logger: logger}
}

// Create adds a poll with at least two distinct options.
func (s *PollService) Create(ctx context.Context, creatorID string, input PollInput) (*domain.Poll, []domain.PollOption, error) {
	if strings.TrimSpace(input.Question) == "" {
		return nil, nil, apperrors.NewValidationError("question required", nil)
	}
	labels := make(map[string]struct{}, len(input.Options))
	options := make([]domain.PollOption, 0, len(input.Options))
	for _, label := range input.Options {
		label = strings.TrimSpace(label)
		if label == "" {
			continue
		}
		if _, dup := labels[label]; dup {
			return nil, nil, apperrors.NewValidationError("duplicate option", map[string]any{"label": label})
		}
		labels[label] = struct{}{}
		options = append(options, domain.PollOption{Label: label})
	}
	if len(options) < 2 {
		return nil, nil, apperrors.NewValidationError("at least two options required", nil)
	}

	poll := &domain.Poll{Question: input.Question, CreatedBy: creatorID, ClosesAt: input.ClosesAt}
	if err := s.polls.Create(ctx, poll, options); err != nil {
		return nil, nil, err
	}
	return poll, options, nil
}

// ListOpen returns polls still accepting votes.
func (s *PollService) ListOpen(ctx context.Context) ([]domain.Poll, error) {
	return s.polls.ListOpen(ctx)
}

// Get fetches a poll with its options and current results.
func (s *PollService) Get(ctx context.Context, id string) (*domain.Poll, []domain.PollOption, []domain.PollResult, error) {
	poll, options, err := s.polls.GetByID(ctx, id)
	if err != nil {
		return nil, nil, nil, err
	}
	results, err := s.Results(ctx, id)
	if err != nil {
		return nil, nil, nil, err
	}
	return poll, options, results, nil
}

// Vote records or replaces the voter's choice. The unique constraint on
// (poll_id, voter_id) keeps one vote per voter.
func (s *PollService) Vote(ctx context.Context, pollID, optionID, voterID string) error {
	poll, options, err := s.polls.GetByID(ctx, pollID)
	if err != nil {
		return err
	}
	if !poll.Open(time.Now()) {
		return apperrors.NewConflict("poll closed", nil)
	}

	valid := false
	for _, opt := range options {
		if opt.ID == optionID {
			valid = true
			break
		}
	}
	if !valid {
		return apperrors.NewValidationError("option does not belong to poll", nil)
	}

	vote := &domain.PollVote{PollID: pollID, OptionID: optionID, VoterID: voterID}
	if err := s.polls.UpsertVote(ctx, vote); err != nil {
		return err
	}
	s.invalidateResults(ctx, pollID)

	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventPollVoteCast,
		SubjectID: pollID,
		ActorID:   voterID,
		Timestamp: time.Now(),
		Payload:   events.PollVoteCastPayload{OptionID: optionID},
	})
	return nil
}

// Results returns the tallies, served from cache when fresh.
func (s *PollService) Results(ctx context.Context, pollID string) ([]domain.PollResult, error) {
	key := resultsKey(pollID)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, key).Bytes(); err == nil {
			var cached []domain.PollResult
			if json.Unmarshal(data, &cached) == nil {
				return cached, nil
			}
		}
	}

	results, err := s.polls.Results(ctx, pollID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(results); err == nil {
			if err := s.cache.Set(ctx, key, data, pollResultsTTL).Err(); err != nil {
				s.logger.Warn("poll results cache write failed", zap.Error(err))
			}
		}
	}
	return results, nil
}

// Close closes a poll ahead of its deadline.
func (s *PollService) Close(ctx context.Context, pollID string) error {
	if err := s.polls.Close(ctx, pollID); err != nil {
		return err
	}
	s.invalidateResults(ctx, pollID)
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventPollClosed,
		SubjectID: pollID,
		Timestamp: time.Now(),
		Payload:   events.PollClosedPayload{},
	})
	return nil
}

// CloseDue closes every poll past its deadline. Invoked by the scheduled-job
// endpoint.
func (s *PollService) CloseDue(ctx context.Context) ([]string, error) {
	ids, err := s.polls.CloseDue(ctx, time.Now())
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		s.invalidateResults(ctx, id)
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventPollClosed,
			SubjectID: id,
			Timestamp: time.Now(),
			Payload:   events.PollClosedPayload{},
		})
	}
	return ids, nil
}

func (s *PollService) invalidateResults(ctx context.Context, pollID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, resultsKey(pollID)).Err(); err != nil {
		s.logger.Warn("poll results cache invalidation failed", zap.Error(err))
	}
}

func resultsKey(pollID string) string {
	return "poll:results:" + pollID
}
