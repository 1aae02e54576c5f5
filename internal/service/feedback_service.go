package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/portal-service/internal/auth"
	"github.com/spec-kit/portal-service/internal/domain"
	"github.com/spec-kit/portal-service/internal/events"
	"github.com/spec-kit/portal-service/internal/repository"
	apperrors "github.com/spec-kit/portal-service/pkg/util"
)

// ImportReport summarizes one CSV import run.
type ImportReport struct {
	BatchID  string   `json:"batch_id"`
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Errors   []string `json:"errors,omitempty"`
}

// FeedbackService imports feedback/QA entries and gates reads by ownership.
type FeedbackService struct {
	feedback   repository.FeedbackRepository
	users      repository.UserRepository
	authorizer *auth.Authorizer
	dispatcher events.Dispatcher
}

// NewFeedbackService constructs the service.
func NewFeedbackService(feedback repository.FeedbackRepository, users repository.UserRepository, authorizer *auth.Authorizer, dispatcher events.Dispatcher) *FeedbackService {
	return &FeedbackService{feedback: feedback, users: users, authorizer: authorizer, dispatcher: dispatcher}
}

// ImportCSV parses rows of `email,category,subject,body,score` and inserts
// them as one batch. Rows that fail to parse or reference an unknown email
// are skipped and reported; they do not abort the batch.
func (s *FeedbackService) ImportCSV(ctx context.Context, importerID string, r io.Reader) (*ImportReport, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, apperrors.NewValidationError("empty or unreadable CSV", nil)
	}
	if !expectedHeader(header) {
		return nil, apperrors.NewValidationError("header must be email,category,subject,body,score", nil)
	}

	report := &ImportReport{BatchID: uuid.NewString()}
	var entries []domain.Feedback

	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			report.Skipped++
			report.Errors = append(report.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}

		entry, err := s.parseRow(ctx, record, report.BatchID)
		if err != nil {
			report.Skipped++
			report.Errors = append(report.Errors, fmt.Sprintf("line %d: %v", line, err))
			continue
		}
		entries = append(entries, *entry)
	}

	inserted, err := s.feedback.CreateBatch(ctx, entries)
	if err != nil {
		return nil, err
	}
	report.Imported = int(inserted)

	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventFeedbackImported,
		SubjectID: report.BatchID,
		ActorID:   importerID,
		Timestamp: time.Now(),
		Payload: events.FeedbackImportedPayload{
			BatchID:  report.BatchID,
			Imported: report.Imported,
			Skipped:  report.Skipped,
		},
	})
	return report, nil
}

func expectedHeader(header []string) bool {
	want := []string{"email", "category", "subject", "body", "score"}
	if len(header) != len(want) {
		return false
	}
	for i, col := range header {
		if !strings.EqualFold(strings.TrimSpace(col), want[i]) {
			return false
		}
	}
	return true
}

func (s *FeedbackService) parseRow(ctx context.Context, record []string, batchID string) (*domain.Feedback, error) {
	if len(record) < 4 {
		return nil, errors.New("too few columns")
	}

	email := strings.TrimSpace(record[0])
	owner, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("unknown email %q", email)
		}
		return nil, err
	}

	category := domain.FeedbackCategory(strings.ToLower(strings.TrimSpace(record[1])))
	switch category {
	case domain.FeedbackGeneral, domain.FeedbackQA, domain.FeedbackTraining:
	case "":
		category = domain.FeedbackGeneral
	default:
		return nil, fmt.Errorf("unknown category %q", record[1])
	}

	entry := &domain.Feedback{
		OwnerID:  owner.ID,
		Category: category,
		Subject:  strings.TrimSpace(record[2]),
		Body:     record[3],
		BatchID:  batchID,
	}
	if entry.Subject == "" {
		return nil, errors.New("subject required")
	}

	if len(record) > 4 && strings.TrimSpace(record[4]) != "" {
		score, err := strconv.Atoi(strings.TrimSpace(record[4]))
		if err != nil || score < 1 || score > 5 {
			return nil, fmt.Errorf("score %q not in 1..5", record[4])
		}
		entry.Score = &score
	}
	return entry, nil
}

// Get returns one entry if the principal is the owner, holds a moderation
// role, or actively leads a team the owner belongs to.
func (s *FeedbackService) Get(ctx context.Context, principal *auth.Principal, id string) (*domain.Feedback, error) {
	entry, err := s.feedback.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorizer.CanActFor(ctx, principal, entry.OwnerID,
		domain.RoleAdmin, domain.RoleModerator, domain.RoleTeamleiter); err != nil {
		return nil, err
	}
	return entry, nil
}

// ListForOwner returns an owner's entries under the same owner-or-role rule.
func (s *FeedbackService) ListForOwner(ctx context.Context, principal *auth.Principal, ownerID string, limit, offset int) ([]domain.Feedback, error) {
	if err := s.authorizer.CanActFor(ctx, principal, ownerID,
		domain.RoleAdmin, domain.RoleModerator, domain.RoleTeamleiter); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.feedback.ListByOwner(ctx, ownerID, limit, offset)
}
