package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/mentorbridge-backend/internal/data/repos"
	types "github.com/yungbote/mentorbridge-backend/internal/domain"
	domerrors "github.com/yungbote/mentorbridge-backend/internal/pkg/errors"
	"github.com/yungbote/mentorbridge-backend/internal/platform/logger"
)

type MeetingInput struct {
	MeetingDate     time.Time         `json:"meeting_date" binding:"required"`
	DurationMinutes int               `json:"duration_minutes" binding:"required"`
	MeetingType     types.MeetingType `json:"meeting_type" binding:"required"`
	Agenda          string            `json:"agenda"`
	Notes           string            `json:"notes"`
}

type FeedbackInput struct {
	Rating       int                `json:"rating" binding:"required"`
	Comment      string             `json:"comment"`
	FeedbackType types.FeedbackType `json:"feedback_type" binding:"required"`
}

// LedgerService owns the append-only meeting and feedback history of a
// match. Writes also keep the match's last-contact marker and health
// annotations current.
type LedgerService interface {
	LogMeeting(ctx context.Context, matchID uuid.UUID, input MeetingInput) (*types.MeetingLog, error)
	ListMeetings(ctx context.Context, matchID uuid.UUID) ([]*types.MeetingLog, error)
	SubmitFeedback(ctx context.Context, matchID uuid.UUID, input FeedbackInput) (*types.Feedback, error)
	ListFeedback(ctx context.Context, matchID uuid.UUID) ([]*types.Feedback, error)
}

type ledgerService struct {
	log       *logger.Logger
	db        *gorm.DB
	matches   repos.MatchRepo
	meetings  repos.MeetingRepo
	feedback  repos.FeedbackRepo
	lifecycle LifecycleService
}

func NewLedgerService(
	log *logger.Logger,
	db *gorm.DB,
	matches repos.MatchRepo,
	meetings repos.MeetingRepo,
	feedback repos.FeedbackRepo,
	lifecycle LifecycleService,
) LedgerService {
	return &ledgerService{
		log:       log.With("service", "LedgerService"),
		db:        db,
		matches:   matches,
		meetings:  meetings,
		feedback:  feedback,
		lifecycle: lifecycle,
	}
}

func (lg *ledgerService) LogMeeting(ctx context.Context, matchID uuid.UUID, input MeetingInput) (*types.MeetingLog, error) {
	if input.DurationMinutes <= 0 {
		return nil, fmt.Errorf("%w: duration_minutes must be positive", domerrors.ErrValidation)
	}
	if !input.MeetingType.Valid() {
		return nil, fmt.Errorf("%w: unknown meeting_type %q", domerrors.ErrValidation, input.MeetingType)
	}
	if input.MeetingDate.IsZero() {
		return nil, fmt.Errorf("%w: meeting_date is required", domerrors.ErrValidation)
	}
	if input.MeetingDate.After(time.Now().Add(time.Minute)) {
		return nil, fmt.Errorf("%w: meeting_date cannot be in the future", domerrors.ErrValidation)
	}

	if _, err := lg.requireActiveMatch(ctx, matchID); err != nil {
		return nil, err
	}

	var created *types.MeetingLog
	err := lg.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		entry, err := lg.meetings.Create(ctx, tx, &types.MeetingLog{
			ID:              uuid.New(),
			MatchID:         matchID,
			MeetingDate:     input.MeetingDate,
			DurationMinutes: input.DurationMinutes,
			MeetingType:     input.MeetingType,
			Agenda:          input.Agenda,
			Notes:           input.Notes,
		})
		if err != nil {
			return err
		}
		created = entry
		return lg.matches.TouchLastMeeting(ctx, tx, matchID, input.MeetingDate)
	})
	if err != nil {
		return nil, err
	}

	lg.refreshHealth(ctx, matchID)
	return created, nil
}

func (lg *ledgerService) ListMeetings(ctx context.Context, matchID uuid.UUID) ([]*types.MeetingLog, error) {
	if _, err := lg.requireMatch(ctx, matchID); err != nil {
		return nil, err
	}
	return lg.meetings.ListByMatch(ctx, nil, matchID)
}

func (lg *ledgerService) SubmitFeedback(ctx context.Context, matchID uuid.UUID, input FeedbackInput) (*types.Feedback, error) {
	if input.Rating < 1 || input.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", domerrors.ErrValidation)
	}
	if !input.FeedbackType.Valid() {
		return nil, fmt.Errorf("%w: unknown feedback_type %q", domerrors.ErrValidation, input.FeedbackType)
	}

	if _, err := lg.requireMatch(ctx, matchID); err != nil {
		return nil, err
	}

	created, err := lg.feedback.Create(ctx, nil, &types.Feedback{
		ID:           uuid.New(),
		MatchID:      matchID,
		Rating:       input.Rating,
		Comment:      input.Comment,
		FeedbackType: input.FeedbackType,
	})
	if err != nil {
		return nil, err
	}

	lg.refreshHealth(ctx, matchID)
	return created, nil
}

func (lg *ledgerService) ListFeedback(ctx context.Context, matchID uuid.UUID) ([]*types.Feedback, error) {
	if _, err := lg.requireMatch(ctx, matchID); err != nil {
		return nil, err
	}
	return lg.feedback.ListByMatch(ctx, nil, matchID)
}

func (lg *ledgerService) requireMatch(ctx context.Context, matchID uuid.UUID) (*types.ActiveMatch, error) {
	match, err := lg.matches.GetByID(ctx, nil, matchID)
	if err != nil {
		return nil, err
	}
	if match == nil {
		return nil, domerrors.ErrNotFound
	}
	return match, nil
}

func (lg *ledgerService) requireActiveMatch(ctx context.Context, matchID uuid.UUID) (*types.ActiveMatch, error) {
	match, err := lg.requireMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if match.Status != types.MatchActive {
		return nil, fmt.Errorf("%w: match is %s, meetings can only be logged on active matches", domerrors.ErrValidation, match.Status)
	}
	return match, nil
}

// refreshHealth is best effort. The ledger write already committed, a
// stale health annotation just waits for the next sweep.
func (lg *ledgerService) refreshHealth(ctx context.Context, matchID uuid.UUID) {
	if lg.lifecycle == nil {
		return
	}
	if _, err := lg.lifecycle.Evaluate(ctx, matchID); err != nil {
		lg.log.Warn("health refresh after ledger write failed", "match_id", matchID.String(), "error", err)
	}
}
