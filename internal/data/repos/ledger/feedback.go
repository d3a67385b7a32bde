package ledger

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/mentorbridge-backend/internal/domain"
	"github.com/yungbote/mentorbridge-backend/internal/platform/logger"
)

// FeedbackRepo is append-only, same contract as MeetingRepo.
type FeedbackRepo interface {
	Create(ctx context.Context, tx *gorm.DB, entry *types.Feedback) (*types.Feedback, error)
	ListByMatch(ctx context.Context, tx *gorm.DB, matchID uuid.UUID) ([]*types.Feedback, error)
	ListRecentByMatch(ctx context.Context, tx *gorm.DB, matchID uuid.UUID, limit int) ([]*types.Feedback, error)
}

type feedbackRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewFeedbackRepo(db *gorm.DB, baseLog *logger.Logger) FeedbackRepo {
	repoLog := baseLog.With("repo", "FeedbackRepo")
	return &feedbackRepo{db: db, log: repoLog}
}

func (fr *feedbackRepo) Create(ctx context.Context, tx *gorm.DB, entry *types.Feedback) (*types.Feedback, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	if entry == nil {
		return nil, nil
	}

	if err := transaction.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

func (fr *feedbackRepo) ListByMatch(ctx context.Context, tx *gorm.DB, matchID uuid.UUID) ([]*types.Feedback, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}

	var results []*types.Feedback
	if err := transaction.WithContext(ctx).
		Where("match_id = ?", matchID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (fr *feedbackRepo) ListRecentByMatch(ctx context.Context, tx *gorm.DB, matchID uuid.UUID, limit int) ([]*types.Feedback, error) {
	transaction := tx
	if transaction == nil {
		transaction = fr.db
	}
	if limit <= 0 {
		return []*types.Feedback{}, nil
	}

	var results []*types.Feedback
	if err := transaction.WithContext(ctx).
		Where("match_id = ?", matchID).
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
