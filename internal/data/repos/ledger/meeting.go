package ledger

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/mentorbridge-backend/internal/domain"
	"github.com/yungbote/mentorbridge-backend/internal/platform/logger"
)

// MeetingRepo is append-only: there is deliberately no update or delete.
type MeetingRepo interface {
	Create(ctx context.Context, tx *gorm.DB, entry *types.MeetingLog) (*types.MeetingLog, error)
	ListByMatch(ctx context.Context, tx *gorm.DB, matchID uuid.UUID) ([]*types.MeetingLog, error)
	CountByMatch(ctx context.Context, tx *gorm.DB, matchID uuid.UUID) (int64, error)
}

type meetingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMeetingRepo(db *gorm.DB, baseLog *logger.Logger) MeetingRepo {
	repoLog := baseLog.With("repo", "MeetingRepo")
	return &meetingRepo{db: db, log: repoLog}
}

func (mr *meetingRepo) Create(ctx context.Context, tx *gorm.DB, entry *types.MeetingLog) (*types.MeetingLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	if entry == nil {
		return nil, nil
	}

	if err := transaction.WithContext(ctx).Create(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

func (mr *meetingRepo) ListByMatch(ctx context.Context, tx *gorm.DB, matchID uuid.UUID) ([]*types.MeetingLog, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	var results []*types.MeetingLog
	if err := transaction.WithContext(ctx).
		Where("match_id = ?", matchID).
		Order("meeting_date DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (mr *meetingRepo) CountByMatch(ctx context.Context, tx *gorm.DB, matchID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.MeetingLog{}).
		Where("match_id = ?", matchID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
