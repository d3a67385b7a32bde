package matching

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/mentorbridge-backend/internal/domain"
	"github.com/yungbote/mentorbridge-backend/internal/platform/logger"
)

type MatchRepo interface {
	Create(ctx context.Context, tx *gorm.DB, match *types.ActiveMatch) (*types.ActiveMatch, error)
	GetByID(ctx context.Context, tx *gorm.DB, matchID uuid.UUID) (*types.ActiveMatch, error)
	GetActiveByStudent(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) (*types.ActiveMatch, error)
	CountActiveByMentor(ctx context.Context, tx *gorm.DB, mentorID uuid.UUID) (int64, error)
	ListActive(ctx context.Context, tx *gorm.DB) ([]*types.ActiveMatch, error)
	UpdateHealth(ctx context.Context, tx *gorm.DB, matchID uuid.UUID, health *int, atRisk bool, reason *string) error
	// TouchLastMeeting only moves last_meeting_at forward.
	TouchLastMeeting(ctx context.Context, tx *gorm.DB, matchID uuid.UUID, meetingDate time.Time) error
	// CloseCAS ends an active match. false means it was not active anymore.
	CloseCAS(ctx context.Context, tx *gorm.DB, matchID uuid.UUID, status types.MatchStatus, endedBy string, now time.Time) (bool, error)
}

type matchRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMatchRepo(db *gorm.DB, baseLog *logger.Logger) MatchRepo {
	repoLog := baseLog.With("repo", "MatchRepo")
	return &matchRepo{db: db, log: repoLog}
}

func (mr *matchRepo) Create(ctx context.Context, tx *gorm.DB, match *types.ActiveMatch) (*types.ActiveMatch, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	if match == nil {
		return nil, nil
	}

	if err := transaction.WithContext(ctx).Create(match).Error; err != nil {
		return nil, err
	}
	return match, nil
}

func (mr *matchRepo) GetByID(ctx context.Context, tx *gorm.DB, matchID uuid.UUID) (*types.ActiveMatch, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	var result types.ActiveMatch
	err := transaction.WithContext(ctx).
		Where("id = ?", matchID).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (mr *matchRepo) GetActiveByStudent(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) (*types.ActiveMatch, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	var result types.ActiveMatch
	err := transaction.WithContext(ctx).
		Where("student_id = ? AND status = ?", studentID, types.MatchActive).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (mr *matchRepo) CountActiveByMentor(ctx context.Context, tx *gorm.DB, mentorID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.ActiveMatch{}).
		Where("mentor_id = ? AND status = ?", mentorID, types.MatchActive).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (mr *matchRepo) ListActive(ctx context.Context, tx *gorm.DB) ([]*types.ActiveMatch, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	var results []*types.ActiveMatch
	if err := transaction.WithContext(ctx).
		Where("status = ?", types.MatchActive).
		Order("matched_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (mr *matchRepo) UpdateHealth(ctx context.Context, tx *gorm.DB, matchID uuid.UUID, health *int, atRisk bool, reason *string) error {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	return transaction.WithContext(ctx).
		Model(&types.ActiveMatch{}).
		Where("id = ?", matchID).
		Updates(map[string]any{
			"health_score":   health,
			"is_at_risk":     atRisk,
			"at_risk_reason": reason,
			"updated_at":     time.Now(),
		}).Error
}

func (mr *matchRepo) TouchLastMeeting(ctx context.Context, tx *gorm.DB, matchID uuid.UUID, meetingDate time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	return transaction.WithContext(ctx).
		Model(&types.ActiveMatch{}).
		Where("id = ? AND (last_meeting_at IS NULL OR last_meeting_at < ?)", matchID, meetingDate).
		Updates(map[string]any{
			"last_meeting_at": meetingDate,
			"updated_at":      time.Now(),
		}).Error
}

func (mr *matchRepo) CloseCAS(ctx context.Context, tx *gorm.DB, matchID uuid.UUID, status types.MatchStatus, endedBy string, now time.Time) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	res := transaction.WithContext(ctx).
		Model(&types.ActiveMatch{}).
		Where("id = ? AND status = ?", matchID, types.MatchActive).
		Updates(map[string]any{
			"status":     status,
			"ended_at":   now,
			"ended_by":   endedBy,
			"updated_at": now,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
