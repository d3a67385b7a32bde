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

type BatchRepo interface {
	Create(ctx context.Context, tx *gorm.DB, batch *types.MatchBatch) (*types.MatchBatch, error)
	GetByID(ctx context.Context, tx *gorm.DB, batchID uuid.UUID) (*types.MatchBatch, error)
	GetPendingByStudent(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) (*types.MatchBatch, error)
	// ClaimCAS flips pending -> claimed for exactly one caller. false means
	// the batch was no longer pending when the update ran.
	ClaimCAS(ctx context.Context, tx *gorm.DB, batchID, mentorID uuid.UUID, now time.Time) (bool, error)
	// ExpireByIDCAS expires a single overdue pending batch in the request
	// path, ahead of the periodic sweep.
	ExpireByIDCAS(ctx context.Context, tx *gorm.DB, batchID uuid.UUID, now time.Time) (bool, error)
	ExpirePending(ctx context.Context, tx *gorm.DB, now time.Time) (int64, error)
}

type batchRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBatchRepo(db *gorm.DB, baseLog *logger.Logger) BatchRepo {
	repoLog := baseLog.With("repo", "BatchRepo")
	return &batchRepo{db: db, log: repoLog}
}

func (br *batchRepo) Create(ctx context.Context, tx *gorm.DB, batch *types.MatchBatch) (*types.MatchBatch, error) {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}
	if batch == nil {
		return nil, nil
	}

	if err := transaction.WithContext(ctx).Create(batch).Error; err != nil {
		return nil, err
	}
	return batch, nil
}

func (br *batchRepo) GetByID(ctx context.Context, tx *gorm.DB, batchID uuid.UUID) (*types.MatchBatch, error) {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}

	var result types.MatchBatch
	err := transaction.WithContext(ctx).
		Preload("Slots", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("id = ?", batchID).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (br *batchRepo) GetPendingByStudent(ctx context.Context, tx *gorm.DB, studentID uuid.UUID) (*types.MatchBatch, error) {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}

	var result types.MatchBatch
	err := transaction.WithContext(ctx).
		Preload("Slots", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("student_id = ? AND status = ?", studentID, types.BatchPending).
		Order("created_at DESC").
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (br *batchRepo) ClaimCAS(ctx context.Context, tx *gorm.DB, batchID, mentorID uuid.UUID, now time.Time) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}

	res := transaction.WithContext(ctx).
		Model(&types.MatchBatch{}).
		Where("id = ? AND status = ?", batchID, types.BatchPending).
		Updates(map[string]any{
			"status":     types.BatchClaimed,
			"claimed_by": mentorID,
			"claimed_at": now,
			"updated_at": now,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (br *batchRepo) ExpireByIDCAS(ctx context.Context, tx *gorm.DB, batchID uuid.UUID, now time.Time) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}

	res := transaction.WithContext(ctx).
		Model(&types.MatchBatch{}).
		Where("id = ? AND status = ?", batchID, types.BatchPending).
		Updates(map[string]any{
			"status":     types.BatchExpired,
			"updated_at": now,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (br *batchRepo) ExpirePending(ctx context.Context, tx *gorm.DB, now time.Time) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}

	res := transaction.WithContext(ctx).
		Model(&types.MatchBatch{}).
		Where("status = ? AND expires_at <= ?", types.BatchPending, now).
		Updates(map[string]any{
			"status":     types.BatchExpired,
			"updated_at": now,
		})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
