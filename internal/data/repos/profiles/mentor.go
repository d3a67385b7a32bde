package profiles

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/mentorbridge-backend/internal/domain"
	"github.com/yungbote/mentorbridge-backend/internal/platform/logger"
)

type MentorRepo interface {
	Create(ctx context.Context, tx *gorm.DB, mentors []*types.MentorProfile) ([]*types.MentorProfile, error)
	GetByID(ctx context.Context, tx *gorm.DB, mentorID uuid.UUID) (*types.MentorProfile, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, mentorIDs []uuid.UUID) ([]*types.MentorProfile, error)
	ListAll(ctx context.Context, tx *gorm.DB) ([]*types.MentorProfile, error)
	SetMatchingPool(ctx context.Context, tx *gorm.DB, mentorID uuid.UUID, inPool bool) error
	// IncrementMenteesIfBelowCap is the capacity guard: false means the
	// mentor had no free slot and nothing was changed.
	IncrementMenteesIfBelowCap(ctx context.Context, tx *gorm.DB, mentorID uuid.UUID) (bool, error)
	DecrementMentees(ctx context.Context, tx *gorm.DB, mentorID uuid.UUID) error
}

type mentorRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMentorRepo(db *gorm.DB, baseLog *logger.Logger) MentorRepo {
	repoLog := baseLog.With("repo", "MentorRepo")
	return &mentorRepo{db: db, log: repoLog}
}

func (mr *mentorRepo) Create(ctx context.Context, tx *gorm.DB, mentors []*types.MentorProfile) ([]*types.MentorProfile, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	if len(mentors) == 0 {
		return []*types.MentorProfile{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&mentors).Error; err != nil {
		return nil, err
	}
	return mentors, nil
}

func (mr *mentorRepo) GetByID(ctx context.Context, tx *gorm.DB, mentorID uuid.UUID) (*types.MentorProfile, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	var result types.MentorProfile
	err := transaction.WithContext(ctx).
		Where("id = ?", mentorID).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (mr *mentorRepo) GetByIDs(ctx context.Context, tx *gorm.DB, mentorIDs []uuid.UUID) ([]*types.MentorProfile, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	var results []*types.MentorProfile
	if len(mentorIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", mentorIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (mr *mentorRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.MentorProfile, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	var results []*types.MentorProfile
	if err := transaction.WithContext(ctx).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (mr *mentorRepo) SetMatchingPool(ctx context.Context, tx *gorm.DB, mentorID uuid.UUID, inPool bool) error {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	return transaction.WithContext(ctx).
		Model(&types.MentorProfile{}).
		Where("id = ?", mentorID).
		Update("in_matching_pool", inPool).Error
}

func (mr *mentorRepo) IncrementMenteesIfBelowCap(ctx context.Context, tx *gorm.DB, mentorID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	res := transaction.WithContext(ctx).
		Model(&types.MentorProfile{}).
		Where("id = ? AND current_mentees < max_mentees", mentorID).
		Updates(map[string]any{
			"current_mentees": gorm.Expr("current_mentees + 1"),
			"updated_at":      time.Now(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (mr *mentorRepo) DecrementMentees(ctx context.Context, tx *gorm.DB, mentorID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	return transaction.WithContext(ctx).
		Model(&types.MentorProfile{}).
		Where("id = ? AND current_mentees > 0", mentorID).
		Updates(map[string]any{
			"current_mentees": gorm.Expr("current_mentees - 1"),
			"updated_at":      time.Now(),
		}).Error
}
