package minisession

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/mentorbridge-backend/internal/domain"
	"github.com/yungbote/mentorbridge-backend/internal/platform/logger"
)

// ListFilter narrows the open pool. Query matches title or description.
type ListFilter struct {
	SessionType types.SessionType
	Query       string
}

type RequestRepo interface {
	Create(ctx context.Context, tx *gorm.DB, req *types.MiniSessionRequest) (*types.MiniSessionRequest, error)
	GetByID(ctx context.Context, tx *gorm.DB, requestID uuid.UUID) (*types.MiniSessionRequest, error)
	ListOpen(ctx context.Context, tx *gorm.DB, filter ListFilter, now time.Time) ([]*types.MiniSessionRequest, error)
	// ClaimCAS flips open -> claimed for exactly one mentor, and only while
	// the request is inside its window.
	ClaimCAS(ctx context.Context, tx *gorm.DB, requestID, mentorID uuid.UUID, now time.Time) (bool, error)
	// TransitionCAS moves between post-claim statuses (claimed -> scheduled,
	// scheduled -> completed).
	TransitionCAS(ctx context.Context, tx *gorm.DB, requestID uuid.UUID, from, to types.MiniSessionStatus, now time.Time) (bool, error)
	ExpireOpenPast(ctx context.Context, tx *gorm.DB, now time.Time) (int64, error)
}

type requestRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRequestRepo(db *gorm.DB, baseLog *logger.Logger) RequestRepo {
	repoLog := baseLog.With("repo", "MiniSessionRequestRepo")
	return &requestRepo{db: db, log: repoLog}
}

func (rr *requestRepo) Create(ctx context.Context, tx *gorm.DB, req *types.MiniSessionRequest) (*types.MiniSessionRequest, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	if req == nil {
		return nil, nil
	}

	if err := transaction.WithContext(ctx).Create(req).Error; err != nil {
		return nil, err
	}
	return req, nil
}

func (rr *requestRepo) GetByID(ctx context.Context, tx *gorm.DB, requestID uuid.UUID) (*types.MiniSessionRequest, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var result types.MiniSessionRequest
	err := transaction.WithContext(ctx).
		Where("id = ?", requestID).
		First(&result).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (rr *requestRepo) ListOpen(ctx context.Context, tx *gorm.DB, filter ListFilter, now time.Time) ([]*types.MiniSessionRequest, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	q := transaction.WithContext(ctx).
		Where("status = ? AND expires_at > ?", types.MiniSessionOpen, now)
	if filter.SessionType != "" {
		q = q.Where("session_type = ?", filter.SessionType)
	}
	if text := strings.TrimSpace(filter.Query); text != "" {
		pattern := "%" + strings.ToLower(text) + "%"
		q = q.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}

	var results []*types.MiniSessionRequest
	if err := q.Order("created_at DESC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (rr *requestRepo) ClaimCAS(ctx context.Context, tx *gorm.DB, requestID, mentorID uuid.UUID, now time.Time) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	res := transaction.WithContext(ctx).
		Model(&types.MiniSessionRequest{}).
		Where("id = ? AND status = ? AND expires_at > ?", requestID, types.MiniSessionOpen, now).
		Updates(map[string]any{
			"status":               types.MiniSessionClaimed,
			"claimed_by_mentor_id": mentorID,
			"claimed_at":           now,
			"updated_at":           now,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (rr *requestRepo) TransitionCAS(ctx context.Context, tx *gorm.DB, requestID uuid.UUID, from, to types.MiniSessionStatus, now time.Time) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	res := transaction.WithContext(ctx).
		Model(&types.MiniSessionRequest{}).
		Where("id = ? AND status = ?", requestID, from).
		Updates(map[string]any{
			"status":     to,
			"updated_at": now,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (rr *requestRepo) ExpireOpenPast(ctx context.Context, tx *gorm.DB, now time.Time) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	res := transaction.WithContext(ctx).
		Model(&types.MiniSessionRequest{}).
		Where("status = ? AND expires_at <= ?", types.MiniSessionOpen, now).
		Updates(map[string]any{
			"status":     types.MiniSessionExpired,
			"updated_at": now,
		})
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
