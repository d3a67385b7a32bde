package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/mentorbridge-backend/internal/data/repos"
	types "github.com/yungbote/mentorbridge-backend/internal/domain"
	domerrors "github.com/yungbote/mentorbridge-backend/internal/pkg/errors"
	"github.com/yungbote/mentorbridge-backend/internal/platform/logger"
)

type MiniSessionConfig struct {
	RequestTTL time.Duration
}

type MiniSessionInput struct {
	Title              string            `json:"title" binding:"required"`
	Description        string            `json:"description"`
	SessionType        types.SessionType `json:"session_type" binding:"required"`
	DurationMinutes    int               `json:"duration_minutes" binding:"required"`
	Urgency            types.Urgency     `json:"urgency"`
	PreferredDateStart *time.Time        `json:"preferred_date_start,omitempty"`
	PreferredDateEnd   *time.Time        `json:"preferred_date_end,omitempty"`
}

// MiniSessionService runs the lightweight one-off session pool. Requests
// are posted by students, claimed first-wins by any mentor, and never count
// against long-term mentee capacity.
type MiniSessionService interface {
	CreateRequest(ctx context.Context, studentID uuid.UUID, input MiniSessionInput) (*types.MiniSessionRequest, error)
	GetRequest(ctx context.Context, requestID uuid.UUID) (*types.MiniSessionRequest, error)
	ListOpen(ctx context.Context, filter repos.MiniSessionFilter) ([]*types.MiniSessionRequest, error)
	Claim(ctx context.Context, requestID, mentorID uuid.UUID) (*types.MiniSessionRequest, error)
	Schedule(ctx context.Context, requestID, mentorID uuid.UUID) (*types.MiniSessionRequest, error)
	Complete(ctx context.Context, requestID, mentorID uuid.UUID) (*types.MiniSessionRequest, error)
}

type miniSessionService struct {
	log      *logger.Logger
	requests repos.MiniSessionRepo
	students repos.StudentRepo
	mentors  repos.MentorRepo
	ttl      time.Duration
}

func NewMiniSessionService(
	log *logger.Logger,
	requests repos.MiniSessionRepo,
	students repos.StudentRepo,
	mentors repos.MentorRepo,
	cfg MiniSessionConfig,
) MiniSessionService {
	ttl := cfg.RequestTTL
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	return &miniSessionService{
		log:      log.With("service", "MiniSessionService"),
		requests: requests,
		students: students,
		mentors:  mentors,
		ttl:      ttl,
	}
}

func (ms *miniSessionService) CreateRequest(ctx context.Context, studentID uuid.UUID, input MiniSessionInput) (*types.MiniSessionRequest, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", domerrors.ErrValidation)
	}
	if !input.SessionType.Valid() {
		return nil, fmt.Errorf("%w: unknown session_type %q", domerrors.ErrValidation, input.SessionType)
	}
	if !types.ValidMiniSessionDuration(input.DurationMinutes) {
		return nil, fmt.Errorf("%w: duration_minutes must be 30, 45 or 60", domerrors.ErrValidation)
	}
	urgency := input.Urgency
	if urgency == "" {
		urgency = types.UrgencyNormal
	}
	if !urgency.Valid() {
		return nil, fmt.Errorf("%w: unknown urgency %q", domerrors.ErrValidation, urgency)
	}
	if input.PreferredDateStart != nil && input.PreferredDateEnd != nil &&
		input.PreferredDateEnd.Before(*input.PreferredDateStart) {
		return nil, fmt.Errorf("%w: preferred_date_end is before preferred_date_start", domerrors.ErrValidation)
	}

	student, err := ms.students.GetByID(ctx, nil, studentID)
	if err != nil {
		return nil, err
	}
	if student == nil {
		return nil, domerrors.ErrNotFound
	}

	now := time.Now()
	expiresAt := now.Add(ms.ttl)
	if input.PreferredDateEnd != nil {
		if !input.PreferredDateEnd.After(now) {
			return nil, fmt.Errorf("%w: preferred_date_end is in the past", domerrors.ErrValidation)
		}
		expiresAt = *input.PreferredDateEnd
	}

	created, err := ms.requests.Create(ctx, nil, &types.MiniSessionRequest{
		ID:                       uuid.New(),
		StudentID:                studentID,
		Title:                    strings.TrimSpace(input.Title),
		Description:              input.Description,
		SessionType:              input.SessionType,
		PreferredDurationMinutes: input.DurationMinutes,
		Urgency:                  urgency,
		PreferredDateStart:       input.PreferredDateStart,
		PreferredDateEnd:         input.PreferredDateEnd,
		Status:                   types.MiniSessionOpen,
		ExpiresAt:                expiresAt,
	})
	if err != nil {
		return nil, err
	}
	ms.log.Info("mini session posted",
		"request_id", created.ID.String(),
		"session_type", string(created.SessionType),
		"urgency", string(created.Urgency),
	)
	return created, nil
}

func (ms *miniSessionService) GetRequest(ctx context.Context, requestID uuid.UUID) (*types.MiniSessionRequest, error) {
	req, err := ms.requests.GetByID(ctx, nil, requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, domerrors.ErrNotFound
	}
	return req, nil
}

func (ms *miniSessionService) ListOpen(ctx context.Context, filter repos.MiniSessionFilter) ([]*types.MiniSessionRequest, error) {
	return ms.requests.ListOpen(ctx, nil, filter, time.Now())
}

func (ms *miniSessionService) Claim(ctx context.Context, requestID, mentorID uuid.UUID) (*types.MiniSessionRequest, error) {
	mentor, err := ms.mentors.GetByID(ctx, nil, mentorID)
	if err != nil {
		return nil, err
	}
	if mentor == nil {
		return nil, domerrors.ErrNotFound
	}

	now := time.Now()
	won, err := ms.requests.ClaimCAS(ctx, nil, requestID, mentorID, now)
	if err != nil {
		return nil, err
	}
	if !won {
		// Distinguish a lost race from a stale or missing request.
		req, err := ms.requests.GetByID(ctx, nil, requestID)
		if err != nil {
			return nil, err
		}
		if req == nil {
			return nil, domerrors.ErrNotFound
		}
		if req.Status == types.MiniSessionExpired ||
			(req.Status == types.MiniSessionOpen && !req.ExpiresAt.After(now)) {
			return nil, domerrors.ErrExpired
		}
		return nil, domerrors.ErrAlreadyClaimed
	}

	ms.log.Info("mini session claimed",
		"request_id", requestID.String(),
		"mentor_id", mentorID.String(),
	)
	return ms.requests.GetByID(ctx, nil, requestID)
}

func (ms *miniSessionService) Schedule(ctx context.Context, requestID, mentorID uuid.UUID) (*types.MiniSessionRequest, error) {
	return ms.transition(ctx, requestID, mentorID, types.MiniSessionClaimed, types.MiniSessionScheduled)
}

func (ms *miniSessionService) Complete(ctx context.Context, requestID, mentorID uuid.UUID) (*types.MiniSessionRequest, error) {
	return ms.transition(ctx, requestID, mentorID, types.MiniSessionScheduled, types.MiniSessionCompleted)
}

func (ms *miniSessionService) transition(ctx context.Context, requestID, mentorID uuid.UUID, from, to types.MiniSessionStatus) (*types.MiniSessionRequest, error) {
	req, err := ms.requests.GetByID(ctx, nil, requestID)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, domerrors.ErrNotFound
	}
	if req.ClaimedByMentorID == nil || *req.ClaimedByMentorID != mentorID {
		return nil, fmt.Errorf("%w: session belongs to another mentor", domerrors.ErrValidation)
	}

	moved, err := ms.requests.TransitionCAS(ctx, nil, requestID, from, to, time.Now())
	if err != nil {
		return nil, err
	}
	if !moved {
		return nil, fmt.Errorf("%w: session is not %s", domerrors.ErrValidation, from)
	}
	return ms.requests.GetByID(ctx, nil, requestID)
}
