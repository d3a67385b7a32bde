package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/mentorbridge-backend/internal/data/repos"
	types "github.com/yungbote/mentorbridge-backend/internal/domain"
	domerrors "github.com/yungbote/mentorbridge-backend/internal/pkg/errors"
	"github.com/yungbote/mentorbridge-backend/internal/platform/logger"
)

type LifecycleConfig struct {
	RiskWindowDays      int
	RecentFeedbackCount int
	RiskRatingThreshold float64
}

type HealthReport struct {
	HealthScore      int      `json:"health_score"`
	IsAtRisk         bool     `json:"is_at_risk"`
	AtRiskReason     *string  `json:"at_risk_reason,omitempty"`
	DaysSinceContact int      `json:"days_since_contact"`
	MeanRecentRating *float64 `json:"mean_recent_rating,omitempty"`
}

// LifecycleService annotates matches with health state and handles the
// explicit terminal transitions. It never dissolves a match on its own.
type LifecycleService interface {
	Evaluate(ctx context.Context, matchID uuid.UUID) (*HealthReport, error)
	EvaluateAll(ctx context.Context) (int, error)
	Complete(ctx context.Context, matchID uuid.UUID, actor string) (*types.ActiveMatch, error)
	Dissolve(ctx context.Context, matchID uuid.UUID, actor string) (*types.ActiveMatch, error)
}

type lifecycleService struct {
	log      *logger.Logger
	db       *gorm.DB
	matches  repos.MatchRepo
	feedback repos.FeedbackRepo
	mentors  repos.MentorRepo
	cfg      LifecycleConfig
}

func NewLifecycleService(
	log *logger.Logger,
	db *gorm.DB,
	matches repos.MatchRepo,
	feedback repos.FeedbackRepo,
	mentors repos.MentorRepo,
	cfg LifecycleConfig,
) LifecycleService {
	if cfg.RiskWindowDays <= 0 {
		cfg.RiskWindowDays = 30
	}
	if cfg.RecentFeedbackCount <= 0 {
		cfg.RecentFeedbackCount = 3
	}
	if cfg.RiskRatingThreshold <= 0 {
		cfg.RiskRatingThreshold = 3
	}
	return &lifecycleService{
		log:      log.With("service", "LifecycleService"),
		db:       db,
		matches:  matches,
		feedback: feedback,
		mentors:  mentors,
		cfg:      cfg,
	}
}

func (ls *lifecycleService) Evaluate(ctx context.Context, matchID uuid.UUID) (*HealthReport, error) {
	match, err := ls.matches.GetByID(ctx, nil, matchID)
	if err != nil {
		return nil, err
	}
	if match == nil {
		return nil, domerrors.ErrNotFound
	}

	recent, err := ls.feedback.ListRecentByMatch(ctx, nil, matchID, ls.cfg.RecentFeedbackCount)
	if err != nil {
		return nil, err
	}
	ratings := make([]int, 0, len(recent))
	for _, f := range recent {
		ratings = append(ratings, f.Rating)
	}

	report := computeHealth(time.Now(), match.MatchedAt, match.LastMeetingAt, ratings, ls.cfg)

	if match.Status == types.MatchActive {
		health := report.HealthScore
		if err := ls.matches.UpdateHealth(ctx, nil, matchID, &health, report.IsAtRisk, report.AtRiskReason); err != nil {
			return nil, err
		}
	}
	return report, nil
}

func (ls *lifecycleService) EvaluateAll(ctx context.Context) (int, error) {
	active, err := ls.matches.ListActive(ctx, nil)
	if err != nil {
		return 0, err
	}
	evaluated := 0
	for _, m := range active {
		if _, err := ls.Evaluate(ctx, m.ID); err != nil {
			ls.log.Warn("health evaluation failed", "match_id", m.ID.String(), "error", err)
			continue
		}
		evaluated++
	}
	return evaluated, nil
}

func (ls *lifecycleService) Complete(ctx context.Context, matchID uuid.UUID, actor string) (*types.ActiveMatch, error) {
	return ls.close(ctx, matchID, types.MatchCompleted, actor)
}

func (ls *lifecycleService) Dissolve(ctx context.Context, matchID uuid.UUID, actor string) (*types.ActiveMatch, error) {
	return ls.close(ctx, matchID, types.MatchDissolved, actor)
}

func (ls *lifecycleService) close(ctx context.Context, matchID uuid.UUID, status types.MatchStatus, actor string) (*types.ActiveMatch, error) {
	match, err := ls.matches.GetByID(ctx, nil, matchID)
	if err != nil {
		return nil, err
	}
	if match == nil {
		return nil, domerrors.ErrNotFound
	}

	now := time.Now()
	err = ls.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		closed, err := ls.matches.CloseCAS(ctx, tx, matchID, status, actor, now)
		if err != nil {
			return err
		}
		if !closed {
			return fmt.Errorf("%w: match is not active", domerrors.ErrValidation)
		}
		// Ending a long-term match frees one mentee slot.
		return ls.mentors.DecrementMentees(ctx, tx, match.MentorID)
	})
	if err != nil {
		return nil, err
	}

	ls.log.Info("match closed",
		"match_id", matchID.String(),
		"status", string(status),
		"ended_by", actor,
	)
	return ls.matches.GetByID(ctx, nil, matchID)
}

// computeHealth derives the advisory health annotations. Both outputs are
// monotone: health never rises as days-without-contact grows, and never
// falls as the mean recent rating grows.
func computeHealth(now, matchedAt time.Time, lastMeetingAt *time.Time, recentRatings []int, cfg LifecycleConfig) *HealthReport {
	anchor := matchedAt
	if lastMeetingAt != nil && lastMeetingAt.After(anchor) {
		anchor = *lastMeetingAt
	}
	days := int(now.Sub(anchor).Hours() / 24)
	if days < 0 {
		days = 0
	}

	var reasons []string
	if days > cfg.RiskWindowDays {
		reasons = append(reasons, fmt.Sprintf("no recent contact for %d days", days))
	}

	var meanRating *float64
	if len(recentRatings) > 0 {
		sum := 0
		for _, r := range recentRatings {
			sum += r
		}
		mean := float64(sum) / float64(len(recentRatings))
		meanRating = &mean
		if mean < cfg.RiskRatingThreshold {
			reasons = append(reasons, fmt.Sprintf("low recent feedback (avg %.1f)", mean))
		}
	}

	// Recency maps linearly from 5 at zero days to 1 at twice the risk window.
	horizon := float64(cfg.RiskWindowDays * 2)
	recency := 5 - 4*math.Min(float64(days), horizon)/horizon

	blended := recency
	if meanRating != nil {
		blended = (recency + *meanRating) / 2
	}
	health := int(math.Round(blended))
	if health < 1 {
		health = 1
	}
	if health > 5 {
		health = 5
	}

	report := &HealthReport{
		HealthScore:      health,
		IsAtRisk:         len(reasons) > 0,
		DaysSinceContact: days,
		MeanRecentRating: meanRating,
	}
	if len(reasons) > 0 {
		joined := strings.Join(reasons, "; ")
		report.AtRiskReason = &joined
	}
	return report
}
