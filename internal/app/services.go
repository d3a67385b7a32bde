package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/mentorbridge-backend/internal/data/db"
	"github.com/yungbote/mentorbridge-backend/internal/platform/logger"
	"github.com/yungbote/mentorbridge-backend/internal/services"
)

type Services struct {
	Indexer     services.ProfileIndexer
	Scorer      services.ScorerService
	Allocator   services.AllocatorService
	Arbiter     services.ArbiterService
	Lifecycle   services.LifecycleService
	Ledger      services.LedgerService
	MiniSession services.MiniSessionService
	Sweeper     services.SweeperService
}

func wireServices(theDB *gorm.DB, log *logger.Logger, cfg Config, clients Clients, reposet Repos, locker *db.AdvisoryLocker) Services {
	log.Info("Wiring services...")

	indexer := services.NewProfileIndexer(log, clients.Similarity, clients.ScoreCache, reposet.Student, reposet.Mentor)
	scorer := services.NewScorerService(log, clients.Similarity, clients.ScoreCache, reposet.Student, reposet.Mentor, cfg.Scoring)

	allocator := services.NewAllocatorService(log, scorer, reposet.Student, reposet.Mentor, reposet.Batch, reposet.Match, services.AllocatorConfig{
		BatchTTL: cfg.BatchTTL,
	})
	arbiter := services.NewArbiterService(log, theDB, reposet.Batch, reposet.Match, reposet.Mentor)

	lifecycle := services.NewLifecycleService(log, theDB, reposet.Match, reposet.Feedback, reposet.Mentor, services.LifecycleConfig{
		RiskWindowDays:      cfg.RiskWindowDays,
		RecentFeedbackCount: cfg.RecentFeedbackCount,
		RiskRatingThreshold: cfg.RiskRatingThreshold,
	})
	ledger := services.NewLedgerService(log, theDB, reposet.Match, reposet.Meeting, reposet.Feedback, lifecycle)

	miniSession := services.NewMiniSessionService(log, reposet.MiniSession, reposet.Student, reposet.Mentor, services.MiniSessionConfig{
		RequestTTL: cfg.MiniSessionTTL,
	})

	sweeper := services.NewSweeperService(log, locker, reposet.Batch, reposet.MiniSession, lifecycle, services.SweeperConfig{
		Interval: cfg.SweepInterval,
	})

	return Services{
		Indexer:     indexer,
		Scorer:      scorer,
		Allocator:   allocator,
		Arbiter:     arbiter,
		Lifecycle:   lifecycle,
		Ledger:      ledger,
		MiniSession: miniSession,
		Sweeper:     sweeper,
	}
}
