package services

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/mentorbridge-backend/internal/data/db"
	"github.com/yungbote/mentorbridge-backend/internal/data/repos"
	"github.com/yungbote/mentorbridge-backend/internal/platform/logger"
)

// Advisory lock key for the sweep. One instance sweeps at a time.
const sweepLockKey int64 = 0x6d62_7377 // "mbsw"

type SweeperConfig struct {
	Interval time.Duration
}

// SweeperService periodically retires overdue batches and mini session
// requests and refreshes match health. TTL checks on the read and claim
// paths already treat overdue rows as expired, so the sweep only has to
// converge stored state, not enforce correctness.
type SweeperService interface {
	Start(ctx context.Context)
	RunOnce(ctx context.Context) error
}

type sweeperService struct {
	log       *logger.Logger
	locker    *db.AdvisoryLocker
	batches   repos.BatchRepo
	sessions  repos.MiniSessionRepo
	lifecycle LifecycleService
	interval  time.Duration
}

func NewSweeperService(
	log *logger.Logger,
	locker *db.AdvisoryLocker,
	batches repos.BatchRepo,
	sessions repos.MiniSessionRepo,
	lifecycle LifecycleService,
	cfg SweeperConfig,
) SweeperService {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &sweeperService{
		log:       log.With("service", "SweeperService"),
		locker:    locker,
		batches:   batches,
		sessions:  sessions,
		lifecycle: lifecycle,
		interval:  interval,
	}
}

// Start blocks until ctx is cancelled. Run it on its own goroutine.
func (sw *sweeperService) Start(ctx context.Context) {
	ticker := time.NewTicker(sw.interval)
	defer ticker.Stop()

	sw.log.Info("sweeper started", "interval", sw.interval.String())
	for {
		select {
		case <-ctx.Done():
			sw.log.Info("sweeper stopped")
			return
		case <-ticker.C:
			if err := sw.RunOnce(ctx); err != nil {
				sw.log.Warn("sweep pass failed", "error", err)
			}
		}
	}
}

func (sw *sweeperService) RunOnce(ctx context.Context) error {
	if sw.locker != nil {
		locked, unlock, err := sw.locker.TryLock(ctx, sweepLockKey)
		if err != nil {
			return err
		}
		if !locked {
			sw.log.Debug("sweep skipped, another instance holds the lock")
			return nil
		}
		defer unlock()
	}

	now := time.Now()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		expired, err := sw.batches.ExpirePending(gctx, nil, now)
		if err != nil {
			return err
		}
		if expired > 0 {
			sw.log.Info("expired overdue batches", "count", expired)
		}
		return nil
	})
	g.Go(func() error {
		expired, err := sw.sessions.ExpireOpenPast(gctx, nil, now)
		if err != nil {
			return err
		}
		if expired > 0 {
			sw.log.Info("expired overdue mini sessions", "count", expired)
		}
		return nil
	})
	g.Go(func() error {
		evaluated, err := sw.lifecycle.EvaluateAll(gctx)
		if err != nil {
			return err
		}
		sw.log.Debug("health pass complete", "evaluated", evaluated)
		return nil
	})

	return g.Wait()
}
