package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yungbote/mentorbridge-backend/internal/platform/logger"
)

// AdvisoryLocker hands out session-scoped Postgres advisory locks so that
// only one instance runs a given background pass at a time.
type AdvisoryLocker struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

func NewAdvisoryLocker(log *logger.Logger, dsn string) (*AdvisoryLocker, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pgx config: %w", err)
	}
	cfg.MaxConns = 2

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("pgx pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pgx ping: %w", err)
	}

	return &AdvisoryLocker{
		pool: pool,
		log:  log.With("service", "AdvisoryLocker"),
	}, nil
}

// TryLock attempts pg_try_advisory_lock(key) and returns an unlock func on
// success. A false result means another instance holds the lock.
func (l *AdvisoryLocker) TryLock(ctx context.Context, key int64) (bool, func(), error) {
	if l == nil || l.pool == nil {
		return false, nil, fmt.Errorf("advisory locker unavailable")
	}
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return false, nil, err
	}

	var locked bool
	if err := conn.QueryRow(ctx, `SELECT pg_try_advisory_lock($1)`, key).Scan(&locked); err != nil {
		conn.Release()
		return false, nil, err
	}
	if !locked {
		conn.Release()
		return false, nil, nil
	}

	unlock := func() {
		// Best effort: the lock dies with the session anyway.
		unlockCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if _, err := conn.Exec(unlockCtx, `SELECT pg_advisory_unlock($1)`, key); err != nil {
			l.log.Warn("advisory unlock failed", "key", key, "error", err)
		}
		conn.Release()
	}
	return true, unlock, nil
}

func (l *AdvisoryLocker) Close() {
	if l != nil && l.pool != nil {
		l.pool.Close()
	}
}
