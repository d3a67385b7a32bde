package rediscache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	types "github.com/yungbote/mentorbridge-backend/internal/domain"
	"github.com/yungbote/mentorbridge-backend/internal/platform/envutil"
	"github.com/yungbote/mentorbridge-backend/internal/platform/logger"
)

// ScoreCache keeps recent scorer results so repeated mentor requests do not
// hammer the similarity oracle. Best effort: every error degrades to a miss.
type ScoreCache interface {
	Get(ctx context.Context, profileID uuid.UUID, role types.Role) ([]types.CandidateScore, bool)
	Set(ctx context.Context, profileID uuid.UUID, role types.Role, scores []types.CandidateScore)
	Invalidate(ctx context.Context, profileID uuid.UUID)
	Close() error
}

type scoreCache struct {
	log *logger.Logger
	rdb *goredis.Client
	ttl time.Duration
}

func NewScoreCache(log *logger.Logger) (ScoreCache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(envutil.GetEnv("REDIS_ADDR", "", log))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	ttl := envutil.GetEnvAsDuration("SCORE_CACHE_TTL", 10*time.Minute, log)

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &scoreCache{
		log: log.With("service", "ScoreCache"),
		rdb: rdb,
		ttl: ttl,
	}, nil
}

func (c *scoreCache) Get(ctx context.Context, profileID uuid.UUID, role types.Role) ([]types.CandidateScore, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, cacheKey(profileID, role)).Bytes()
	if err != nil {
		if err != goredis.Nil {
			c.log.Warn("score cache get failed", "error", err)
		}
		return nil, false
	}
	var scores []types.CandidateScore
	if err := json.Unmarshal(raw, &scores); err != nil {
		c.log.Warn("score cache decode failed", "error", err)
		return nil, false
	}
	return scores, true
}

func (c *scoreCache) Set(ctx context.Context, profileID uuid.UUID, role types.Role, scores []types.CandidateScore) {
	if c == nil || c.rdb == nil {
		return
	}
	raw, err := json.Marshal(scores)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, cacheKey(profileID, role), raw, c.ttl).Err(); err != nil {
		c.log.Warn("score cache set failed", "error", err)
	}
}

func (c *scoreCache) Invalidate(ctx context.Context, profileID uuid.UUID) {
	if c == nil || c.rdb == nil {
		return
	}
	keys := []string{
		cacheKey(profileID, types.RoleStudent),
		cacheKey(profileID, types.RoleMentor),
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn("score cache invalidate failed", "error", err)
	}
}

func (c *scoreCache) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

func cacheKey(profileID uuid.UUID, role types.Role) string {
	return "mb:scores:" + string(role) + ":" + profileID.String()
}
