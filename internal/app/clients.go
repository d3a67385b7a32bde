package app

import (
	"fmt"

	"github.com/yungbote/mentorbridge-backend/internal/clients/rediscache"
	"github.com/yungbote/mentorbridge-backend/internal/clients/similarity"
	"github.com/yungbote/mentorbridge-backend/internal/platform/logger"
)

type Clients struct {
	Similarity similarity.Client
	ScoreCache rediscache.ScoreCache
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	oracle, err := similarity.New(log, similarity.Config{
		APIKey:  cfg.SimilarityAPIKey,
		BaseURL: cfg.SimilarityBaseURL,
		Timeout: cfg.SimilarityTimeout,
	})
	if err != nil {
		return Clients{}, fmt.Errorf("init similarity client: %w", err)
	}

	// Scoring works without the cache, every miss just hits the oracle.
	cache, err := rediscache.NewScoreCache(log)
	if err != nil {
		log.Warn("redis score cache unavailable, scoring uncached", "error", err)
		cache = nil
	}

	return Clients{
		Similarity: oracle,
		ScoreCache: cache,
	}, nil
}
