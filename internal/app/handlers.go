package app

import (
	httpH "github.com/yungbote/mentorbridge-backend/internal/http/handlers"
	"github.com/yungbote/mentorbridge-backend/internal/platform/logger"
)

type Handlers struct {
	Matching    *httpH.MatchingHandler
	Ledger      *httpH.LedgerHandler
	MiniSession *httpH.MiniSessionHandler
	Health      *httpH.HealthHandler
}

func wireHandlers(log *logger.Logger, serviceset Services, reposet Repos) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Matching:    httpH.NewMatchingHandler(log, serviceset.Allocator, serviceset.Arbiter, serviceset.Lifecycle, reposet.Match),
		Ledger:      httpH.NewLedgerHandler(log, serviceset.Ledger),
		MiniSession: httpH.NewMiniSessionHandler(log, serviceset.MiniSession),
		Health:      httpH.NewHealthHandler(),
	}
}
