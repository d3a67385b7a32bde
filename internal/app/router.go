package app

import (
	"github.com/gin-gonic/gin"

	internalhttp "github.com/yungbote/mentorbridge-backend/internal/http"
	"github.com/yungbote/mentorbridge-backend/internal/platform/logger"
)

func wireRouter(log *logger.Logger, cfg Config, handlerset Handlers, middleware Middleware) *gin.Engine {
	return internalhttp.NewRouter(internalhttp.RouterConfig{
		ServiceName:  cfg.ServiceName,
		AllowOrigins: cfg.AllowOrigins,
		Log:          log,

		AuthMiddleware: middleware.Auth,

		MatchingHandler:    handlerset.Matching,
		LedgerHandler:      handlerset.Ledger,
		MiniSessionHandler: handlerset.MiniSession,
		HealthHandler:      handlerset.Health,
	})
}
