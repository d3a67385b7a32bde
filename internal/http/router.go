package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/mentorbridge-backend/internal/http/handlers"
	httpMW "github.com/yungbote/mentorbridge-backend/internal/http/middleware"
	"github.com/yungbote/mentorbridge-backend/internal/platform/logger"
)

type RouterConfig struct {
	ServiceName  string
	AllowOrigins []string
	Log          *logger.Logger

	AuthMiddleware *httpMW.AuthMiddleware

	MatchingHandler    *httpH.MatchingHandler
	LedgerHandler      *httpH.LedgerHandler
	MiniSessionHandler *httpH.MiniSessionHandler
	HealthHandler      *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS(cfg.AllowOrigins))

	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	if cfg.AuthMiddleware != nil {
		api.Use(cfg.AuthMiddleware.RequireAuth())
	}

	if cfg.MatchingHandler != nil {
		matching := api.Group("/matching")
		matching.POST("/request", cfg.MatchingHandler.RequestMentor)
		matching.GET("/batch", cfg.MatchingHandler.GetBatch)
		matching.POST("/batches/:id/claim", cfg.MatchingHandler.ClaimBatch)
		if cfg.AuthMiddleware != nil {
			matching.POST("/batches/:id/select", cfg.AuthMiddleware.RequireRole("admin"), cfg.MatchingHandler.AdminSelect)
		} else {
			matching.POST("/batches/:id/select", cfg.MatchingHandler.AdminSelect)
		}
		matching.GET("/matches/:id", cfg.MatchingHandler.GetMatch)
		matching.POST("/matches/:id/complete", cfg.MatchingHandler.CompleteMatch)
		matching.POST("/matches/:id/dissolve", cfg.MatchingHandler.DissolveMatch)

		if cfg.LedgerHandler != nil {
			matching.POST("/matches/:id/meetings", cfg.LedgerHandler.LogMeeting)
			matching.GET("/matches/:id/meetings", cfg.LedgerHandler.ListMeetings)
			matching.POST("/matches/:id/feedback", cfg.LedgerHandler.SubmitFeedback)
			matching.GET("/matches/:id/feedback", cfg.LedgerHandler.ListFeedback)
		}
	}

	if cfg.MiniSessionHandler != nil {
		sessions := api.Group("/mini-sessions")
		sessions.POST("", cfg.MiniSessionHandler.Create)
		sessions.GET("/open", cfg.MiniSessionHandler.ListOpen)
		sessions.GET("/:id", cfg.MiniSessionHandler.Get)
		sessions.POST("/:id/claim", cfg.MiniSessionHandler.Claim)
		sessions.POST("/:id/schedule", cfg.MiniSessionHandler.Schedule)
		sessions.POST("/:id/complete", cfg.MiniSessionHandler.Complete)
	}

	return r
}
