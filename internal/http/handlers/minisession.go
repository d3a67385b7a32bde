package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/mentorbridge-backend/internal/data/repos"
	types "github.com/yungbote/mentorbridge-backend/internal/domain"
	"github.com/yungbote/mentorbridge-backend/internal/http/response"
	"github.com/yungbote/mentorbridge-backend/internal/platform/ctxutil"
	"github.com/yungbote/mentorbridge-backend/internal/platform/logger"
	"github.com/yungbote/mentorbridge-backend/internal/services"
)

type MiniSessionHandler struct {
	log      *logger.Logger
	sessions services.MiniSessionService
}

func NewMiniSessionHandler(log *logger.Logger, sessions services.MiniSessionService) *MiniSessionHandler {
	return &MiniSessionHandler{
		log:      log.With("handler", "MiniSessionHandler"),
		sessions: sessions,
	}
}

// POST /api/mini-sessions
func (h *MiniSessionHandler) Create(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	var input services.MiniSessionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	req, err := h.sessions.CreateRequest(c.Request.Context(), rd.UserID, input)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondCreated(c, req)
}

// GET /api/mini-sessions/open
func (h *MiniSessionHandler) ListOpen(c *gin.Context) {
	filter := repos.MiniSessionFilter{
		SessionType: types.SessionType(c.Query("session_type")),
		Query:       c.Query("q"),
	}

	requests, err := h.sessions.ListOpen(c.Request.Context(), filter)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"requests": requests})
}

// GET /api/mini-sessions/:id
func (h *MiniSessionHandler) Get(c *gin.Context) {
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil || requestID == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request_id", err)
		return
	}

	req, err := h.sessions.GetRequest(c.Request.Context(), requestID)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, req)
}

// POST /api/mini-sessions/:id/claim
func (h *MiniSessionHandler) Claim(c *gin.Context) {
	h.mentorAction(c, h.sessions.Claim)
}

// POST /api/mini-sessions/:id/schedule
func (h *MiniSessionHandler) Schedule(c *gin.Context) {
	h.mentorAction(c, h.sessions.Schedule)
}

// POST /api/mini-sessions/:id/complete
func (h *MiniSessionHandler) Complete(c *gin.Context) {
	h.mentorAction(c, h.sessions.Complete)
}

func (h *MiniSessionHandler) mentorAction(c *gin.Context, action func(ctx context.Context, requestID, mentorID uuid.UUID) (*types.MiniSessionRequest, error)) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil || requestID == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request_id", err)
		return
	}

	req, err := action(c.Request.Context(), requestID, rd.UserID)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, req)
}
