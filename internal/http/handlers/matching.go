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

type MatchingHandler struct {
	log       *logger.Logger
	allocator services.AllocatorService
	arbiter   services.ArbiterService
	lifecycle services.LifecycleService
	matches   repos.MatchRepo
}

func NewMatchingHandler(
	log *logger.Logger,
	allocator services.AllocatorService,
	arbiter services.ArbiterService,
	lifecycle services.LifecycleService,
	matches repos.MatchRepo,
) *MatchingHandler {
	return &MatchingHandler{
		log:       log.With("handler", "MatchingHandler"),
		allocator: allocator,
		arbiter:   arbiter,
		lifecycle: lifecycle,
		matches:   matches,
	}
}

// POST /api/matching/request
func (h *MatchingHandler) RequestMentor(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	batch, err := h.allocator.RequestMentor(c.Request.Context(), rd.UserID)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondCreated(c, batch)
}

// GET /api/matching/batch
func (h *MatchingHandler) GetBatch(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	batch, err := h.allocator.GetBatch(c.Request.Context(), rd.UserID)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"batch": batch})
}

// POST /api/matching/batches/:id/claim
func (h *MatchingHandler) ClaimBatch(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	batchID, err := uuid.Parse(c.Param("id"))
	if err != nil || batchID == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_batch_id", err)
		return
	}

	match, err := h.arbiter.Claim(c.Request.Context(), batchID, rd.UserID)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondCreated(c, match)
}

type adminSelectRequest struct {
	MentorID uuid.UUID `json:"mentor_id" binding:"required"`
}

// POST /api/matching/batches/:id/select
func (h *MatchingHandler) AdminSelect(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	batchID, err := uuid.Parse(c.Param("id"))
	if err != nil || batchID == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_batch_id", err)
		return
	}
	var req adminSelectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	match, err := h.arbiter.AdminSelect(c.Request.Context(), batchID, req.MentorID, rd.UserID)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondCreated(c, match)
}

// GET /api/matching/matches/:id
func (h *MatchingHandler) GetMatch(c *gin.Context) {
	matchID, err := uuid.Parse(c.Param("id"))
	if err != nil || matchID == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_match_id", err)
		return
	}

	match, err := h.matches.GetByID(c.Request.Context(), nil, matchID)
	if err != nil {
		h.log.Error("GetMatch failed", "error", err, "match_id", matchID)
		response.RespondError(c, http.StatusInternalServerError, "load_match_failed", err)
		return
	}
	if match == nil {
		response.RespondError(c, http.StatusNotFound, "match_not_found", nil)
		return
	}
	response.RespondOK(c, match)
}

// POST /api/matching/matches/:id/complete
func (h *MatchingHandler) CompleteMatch(c *gin.Context) {
	h.closeMatch(c, h.lifecycle.Complete)
}

// POST /api/matching/matches/:id/dissolve
func (h *MatchingHandler) DissolveMatch(c *gin.Context) {
	h.closeMatch(c, h.lifecycle.Dissolve)
}

func (h *MatchingHandler) closeMatch(c *gin.Context, transition func(context.Context, uuid.UUID, string) (*types.ActiveMatch, error)) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		response.RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	matchID, err := uuid.Parse(c.Param("id"))
	if err != nil || matchID == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_match_id", err)
		return
	}

	match, err := transition(c.Request.Context(), matchID, rd.UserID.String())
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, match)
}
