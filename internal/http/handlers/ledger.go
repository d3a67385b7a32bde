package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/mentorbridge-backend/internal/http/response"
	"github.com/yungbote/mentorbridge-backend/internal/platform/logger"
	"github.com/yungbote/mentorbridge-backend/internal/services"
)

type LedgerHandler struct {
	log    *logger.Logger
	ledger services.LedgerService
}

func NewLedgerHandler(log *logger.Logger, ledger services.LedgerService) *LedgerHandler {
	return &LedgerHandler{
		log:    log.With("handler", "LedgerHandler"),
		ledger: ledger,
	}
}

// POST /api/matching/matches/:id/meetings
func (h *LedgerHandler) LogMeeting(c *gin.Context) {
	matchID, err := uuid.Parse(c.Param("id"))
	if err != nil || matchID == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_match_id", err)
		return
	}
	var input services.MeetingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	entry, err := h.ledger.LogMeeting(c.Request.Context(), matchID, input)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondCreated(c, entry)
}

// GET /api/matching/matches/:id/meetings
func (h *LedgerHandler) ListMeetings(c *gin.Context) {
	matchID, err := uuid.Parse(c.Param("id"))
	if err != nil || matchID == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_match_id", err)
		return
	}

	entries, err := h.ledger.ListMeetings(c.Request.Context(), matchID)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"meetings": entries})
}

// POST /api/matching/matches/:id/feedback
func (h *LedgerHandler) SubmitFeedback(c *gin.Context) {
	matchID, err := uuid.Parse(c.Param("id"))
	if err != nil || matchID == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_match_id", err)
		return
	}
	var input services.FeedbackInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	entry, err := h.ledger.SubmitFeedback(c.Request.Context(), matchID, input)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondCreated(c, entry)
}

// GET /api/matching/matches/:id/feedback
func (h *LedgerHandler) ListFeedback(c *gin.Context) {
	matchID, err := uuid.Parse(c.Param("id"))
	if err != nil || matchID == uuid.Nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_match_id", err)
		return
	}

	entries, err := h.ledger.ListFeedback(c.Request.Context(), matchID)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"feedback": entries})
}
