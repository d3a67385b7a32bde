package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domerrors "github.com/yungbote/mentorbridge-backend/internal/pkg/errors"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}

// RespondDomainError maps the service-layer sentinels onto HTTP statuses.
// State-machine conflicts are 409, validation 400, missing rows 404 and
// oracle outages 503. Anything unrecognized is a 500.
func RespondDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domerrors.ErrValidation):
		RespondError(c, http.StatusBadRequest, "validation_failed", err)
	case errors.Is(err, domerrors.ErrNotFound):
		RespondError(c, http.StatusNotFound, "not_found", err)
	case errors.Is(err, domerrors.ErrNoMentorsAvailable):
		RespondError(c, http.StatusNotFound, "no_mentors_available", err)
	case errors.Is(err, domerrors.ErrNotACandidate):
		RespondError(c, http.StatusForbidden, "not_a_candidate", err)
	case errors.Is(err, domerrors.ErrAlreadyMatched):
		RespondError(c, http.StatusConflict, "already_matched", err)
	case errors.Is(err, domerrors.ErrAlreadyClaimed):
		RespondError(c, http.StatusConflict, "already_claimed", err)
	case errors.Is(err, domerrors.ErrAtCapacity):
		RespondError(c, http.StatusConflict, "at_capacity", err)
	case errors.Is(err, domerrors.ErrExpired):
		RespondError(c, http.StatusConflict, "expired", err)
	case errors.Is(err, domerrors.ErrServiceUnavailable):
		RespondError(c, http.StatusServiceUnavailable, "oracle_unavailable", err)
	default:
		RespondError(c, http.StatusInternalServerError, "internal_error", err)
	}
}
