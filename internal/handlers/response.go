package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/edukita/lms-backend/internal/services"
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

// RespondServiceError maps the service error taxonomy onto HTTP statuses:
// invalid transitions and precondition violations are conflicts the caller
// can act on, missing rows are 404, anything else is a 500.
func RespondServiceError(c *gin.Context, err error) {
	var transitionErr *services.InvalidTransitionError
	if errors.As(err, &transitionErr) {
		RespondError(c, http.StatusConflict, "invalid_transition", err)
		return
	}
	var preconditionErr *services.PreconditionError
	if errors.As(err, &preconditionErr) {
		RespondError(c, http.StatusConflict, preconditionErr.Code, err)
		return
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		RespondError(c, http.StatusNotFound, "not_found", err)
		return
	}
	RespondError(c, http.StatusInternalServerError, "internal_error", err)
}
