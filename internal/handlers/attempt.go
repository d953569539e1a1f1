package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/edukita/lms-backend/internal/logger"
	"github.com/edukita/lms-backend/internal/requestdata"
	"github.com/edukita/lms-backend/internal/services"
)

type AttemptHandler struct {
	log        *logger.Logger
	submission services.AssessmentSubmissionService
}

func NewAttemptHandler(log *logger.Logger, submission services.AssessmentSubmissionService) *AttemptHandler {
	return &AttemptHandler{
		log:        log.With("handler", "AttemptHandler"),
		submission: submission,
	}
}

func (h *AttemptHandler) Submit(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	attemptID, err := uuid.Parse(c.Param("attemptID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_attempt_id", err)
		return
	}

	var req struct {
		Answers []services.AnswerSubmission `json:"answers"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	result, err := h.submission.SubmitAttempt(c.Request.Context(), nil, rd.UserID, attemptID, req.Answers)
	if err != nil {
		h.log.Error("Submit failed", "error", err, "attempt_id", attemptID)
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, result)
}

func (h *AttemptHandler) SubmitBulkGrades(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	attemptID, err := uuid.Parse(c.Param("attemptID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_attempt_id", err)
		return
	}

	var req struct {
		Grades []services.ManualGrade `json:"grades"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}

	result, err := h.submission.SubmitBulkGrades(c.Request.Context(), nil, rd.UserID, attemptID, req.Grades)
	if err != nil {
		h.log.Error("SubmitBulkGrades failed", "error", err, "attempt_id", attemptID)
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, result)
}
