package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/edukita/lms-backend/internal/logger"
	"github.com/edukita/lms-backend/internal/requestdata"
	"github.com/edukita/lms-backend/internal/services"
)

type ProgressHandler struct {
	log           *logger.Logger
	tracking      services.ProgressTrackingService
	enrollmentSvc services.EnrollmentService
}

func NewProgressHandler(log *logger.Logger, tracking services.ProgressTrackingService, enrollmentSvc services.EnrollmentService) *ProgressHandler {
	return &ProgressHandler{
		log:           log.With("handler", "ProgressHandler"),
		tracking:      tracking,
		enrollmentSvc: enrollmentSvc,
	}
}

func (h *ProgressHandler) UpdateProgress(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	enrollmentID, err := uuid.Parse(c.Param("enrollmentID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_enrollment_id", err)
		return
	}
	lessonID, err := uuid.Parse(c.Param("lessonID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_lesson_id", err)
		return
	}

	var req services.UpdateProgressInput
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	req.EnrollmentID = enrollmentID
	req.LessonID = lessonID

	result, err := h.tracking.UpdateProgress(c.Request.Context(), nil, rd.UserID, req)
	if err != nil {
		h.log.Error("UpdateProgress failed", "error", err, "enrollment_id", enrollmentID, "lesson_id", lessonID)
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, result)
}

func (h *ProgressHandler) CompleteLesson(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	enrollmentID, err := uuid.Parse(c.Param("enrollmentID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_enrollment_id", err)
		return
	}
	lessonID, err := uuid.Parse(c.Param("lessonID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_lesson_id", err)
		return
	}

	result, err := h.tracking.CompleteLesson(c.Request.Context(), nil, rd.UserID, enrollmentID, lessonID)
	if err != nil {
		h.log.Error("CompleteLesson failed", "error", err, "enrollment_id", enrollmentID, "lesson_id", lessonID)
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, result)
}

func (h *ProgressHandler) DropCourse(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	courseID, err := uuid.Parse(c.Param("courseID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_course_id", err)
		return
	}

	if err := h.enrollmentSvc.Drop(c.Request.Context(), nil, rd.UserID, courseID); err != nil {
		h.log.Error("DropCourse failed", "error", err, "user_id", rd.UserID, "course_id", courseID)
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"dropped": true})
}
