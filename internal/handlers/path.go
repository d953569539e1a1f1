package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/edukita/lms-backend/internal/logger"
	"github.com/edukita/lms-backend/internal/requestdata"
	"github.com/edukita/lms-backend/internal/services"
)

type PathHandler struct {
	log           *logger.Logger
	pathEnrollSvc services.PathEnrollmentService
	pathProgress  services.PathProgressService
}

func NewPathHandler(log *logger.Logger, pathEnrollSvc services.PathEnrollmentService, pathProgress services.PathProgressService) *PathHandler {
	return &PathHandler{
		log:           log.With("handler", "PathHandler"),
		pathEnrollSvc: pathEnrollSvc,
		pathProgress:  pathProgress,
	}
}

func (h *PathHandler) Enroll(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		RespondError(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	pathID, err := uuid.Parse(c.Param("pathID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_path_id", err)
		return
	}

	var req struct {
		ResetProgress bool `json:"reset_progress"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_body", err)
			return
		}
	}

	enrollment, err := h.pathEnrollSvc.Enroll(c.Request.Context(), nil, rd.UserID, pathID, req.ResetProgress)
	if err != nil {
		h.log.Error("Enroll failed", "error", err, "user_id", rd.UserID, "path_id", pathID)
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"enrollment": enrollment})
}

func (h *PathHandler) Drop(c *gin.Context) {
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

	var req struct {
		Reason string `json:"reason"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			RespondError(c, http.StatusBadRequest, "invalid_body", err)
			return
		}
	}

	if err := h.pathEnrollSvc.Drop(c.Request.Context(), nil, enrollmentID, req.Reason); err != nil {
		h.log.Error("Drop failed", "error", err, "enrollment_id", enrollmentID)
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"dropped": true})
}

func (h *PathHandler) GetProgress(c *gin.Context) {
	enrollmentID, err := uuid.Parse(c.Param("enrollmentID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_enrollment_id", err)
		return
	}

	result, err := h.pathProgress.GetProgress(c.Request.Context(), enrollmentID)
	if err != nil {
		h.log.Error("GetProgress failed", "error", err, "enrollment_id", enrollmentID)
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, result)
}

func (h *PathHandler) StartCourse(c *gin.Context) {
	enrollmentID, err := uuid.Parse(c.Param("enrollmentID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_enrollment_id", err)
		return
	}
	courseID, err := uuid.Parse(c.Param("courseID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_course_id", err)
		return
	}

	row, err := h.pathProgress.StartCourse(c.Request.Context(), nil, enrollmentID, courseID)
	if err != nil {
		h.log.Error("StartCourse failed", "error", err, "enrollment_id", enrollmentID, "course_id", courseID)
		RespondServiceError(c, err)
		return
	}
	RespondOK(c, gin.H{"course_progress": row})
}
