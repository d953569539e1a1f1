package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/edukita/lms-backend/internal/events"
	"github.com/edukita/lms-backend/internal/handlers"
	"github.com/edukita/lms-backend/internal/logger"
	"github.com/edukita/lms-backend/internal/middleware"
	"github.com/edukita/lms-backend/internal/sse"
)

type RouterConfig struct {
	Log             *logger.Logger
	Identity        *middleware.IdentityMiddleware
	Hub             *sse.SSEHub
	Bus             events.Bus
	PathHandler     *handlers.PathHandler
	ProgressHandler *handlers.ProgressHandler
	AttemptHandler  *handlers.AttemptHandler
	SSEHandler      *handlers.SSEHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()
	router.Use(otelgin.Middleware("lms-backend"))

	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With", middleware.UserIDHeader},
		AllowCredentials: true,
	}))

	// ===============
	// || Public    ||
	// ===============
	router.GET("/healthcheck", handlers.HealthCheck)

	// ===============
	// || Protected ||
	// ===============
	protected := router.Group("/")
	protected.Use(cfg.Identity.RequireUser())
	protected.Use(middleware.AttachRequestContext())
	protected.Use(middleware.FlushSSEEvents(cfg.Log, cfg.Hub, cfg.Bus))
	// SSE
	protected.GET("/sse/stream", cfg.SSEHandler.Stream)
	protected.POST("/sse/subscribe", cfg.SSEHandler.Subscribe)
	protected.POST("/sse/unsubscribe", cfg.SSEHandler.Unsubscribe)
	// Learning paths
	protected.POST("/paths/:pathID/enroll", cfg.PathHandler.Enroll)
	protected.POST("/path-enrollments/:enrollmentID/drop", cfg.PathHandler.Drop)
	protected.GET("/path-enrollments/:enrollmentID/progress", cfg.PathHandler.GetProgress)
	protected.POST("/path-enrollments/:enrollmentID/courses/:courseID/start", cfg.PathHandler.StartCourse)
	// Course progress
	protected.PATCH("/enrollments/:enrollmentID/lessons/:lessonID/progress", cfg.ProgressHandler.UpdateProgress)
	protected.POST("/enrollments/:enrollmentID/lessons/:lessonID/complete", cfg.ProgressHandler.CompleteLesson)
	protected.POST("/courses/:courseID/drop", cfg.ProgressHandler.DropCourse)
	// Assessment attempts
	protected.POST("/attempts/:attemptID/submit", cfg.AttemptHandler.Submit)
	protected.POST("/attempts/:attemptID/grades", cfg.AttemptHandler.SubmitBulkGrades)

	return router
}
