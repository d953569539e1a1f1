package main

import (
	"context"
	"fmt"
	"os"

	"github.com/edukita/lms-backend/internal/db"
	"github.com/edukita/lms-backend/internal/events"
	"github.com/edukita/lms-backend/internal/grading"
	"github.com/edukita/lms-backend/internal/handlers"
	"github.com/edukita/lms-backend/internal/logger"
	"github.com/edukita/lms-backend/internal/middleware"
	"github.com/edukita/lms-backend/internal/observability"
	"github.com/edukita/lms-backend/internal/prereq"
	"github.com/edukita/lms-backend/internal/progress"
	"github.com/edukita/lms-backend/internal/repos"
	"github.com/edukita/lms-backend/internal/server"
	"github.com/edukita/lms-backend/internal/services"
	"github.com/edukita/lms-backend/internal/sse"
	"github.com/edukita/lms-backend/internal/types"
	"github.com/edukita/lms-backend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Tracing
	ctx := context.Background()
	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: "lms-backend",
		Environment: utils.GetEnv("ENVIRONMENT", "development", log),
		Version:     utils.GetEnv("SERVICE_VERSION", "", log),
	})
	if otelShutdown != nil {
		defer otelShutdown(ctx)
	}

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	courseRepo := repos.NewCourseRepo(thePG, log)
	lessonRepo := repos.NewLessonRepo(thePG, log)
	assessmentRepo := repos.NewAssessmentRepo(thePG, log)
	questionRepo := repos.NewQuestionRepo(thePG, log)
	attemptRepo := repos.NewAttemptRepo(thePG, log)
	attemptAnswerRepo := repos.NewAttemptAnswerRepo(thePG, log)
	enrollmentRepo := repos.NewEnrollmentRepo(thePG, log)
	lessonProgressRepo := repos.NewLessonProgressRepo(thePG, log)
	learningPathRepo := repos.NewLearningPathRepo(thePG, log)
	pathEnrollmentRepo := repos.NewPathEnrollmentRepo(thePG, log)
	pathCourseProgressRepo := repos.NewPathCourseProgressRepo(thePG, log)

	// SSE
	log.Info("Setting up SSE hub now...")
	sseHub := sse.NewSSEHub(log)
	var bus events.Bus
	if b, err := events.NewRedisBus(log); err != nil {
		log.Warn("Redis event bus unavailable; events stay instance-local", "error", err)
	} else {
		bus = b
		if err := bus.StartForwarder(ctx, sseHub.Broadcast); err != nil {
			log.Warn("Event forwarder failed to start; events stay instance-local", "error", err)
			_ = bus.Close()
			bus = nil
		}
	}

	// Grading and progress strategy wiring
	resolver := grading.NewResolver(
		log,
		grading.NewMultipleChoiceStrategy(),
		grading.NewTrueFalseStrategy(nil, nil),
		grading.NewShortAnswerStrategy(utils.GetEnvAsFloat("SHORT_ANSWER_SIMILARITY_THRESHOLD", 0, log)),
		grading.NewManualStrategy(),
	)
	prereqFactory := prereq.NewFactory(types.PrerequisiteMode(utils.GetEnv("DEFAULT_PREREQUISITE_MODE", "", log)))
	calculatorFactory := progress.NewFactory(log, utils.GetEnv("DEFAULT_PROGRESS_CALCULATOR", "", log))

	// Services
	log.Info("Setting up Services from main...")
	pathEnrollmentService := services.NewPathEnrollmentService(thePG, log, learningPathRepo, pathEnrollmentRepo, pathCourseProgressRepo, enrollmentRepo)
	pathProgressService := services.NewPathProgressService(thePG, log, learningPathRepo, pathEnrollmentRepo, pathCourseProgressRepo, enrollmentRepo, prereqFactory, pathEnrollmentService)
	enrollmentService := services.NewEnrollmentService(thePG, log, enrollmentRepo, pathProgressService)
	progressTrackingService := services.NewProgressTrackingService(
		thePG,
		log,
		enrollmentRepo,
		lessonRepo,
		lessonProgressRepo,
		courseRepo,
		assessmentRepo,
		attemptRepo,
		pathCourseProgressRepo,
		pathEnrollmentRepo,
		calculatorFactory,
		pathProgressService,
	)
	submissionService := services.NewAssessmentSubmissionService(thePG, log, attemptRepo, attemptAnswerRepo, assessmentRepo, questionRepo, resolver)

	// Handlers
	log.Info("Setting up handlers from main...")
	pathHandler := handlers.NewPathHandler(log, pathEnrollmentService, pathProgressService)
	progressHandler := handlers.NewProgressHandler(log, progressTrackingService, enrollmentService)
	attemptHandler := handlers.NewAttemptHandler(log, submissionService)
	sseHandler := handlers.NewSSEHandler(log, sseHub)

	// Middleware
	log.Info("Setting up middleware from main...")
	identity := middleware.NewIdentityMiddleware(log)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		Log:             log,
		Identity:        identity,
		Hub:             sseHub,
		Bus:             bus,
		PathHandler:     pathHandler,
		ProgressHandler: progressHandler,
		AttemptHandler:  attemptHandler,
		SSEHandler:      sseHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	log.Info("Server listening", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
		os.Exit(1)
	}
	if bus != nil {
		_ = bus.Close()
	}
}
