package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/edukita/lms-backend/internal/logger"
	"github.com/edukita/lms-backend/internal/progress"
	"github.com/edukita/lms-backend/internal/repos"
	"github.com/edukita/lms-backend/internal/sse"
	"github.com/edukita/lms-backend/internal/types"
	"github.com/edukita/lms-backend/internal/utils"
)

// DefaultMediaCompletionThreshold is the watched-percentage at which a media
// lesson auto-completes; override with MEDIA_COMPLETION_THRESHOLD.
const DefaultMediaCompletionThreshold = 90.0

// UpdateProgressInput carries one progress tick. Exactly one of the page or
// media field groups applies per call, selected by which pointers are set.
type UpdateProgressInput struct {
	EnrollmentID uuid.UUID `json:"enrollment_id"`
	LessonID     uuid.UUID `json:"lesson_id"`
	// Page-based
	CurrentPage *int `json:"current_page,omitempty"`
	TotalPages  *int `json:"total_pages,omitempty"`
	// Media-based
	PositionSeconds *int `json:"position_seconds,omitempty"`
	DurationSeconds *int `json:"duration_seconds,omitempty"`

	TimeSpentDeltaSeconds int `json:"time_spent_delta_seconds"`
}

type ProgressResult struct {
	LessonProgress           *types.LessonProgress `json:"lesson_progress"`
	LessonCompleted          bool                  `json:"lesson_completed"`
	CourseProgressPercentage float64               `json:"course_progress_percentage"`
	CourseCompleted          bool                  `json:"course_completed"`
}

// ProgressTrackingService records lesson-level progress and cascades lesson
// completion into the enrollment's progress percentage, course completion,
// and from there into any enclosing learning path.
type ProgressTrackingService interface {
	UpdateProgress(ctx context.Context, tx *gorm.DB, userID uuid.UUID, in UpdateProgressInput) (*ProgressResult, error)
	CompleteLesson(ctx context.Context, tx *gorm.DB, userID, enrollmentID, lessonID uuid.UUID) (*ProgressResult, error)
	RecalculateCourseProgress(ctx context.Context, tx *gorm.DB, enrollment *types.Enrollment) (float64, error)
}

type progressTrackingService struct {
	db             *gorm.DB
	log            *logger.Logger
	enrollments    repos.EnrollmentRepo
	lessons        repos.LessonRepo
	lessonProgress repos.LessonProgressRepo
	courses        repos.CourseRepo
	assessments    repos.AssessmentRepo
	attempts       repos.AttemptRepo
	courseProgress repos.PathCourseProgressRepo
	pathEnrolls    repos.PathEnrollmentRepo
	calculators    *progress.Factory
	pathProgress   PathProgressService
	mediaThreshold float64
}

func NewProgressTrackingService(
	db *gorm.DB,
	baseLog *logger.Logger,
	enrollments repos.EnrollmentRepo,
	lessons repos.LessonRepo,
	lessonProgress repos.LessonProgressRepo,
	courses repos.CourseRepo,
	assessments repos.AssessmentRepo,
	attempts repos.AttemptRepo,
	courseProgress repos.PathCourseProgressRepo,
	pathEnrolls repos.PathEnrollmentRepo,
	calculators *progress.Factory,
	pathProgress PathProgressService,
) ProgressTrackingService {
	serviceLog := baseLog.With("service", "ProgressTrackingService")
	threshold := utils.GetEnvAsFloat("MEDIA_COMPLETION_THRESHOLD", DefaultMediaCompletionThreshold, serviceLog)
	return &progressTrackingService{
		db:             db,
		log:            serviceLog,
		enrollments:    enrollments,
		lessons:        lessons,
		lessonProgress: lessonProgress,
		courses:        courses,
		assessments:    assessments,
		attempts:       attempts,
		courseProgress: courseProgress,
		pathEnrolls:    pathEnrolls,
		calculators:    calculators,
		pathProgress:   pathProgress,
		mediaThreshold: threshold,
	}
}

func (s *progressTrackingService) UpdateProgress(ctx context.Context, tx *gorm.DB, userID uuid.UUID, in UpdateProgressInput) (*ProgressResult, error) {
	var result *ProgressResult

	err := inTransaction(ctx, s.db, tx, func(txn *gorm.DB) error {
		enrollment, lesson, lp, err := s.loadProgressRow(ctx, txn, userID, in.EnrollmentID, in.LessonID)
		if err != nil {
			return err
		}

		wasCompleted := lp.IsCompleted
		switch {
		case in.CurrentPage != nil:
			s.applyPageUpdate(lp, lesson, in)
		case in.PositionSeconds != nil:
			s.applyMediaUpdate(lp, lesson, in)
		}
		if in.TimeSpentDeltaSeconds > 0 {
			lp.TimeSpentSeconds += in.TimeSpentDeltaSeconds
		}

		justCompleted := lp.IsCompleted && !wasCompleted
		if justCompleted {
			now := time.Now().UTC()
			lp.CompletedAt = &now
		}

		if lp.ID == uuid.Nil {
			err = s.lessonProgress.Create(ctx, txn, lp)
		} else {
			err = s.lessonProgress.Update(ctx, txn, lp)
		}
		if err != nil {
			return fmt.Errorf("save lesson progress: %w", err)
		}

		enrollment.LastLessonID = &lesson.ID
		result, err = s.finishProgressUpdate(ctx, txn, enrollment, lp, justCompleted)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *progressTrackingService) CompleteLesson(ctx context.Context, tx *gorm.DB, userID, enrollmentID, lessonID uuid.UUID) (*ProgressResult, error) {
	var result *ProgressResult

	err := inTransaction(ctx, s.db, tx, func(txn *gorm.DB) error {
		enrollment, lesson, lp, err := s.loadProgressRow(ctx, txn, userID, enrollmentID, lessonID)
		if err != nil {
			return err
		}

		if lp.IsCompleted {
			result = &ProgressResult{
				LessonProgress:           lp,
				LessonCompleted:          false,
				CourseProgressPercentage: enrollment.ProgressPercentage,
				CourseCompleted:          enrollment.Status == types.EnrollmentStatusCompleted,
			}
			return nil
		}

		now := time.Now().UTC()
		lp.IsCompleted = true
		lp.CompletedAt = &now
		if lesson.ContentType == types.LessonContentPaged && lp.TotalPages > 0 {
			lp.CurrentPage = lp.TotalPages
			lp.HighestPageReached = lp.TotalPages
		}

		if lp.ID == uuid.Nil {
			err = s.lessonProgress.Create(ctx, txn, lp)
		} else {
			err = s.lessonProgress.Update(ctx, txn, lp)
		}
		if err != nil {
			return fmt.Errorf("save lesson progress: %w", err)
		}

		enrollment.LastLessonID = &lesson.ID
		result, err = s.finishProgressUpdate(ctx, txn, enrollment, lp, true)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// loadProgressRow validates the enrollment/lesson pair and loads or
// initializes the lesson-progress row. A freshly initialized row has a nil ID
// until saved.
func (s *progressTrackingService) loadProgressRow(ctx context.Context, txn *gorm.DB, userID, enrollmentID, lessonID uuid.UUID) (*types.Enrollment, *types.Lesson, *types.LessonProgress, error) {
	enrollment, err := s.enrollments.GetByID(ctx, txn, enrollmentID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("get enrollment: %w", err)
	}
	if enrollment.UserID != userID {
		return nil, nil, nil, ErrEnrollmentOwnerMismatch
	}
	if enrollment.Status == types.EnrollmentStatusDropped {
		return nil, nil, nil, ErrEnrollmentDropped
	}

	lesson, err := s.lessons.GetByID(ctx, txn, lessonID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("get lesson: %w", err)
	}
	if lesson.CourseID != enrollment.CourseID {
		return nil, nil, nil, ErrLessonNotInCourse
	}

	lp, err := s.lessonProgress.GetByEnrollmentAndLesson(ctx, txn, enrollment.ID, lesson.ID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil, fmt.Errorf("get lesson progress: %w", err)
		}
		lp = &types.LessonProgress{
			EnrollmentID:    enrollment.ID,
			LessonID:        lesson.ID,
			TotalPages:      lesson.TotalPages,
			DurationSeconds: lesson.DurationSeconds,
		}
	}
	return enrollment, lesson, lp, nil
}

func (s *progressTrackingService) applyPageUpdate(lp *types.LessonProgress, lesson *types.Lesson, in UpdateProgressInput) {
	lp.CurrentPage = *in.CurrentPage
	if in.TotalPages != nil && *in.TotalPages > 0 {
		lp.TotalPages = *in.TotalPages
	} else if lp.TotalPages == 0 {
		lp.TotalPages = lesson.TotalPages
	}
	// highest page only ever moves forward
	if lp.CurrentPage > lp.HighestPageReached {
		lp.HighestPageReached = lp.CurrentPage
	}
	if lp.TotalPages > 0 && lp.HighestPageReached >= lp.TotalPages {
		lp.IsCompleted = true
	}
}

func (s *progressTrackingService) applyMediaUpdate(lp *types.LessonProgress, lesson *types.Lesson, in UpdateProgressInput) {
	lp.PositionSeconds = *in.PositionSeconds
	if in.DurationSeconds != nil && *in.DurationSeconds > 0 {
		lp.DurationSeconds = *in.DurationSeconds
	} else if lp.DurationSeconds == 0 {
		lp.DurationSeconds = lesson.DurationSeconds
	}
	if lp.DurationSeconds > 0 {
		pct := float64(lp.PositionSeconds) / float64(lp.DurationSeconds) * 100
		if pct > 100 {
			pct = 100
		}
		lp.ProgressPercentage = math.Round(pct*10) / 10
	}
	if lp.ProgressPercentage >= s.mediaThreshold {
		lp.IsCompleted = true
	}
}

// finishProgressUpdate persists the enrollment's resume pointer, recomputes
// course progress when a lesson just completed, and emits the progress
// events.
func (s *progressTrackingService) finishProgressUpdate(ctx context.Context, txn *gorm.DB, enrollment *types.Enrollment, lp *types.LessonProgress, justCompleted bool) (*ProgressResult, error) {
	var err error
	if justCompleted {
		_, err = s.recalculate(ctx, txn, enrollment)
	} else {
		err = s.enrollments.Update(ctx, txn, enrollment)
	}
	if err != nil {
		return nil, err
	}

	if justCompleted {
		appendEvent(ctx, userChannel(enrollment.UserID), sse.SSEEventLessonCompleted, map[string]any{
			"enrollment_id": enrollment.ID,
			"lesson_id":     lp.LessonID,
		})
	}
	appendEvent(ctx, userChannel(enrollment.UserID), sse.SSEEventProgressUpdated, map[string]any{
		"enrollment_id":       enrollment.ID,
		"lesson_id":           lp.LessonID,
		"progress_percentage": enrollment.ProgressPercentage,
	})

	return &ProgressResult{
		LessonProgress:           lp,
		LessonCompleted:          justCompleted,
		CourseProgressPercentage: enrollment.ProgressPercentage,
		CourseCompleted:          enrollment.Status == types.EnrollmentStatusCompleted,
	}, nil
}

func (s *progressTrackingService) RecalculateCourseProgress(ctx context.Context, tx *gorm.DB, enrollment *types.Enrollment) (float64, error) {
	var pct float64
	err := inTransaction(ctx, s.db, tx, func(txn *gorm.DB) error {
		var err error
		pct, err = s.recalculate(ctx, txn, enrollment)
		return err
	})
	if err != nil {
		return 0, err
	}
	return pct, nil
}

// recalculate runs the course's configured calculator, writes the enrollment
// percentage, and on calculator-reported completion transitions the
// enrollment to completed and notifies every enclosing path.
func (s *progressTrackingService) recalculate(ctx context.Context, txn *gorm.DB, enrollment *types.Enrollment) (float64, error) {
	course, err := s.courses.GetByID(ctx, txn, enrollment.CourseID)
	if err != nil {
		return 0, fmt.Errorf("get course: %w", err)
	}
	input, err := s.buildCalculatorInput(ctx, txn, enrollment)
	if err != nil {
		return 0, err
	}

	calculator := s.calculators.ForCourse(course)
	pct := calculator.Calculate(input)
	enrollment.ProgressPercentage = pct

	completesNow := calculator.IsComplete(input) &&
		enrollment.Status != types.EnrollmentStatusCompleted &&
		enrollment.Status.CanTransitionTo(types.EnrollmentStatusCompleted)
	if completesNow {
		now := time.Now().UTC()
		enrollment.Status = types.EnrollmentStatusCompleted
		enrollment.CompletedAt = &now
	}
	if err := s.enrollments.Update(ctx, txn, enrollment); err != nil {
		return 0, fmt.Errorf("update enrollment: %w", err)
	}

	s.log.Info("Course progress recalculated",
		"enrollment_id", enrollment.ID,
		"calculator", calculator.Name(),
		"percentage", pct,
		"completed", completesNow)

	if completesNow {
		if err := s.notifyPaths(ctx, txn, enrollment); err != nil {
			return 0, err
		}
	}
	return pct, nil
}

func (s *progressTrackingService) buildCalculatorInput(ctx context.Context, txn *gorm.DB, enrollment *types.Enrollment) (progress.CourseProgressInput, error) {
	var input progress.CourseProgressInput

	lessons, err := s.lessons.GetByCourseID(ctx, txn, enrollment.CourseID)
	if err != nil {
		return input, fmt.Errorf("get lessons: %w", err)
	}
	for _, l := range lessons {
		input.Lessons = append(input.Lessons, progress.LessonRef{
			ID:              l.ID,
			DurationMinutes: l.EstimatedDurationMinutes,
		})
	}

	rows, err := s.lessonProgress.GetByEnrollmentID(ctx, txn, enrollment.ID)
	if err != nil {
		return input, fmt.Errorf("get lesson progress: %w", err)
	}
	for _, row := range rows {
		input.LessonProgress = append(input.LessonProgress, progress.LessonProgressRef{
			LessonID:  row.LessonID,
			Completed: row.IsCompleted,
		})
	}

	assessments, err := s.assessments.GetByCourseID(ctx, txn, enrollment.CourseID)
	if err != nil {
		return input, fmt.Errorf("get assessments: %w", err)
	}
	if len(assessments) > 0 {
		ids := make([]uuid.UUID, 0, len(assessments))
		for _, a := range assessments {
			ids = append(ids, a.ID)
		}
		passed, err := s.attempts.GetPassedAssessmentIDs(ctx, txn, enrollment.UserID, ids)
		if err != nil {
			return input, fmt.Errorf("get passed assessments: %w", err)
		}
		for _, a := range assessments {
			input.Assessments = append(input.Assessments, progress.AssessmentRef{
				ID:        a.ID,
				Published: a.Status == types.AssessmentStatusPublished,
				Required:  a.IsRequired,
				Passed:    passed[a.ID],
			})
		}
	}
	return input, nil
}

// notifyPaths fires the completion cascade for every path row backed by this
// enrollment, inside the same transaction.
func (s *progressTrackingService) notifyPaths(ctx context.Context, txn *gorm.DB, enrollment *types.Enrollment) error {
	rows, err := s.courseProgress.GetByCourseEnrollmentID(ctx, txn, enrollment.ID)
	if err != nil {
		return fmt.Errorf("get path course progress rows: %w", err)
	}
	for _, row := range rows {
		pathEnrollment, err := s.pathEnrolls.GetByID(ctx, txn, row.PathEnrollmentID)
		if err != nil {
			return fmt.Errorf("get path enrollment: %w", err)
		}
		if err := s.pathProgress.OnCourseCompleted(ctx, txn, pathEnrollment, enrollment); err != nil {
			return err
		}
	}
	return nil
}
