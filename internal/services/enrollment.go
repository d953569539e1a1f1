package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/edukita/lms-backend/internal/logger"
	"github.com/edukita/lms-backend/internal/repos"
	"github.com/edukita/lms-backend/internal/types"
)

// EnrollmentService owns the course-level enrollment lifecycle. Dropping an
// enrollment triggers the drop-cascade into any learning path that links it.
type EnrollmentService interface {
	GetOrCreate(ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID) (*types.Enrollment, error)
	Drop(ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID) error
}

type enrollmentService struct {
	db           *gorm.DB
	log          *logger.Logger
	enrollments  repos.EnrollmentRepo
	pathProgress PathProgressService
}

func NewEnrollmentService(
	db *gorm.DB,
	baseLog *logger.Logger,
	enrollments repos.EnrollmentRepo,
	pathProgress PathProgressService,
) EnrollmentService {
	serviceLog := baseLog.With("service", "EnrollmentService")
	return &enrollmentService{
		db:           db,
		log:          serviceLog,
		enrollments:  enrollments,
		pathProgress: pathProgress,
	}
}

// getOrCreateEnrollment reuses an existing enrollment for the user+course
// pair, reactivating a dropped one in place, and creates a fresh active row
// only when none exists. The unique index on (user_id, course_id) makes
// duplicates impossible either way.
func getOrCreateEnrollment(ctx context.Context, tx *gorm.DB, enrollments repos.EnrollmentRepo, userID, courseID uuid.UUID) (*types.Enrollment, error) {
	existing, err := enrollments.GetByUserAndCourse(ctx, tx, userID, courseID)
	if err == nil {
		if existing.Status == types.EnrollmentStatusDropped {
			existing.Status = types.EnrollmentStatusActive
			existing.DroppedAt = nil
			if err := enrollments.Update(ctx, tx, existing); err != nil {
				return nil, fmt.Errorf("reactivate enrollment: %w", err)
			}
		}
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("get enrollment: %w", err)
	}

	created := &types.Enrollment{
		UserID:   userID,
		CourseID: courseID,
		Status:   types.EnrollmentStatusActive,
	}
	if err := enrollments.Create(ctx, tx, created); err != nil {
		return nil, fmt.Errorf("create enrollment: %w", err)
	}
	return created, nil
}

func (s *enrollmentService) GetOrCreate(ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID) (*types.Enrollment, error) {
	return getOrCreateEnrollment(ctx, tx, s.enrollments, userID, courseID)
}

func (s *enrollmentService) Drop(ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID) error {
	return inTransaction(ctx, s.db, tx, func(txn *gorm.DB) error {
		enrollment, err := s.enrollments.GetByUserAndCourse(ctx, txn, userID, courseID)
		if err != nil {
			return fmt.Errorf("get enrollment: %w", err)
		}
		if !enrollment.Status.CanTransitionTo(types.EnrollmentStatusDropped) {
			return &InvalidTransitionError{
				Entity:   "enrollment",
				EntityID: enrollment.ID,
				From:     string(enrollment.Status),
				To:       string(types.EnrollmentStatusDropped),
			}
		}

		wasCompleted := enrollment.Status == types.EnrollmentStatusCompleted

		now := time.Now().UTC()
		enrollment.Status = types.EnrollmentStatusDropped
		enrollment.DroppedAt = &now
		if err := s.enrollments.Update(ctx, txn, enrollment); err != nil {
			return fmt.Errorf("update enrollment: %w", err)
		}

		s.log.Info("Course enrollment dropped",
			"enrollment_id", enrollment.ID,
			"course_id", courseID,
			"was_completed", wasCompleted)

		// The regression cascade only concerns enrollments a path had
		// already counted as completed.
		if wasCompleted {
			if err := s.pathProgress.OnCourseDropped(ctx, txn, enrollment); err != nil {
				return fmt.Errorf("drop cascade: %w", err)
			}
		}
		return nil
	})
}
