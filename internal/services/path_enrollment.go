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
	"github.com/edukita/lms-backend/internal/sse"
	"github.com/edukita/lms-backend/internal/types"
)

// PathEnrollmentService owns the path-enrollment lifecycle: enroll (with
// re-enrollment semantics), drop, and idempotent completion.
type PathEnrollmentService interface {
	// Enroll enrolls the user in a published path. Re-enrolling over a
	// dropped enrollment reactivates it in place; resetProgress selects
	// whether prior progress is wiped or preserved.
	Enroll(ctx context.Context, tx *gorm.DB, userID, pathID uuid.UUID, resetProgress bool) (*types.LearningPathEnrollment, error)
	Drop(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID, reason string) error
	// Complete is idempotent and composes into a caller's transaction when
	// tx is non-nil.
	Complete(ctx context.Context, tx *gorm.DB, enrollment *types.LearningPathEnrollment) error
}

type pathEnrollmentService struct {
	db              *gorm.DB
	log             *logger.Logger
	paths           repos.LearningPathRepo
	pathEnrollments repos.PathEnrollmentRepo
	courseProgress  repos.PathCourseProgressRepo
	enrollments     repos.EnrollmentRepo
}

func NewPathEnrollmentService(
	db *gorm.DB,
	baseLog *logger.Logger,
	paths repos.LearningPathRepo,
	pathEnrollments repos.PathEnrollmentRepo,
	courseProgress repos.PathCourseProgressRepo,
	enrollments repos.EnrollmentRepo,
) PathEnrollmentService {
	serviceLog := baseLog.With("service", "PathEnrollmentService")
	return &pathEnrollmentService{
		db:              db,
		log:             serviceLog,
		paths:           paths,
		pathEnrollments: pathEnrollments,
		courseProgress:  courseProgress,
		enrollments:     enrollments,
	}
}

func (s *pathEnrollmentService) Enroll(ctx context.Context, tx *gorm.DB, userID, pathID uuid.UUID, resetProgress bool) (*types.LearningPathEnrollment, error) {
	var result *types.LearningPathEnrollment

	err := inTransaction(ctx, s.db, tx, func(txn *gorm.DB) error {
		path, err := s.paths.GetByID(ctx, txn, pathID)
		if err != nil {
			return fmt.Errorf("get learning path: %w", err)
		}
		if !path.IsPublished() {
			return ErrPathNotPublished
		}

		existing, err := s.pathEnrollments.GetByUserAndPath(ctx, txn, userID, pathID)
		switch {
		case err == nil:
			if !existing.Status.IsDropped() {
				return ErrAlreadyEnrolled
			}
			result, err = s.reactivate(ctx, txn, existing, path, resetProgress)
			return err
		case errors.Is(err, gorm.ErrRecordNotFound):
			result, err = s.create(ctx, txn, userID, path)
			return err
		default:
			return fmt.Errorf("get path enrollment: %w", err)
		}
	})
	if err != nil {
		return nil, err
	}

	appendEvent(ctx, userChannel(userID), sse.SSEEventPathEnrollmentCreated, map[string]any{
		"path_enrollment_id": result.ID,
		"learning_path_id":   pathID,
	})
	return result, nil
}

func (s *pathEnrollmentService) create(ctx context.Context, txn *gorm.DB, userID uuid.UUID, path *types.LearningPath) (*types.LearningPathEnrollment, error) {
	enrollment := &types.LearningPathEnrollment{
		UserID:         userID,
		LearningPathID: path.ID,
		Status:         types.PathEnrollmentStatusActive,
	}
	if err := s.pathEnrollments.Create(ctx, txn, enrollment); err != nil {
		return nil, fmt.Errorf("create path enrollment: %w", err)
	}
	if err := s.createCourseProgressRows(ctx, txn, enrollment, path); err != nil {
		return nil, err
	}
	s.log.Info("Path enrollment created",
		"path_enrollment_id", enrollment.ID,
		"learning_path_id", path.ID,
		"courses", len(path.Courses))
	return enrollment, nil
}

func (s *pathEnrollmentService) reactivate(ctx context.Context, txn *gorm.DB, enrollment *types.LearningPathEnrollment, path *types.LearningPath, resetProgress bool) (*types.LearningPathEnrollment, error) {
	if !enrollment.Status.CanTransitionTo(types.PathEnrollmentStatusActive) {
		return nil, &InvalidTransitionError{
			Entity:   "path_enrollment",
			EntityID: enrollment.ID,
			From:     string(enrollment.Status),
			To:       string(types.PathEnrollmentStatusActive),
		}
	}

	enrollment.Status = types.PathEnrollmentStatusActive
	enrollment.DropReason = ""
	enrollment.DroppedAt = nil
	if resetProgress {
		enrollment.ProgressPercentage = 0
		if err := s.courseProgress.DeleteByEnrollmentID(ctx, txn, enrollment.ID); err != nil {
			return nil, fmt.Errorf("delete course progress rows: %w", err)
		}
		if err := s.createCourseProgressRows(ctx, txn, enrollment, path); err != nil {
			return nil, err
		}
	}
	if err := s.pathEnrollments.Update(ctx, txn, enrollment); err != nil {
		return nil, fmt.Errorf("update path enrollment: %w", err)
	}

	s.log.Info("Path enrollment reactivated",
		"path_enrollment_id", enrollment.ID,
		"reset_progress", resetProgress)
	return enrollment, nil
}

// createCourseProgressRows seeds one row per course at its pinned position.
// The first-position course starts available with a linked course enrollment;
// everything after it starts locked.
func (s *pathEnrollmentService) createCourseProgressRows(ctx context.Context, txn *gorm.DB, enrollment *types.LearningPathEnrollment, path *types.LearningPath) error {
	now := time.Now().UTC()
	rows := make([]*types.LearningPathCourseProgress, 0, len(path.Courses))
	for i, pc := range path.Courses {
		row := &types.LearningPathCourseProgress{
			PathEnrollmentID: enrollment.ID,
			CourseID:         pc.CourseID,
			Status:           types.CourseProgressStatusLocked,
			Position:         pc.Position,
			IsRequired:       pc.IsRequired,
		}
		if i == 0 {
			courseEnrollment, err := getOrCreateEnrollment(ctx, txn, s.enrollments, enrollment.UserID, pc.CourseID)
			if err != nil {
				return err
			}
			row.Status = types.CourseProgressStatusAvailable
			row.UnlockedAt = &now
			row.EnrollmentID = &courseEnrollment.ID
		}
		rows = append(rows, row)
	}
	if err := s.courseProgress.CreateBatch(ctx, txn, rows); err != nil {
		return fmt.Errorf("create course progress rows: %w", err)
	}
	return nil
}

func (s *pathEnrollmentService) Drop(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID, reason string) error {
	var userID, pathID uuid.UUID

	err := inTransaction(ctx, s.db, tx, func(txn *gorm.DB) error {
		enrollment, err := s.pathEnrollments.GetByID(ctx, txn, enrollmentID)
		if err != nil {
			return fmt.Errorf("get path enrollment: %w", err)
		}
		if !enrollment.Status.IsActive() {
			return &InvalidTransitionError{
				Entity:   "path_enrollment",
				EntityID: enrollment.ID,
				From:     string(enrollment.Status),
				To:       string(types.PathEnrollmentStatusDropped),
			}
		}

		now := time.Now().UTC()
		enrollment.Status = types.PathEnrollmentStatusDropped
		enrollment.DropReason = reason
		enrollment.DroppedAt = &now
		if err := s.pathEnrollments.Update(ctx, txn, enrollment); err != nil {
			return fmt.Errorf("update path enrollment: %w", err)
		}

		userID = enrollment.UserID
		pathID = enrollment.LearningPathID
		s.log.Info("Path enrollment dropped", "path_enrollment_id", enrollment.ID, "reason", reason)
		return nil
	})
	if err != nil {
		return err
	}

	appendEvent(ctx, userChannel(userID), sse.SSEEventPathDropped, map[string]any{
		"path_enrollment_id": enrollmentID,
		"learning_path_id":   pathID,
		"reason":             reason,
	})
	return nil
}

func (s *pathEnrollmentService) Complete(ctx context.Context, tx *gorm.DB, enrollment *types.LearningPathEnrollment) error {
	if enrollment.Status.IsCompleted() {
		return nil
	}
	if !enrollment.Status.CanTransitionTo(types.PathEnrollmentStatusCompleted) {
		return &InvalidTransitionError{
			Entity:   "path_enrollment",
			EntityID: enrollment.ID,
			From:     string(enrollment.Status),
			To:       string(types.PathEnrollmentStatusCompleted),
		}
	}

	err := inTransaction(ctx, s.db, tx, func(txn *gorm.DB) error {
		now := time.Now().UTC()
		enrollment.Status = types.PathEnrollmentStatusCompleted
		enrollment.CompletedAt = &now
		enrollment.ProgressPercentage = 100
		if err := s.pathEnrollments.Update(ctx, txn, enrollment); err != nil {
			return fmt.Errorf("update path enrollment: %w", err)
		}
		s.log.Info("Path enrollment completed", "path_enrollment_id", enrollment.ID)
		return nil
	})
	if err != nil {
		return err
	}

	appendEvent(ctx, userChannel(enrollment.UserID), sse.SSEEventPathCompleted, map[string]any{
		"path_enrollment_id": enrollment.ID,
		"learning_path_id":   enrollment.LearningPathID,
	})
	return nil
}
