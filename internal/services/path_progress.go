package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/edukita/lms-backend/internal/logger"
	"github.com/edukita/lms-backend/internal/prereq"
	"github.com/edukita/lms-backend/internal/progress"
	"github.com/edukita/lms-backend/internal/repos"
	"github.com/edukita/lms-backend/internal/sse"
	"github.com/edukita/lms-backend/internal/types"
)

// PathCourseProgressView is one course of a path enrollment as reported to
// callers.
type PathCourseProgressView struct {
	CourseID     uuid.UUID                  `json:"course_id"`
	Title        string                     `json:"title"`
	Status       types.CourseProgressStatus `json:"status"`
	Position     int                        `json:"position"`
	IsRequired   bool                       `json:"is_required"`
	EnrollmentID *uuid.UUID                 `json:"enrollment_id,omitempty"`
}

type PathProgressResult struct {
	PathEnrollmentID   uuid.UUID                  `json:"path_enrollment_id"`
	LearningPathID     uuid.UUID                  `json:"learning_path_id"`
	Status             types.PathEnrollmentStatus `json:"status"`
	ProgressPercentage float64                    `json:"progress_percentage"`
	Courses            []PathCourseProgressView   `json:"courses"`
}

// PathProgressService runs the unlocking cascade and keeps the
// course-progress / path-percentage / path-state triple consistent. Every
// mutating operation composes into the caller's transaction when tx is
// non-nil, so a cascade triggered by a course completion commits or rolls
// back with it.
type PathProgressService interface {
	UnlockNextCourses(ctx context.Context, tx *gorm.DB, enrollment *types.LearningPathEnrollment) ([]*types.Course, error)
	OnCourseCompleted(ctx context.Context, tx *gorm.DB, pathEnrollment *types.LearningPathEnrollment, courseEnrollment *types.Enrollment) error
	OnCourseDropped(ctx context.Context, tx *gorm.DB, courseEnrollment *types.Enrollment) error
	StartCourse(ctx context.Context, tx *gorm.DB, pathEnrollmentID, courseID uuid.UUID) (*types.LearningPathCourseProgress, error)
	GetProgress(ctx context.Context, pathEnrollmentID uuid.UUID) (*PathProgressResult, error)
}

type pathProgressService struct {
	db              *gorm.DB
	log             *logger.Logger
	paths           repos.LearningPathRepo
	pathEnrollments repos.PathEnrollmentRepo
	courseProgress  repos.PathCourseProgressRepo
	enrollments     repos.EnrollmentRepo
	prereqFactory   *prereq.Factory
	pathEnrollSvc   PathEnrollmentService
}

func NewPathProgressService(
	db *gorm.DB,
	baseLog *logger.Logger,
	paths repos.LearningPathRepo,
	pathEnrollments repos.PathEnrollmentRepo,
	courseProgress repos.PathCourseProgressRepo,
	enrollments repos.EnrollmentRepo,
	prereqFactory *prereq.Factory,
	pathEnrollSvc PathEnrollmentService,
) PathProgressService {
	serviceLog := baseLog.With("service", "PathProgressService")
	return &pathProgressService{
		db:              db,
		log:             serviceLog,
		paths:           paths,
		pathEnrollments: pathEnrollments,
		courseProgress:  courseProgress,
		enrollments:     enrollments,
		prereqFactory:   prereqFactory,
		pathEnrollSvc:   pathEnrollSvc,
	}
}

func (s *pathProgressService) UnlockNextCourses(ctx context.Context, tx *gorm.DB, enrollment *types.LearningPathEnrollment) ([]*types.Course, error) {
	var unlocked []*types.Course
	err := inTransaction(ctx, s.db, tx, func(txn *gorm.DB) error {
		var err error
		unlocked, err = s.unlockNextCourses(ctx, txn, enrollment)
		return err
	})
	if err != nil {
		return nil, err
	}
	return unlocked, nil
}

// unlockNextCourses walks the locked rows in position order and opens every
// one whose prerequisites the evaluator reports as met. Iteration order
// matters: a completion registered earlier in the same pass can satisfy a
// later row under sequential mode.
func (s *pathProgressService) unlockNextCourses(ctx context.Context, txn *gorm.DB, enrollment *types.LearningPathEnrollment) ([]*types.Course, error) {
	path, err := s.paths.GetByID(ctx, txn, enrollment.LearningPathID)
	if err != nil {
		return nil, fmt.Errorf("get learning path: %w", err)
	}
	evaluator, err := s.prereqFactory.ForPath(path)
	if err != nil {
		return nil, err
	}

	rows, err := s.courseProgress.GetByEnrollmentID(ctx, txn, enrollment.ID)
	if err != nil {
		return nil, fmt.Errorf("get course progress rows: %w", err)
	}

	pathCourses := make(map[uuid.UUID]*types.Course, len(path.Courses))
	for _, pc := range path.Courses {
		pathCourses[pc.CourseID] = pc.Course
	}
	courseTitle := func(id uuid.UUID) string {
		if c := pathCourses[id]; c != nil {
			return c.Title
		}
		return ""
	}

	states := make([]prereq.CourseState, len(rows))
	for i, row := range rows {
		states[i] = prereq.CourseState{
			CourseID:  row.CourseID,
			Title:     courseTitle(row.CourseID),
			Position:  row.Position,
			Completed: row.Status.IsCompleted(),
		}
	}

	now := time.Now().UTC()
	var unlocked []*types.Course
	for i, row := range rows {
		if !row.Status.IsLocked() {
			continue
		}
		evaluation := evaluator.Evaluate(states, states[i])
		if !evaluation.IsMet {
			continue
		}

		courseEnrollment, err := getOrCreateEnrollment(ctx, txn, s.enrollments, enrollment.UserID, row.CourseID)
		if err != nil {
			return nil, err
		}
		row.Status = types.CourseProgressStatusAvailable
		row.UnlockedAt = &now
		row.EnrollmentID = &courseEnrollment.ID
		if err := s.courseProgress.Update(ctx, txn, row); err != nil {
			return nil, fmt.Errorf("update course progress row: %w", err)
		}

		s.log.Info("Course unlocked in path",
			"path_enrollment_id", enrollment.ID,
			"course_id", row.CourseID,
			"position", row.Position)
		appendEvent(ctx, userChannel(enrollment.UserID), sse.SSEEventCourseUnlockedInPath, map[string]any{
			"path_enrollment_id": enrollment.ID,
			"course_id":          row.CourseID,
			"enrollment_id":      courseEnrollment.ID,
		})

		if c := pathCourses[row.CourseID]; c != nil {
			unlocked = append(unlocked, c)
		}
	}
	return unlocked, nil
}

func (s *pathProgressService) OnCourseCompleted(ctx context.Context, tx *gorm.DB, pathEnrollment *types.LearningPathEnrollment, courseEnrollment *types.Enrollment) error {
	return inTransaction(ctx, s.db, tx, func(txn *gorm.DB) error {
		return s.onCourseCompleted(ctx, txn, pathEnrollment, courseEnrollment)
	})
}

func (s *pathProgressService) onCourseCompleted(ctx context.Context, txn *gorm.DB, pathEnrollment *types.LearningPathEnrollment, courseEnrollment *types.Enrollment) error {
	row, err := s.courseProgress.GetByEnrollmentAndCourse(ctx, txn, pathEnrollment.ID, courseEnrollment.CourseID)
	if err != nil {
		return fmt.Errorf("get course progress row: %w", err)
	}

	if !row.Status.IsCompleted() {
		if !row.Status.CanTransitionTo(types.CourseProgressStatusCompleted) {
			// A still-locked course completed outside the path does not
			// advance the path.
			s.log.Warn("Completed course enrollment maps to a locked path row; ignoring",
				"path_enrollment_id", pathEnrollment.ID,
				"course_id", courseEnrollment.CourseID)
			return nil
		}
		now := time.Now().UTC()
		row.Status = types.CourseProgressStatusCompleted
		row.CompletedAt = &now
		if row.EnrollmentID == nil {
			row.EnrollmentID = &courseEnrollment.ID
		}
		if err := s.courseProgress.Update(ctx, txn, row); err != nil {
			return fmt.Errorf("update course progress row: %w", err)
		}
	}

	if _, err := s.unlockNextCourses(ctx, txn, pathEnrollment); err != nil {
		return err
	}

	rows, err := s.courseProgress.GetByEnrollmentID(ctx, txn, pathEnrollment.ID)
	if err != nil {
		return fmt.Errorf("get course progress rows: %w", err)
	}
	refs := pathRefs(rows)

	before := pathEnrollment.ProgressPercentage
	after := progress.RequiredCoursesPercentage(refs)
	if after != before {
		pathEnrollment.ProgressPercentage = after
		if err := s.pathEnrollments.Update(ctx, txn, pathEnrollment); err != nil {
			return fmt.Errorf("update path enrollment: %w", err)
		}
		appendEvent(ctx, userChannel(pathEnrollment.UserID), sse.SSEEventPathProgressUpdated, map[string]any{
			"path_enrollment_id": pathEnrollment.ID,
			"before":             before,
			"after":              after,
		})
	}

	if progress.IsPathComplete(refs) {
		if err := s.pathEnrollSvc.Complete(ctx, txn, pathEnrollment); err != nil {
			return err
		}
	}
	return nil
}

func (s *pathProgressService) OnCourseDropped(ctx context.Context, tx *gorm.DB, courseEnrollment *types.Enrollment) error {
	return inTransaction(ctx, s.db, tx, func(txn *gorm.DB) error {
		return s.onCourseDropped(ctx, txn, courseEnrollment)
	})
}

// onCourseDropped is the sanctioned regression: every path row backed by the
// dropped enrollment that had been counted as completed reverts to available
// (never locked; the learner already unlocked it), and a completed path
// enrollment reverts to active.
func (s *pathProgressService) onCourseDropped(ctx context.Context, txn *gorm.DB, courseEnrollment *types.Enrollment) error {
	rows, err := s.courseProgress.GetByCourseEnrollmentID(ctx, txn, courseEnrollment.ID)
	if err != nil {
		return fmt.Errorf("get course progress rows: %w", err)
	}

	for _, row := range rows {
		if !row.Status.IsCompleted() {
			continue
		}
		if !row.Status.CanTransitionTo(types.CourseProgressStatusAvailable) {
			return &InvalidTransitionError{
				Entity:   "path_course_progress",
				EntityID: row.ID,
				From:     string(row.Status),
				To:       string(types.CourseProgressStatusAvailable),
			}
		}
		row.Status = types.CourseProgressStatusAvailable
		row.CompletedAt = nil
		if err := s.courseProgress.Update(ctx, txn, row); err != nil {
			return fmt.Errorf("update course progress row: %w", err)
		}

		pathEnrollment, err := s.pathEnrollments.GetByID(ctx, txn, row.PathEnrollmentID)
		if err != nil {
			return fmt.Errorf("get path enrollment: %w", err)
		}

		siblings, err := s.courseProgress.GetByEnrollmentID(ctx, txn, pathEnrollment.ID)
		if err != nil {
			return fmt.Errorf("get course progress rows: %w", err)
		}
		before := pathEnrollment.ProgressPercentage
		after := progress.RequiredCoursesPercentage(pathRefs(siblings))

		pathEnrollment.ProgressPercentage = after
		if pathEnrollment.Status.IsCompleted() {
			pathEnrollment.Status = types.PathEnrollmentStatusActive
			pathEnrollment.CompletedAt = nil
		}
		if err := s.pathEnrollments.Update(ctx, txn, pathEnrollment); err != nil {
			return fmt.Errorf("update path enrollment: %w", err)
		}

		s.log.Info("Course drop reverted path progress",
			"path_enrollment_id", pathEnrollment.ID,
			"course_id", row.CourseID,
			"before", before,
			"after", after)
		appendEvent(ctx, userChannel(pathEnrollment.UserID), sse.SSEEventPathProgressUpdated, map[string]any{
			"path_enrollment_id": pathEnrollment.ID,
			"before":             before,
			"after":              after,
		})
	}
	return nil
}

func (s *pathProgressService) StartCourse(ctx context.Context, tx *gorm.DB, pathEnrollmentID, courseID uuid.UUID) (*types.LearningPathCourseProgress, error) {
	var result *types.LearningPathCourseProgress

	err := inTransaction(ctx, s.db, tx, func(txn *gorm.DB) error {
		row, err := s.courseProgress.GetByEnrollmentAndCourse(ctx, txn, pathEnrollmentID, courseID)
		if err != nil {
			return fmt.Errorf("get course progress row: %w", err)
		}
		if row.Status == types.CourseProgressStatusInProgress {
			result = row
			return nil
		}
		if !row.Status.CanTransitionTo(types.CourseProgressStatusInProgress) {
			return &InvalidTransitionError{
				Entity:   "path_course_progress",
				EntityID: row.ID,
				From:     string(row.Status),
				To:       string(types.CourseProgressStatusInProgress),
			}
		}
		now := time.Now().UTC()
		row.Status = types.CourseProgressStatusInProgress
		row.StartedAt = &now
		if err := s.courseProgress.Update(ctx, txn, row); err != nil {
			return fmt.Errorf("update course progress row: %w", err)
		}
		result = row
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *pathProgressService) GetProgress(ctx context.Context, pathEnrollmentID uuid.UUID) (*PathProgressResult, error) {
	enrollment, err := s.pathEnrollments.GetByID(ctx, nil, pathEnrollmentID)
	if err != nil {
		return nil, fmt.Errorf("get path enrollment: %w", err)
	}
	path, err := s.paths.GetByID(ctx, nil, enrollment.LearningPathID)
	if err != nil {
		return nil, fmt.Errorf("get learning path: %w", err)
	}
	rows, err := s.courseProgress.GetByEnrollmentID(ctx, nil, enrollment.ID)
	if err != nil {
		return nil, fmt.Errorf("get course progress rows: %w", err)
	}

	titles := make(map[uuid.UUID]string, len(path.Courses))
	for _, pc := range path.Courses {
		if pc.Course != nil {
			titles[pc.CourseID] = pc.Course.Title
		}
	}

	result := &PathProgressResult{
		PathEnrollmentID:   enrollment.ID,
		LearningPathID:     enrollment.LearningPathID,
		Status:             enrollment.Status,
		ProgressPercentage: enrollment.ProgressPercentage,
		Courses:            make([]PathCourseProgressView, 0, len(rows)),
	}
	for _, row := range rows {
		result.Courses = append(result.Courses, PathCourseProgressView{
			CourseID:     row.CourseID,
			Title:        titles[row.CourseID],
			Status:       row.Status,
			Position:     row.Position,
			IsRequired:   row.IsRequired,
			EnrollmentID: row.EnrollmentID,
		})
	}
	return result, nil
}

func pathRefs(rows []*types.LearningPathCourseProgress) []progress.PathCourseRef {
	refs := make([]progress.PathCourseRef, 0, len(rows))
	for _, row := range rows {
		refs = append(refs, progress.PathCourseRef{
			Required:  row.IsRequired,
			Completed: row.Status.IsCompleted(),
		})
	}
	return refs
}
