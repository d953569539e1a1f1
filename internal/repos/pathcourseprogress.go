package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/edukita/lms-backend/internal/logger"
	"github.com/edukita/lms-backend/internal/types"
)

type PathCourseProgressRepo interface {
	GetByEnrollmentID(ctx context.Context, tx *gorm.DB, pathEnrollmentID uuid.UUID) ([]*types.LearningPathCourseProgress, error)
	GetByEnrollmentAndCourse(ctx context.Context, tx *gorm.DB, pathEnrollmentID, courseID uuid.UUID) (*types.LearningPathCourseProgress, error)
	// GetByCourseEnrollmentID finds the progress rows linked to a course-level
	// enrollment. The same enrollment can back the course in several paths.
	GetByCourseEnrollmentID(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID) ([]*types.LearningPathCourseProgress, error)
	CreateBatch(ctx context.Context, tx *gorm.DB, rows []*types.LearningPathCourseProgress) error
	Update(ctx context.Context, tx *gorm.DB, row *types.LearningPathCourseProgress) error
	DeleteByEnrollmentID(ctx context.Context, tx *gorm.DB, pathEnrollmentID uuid.UUID) error
}

type pathCourseProgressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPathCourseProgressRepo(db *gorm.DB, baseLog *logger.Logger) PathCourseProgressRepo {
	repoLog := baseLog.With("repo", "PathCourseProgressRepo")
	return &pathCourseProgressRepo{db: db, log: repoLog}
}

func (r *pathCourseProgressRepo) GetByEnrollmentID(ctx context.Context, tx *gorm.DB, pathEnrollmentID uuid.UUID) ([]*types.LearningPathCourseProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.LearningPathCourseProgress
	if pathEnrollmentID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("path_enrollment_id = ?", pathEnrollmentID).
		Order("position ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *pathCourseProgressRepo) GetByEnrollmentAndCourse(ctx context.Context, tx *gorm.DB, pathEnrollmentID, courseID uuid.UUID) (*types.LearningPathCourseProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.LearningPathCourseProgress
	if err := transaction.WithContext(ctx).
		Where("path_enrollment_id = ? AND course_id = ?", pathEnrollmentID, courseID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *pathCourseProgressRepo) GetByCourseEnrollmentID(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID) ([]*types.LearningPathCourseProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.LearningPathCourseProgress
	if enrollmentID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("enrollment_id = ?", enrollmentID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *pathCourseProgressRepo) CreateBatch(ctx context.Context, tx *gorm.DB, rows []*types.LearningPathCourseProgress) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(rows) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).Create(&rows).Error
}

func (r *pathCourseProgressRepo) Update(ctx context.Context, tx *gorm.DB, row *types.LearningPathCourseProgress) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(row).Error
}

func (r *pathCourseProgressRepo) DeleteByEnrollmentID(ctx context.Context, tx *gorm.DB, pathEnrollmentID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Where("path_enrollment_id = ?", pathEnrollmentID).
		Delete(&types.LearningPathCourseProgress{}).Error
}
