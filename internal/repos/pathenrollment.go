package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/edukita/lms-backend/internal/logger"
	"github.com/edukita/lms-backend/internal/types"
)

type PathEnrollmentRepo interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.LearningPathEnrollment, error)
	GetByUserAndPath(ctx context.Context, tx *gorm.DB, userID, pathID uuid.UUID) (*types.LearningPathEnrollment, error)
	Create(ctx context.Context, tx *gorm.DB, enrollment *types.LearningPathEnrollment) error
	Update(ctx context.Context, tx *gorm.DB, enrollment *types.LearningPathEnrollment) error
}

type pathEnrollmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPathEnrollmentRepo(db *gorm.DB, baseLog *logger.Logger) PathEnrollmentRepo {
	repoLog := baseLog.With("repo", "PathEnrollmentRepo")
	return &pathEnrollmentRepo{db: db, log: repoLog}
}

func (r *pathEnrollmentRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.LearningPathEnrollment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.LearningPathEnrollment
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *pathEnrollmentRepo) GetByUserAndPath(ctx context.Context, tx *gorm.DB, userID, pathID uuid.UUID) (*types.LearningPathEnrollment, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.LearningPathEnrollment
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND learning_path_id = ?", userID, pathID).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *pathEnrollmentRepo) Create(ctx context.Context, tx *gorm.DB, enrollment *types.LearningPathEnrollment) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(enrollment).Error
}

func (r *pathEnrollmentRepo) Update(ctx context.Context, tx *gorm.DB, enrollment *types.LearningPathEnrollment) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(enrollment).Error
}
