package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/edukita/lms-backend/internal/logger"
	"github.com/edukita/lms-backend/internal/types"
)

type AttemptRepo interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.AssessmentAttempt, error)
	Create(ctx context.Context, tx *gorm.DB, attempt *types.AssessmentAttempt) error
	Update(ctx context.Context, tx *gorm.DB, attempt *types.AssessmentAttempt) error
	// GetPassedAssessmentIDs returns which of the given assessments the user
	// has at least one passed attempt for.
	GetPassedAssessmentIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID, assessmentIDs []uuid.UUID) (map[uuid.UUID]bool, error)
}

type attemptRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAttemptRepo(db *gorm.DB, baseLog *logger.Logger) AttemptRepo {
	repoLog := baseLog.With("repo", "AttemptRepo")
	return &attemptRepo{db: db, log: repoLog}
}

func (r *attemptRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.AssessmentAttempt, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var result types.AssessmentAttempt
	if err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *attemptRepo) Create(ctx context.Context, tx *gorm.DB, attempt *types.AssessmentAttempt) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Create(attempt).Error
}

func (r *attemptRepo) Update(ctx context.Context, tx *gorm.DB, attempt *types.AssessmentAttempt) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(attempt).Error
}

func (r *attemptRepo) GetPassedAssessmentIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID, assessmentIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	passed := make(map[uuid.UUID]bool)
	if userID == uuid.Nil || len(assessmentIDs) == 0 {
		return passed, nil
	}

	var ids []uuid.UUID
	if err := transaction.WithContext(ctx).
		Model(&types.AssessmentAttempt{}).
		Where("user_id = ? AND assessment_id IN ? AND passed = ?", userID, assessmentIDs, true).
		Distinct().
		Pluck("assessment_id", &ids).Error; err != nil {
		return nil, err
	}
	for _, id := range ids {
		passed[id] = true
	}
	return passed, nil
}
