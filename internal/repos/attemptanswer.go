package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/edukita/lms-backend/internal/logger"
	"github.com/edukita/lms-backend/internal/types"
)

type AttemptAnswerRepo interface {
	GetByAttemptID(ctx context.Context, tx *gorm.DB, attemptID uuid.UUID) ([]*types.AttemptAnswer, error)
	Create(ctx context.Context, tx *gorm.DB, answers []*types.AttemptAnswer) error
	Update(ctx context.Context, tx *gorm.DB, answer *types.AttemptAnswer) error
}

type attemptAnswerRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAttemptAnswerRepo(db *gorm.DB, baseLog *logger.Logger) AttemptAnswerRepo {
	repoLog := baseLog.With("repo", "AttemptAnswerRepo")
	return &attemptAnswerRepo{db: db, log: repoLog}
}

func (r *attemptAnswerRepo) GetByAttemptID(ctx context.Context, tx *gorm.DB, attemptID uuid.UUID) ([]*types.AttemptAnswer, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.AttemptAnswer
	if attemptID == uuid.Nil {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("attempt_id = ?", attemptID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *attemptAnswerRepo) Create(ctx context.Context, tx *gorm.DB, answers []*types.AttemptAnswer) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(answers) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).Create(&answers).Error
}

func (r *attemptAnswerRepo) Update(ctx context.Context, tx *gorm.DB, answer *types.AttemptAnswer) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).Save(answer).Error
}
