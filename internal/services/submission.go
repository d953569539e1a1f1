package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/edukita/lms-backend/internal/grading"
	"github.com/edukita/lms-backend/internal/logger"
	"github.com/edukita/lms-backend/internal/repos"
	"github.com/edukita/lms-backend/internal/sse"
	"github.com/edukita/lms-backend/internal/types"
)

// AnswerSubmission is one learner answer as received from the caller.
type AnswerSubmission struct {
	QuestionID        uuid.UUID   `json:"question_id"`
	AnswerText        string      `json:"answer_text"`
	SelectedOptionIDs []uuid.UUID `json:"selected_option_ids"`
}

// ManualGrade is one instructor grade applied to a stored answer.
type ManualGrade struct {
	AnswerID uuid.UUID `json:"answer_id"`
	Score    float64   `json:"score"`
	Feedback string    `json:"feedback"`
}

type AttemptResult struct {
	AttemptID  uuid.UUID           `json:"attempt_id"`
	Score      float64             `json:"score"`
	MaxScore   float64             `json:"max_score"`
	Percentage float64             `json:"percentage"`
	Passed     bool                `json:"passed"`
	Status     types.AttemptStatus `json:"status"`
}

// AssessmentSubmissionService grades submitted attempts. Auto-gradable
// answers finish immediately; an attempt with any answer pending manual
// review parks in submitted status until SubmitBulkGrades closes it out.
type AssessmentSubmissionService interface {
	SubmitAttempt(ctx context.Context, tx *gorm.DB, userID, attemptID uuid.UUID, answers []AnswerSubmission) (*AttemptResult, error)
	SubmitBulkGrades(ctx context.Context, tx *gorm.DB, graderID, attemptID uuid.UUID, grades []ManualGrade) (*AttemptResult, error)
}

type assessmentSubmissionService struct {
	db          *gorm.DB
	log         *logger.Logger
	attempts    repos.AttemptRepo
	answers     repos.AttemptAnswerRepo
	assessments repos.AssessmentRepo
	questions   repos.QuestionRepo
	resolver    *grading.Resolver
	// fallback for question types no strategy claims
	manual grading.Strategy
}

func NewAssessmentSubmissionService(
	db *gorm.DB,
	baseLog *logger.Logger,
	attempts repos.AttemptRepo,
	answers repos.AttemptAnswerRepo,
	assessments repos.AssessmentRepo,
	questions repos.QuestionRepo,
	resolver *grading.Resolver,
) AssessmentSubmissionService {
	serviceLog := baseLog.With("service", "AssessmentSubmissionService")
	return &assessmentSubmissionService{
		db:          db,
		log:         serviceLog,
		attempts:    attempts,
		answers:     answers,
		assessments: assessments,
		questions:   questions,
		resolver:    resolver,
		manual:      grading.NewManualStrategy(),
	}
}

func (s *assessmentSubmissionService) SubmitAttempt(ctx context.Context, tx *gorm.DB, userID, attemptID uuid.UUID, submissions []AnswerSubmission) (*AttemptResult, error) {
	var result *AttemptResult

	err := inTransaction(ctx, s.db, tx, func(txn *gorm.DB) error {
		attempt, err := s.attempts.GetByID(ctx, txn, attemptID)
		if err != nil {
			return fmt.Errorf("get attempt: %w", err)
		}
		if attempt.UserID != userID {
			return ErrAttemptOwnerMismatch
		}
		if !attempt.Status.IsOpen() {
			return &InvalidTransitionError{
				Entity:   "assessment_attempt",
				EntityID: attempt.ID,
				From:     string(attempt.Status),
				To:       string(types.AttemptStatusSubmitted),
			}
		}

		assessment, err := s.assessments.GetByID(ctx, txn, attempt.AssessmentID)
		if err != nil {
			return fmt.Errorf("get assessment: %w", err)
		}
		questions, err := s.questions.GetByAssessmentID(ctx, txn, assessment.ID)
		if err != nil {
			return fmt.Errorf("get questions: %w", err)
		}
		questionByID := make(map[uuid.UUID]*types.Question, len(questions))
		for _, q := range questions {
			questionByID[q.ID] = q
		}

		now := time.Now().UTC()
		var (
			totalScore     float64
			totalMaxScore  float64
			requiresManual bool
			rows           []*types.AttemptAnswer
		)
		for _, sub := range submissions {
			question, ok := questionByID[sub.QuestionID]
			if !ok {
				return ErrQuestionNotInAssessment
			}

			strategy := s.resolver.Resolve(question)
			if strategy == nil {
				strategy = s.manual
			}
			graded := strategy.Grade(question, grading.Answer{
				Text:              sub.AnswerText,
				SelectedOptionIDs: sub.SelectedOptionIDs,
			})

			row := &types.AttemptAnswer{
				AttemptID:  attempt.ID,
				QuestionID: question.ID,
				AnswerText: sub.AnswerText,
				IsCorrect:  graded.IsCorrect,
				Score:      graded.Score,
				MaxScore:   graded.MaxScore,
				Feedback:   graded.Feedback,
			}
			if len(sub.SelectedOptionIDs) > 0 {
				raw, err := json.Marshal(sub.SelectedOptionIDs)
				if err != nil {
					return fmt.Errorf("marshal selected options: %w", err)
				}
				row.SelectedOptionIDs = datatypes.JSON(raw)
			}
			if len(graded.Metadata) > 0 {
				raw, err := json.Marshal(graded.Metadata)
				if err != nil {
					return fmt.Errorf("marshal grading metadata: %w", err)
				}
				row.GradingMetadata = datatypes.JSON(raw)
			}
			if !graded.RequiresManualGrading() {
				row.GradedAt = &now
			} else {
				requiresManual = true
			}

			totalScore += graded.Score
			totalMaxScore += graded.MaxScore
			rows = append(rows, row)
		}

		if err := s.answers.Create(ctx, txn, rows); err != nil {
			return fmt.Errorf("create attempt answers: %w", err)
		}

		percentage := percentageOf(totalScore, totalMaxScore)
		passed := percentage >= assessment.PassingScore

		attempt.Score = totalScore
		attempt.MaxScore = totalMaxScore
		attempt.Percentage = percentage
		attempt.SubmittedAt = &now
		if requiresManual {
			// The auto-graded subtotal is provisional; pass/fail waits for
			// the instructor.
			attempt.Status = types.AttemptStatusSubmitted
			attempt.Passed = false
		} else {
			attempt.Status = types.AttemptStatusGraded
			attempt.Passed = passed
			attempt.GradedAt = &now
		}
		if err := s.attempts.Update(ctx, txn, attempt); err != nil {
			return fmt.Errorf("update attempt: %w", err)
		}

		s.log.Info("Attempt submitted",
			"attempt_id", attempt.ID,
			"status", attempt.Status,
			"percentage", attempt.Percentage,
			"requires_manual", requiresManual)

		result = &AttemptResult{
			AttemptID:  attempt.ID,
			Score:      attempt.Score,
			MaxScore:   attempt.MaxScore,
			Percentage: attempt.Percentage,
			Passed:     attempt.Passed,
			Status:     attempt.Status,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Status == types.AttemptStatusGraded {
		appendEvent(ctx, userChannel(userID), sse.SSEEventAttemptGraded, result)
	}
	return result, nil
}

func (s *assessmentSubmissionService) SubmitBulkGrades(ctx context.Context, tx *gorm.DB, graderID, attemptID uuid.UUID, grades []ManualGrade) (*AttemptResult, error) {
	var (
		result    *AttemptResult
		learnerID uuid.UUID
	)

	err := inTransaction(ctx, s.db, tx, func(txn *gorm.DB) error {
		attempt, err := s.attempts.GetByID(ctx, txn, attemptID)
		if err != nil {
			return fmt.Errorf("get attempt: %w", err)
		}
		if !attempt.Status.CanTransitionTo(types.AttemptStatusGraded) {
			return &InvalidTransitionError{
				Entity:   "assessment_attempt",
				EntityID: attempt.ID,
				From:     string(attempt.Status),
				To:       string(types.AttemptStatusGraded),
			}
		}

		assessment, err := s.assessments.GetByID(ctx, txn, attempt.AssessmentID)
		if err != nil {
			return fmt.Errorf("get assessment: %w", err)
		}
		answers, err := s.answers.GetByAttemptID(ctx, txn, attempt.ID)
		if err != nil {
			return fmt.Errorf("get attempt answers: %w", err)
		}
		answerByID := make(map[uuid.UUID]*types.AttemptAnswer, len(answers))
		for _, a := range answers {
			answerByID[a.ID] = a
		}

		now := time.Now().UTC()
		for _, grade := range grades {
			answer, ok := answerByID[grade.AnswerID]
			if !ok {
				return ErrAnswerNotInAttempt
			}

			score := grade.Score
			if score < 0 {
				score = 0
			}
			if score > answer.MaxScore {
				score = answer.MaxScore
			}

			answer.Score = score
			answer.IsCorrect = answer.MaxScore > 0 && score >= answer.MaxScore
			answer.Feedback = grade.Feedback
			answer.GradedAt = &now
			answer.GradedBy = &graderID

			metadata := map[string]any{}
			if len(answer.GradingMetadata) > 0 {
				if err := json.Unmarshal(answer.GradingMetadata, &metadata); err != nil {
					metadata = map[string]any{}
				}
			}
			metadata[grading.MetadataKeyRequiresManualGrading] = false
			metadata["graded_by"] = graderID.String()
			raw, err := json.Marshal(metadata)
			if err != nil {
				return fmt.Errorf("marshal grading metadata: %w", err)
			}
			answer.GradingMetadata = datatypes.JSON(raw)

			if err := s.answers.Update(ctx, txn, answer); err != nil {
				return fmt.Errorf("update attempt answer: %w", err)
			}
		}

		var totalScore, totalMaxScore float64
		for _, a := range answers {
			totalScore += a.Score
			totalMaxScore += a.MaxScore
		}
		percentage := percentageOf(totalScore, totalMaxScore)

		attempt.Score = totalScore
		attempt.MaxScore = totalMaxScore
		attempt.Percentage = percentage
		attempt.Passed = percentage >= assessment.PassingScore
		attempt.Status = types.AttemptStatusGraded
		attempt.GradedAt = &now
		if err := s.attempts.Update(ctx, txn, attempt); err != nil {
			return fmt.Errorf("update attempt: %w", err)
		}

		s.log.Info("Attempt manually graded",
			"attempt_id", attempt.ID,
			"grader_id", graderID,
			"percentage", attempt.Percentage,
			"passed", attempt.Passed)

		learnerID = attempt.UserID
		result = &AttemptResult{
			AttemptID:  attempt.ID,
			Score:      attempt.Score,
			MaxScore:   attempt.MaxScore,
			Percentage: attempt.Percentage,
			Passed:     attempt.Passed,
			Status:     attempt.Status,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	appendEvent(ctx, userChannel(learnerID), sse.SSEEventAttemptGraded, result)
	return result, nil
}

func percentageOf(score, maxScore float64) float64 {
	if maxScore <= 0 {
		return 0
	}
	return math.Round(score/maxScore*100*100) / 100
}
