package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AttemptAnswer struct {
	ID         uuid.UUID          `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AttemptID  uuid.UUID          `gorm:"type:uuid;not null;index:idx_attempt_question,unique" json:"attempt_id"`
	Attempt    *AssessmentAttempt `gorm:"constraint:OnDelete:CASCADE;foreignKey:AttemptID;references:ID" json:"attempt,omitempty"`
	QuestionID uuid.UUID          `gorm:"type:uuid;not null;index:idx_attempt_question,unique" json:"question_id"`
	Question   *Question          `gorm:"constraint:OnDelete:CASCADE;foreignKey:QuestionID;references:ID" json:"question,omitempty"`
	// Raw learner input: free text and/or selected option ids.
	AnswerText        string         `gorm:"column:answer_text" json:"answer_text,omitempty"`
	SelectedOptionIDs datatypes.JSON `gorm:"type:jsonb;column:selected_option_ids" json:"selected_option_ids,omitempty"`
	// Grading outcome
	IsCorrect       bool           `gorm:"column:is_correct;not null;default:false" json:"is_correct"`
	Score           float64        `gorm:"column:score;not null;default:0" json:"score"`
	MaxScore        float64        `gorm:"column:max_score;not null;default:0" json:"max_score"`
	Feedback        string         `gorm:"column:feedback" json:"feedback,omitempty"`
	GradingMetadata datatypes.JSON `gorm:"type:jsonb;column:grading_metadata" json:"grading_metadata,omitempty"`
	GradedAt        *time.Time     `gorm:"column:graded_at" json:"graded_at,omitempty"`
	GradedBy        *uuid.UUID     `gorm:"type:uuid;column:graded_by" json:"graded_by,omitempty"`
	CreatedAt       time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (AttemptAnswer) TableName() string { return "attempt_answer" }
