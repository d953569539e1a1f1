package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type QuestionType string

const (
	QuestionTypeSingleChoice   QuestionType = "single_choice"
	QuestionTypeMultipleChoice QuestionType = "multiple_choice"
	QuestionTypeTrueFalse      QuestionType = "true_false"
	QuestionTypeBoolean        QuestionType = "boolean"
	QuestionTypeShortAnswer    QuestionType = "short_answer"
	QuestionTypeFillBlank      QuestionType = "fill_blank"
	QuestionTypeEssay          QuestionType = "essay"
	QuestionTypeLongAnswer     QuestionType = "long_answer"
	QuestionTypeFileUpload     QuestionType = "file_upload"
	QuestionTypeCode           QuestionType = "code"
	QuestionTypeMatching       QuestionType = "matching"
)

type Question struct {
	ID           uuid.UUID    `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AssessmentID uuid.UUID    `gorm:"type:uuid;not null;index" json:"assessment_id"`
	Assessment   *Assessment  `gorm:"constraint:OnDelete:CASCADE;foreignKey:AssessmentID;references:ID" json:"assessment,omitempty"`
	Type         QuestionType `gorm:"column:type;not null" json:"type"`
	Prompt       string       `gorm:"column:prompt;not null" json:"prompt"`
	Points       int          `gorm:"column:points;not null;default:1" json:"points"`
	Position     int          `gorm:"column:position;not null;default:0" json:"position"`
	// Comma-separated acceptable answers for short_answer / fill_blank.
	CorrectAnswer string `gorm:"column:correct_answer" json:"correct_answer,omitempty"`
	CaseSensitive bool   `gorm:"column:case_sensitive;not null;default:false" json:"case_sensitive"`
	// Free-form grading rubric surfaced to manual graders.
	Rubric    datatypes.JSON   `gorm:"type:jsonb;column:rubric" json:"rubric,omitempty"`
	Options   []QuestionOption `gorm:"foreignKey:QuestionID;references:ID" json:"options,omitempty"`
	CreatedAt time.Time        `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time        `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt   `gorm:"index" json:"deleted_at,omitempty"`
}

func (Question) TableName() string { return "question" }

type QuestionOption struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	QuestionID uuid.UUID `gorm:"type:uuid;not null;index" json:"question_id"`
	Text       string    `gorm:"column:text;not null" json:"text"`
	IsCorrect  bool      `gorm:"column:is_correct;not null;default:false" json:"is_correct"`
	Position   int       `gorm:"column:position;not null;default:0" json:"position"`
	CreatedAt  time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (QuestionOption) TableName() string { return "question_option" }

// CorrectOptionIDs returns the set of option IDs flagged correct.
func (q *Question) CorrectOptionIDs() map[uuid.UUID]bool {
	out := make(map[uuid.UUID]bool)
	for _, opt := range q.Options {
		if opt.IsCorrect {
			out[opt.ID] = true
		}
	}
	return out
}
