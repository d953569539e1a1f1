package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AttemptStatus string

const (
	AttemptStatusInProgress AttemptStatus = "in_progress"
	AttemptStatusSubmitted  AttemptStatus = "submitted"
	AttemptStatusGraded     AttemptStatus = "graded"
	AttemptStatusCompleted  AttemptStatus = "completed"
)

// attemptTransitions is the legal transition table for attempt lifecycle.
// An attempt with nothing pending can go in_progress -> graded (or completed)
// directly; one awaiting manual review goes through submitted.
var attemptTransitions = map[AttemptStatus][]AttemptStatus{
	AttemptStatusInProgress: {AttemptStatusSubmitted, AttemptStatusGraded, AttemptStatusCompleted},
	AttemptStatusSubmitted:  {AttemptStatusGraded},
	AttemptStatusGraded:     {AttemptStatusCompleted},
	AttemptStatusCompleted:  {},
}

func (s AttemptStatus) CanTransitionTo(next AttemptStatus) bool {
	for _, allowed := range attemptTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsOpen reports whether the attempt still accepts answer submissions.
func (s AttemptStatus) IsOpen() bool {
	return s == AttemptStatusInProgress
}

type AssessmentAttempt struct {
	ID           uuid.UUID     `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	AssessmentID uuid.UUID     `gorm:"type:uuid;not null;index" json:"assessment_id"`
	Assessment   *Assessment   `gorm:"constraint:OnDelete:CASCADE;foreignKey:AssessmentID;references:ID" json:"assessment,omitempty"`
	UserID       uuid.UUID     `gorm:"type:uuid;not null;index" json:"user_id"`
	User         *User         `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Status       AttemptStatus `gorm:"column:status;not null;default:'in_progress'" json:"status"`
	Score        float64       `gorm:"column:score;not null;default:0" json:"score"`
	MaxScore     float64       `gorm:"column:max_score;not null;default:0" json:"max_score"`
	Percentage   float64       `gorm:"column:percentage;not null;default:0" json:"percentage"`
	Passed       bool          `gorm:"column:passed;not null;default:false" json:"passed"`
	SubmittedAt  *time.Time    `gorm:"column:submitted_at" json:"submitted_at,omitempty"`
	GradedAt     *time.Time    `gorm:"column:graded_at" json:"graded_at,omitempty"`
	CreatedAt    time.Time     `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt    time.Time     `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (AssessmentAttempt) TableName() string { return "assessment_attempt" }
