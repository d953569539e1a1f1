package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LessonProgress tracks a learner's position inside one lesson. A row carries
// either page-based fields or media-based fields depending on the lesson's
// content type; one update never touches both.
type LessonProgress struct {
	ID           uuid.UUID   `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	EnrollmentID uuid.UUID   `gorm:"type:uuid;not null;index:idx_enrollment_lesson,unique" json:"enrollment_id"`
	Enrollment   *Enrollment `gorm:"constraint:OnDelete:CASCADE;foreignKey:EnrollmentID;references:ID" json:"enrollment,omitempty"`
	LessonID     uuid.UUID   `gorm:"type:uuid;not null;index:idx_enrollment_lesson,unique" json:"lesson_id"`
	Lesson       *Lesson     `gorm:"constraint:OnDelete:CASCADE;foreignKey:LessonID;references:ID" json:"lesson,omitempty"`
	// Page-based progress
	CurrentPage        int `gorm:"column:current_page;not null;default:0" json:"current_page"`
	HighestPageReached int `gorm:"column:highest_page_reached;not null;default:0" json:"highest_page_reached"`
	TotalPages         int `gorm:"column:total_pages;not null;default:0" json:"total_pages"`
	// Media-based progress
	PositionSeconds    int     `gorm:"column:position_seconds;not null;default:0" json:"position_seconds"`
	DurationSeconds    int     `gorm:"column:duration_seconds;not null;default:0" json:"duration_seconds"`
	ProgressPercentage float64 `gorm:"column:progress_percentage;not null;default:0" json:"progress_percentage"`

	TimeSpentSeconds int            `gorm:"column:time_spent_seconds;not null;default:0" json:"time_spent_seconds"`
	IsCompleted      bool           `gorm:"column:is_completed;not null;default:false" json:"is_completed"`
	CompletedAt      *time.Time     `gorm:"column:completed_at" json:"completed_at,omitempty"`
	CreatedAt        time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt        time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (LessonProgress) TableName() string { return "lesson_progress" }
