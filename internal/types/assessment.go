package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AssessmentStatus string

const (
	AssessmentStatusDraft     AssessmentStatus = "draft"
	AssessmentStatusPublished AssessmentStatus = "published"
)

type Assessment struct {
	ID       uuid.UUID        `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CourseID uuid.UUID        `gorm:"type:uuid;not null;index" json:"course_id"`
	Course   *Course          `gorm:"constraint:OnDelete:CASCADE;foreignKey:CourseID;references:ID" json:"course,omitempty"`
	Title    string           `gorm:"column:title;not null" json:"title"`
	Status   AssessmentStatus `gorm:"column:status;not null;default:'draft'" json:"status"`
	// Percentage threshold a graded attempt must reach to pass.
	PassingScore float64 `gorm:"column:passing_score;not null;default:70" json:"passing_score"`
	// Required assessments gate course completion under the
	// assessment-inclusive calculator.
	IsRequired bool           `gorm:"column:is_required;not null;default:false" json:"is_required"`
	CreatedAt  time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Assessment) TableName() string { return "assessment" }
