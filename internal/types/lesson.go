package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type LessonContentType string

const (
	LessonContentPaged LessonContentType = "paged"
	LessonContentMedia LessonContentType = "media"
)

type Lesson struct {
	ID          uuid.UUID         `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CourseID    uuid.UUID         `gorm:"type:uuid;not null;index" json:"course_id"`
	Course      *Course           `gorm:"constraint:OnDelete:CASCADE;foreignKey:CourseID;references:ID" json:"course,omitempty"`
	Title       string            `gorm:"column:title;not null" json:"title"`
	ContentType LessonContentType `gorm:"column:content_type;not null;default:'paged'" json:"content_type"`
	Position    int               `gorm:"column:position;not null;default:0" json:"position"`
	// Paged content
	TotalPages int `gorm:"column:total_pages;not null;default:0" json:"total_pages"`
	// Media content
	DurationSeconds int `gorm:"column:duration_seconds;not null;default:0" json:"duration_seconds"`
	// Weighting input for the duration-weighted progress calculator.
	EstimatedDurationMinutes int            `gorm:"column:estimated_duration_minutes;not null;default:0" json:"estimated_duration_minutes"`
	CreatedAt                time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt                time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt                gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Lesson) TableName() string { return "lesson" }
