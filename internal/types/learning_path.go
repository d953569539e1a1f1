package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type LearningPathStatus string

const (
	LearningPathStatusDraft     LearningPathStatus = "draft"
	LearningPathStatusPublished LearningPathStatus = "published"
	LearningPathStatusArchived  LearningPathStatus = "archived"
)

// PrerequisiteMode selects which evaluator governs course unlocking inside a
// path. An unknown mode is a configuration error, never a silent default.
type PrerequisiteMode string

const (
	PrerequisiteModeSequential        PrerequisiteMode = "sequential"
	PrerequisiteModeImmediatePrevious PrerequisiteMode = "immediate_previous"
	PrerequisiteModeNone              PrerequisiteMode = "none"
)

// LearningPath is an ordered multi-course curriculum with its own enrollment
// and progress tracking, independent of individual course enrollment.
type LearningPath struct {
	ID               uuid.UUID          `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Title            string             `gorm:"column:title;not null" json:"title"`
	Description      string             `gorm:"column:description" json:"description"`
	Status           LearningPathStatus `gorm:"column:status;not null;default:'draft'" json:"status"`
	PrerequisiteMode PrerequisiteMode   `gorm:"column:prerequisite_mode;not null;default:'sequential'" json:"prerequisite_mode"`
	Courses          []LearningPathCourse `gorm:"foreignKey:LearningPathID;references:ID" json:"courses,omitempty"`
	CreatedAt        time.Time          `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt        time.Time          `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt        gorm.DeletedAt     `gorm:"index" json:"deleted_at,omitempty"`
}

func (LearningPath) TableName() string { return "learning_path" }

func (p *LearningPath) IsPublished() bool {
	return p.Status == LearningPathStatusPublished
}

// LearningPathCourse pins a course into a path at a fixed position with its
// per-course pivot attributes.
type LearningPathCourse struct {
	ID                      uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	LearningPathID          uuid.UUID      `gorm:"type:uuid;not null;index:idx_path_course,unique" json:"learning_path_id"`
	CourseID                uuid.UUID      `gorm:"type:uuid;not null;index:idx_path_course,unique" json:"course_id"`
	Course                  *Course        `gorm:"constraint:OnDelete:CASCADE;foreignKey:CourseID;references:ID" json:"course,omitempty"`
	Position                int            `gorm:"column:position;not null;default:0" json:"position"`
	IsRequired              bool           `gorm:"column:is_required;not null;default:true" json:"is_required"`
	MinCompletionPercentage float64        `gorm:"column:min_completion_percentage;not null;default:100" json:"min_completion_percentage"`
	Prerequisites           datatypes.JSON `gorm:"type:jsonb;column:prerequisites" json:"prerequisites,omitempty"`
	CreatedAt               time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt               time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (LearningPathCourse) TableName() string { return "learning_path_course" }
