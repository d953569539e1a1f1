package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PathEnrollmentStatus string

const (
	PathEnrollmentStatusActive    PathEnrollmentStatus = "active"
	PathEnrollmentStatusCompleted PathEnrollmentStatus = "completed"
	PathEnrollmentStatusDropped   PathEnrollmentStatus = "dropped"
)

// pathEnrollmentTransitions is the legal transition table. Dropping only
// applies to active enrollments; a dropped enrollment can be reactivated by
// re-enrollment, and a completed one reverts to active only through the
// drop-cascade when a constituent course enrollment is dropped.
var pathEnrollmentTransitions = map[PathEnrollmentStatus][]PathEnrollmentStatus{
	PathEnrollmentStatusActive:    {PathEnrollmentStatusCompleted, PathEnrollmentStatusDropped},
	PathEnrollmentStatusCompleted: {PathEnrollmentStatusActive},
	PathEnrollmentStatusDropped:   {PathEnrollmentStatusActive},
}

func (s PathEnrollmentStatus) CanTransitionTo(next PathEnrollmentStatus) bool {
	for _, allowed := range pathEnrollmentTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s PathEnrollmentStatus) IsActive() bool    { return s == PathEnrollmentStatusActive }
func (s PathEnrollmentStatus) IsCompleted() bool { return s == PathEnrollmentStatusCompleted }
func (s PathEnrollmentStatus) IsDropped() bool   { return s == PathEnrollmentStatusDropped }

// LearningPathEnrollment owns one LearningPathCourseProgress row per course in
// the path, created atomically with it at enrollment time.
type LearningPathEnrollment struct {
	ID                 uuid.UUID            `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID             uuid.UUID            `gorm:"type:uuid;not null;index:idx_user_path,unique" json:"user_id"`
	User               *User                `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	LearningPathID     uuid.UUID            `gorm:"type:uuid;not null;index:idx_user_path,unique" json:"learning_path_id"`
	LearningPath       *LearningPath        `gorm:"constraint:OnDelete:CASCADE;foreignKey:LearningPathID;references:ID" json:"learning_path,omitempty"`
	Status             PathEnrollmentStatus `gorm:"column:status;not null;default:'active'" json:"status"`
	ProgressPercentage float64              `gorm:"column:progress_percentage;not null;default:0" json:"progress_percentage"`
	DropReason         string               `gorm:"column:drop_reason" json:"drop_reason,omitempty"`
	DroppedAt          *time.Time           `gorm:"column:dropped_at" json:"dropped_at,omitempty"`
	CompletedAt        *time.Time           `gorm:"column:completed_at" json:"completed_at,omitempty"`
	CourseProgress     []LearningPathCourseProgress `gorm:"foreignKey:PathEnrollmentID;references:ID" json:"course_progress,omitempty"`
	CreatedAt          time.Time            `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt          time.Time            `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt          gorm.DeletedAt       `gorm:"index" json:"deleted_at,omitempty"`
}

func (LearningPathEnrollment) TableName() string { return "learning_path_enrollment" }
