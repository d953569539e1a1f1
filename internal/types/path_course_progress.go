package types

import (
	"time"

	"github.com/google/uuid"
)

type CourseProgressStatus string

const (
	CourseProgressStatusLocked     CourseProgressStatus = "locked"
	CourseProgressStatusAvailable  CourseProgressStatus = "available"
	CourseProgressStatusInProgress CourseProgressStatus = "in_progress"
	CourseProgressStatusCompleted  CourseProgressStatus = "completed"
)

// courseProgressTransitions is the legal transition table. Progress is
// strictly forward except completed -> available, the single sanctioned
// regression used by the drop-cascade: a course the learner had already
// unlocked never falls back to locked.
var courseProgressTransitions = map[CourseProgressStatus][]CourseProgressStatus{
	CourseProgressStatusLocked:     {CourseProgressStatusAvailable},
	CourseProgressStatusAvailable:  {CourseProgressStatusInProgress, CourseProgressStatusCompleted},
	CourseProgressStatusInProgress: {CourseProgressStatusCompleted},
	CourseProgressStatusCompleted:  {CourseProgressStatusAvailable},
}

func (s CourseProgressStatus) CanTransitionTo(next CourseProgressStatus) bool {
	for _, allowed := range courseProgressTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Rank orders the states for monotonicity checks: locked < available <
// in_progress < completed.
func (s CourseProgressStatus) Rank() int {
	switch s {
	case CourseProgressStatusLocked:
		return 0
	case CourseProgressStatusAvailable:
		return 1
	case CourseProgressStatusInProgress:
		return 2
	case CourseProgressStatusCompleted:
		return 3
	}
	return -1
}

// CanStart reports whether the learner may open the course (available or
// later).
func (s CourseProgressStatus) CanStart() bool {
	return s.Rank() >= CourseProgressStatusAvailable.Rank()
}

// BlocksNext reports whether this course still holds back courses positioned
// after it under sequential prerequisites.
func (s CourseProgressStatus) BlocksNext() bool {
	return s != CourseProgressStatusCompleted
}

func (s CourseProgressStatus) IsLocked() bool    { return s == CourseProgressStatusLocked }
func (s CourseProgressStatus) IsCompleted() bool { return s == CourseProgressStatusCompleted }

// LearningPathCourseProgress is the per-course lock/unlock row inside a path
// enrollment. Exactly one row exists per (enrollment, course) pair.
type LearningPathCourseProgress struct {
	ID               uuid.UUID               `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	PathEnrollmentID uuid.UUID               `gorm:"type:uuid;not null;index:idx_path_enrollment_course,unique" json:"path_enrollment_id"`
	PathEnrollment   *LearningPathEnrollment `gorm:"constraint:OnDelete:CASCADE;foreignKey:PathEnrollmentID;references:ID" json:"path_enrollment,omitempty"`
	CourseID         uuid.UUID               `gorm:"type:uuid;not null;index:idx_path_enrollment_course,unique" json:"course_id"`
	Course           *Course                 `gorm:"constraint:OnDelete:CASCADE;foreignKey:CourseID;references:ID" json:"course,omitempty"`
	// Back-reference to the course-level enrollment, linked once the course
	// is unlocked.
	EnrollmentID *uuid.UUID           `gorm:"type:uuid;column:enrollment_id" json:"enrollment_id,omitempty"`
	Status       CourseProgressStatus `gorm:"column:status;not null;default:'locked'" json:"status"`
	// Pinned ordering from the path definition.
	Position    int        `gorm:"column:position;not null;default:0" json:"position"`
	IsRequired  bool       `gorm:"column:is_required;not null;default:true" json:"is_required"`
	UnlockedAt  *time.Time `gorm:"column:unlocked_at" json:"unlocked_at,omitempty"`
	StartedAt   *time.Time `gorm:"column:started_at" json:"started_at,omitempty"`
	CompletedAt *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`
	CreatedAt   time.Time  `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"not null;default:now()" json:"updated_at"`
}

func (LearningPathCourseProgress) TableName() string { return "learning_path_course_progress" }
