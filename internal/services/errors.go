package services

import (
	"fmt"

	"github.com/google/uuid"
)

// InvalidTransitionError rejects a state-machine move the transition table
// does not allow. It carries enough identity for the caller to report it;
// services never coerce an illegal transition silently.
type InvalidTransitionError struct {
	Entity   string
	EntityID uuid.UUID
	From     string
	To       string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid %s transition %s -> %s (id=%s)", e.Entity, e.From, e.To, e.EntityID)
}

// PreconditionError rejects an operation before any mutation happens.
type PreconditionError struct {
	Code    string
	Message string
}

func (e *PreconditionError) Error() string {
	return e.Message
}

func (e *PreconditionError) Is(target error) bool {
	other, ok := target.(*PreconditionError)
	return ok && other.Code == e.Code
}

var (
	ErrPathNotPublished = &PreconditionError{
		Code:    "path_not_published",
		Message: "learning path is not published",
	}
	ErrAlreadyEnrolled = &PreconditionError{
		Code:    "already_enrolled",
		Message: "user already has an active or completed enrollment for this path",
	}
	ErrAttemptOwnerMismatch = &PreconditionError{
		Code:    "attempt_owner_mismatch",
		Message: "attempt does not belong to the submitting user",
	}
	ErrQuestionNotInAssessment = &PreconditionError{
		Code:    "question_not_in_assessment",
		Message: "submitted answer references a question outside the assessment",
	}
	ErrAnswerNotInAttempt = &PreconditionError{
		Code:    "answer_not_in_attempt",
		Message: "grade references an answer outside the attempt",
	}
	ErrLessonNotInCourse = &PreconditionError{
		Code:    "lesson_not_in_course",
		Message: "lesson does not belong to the enrollment's course",
	}
	ErrEnrollmentDropped = &PreconditionError{
		Code:    "enrollment_dropped",
		Message: "enrollment has been dropped",
	}
	ErrEnrollmentOwnerMismatch = &PreconditionError{
		Code:    "enrollment_owner_mismatch",
		Message: "enrollment does not belong to the requesting user",
	}
)
