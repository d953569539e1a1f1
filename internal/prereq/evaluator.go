package prereq

import (
	"github.com/google/uuid"

	"github.com/edukita/lms-backend/internal/types"
)

// CourseState is one course of a path enrollment as the evaluators see it:
// its pinned position and whether the learner has completed it.
type CourseState struct {
	CourseID  uuid.UUID
	Title     string
	Position  int
	Completed bool
}

type MissingCourse struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
}

type Evaluation struct {
	IsMet                bool            `json:"is_met"`
	MissingPrerequisites []MissingCourse `json:"missing_prerequisites"`
	Reason               string          `json:"reason,omitempty"`
}

// Evaluator decides whether a candidate course's prerequisites are met given
// the current state of every course in the path.
type Evaluator interface {
	Mode() types.PrerequisiteMode
	Evaluate(courses []CourseState, candidate CourseState) Evaluation
}
