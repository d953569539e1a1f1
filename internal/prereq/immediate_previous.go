package prereq

import (
	"github.com/edukita/lms-backend/internal/types"
)

// ImmediatePreviousEvaluator only requires the single course immediately
// preceding the candidate to be completed; the first course is always met.
type ImmediatePreviousEvaluator struct{}

func NewImmediatePreviousEvaluator() *ImmediatePreviousEvaluator {
	return &ImmediatePreviousEvaluator{}
}

func (e *ImmediatePreviousEvaluator) Mode() types.PrerequisiteMode {
	return types.PrerequisiteModeImmediatePrevious
}

func (e *ImmediatePreviousEvaluator) Evaluate(courses []CourseState, candidate CourseState) Evaluation {
	var previous *CourseState
	for i := range courses {
		c := courses[i]
		if c.Position >= candidate.Position {
			continue
		}
		if previous == nil || c.Position > previous.Position {
			previous = &courses[i]
		}
	}
	if previous == nil {
		return Evaluation{IsMet: true, MissingPrerequisites: []MissingCourse{}}
	}
	if !previous.Completed {
		return Evaluation{
			IsMet:                false,
			MissingPrerequisites: []MissingCourse{{ID: previous.CourseID, Title: previous.Title}},
			Reason:               "the previous course is not yet completed",
		}
	}
	return Evaluation{IsMet: true, MissingPrerequisites: []MissingCourse{}}
}
