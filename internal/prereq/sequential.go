package prereq

import (
	"github.com/edukita/lms-backend/internal/types"
)

// SequentialEvaluator requires every course positioned before the candidate
// to be completed.
type SequentialEvaluator struct{}

func NewSequentialEvaluator() *SequentialEvaluator {
	return &SequentialEvaluator{}
}

func (e *SequentialEvaluator) Mode() types.PrerequisiteMode {
	return types.PrerequisiteModeSequential
}

func (e *SequentialEvaluator) Evaluate(courses []CourseState, candidate CourseState) Evaluation {
	var missing []MissingCourse
	for _, c := range courses {
		if c.Position < candidate.Position && !c.Completed {
			missing = append(missing, MissingCourse{ID: c.CourseID, Title: c.Title})
		}
	}
	if len(missing) > 0 {
		return Evaluation{
			IsMet:                false,
			MissingPrerequisites: missing,
			Reason:               "previous courses are not yet completed",
		}
	}
	return Evaluation{IsMet: true, MissingPrerequisites: []MissingCourse{}}
}
