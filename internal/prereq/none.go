package prereq

import (
	"github.com/edukita/lms-backend/internal/types"
)

// NoneEvaluator never gates anything: every course is immediately available.
type NoneEvaluator struct{}

func NewNoneEvaluator() *NoneEvaluator {
	return &NoneEvaluator{}
}

func (e *NoneEvaluator) Mode() types.PrerequisiteMode {
	return types.PrerequisiteModeNone
}

func (e *NoneEvaluator) Evaluate(courses []CourseState, candidate CourseState) Evaluation {
	return Evaluation{IsMet: true, MissingPrerequisites: []MissingCourse{}}
}
