package grading

import (
	"github.com/google/uuid"

	"github.com/edukita/lms-backend/internal/types"
)

// Answer is the raw learner input handed to a strategy: free text and/or a
// set of selected option ids. Strategies never see persistence concerns.
type Answer struct {
	Text              string
	SelectedOptionIDs []uuid.UUID
}

// Strategy grades one question type family. Implementations are pure: the
// same question and answer always produce the same result, and invalid input
// grades as incorrect rather than erroring.
type Strategy interface {
	HandledTypes() []types.QuestionType
	Supports(q *types.Question) bool
	Grade(q *types.Question, ans Answer) Result
}

func supportsType(handled []types.QuestionType, t types.QuestionType) bool {
	for _, h := range handled {
		if h == t {
			return true
		}
	}
	return false
}
