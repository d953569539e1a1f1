package grading

import (
	"encoding/json"

	"github.com/edukita/lms-backend/internal/types"
)

// ManualStrategy handles the question types no auto-grader can score. It
// always returns a pending result with a zero placeholder score and surfaces
// the question's rubric, when present, to the grader.
type ManualStrategy struct{}

func NewManualStrategy() *ManualStrategy {
	return &ManualStrategy{}
}

func (s *ManualStrategy) HandledTypes() []types.QuestionType {
	return []types.QuestionType{
		types.QuestionTypeEssay,
		types.QuestionTypeLongAnswer,
		types.QuestionTypeFileUpload,
		types.QuestionTypeCode,
		types.QuestionTypeMatching,
	}
}

func (s *ManualStrategy) Supports(q *types.Question) bool {
	return supportsType(s.HandledTypes(), q.Type)
}

func (s *ManualStrategy) Grade(q *types.Question, ans Answer) Result {
	maxScore := float64(q.Points)
	metadata := map[string]interface{}{}
	if len(q.Rubric) > 0 {
		var rubric interface{}
		if err := json.Unmarshal(q.Rubric, &rubric); err == nil {
			metadata["rubric"] = rubric
		}
	}
	return pendingResult(maxScore, "Menunggu penilaian instruktur.", metadata)
}
