package grading

import (
	"github.com/google/uuid"

	"github.com/edukita/lms-backend/internal/types"
)

// MultipleChoiceStrategy grades single_choice and multiple_choice questions
// by comparing the selected option-id set against the options flagged
// correct. Exact set equality earns full credit; multiple_choice questions
// with more than one correct option earn partial credit for partially right
// selections.
type MultipleChoiceStrategy struct{}

func NewMultipleChoiceStrategy() *MultipleChoiceStrategy {
	return &MultipleChoiceStrategy{}
}

func (s *MultipleChoiceStrategy) HandledTypes() []types.QuestionType {
	return []types.QuestionType{types.QuestionTypeMultipleChoice, types.QuestionTypeSingleChoice}
}

func (s *MultipleChoiceStrategy) Supports(q *types.Question) bool {
	return supportsType(s.HandledTypes(), q.Type)
}

func (s *MultipleChoiceStrategy) Grade(q *types.Question, ans Answer) Result {
	maxScore := float64(q.Points)
	correct := q.CorrectOptionIDs()

	selected := make(map[uuid.UUID]bool, len(ans.SelectedOptionIDs))
	for _, id := range ans.SelectedOptionIDs {
		selected[id] = true
	}

	if setsEqual(selected, correct) && len(correct) > 0 {
		return finalResult(true, maxScore, maxScore, "Jawaban benar.", nil)
	}

	// Partial credit only for true multiple-selection questions.
	if q.Type == types.QuestionTypeMultipleChoice && len(correct) > 1 && len(selected) > 0 {
		correctSelected := 0
		incorrectSelected := 0
		for id := range selected {
			if correct[id] {
				correctSelected++
			} else {
				incorrectSelected++
			}
		}
		raw := (float64(correctSelected) - float64(incorrectSelected)*0.5) / float64(len(correct)) * maxScore
		score := round2(raw)
		if score > 0 {
			return finalResult(false, score, maxScore, "Jawaban sebagian benar.", map[string]interface{}{
				"correct_selected":   correctSelected,
				"incorrect_selected": incorrectSelected,
				"total_correct":      len(correct),
			})
		}
	}

	return finalResult(false, 0, maxScore, "Jawaban salah.", nil)
}

func setsEqual(a, b map[uuid.UUID]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for id := range a {
		if !b[id] {
			return false
		}
	}
	return true
}
