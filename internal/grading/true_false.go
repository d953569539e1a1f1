package grading

import (
	"strings"

	"github.com/edukita/lms-backend/internal/types"
)

const FeedbackInvalidAnswer = "Jawaban tidak valid."

// TrueFalseStrategy normalizes a boolean-ish answer against configurable
// synonym lists (Indonesian and English by default) and compares it with the
// option flagged correct. Unrecognized input grades as incorrect with an
// invalid-answer feedback, never as an error.
type TrueFalseStrategy struct {
	trueSynonyms  map[string]bool
	falseSynonyms map[string]bool
}

func NewTrueFalseStrategy(trueSynonyms, falseSynonyms []string) *TrueFalseStrategy {
	if len(trueSynonyms) == 0 {
		trueSynonyms = DefaultTrueSynonyms()
	}
	if len(falseSynonyms) == 0 {
		falseSynonyms = DefaultFalseSynonyms()
	}
	s := &TrueFalseStrategy{
		trueSynonyms:  make(map[string]bool, len(trueSynonyms)),
		falseSynonyms: make(map[string]bool, len(falseSynonyms)),
	}
	for _, syn := range trueSynonyms {
		s.trueSynonyms[strings.ToLower(strings.TrimSpace(syn))] = true
	}
	for _, syn := range falseSynonyms {
		s.falseSynonyms[strings.ToLower(strings.TrimSpace(syn))] = true
	}
	return s
}

func DefaultTrueSynonyms() []string {
	return []string{"true", "benar", "1", "ya", "yes"}
}

func DefaultFalseSynonyms() []string {
	return []string{"false", "salah", "0", "tidak", "no"}
}

func (s *TrueFalseStrategy) HandledTypes() []types.QuestionType {
	return []types.QuestionType{types.QuestionTypeTrueFalse, types.QuestionTypeBoolean}
}

func (s *TrueFalseStrategy) Supports(q *types.Question) bool {
	return supportsType(s.HandledTypes(), q.Type)
}

func (s *TrueFalseStrategy) Grade(q *types.Question, ans Answer) Result {
	maxScore := float64(q.Points)

	answered, ok := s.normalize(ans.Text)
	if !ok {
		return finalResult(false, 0, maxScore, FeedbackInvalidAnswer, map[string]interface{}{
			"invalid_answer": true,
		})
	}

	if answered == s.correctValue(q) {
		return finalResult(true, maxScore, maxScore, "Jawaban benar.", nil)
	}
	return finalResult(false, 0, maxScore, "Jawaban salah.", nil)
}

// correctValue reads the expected boolean from the option marked correct,
// defaulting to true when no option carries the flag.
func (s *TrueFalseStrategy) correctValue(q *types.Question) bool {
	for _, opt := range q.Options {
		if opt.IsCorrect {
			if v, ok := s.normalize(opt.Text); ok {
				return v
			}
			return true
		}
	}
	return true
}

func (s *TrueFalseStrategy) normalize(raw string) (bool, bool) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if v == "" {
		return false, false
	}
	if s.trueSynonyms[v] {
		return true, true
	}
	if s.falseSynonyms[v] {
		return false, true
	}
	return false, false
}
