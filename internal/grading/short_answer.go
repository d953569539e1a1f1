package grading

import (
	"strings"

	"github.com/edukita/lms-backend/internal/types"
)

const DefaultSimilarityThreshold = 0.8

// ShortAnswerStrategy grades short_answer and fill_blank questions against
// an acceptable-answer set built from the question's comma-separated
// correct_answer field unioned with option texts flagged correct. An exact
// match earns full credit; a near match above the similarity threshold earns
// proportional partial credit; a question with no configured answers defers
// to manual grading.
type ShortAnswerStrategy struct {
	similarityThreshold float64
}

func NewShortAnswerStrategy(similarityThreshold float64) *ShortAnswerStrategy {
	if similarityThreshold <= 0 || similarityThreshold > 1 {
		similarityThreshold = DefaultSimilarityThreshold
	}
	return &ShortAnswerStrategy{similarityThreshold: similarityThreshold}
}

func (s *ShortAnswerStrategy) HandledTypes() []types.QuestionType {
	return []types.QuestionType{types.QuestionTypeShortAnswer, types.QuestionTypeFillBlank}
}

func (s *ShortAnswerStrategy) Supports(q *types.Question) bool {
	return supportsType(s.HandledTypes(), q.Type)
}

func (s *ShortAnswerStrategy) Grade(q *types.Question, ans Answer) Result {
	maxScore := float64(q.Points)

	answered := strings.TrimSpace(ans.Text)
	if answered == "" {
		return finalResult(false, 0, maxScore, "Jawaban tidak boleh kosong.", nil)
	}

	acceptable := s.acceptableAnswers(q)
	if len(acceptable) == 0 {
		return pendingResult(maxScore, "Menunggu penilaian instruktur.", map[string]interface{}{
			"reason": "no_reference_answers",
		})
	}

	for _, ref := range acceptable {
		if s.equal(answered, ref, q.CaseSensitive) {
			return finalResult(true, maxScore, maxScore, "Jawaban benar.", nil)
		}
	}

	bestSim := 0.0
	bestRef := ""
	for _, ref := range acceptable {
		sim := s.similarity(answered, ref, q.CaseSensitive)
		if sim > bestSim {
			bestSim = sim
			bestRef = ref
		}
	}
	if bestSim >= s.similarityThreshold {
		score := round2(maxScore * bestSim)
		return finalResult(false, score, maxScore, "Jawaban hampir benar. Jawaban yang diharapkan: "+bestRef, map[string]interface{}{
			"similarity":     round2(bestSim),
			"matched_answer": bestRef,
		})
	}

	return finalResult(false, 0, maxScore, "Jawaban salah.", nil)
}

func (s *ShortAnswerStrategy) acceptableAnswers(q *types.Question) []string {
	var out []string
	for _, part := range strings.Split(q.CorrectAnswer, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	for _, opt := range q.Options {
		text := strings.TrimSpace(opt.Text)
		if opt.IsCorrect && text != "" {
			out = append(out, text)
		}
	}
	return out
}

func (s *ShortAnswerStrategy) equal(a, b string, caseSensitive bool) bool {
	if caseSensitive {
		return a == b
	}
	return strings.EqualFold(a, b)
}

// similarity is a character-level ratio based on the longest common
// subsequence: 2*LCS(a,b) / (len(a)+len(b)), in [0,1].
func (s *ShortAnswerStrategy) similarity(a, b string, caseSensitive bool) float64 {
	if !caseSensitive {
		a = strings.ToLower(a)
		b = strings.ToLower(b)
	}
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 && len(rb) == 0 {
		return 1
	}
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}
	lcs := longestCommonSubsequence(ra, rb)
	return float64(2*lcs) / float64(len(ra)+len(rb))
}

func longestCommonSubsequence(a, b []rune) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
