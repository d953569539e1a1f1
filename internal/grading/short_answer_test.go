package grading

import (
	"testing"

	"github.com/google/uuid"

	"github.com/edukita/lms-backend/internal/types"
)

func shortAnswerQuestion(points int, correctAnswer string, caseSensitive bool) *types.Question {
	return &types.Question{
		ID:            uuid.New(),
		Type:          types.QuestionTypeShortAnswer,
		Points:        points,
		CorrectAnswer: correctAnswer,
		CaseSensitive: caseSensitive,
	}
}

func TestShortAnswer_CaseInsensitiveExactMatch(t *testing.T) {
	s := NewShortAnswerStrategy(0)
	q := shortAnswerQuestion(10, "Jakarta", false)

	got := s.Grade(q, Answer{Text: "jakarta"})
	if !got.IsCorrect || got.Score != 10.0 {
		t.Fatalf("got isCorrect=%v score=%v, want true 10.0", got.IsCorrect, got.Score)
	}

	got = s.Grade(q, Answer{Text: "Surabaya"})
	if got.IsCorrect || got.Score != 0 {
		t.Fatalf("got isCorrect=%v score=%v, want false 0", got.IsCorrect, got.Score)
	}
}

func TestShortAnswer_CaseSensitiveMatch(t *testing.T) {
	s := NewShortAnswerStrategy(0)
	q := shortAnswerQuestion(10, "Jakarta", true)

	got := s.Grade(q, Answer{Text: "jakarta"})
	if got.IsCorrect {
		t.Fatalf("case-sensitive question must reject different casing as exact match")
	}
}

func TestShortAnswer_NoReferenceAnswersDefersToManual(t *testing.T) {
	s := NewShortAnswerStrategy(0)
	q := shortAnswerQuestion(10, "", false)

	got := s.Grade(q, Answer{Text: "anything"})
	if got.Outcome != OutcomePendingReview {
		t.Fatalf("outcome=%v, want pending review", got.Outcome)
	}
	if got.Score != 0 || got.IsCorrect {
		t.Fatalf("pending result must carry score 0 and isCorrect false")
	}
	if v, ok := got.Metadata[MetadataKeyRequiresManualGrading].(bool); !ok || !v {
		t.Fatalf("metadata %q must be true", MetadataKeyRequiresManualGrading)
	}
}

func TestShortAnswer_EmptyAnswerIsIncorrect(t *testing.T) {
	s := NewShortAnswerStrategy(0)
	q := shortAnswerQuestion(10, "Jakarta", false)

	got := s.Grade(q, Answer{Text: "   "})
	if got.IsCorrect || got.Score != 0 {
		t.Fatalf("empty answer: got isCorrect=%v score=%v, want false 0", got.IsCorrect, got.Score)
	}
	if got.Outcome != OutcomeFinal {
		t.Fatalf("empty answer must not defer to manual grading")
	}
}

func TestShortAnswer_SimilarityPartialCredit(t *testing.T) {
	s := NewShortAnswerStrategy(0.8)
	q := shortAnswerQuestion(10, "Jakarta", false)

	// One dropped character keeps similarity above the threshold:
	// 2*6/(6+7) ~= 0.923.
	got := s.Grade(q, Answer{Text: "Jakart"})
	if got.IsCorrect {
		t.Fatalf("partial match must not report correct")
	}
	if got.Score <= 0 || got.Score >= 10 {
		t.Fatalf("score=%v, want partial credit in (0,10)", got.Score)
	}
	if _, ok := got.Metadata["matched_answer"]; !ok {
		t.Fatalf("partial credit must carry the matched reference answer")
	}
}

func TestShortAnswer_BelowThresholdIsIncorrect(t *testing.T) {
	s := NewShortAnswerStrategy(0.8)
	q := shortAnswerQuestion(10, "Jakarta", false)

	got := s.Grade(q, Answer{Text: "Bandung"})
	if got.Score != 0 || got.IsCorrect {
		t.Fatalf("dissimilar answer: got isCorrect=%v score=%v, want false 0", got.IsCorrect, got.Score)
	}
}

func TestShortAnswer_AcceptableSetUnionsOptions(t *testing.T) {
	s := NewShortAnswerStrategy(0)
	q := shortAnswerQuestion(10, "Jakarta, Batavia", false)
	q.Options = append(q.Options, types.QuestionOption{ID: uuid.New(), Text: "DKI Jakarta", IsCorrect: true})

	for _, answer := range []string{"Jakarta", "Batavia", "dki jakarta"} {
		got := s.Grade(q, Answer{Text: answer})
		if !got.IsCorrect {
			t.Fatalf("answer %q should match the acceptable set", answer)
		}
	}
}

func TestSimilarityRatio(t *testing.T) {
	s := NewShortAnswerStrategy(0)

	cases := []struct {
		name string
		a, b string
		want float64
	}{
		{name: "identical", a: "abc", b: "abc", want: 1},
		{name: "disjoint", a: "abc", b: "xyz", want: 0},
		{name: "both_empty", a: "", b: "", want: 1},
		{name: "one_empty", a: "abc", b: "", want: 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := s.similarity(tc.a, tc.b, true)
			if got != tc.want {
				t.Fatalf("similarity(%q,%q)=%v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}
