package grading

import "math"

// Outcome distinguishes a final auto-graded result from one that is parked
// until an instructor grades it. A pending result always carries IsCorrect
// false and a zero score placeholder.
type Outcome string

const (
	OutcomeFinal         Outcome = "final"
	OutcomePendingReview Outcome = "pending_review"
)

// MetadataKeyRequiresManualGrading is kept alongside the Outcome enum so
// persisted grading metadata stays self-describing.
const MetadataKeyRequiresManualGrading = "requires_manual_grading"

type Result struct {
	Outcome   Outcome                `json:"outcome"`
	IsCorrect bool                   `json:"is_correct"`
	Score     float64                `json:"score"`
	MaxScore  float64                `json:"max_score"`
	Feedback  string                 `json:"feedback"`
	Metadata  map[string]interface{} `json:"metadata"`
}

func (r Result) RequiresManualGrading() bool {
	return r.Outcome == OutcomePendingReview
}

func finalResult(isCorrect bool, score, maxScore float64, feedback string, metadata map[string]interface{}) Result {
	if metadata == nil {
		metadata = map[string]interface{}{}
	}
	if score < 0 {
		score = 0
	}
	if score > maxScore {
		score = maxScore
	}
	return Result{
		Outcome:   OutcomeFinal,
		IsCorrect: isCorrect,
		Score:     score,
		MaxScore:  maxScore,
		Feedback:  feedback,
		Metadata:  metadata,
	}
}

func pendingResult(maxScore float64, feedback string, metadata map[string]interface{}) Result {
	if metadata == nil {
		metadata = map[string]interface{}{}
	}
	metadata[MetadataKeyRequiresManualGrading] = true
	return Result{
		Outcome:   OutcomePendingReview,
		IsCorrect: false,
		Score:     0,
		MaxScore:  maxScore,
		Feedback:  feedback,
		Metadata:  metadata,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
