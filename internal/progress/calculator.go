package progress

import (
	"math"

	"github.com/google/uuid"
)

// CalculatorName values accepted by the factory.
const (
	CalculatorLessonBased         = "lesson_based"
	CalculatorWeighted            = "weighted"
	CalculatorAssessmentInclusive = "assessment_inclusive"
)

// LessonRef is a live (non-deleted) lesson in the course. Progress rows
// pointing at lessons absent from this set are orphans and never counted.
type LessonRef struct {
	ID              uuid.UUID
	DurationMinutes int
}

type LessonProgressRef struct {
	LessonID  uuid.UUID
	Completed bool
}

type AssessmentRef struct {
	ID        uuid.UUID
	Published bool
	Required  bool
	Passed    bool
}

// CourseProgressInput is the read-only snapshot a calculator works from. The
// services assemble it; calculators never touch storage.
type CourseProgressInput struct {
	Lessons        []LessonRef
	LessonProgress []LessonProgressRef
	Assessments    []AssessmentRef
}

// Calculator computes a course enrollment's completion percentage and
// completion predicate under one weighting policy.
type Calculator interface {
	Name() string
	Calculate(in CourseProgressInput) float64
	IsComplete(in CourseProgressInput) bool
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// completedLessonIDs filters progress rows down to completed ones whose
// lesson still exists.
func completedLessonIDs(in CourseProgressInput) map[uuid.UUID]bool {
	live := make(map[uuid.UUID]bool, len(in.Lessons))
	for _, l := range in.Lessons {
		live[l.ID] = true
	}
	done := make(map[uuid.UUID]bool)
	for _, p := range in.LessonProgress {
		if p.Completed && live[p.LessonID] {
			done[p.LessonID] = true
		}
	}
	return done
}
