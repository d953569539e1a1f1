package progress

import (
	"testing"

	"github.com/google/uuid"

	"github.com/edukita/lms-backend/internal/logger"
	"github.com/edukita/lms-backend/internal/types"
)

func lessonsInput(total, completed int) CourseProgressInput {
	in := CourseProgressInput{}
	for i := 0; i < total; i++ {
		id := uuid.New()
		in.Lessons = append(in.Lessons, LessonRef{ID: id, DurationMinutes: 10})
		in.LessonProgress = append(in.LessonProgress, LessonProgressRef{LessonID: id, Completed: i < completed})
	}
	return in
}

func TestLessonBased_Ratio(t *testing.T) {
	c := NewLessonBasedCalculator()

	cases := []struct {
		name      string
		total     int
		completed int
		wantPct   float64
		wantDone  bool
	}{
		{name: "none_done", total: 4, completed: 0, wantPct: 0, wantDone: false},
		{name: "half_done", total: 4, completed: 2, wantPct: 50, wantDone: false},
		{name: "one_third", total: 3, completed: 1, wantPct: 33.3, wantDone: false},
		{name: "all_done", total: 4, completed: 4, wantPct: 100, wantDone: true},
		{name: "zero_lessons", total: 0, completed: 0, wantPct: 0, wantDone: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := lessonsInput(tc.total, tc.completed)
			if got := c.Calculate(in); got != tc.wantPct {
				t.Fatalf("Calculate=%v, want %v", got, tc.wantPct)
			}
			if got := c.IsComplete(in); got != tc.wantDone {
				t.Fatalf("IsComplete=%v, want %v", got, tc.wantDone)
			}
		})
	}
}

func TestLessonBased_IgnoresOrphanedProgressRows(t *testing.T) {
	c := NewLessonBasedCalculator()
	in := lessonsInput(2, 2)
	// Progress row for a lesson that no longer exists.
	in.LessonProgress = append(in.LessonProgress, LessonProgressRef{LessonID: uuid.New(), Completed: true})

	if got := c.Calculate(in); got != 100 {
		t.Fatalf("Calculate=%v, want 100 (orphan excluded)", got)
	}
	if !c.IsComplete(in) {
		t.Fatalf("orphaned rows must not affect completion")
	}
}

func TestWeighted_DurationRatio(t *testing.T) {
	c := NewWeightedCalculator()

	long := uuid.New()
	short := uuid.New()
	in := CourseProgressInput{
		Lessons: []LessonRef{
			{ID: long, DurationMinutes: 90},
			{ID: short, DurationMinutes: 10},
		},
		LessonProgress: []LessonProgressRef{
			{LessonID: long, Completed: true},
			{LessonID: short, Completed: false},
		},
	}
	if got := c.Calculate(in); got != 90 {
		t.Fatalf("Calculate=%v, want 90", got)
	}
}

func TestWeighted_ZeroDurationFallsBackToCount(t *testing.T) {
	c := NewWeightedCalculator()
	in := lessonsInput(4, 1)
	for i := range in.Lessons {
		in.Lessons[i].DurationMinutes = 0
	}
	if got := c.Calculate(in); got != 25 {
		t.Fatalf("Calculate=%v, want 25 (count fallback)", got)
	}
}

func TestAssessmentInclusive_Blend(t *testing.T) {
	c := NewAssessmentInclusiveCalculator()

	// Scenario: 4 lessons all completed, 2 published required assessments,
	// 1 passed -> 100*0.7 + 50*0.3 = 85.0.
	in := lessonsInput(4, 4)
	in.Assessments = []AssessmentRef{
		{ID: uuid.New(), Published: true, Required: true, Passed: true},
		{ID: uuid.New(), Published: true, Required: true, Passed: false},
	}
	if got := c.Calculate(in); got != 85.0 {
		t.Fatalf("Calculate=%v, want 85.0", got)
	}
	if c.IsComplete(in) {
		t.Fatalf("IsComplete must be false while a required assessment is unpassed")
	}
}

func TestAssessmentInclusive_DraftAndOptionalNeverBlock(t *testing.T) {
	c := NewAssessmentInclusiveCalculator()

	in := lessonsInput(2, 2)
	in.Assessments = []AssessmentRef{
		{ID: uuid.New(), Published: false, Required: true, Passed: false},
		{ID: uuid.New(), Published: true, Required: false, Passed: false},
	}
	if !c.IsComplete(in) {
		t.Fatalf("draft and optional assessments must not block completion")
	}
}

func TestAssessmentInclusive_ZeroCounts(t *testing.T) {
	c := NewAssessmentInclusiveCalculator()

	// No lessons and no published assessments: both axes read 100.
	in := CourseProgressInput{}
	if got := c.Calculate(in); got != 100 {
		t.Fatalf("Calculate=%v, want 100", got)
	}
	if !c.IsComplete(in) {
		t.Fatalf("empty course should read complete under the blend policy")
	}
}

func TestFactory_Resolution(t *testing.T) {
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	f := NewFactory(log, CalculatorWeighted)

	if got := f.ForCourse(nil).Name(); got != CalculatorWeighted {
		t.Fatalf("nil course should use default, got %s", got)
	}
	if got := f.ForCourse(&types.Course{ProgressCalculator: CalculatorAssessmentInclusive}).Name(); got != CalculatorAssessmentInclusive {
		t.Fatalf("override ignored, got %s", got)
	}
	if got := f.ForCourse(&types.Course{ProgressCalculator: "mystery"}).Name(); got != CalculatorLessonBased {
		t.Fatalf("unknown name must fall back to lesson_based, got %s", got)
	}
}

func TestFactory_UnknownDefaultFallsBack(t *testing.T) {
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	f := NewFactory(log, "mystery")
	if got := f.ForCourse(nil).Name(); got != CalculatorLessonBased {
		t.Fatalf("unknown default must fall back to lesson_based, got %s", got)
	}
}
