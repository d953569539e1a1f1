package progress

// AssessmentInclusiveCalculator blends lesson progress (weight 0.7) with
// assessment progress (weight 0.3). Assessment progress is the fraction of
// published assessments the learner has a passing attempt for. Draft and
// non-required assessments never block completion.
type AssessmentInclusiveCalculator struct{}

const (
	lessonWeight     = 0.7
	assessmentWeight = 0.3
)

func NewAssessmentInclusiveCalculator() *AssessmentInclusiveCalculator {
	return &AssessmentInclusiveCalculator{}
}

func (c *AssessmentInclusiveCalculator) Name() string { return CalculatorAssessmentInclusive }

func (c *AssessmentInclusiveCalculator) Calculate(in CourseProgressInput) float64 {
	return round1(c.lessonPercentage(in)*lessonWeight + c.assessmentPercentage(in)*assessmentWeight)
}

func (c *AssessmentInclusiveCalculator) IsComplete(in CourseProgressInput) bool {
	if len(in.Lessons) > 0 && len(completedLessonIDs(in)) < len(in.Lessons) {
		return false
	}
	for _, a := range in.Assessments {
		if a.Required && a.Published && !a.Passed {
			return false
		}
	}
	return true
}

// lessonPercentage treats a course with zero lessons as fully covered on the
// lesson axis, unlike the standalone lesson-based calculator.
func (c *AssessmentInclusiveCalculator) lessonPercentage(in CourseProgressInput) float64 {
	total := len(in.Lessons)
	if total == 0 {
		return 100
	}
	return float64(len(completedLessonIDs(in))) / float64(total) * 100
}

func (c *AssessmentInclusiveCalculator) assessmentPercentage(in CourseProgressInput) float64 {
	published := 0
	passed := 0
	for _, a := range in.Assessments {
		if !a.Published {
			continue
		}
		published++
		if a.Passed {
			passed++
		}
	}
	if published == 0 {
		return 100
	}
	return float64(passed) / float64(published) * 100
}
