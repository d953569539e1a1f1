package progress

// LessonBasedCalculator is the default policy: the plain ratio of completed
// lessons to total lessons. A course with zero lessons is 0% and never
// complete.
type LessonBasedCalculator struct{}

func NewLessonBasedCalculator() *LessonBasedCalculator {
	return &LessonBasedCalculator{}
}

func (c *LessonBasedCalculator) Name() string { return CalculatorLessonBased }

func (c *LessonBasedCalculator) Calculate(in CourseProgressInput) float64 {
	total := len(in.Lessons)
	if total == 0 {
		return 0
	}
	done := len(completedLessonIDs(in))
	return round1(float64(done) / float64(total) * 100)
}

func (c *LessonBasedCalculator) IsComplete(in CourseProgressInput) bool {
	total := len(in.Lessons)
	if total == 0 {
		return false
	}
	return len(completedLessonIDs(in)) >= total
}
