package progress

// WeightedCalculator weights each lesson by its estimated duration in
// minutes. When the course carries no duration data at all it falls back to
// the lesson-count ratio.
type WeightedCalculator struct {
	fallback *LessonBasedCalculator
}

func NewWeightedCalculator() *WeightedCalculator {
	return &WeightedCalculator{fallback: NewLessonBasedCalculator()}
}

func (c *WeightedCalculator) Name() string { return CalculatorWeighted }

func (c *WeightedCalculator) Calculate(in CourseProgressInput) float64 {
	totalDuration := 0
	for _, l := range in.Lessons {
		totalDuration += l.DurationMinutes
	}
	if totalDuration == 0 {
		return c.fallback.Calculate(in)
	}

	done := completedLessonIDs(in)
	completedDuration := 0
	for _, l := range in.Lessons {
		if done[l.ID] {
			completedDuration += l.DurationMinutes
		}
	}
	return round1(float64(completedDuration) / float64(totalDuration) * 100)
}

func (c *WeightedCalculator) IsComplete(in CourseProgressInput) bool {
	return c.fallback.IsComplete(in)
}
