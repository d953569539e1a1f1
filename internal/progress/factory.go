package progress

import (
	"github.com/edukita/lms-backend/internal/logger"
	"github.com/edukita/lms-backend/internal/types"
)

// Factory resolves a calculator from a course's override attribute, falling
// back to the configured default. An unknown name silently resolves to the
// lesson-based calculator: a mildly wrong progress number is preferable to
// failing a learner-facing flow.
type Factory struct {
	log         *logger.Logger
	defaultName string
	calculators map[string]Calculator
}

func NewFactory(baseLog *logger.Logger, defaultName string) *Factory {
	factoryLog := baseLog.With("component", "ProgressCalculatorFactory")
	calculators := map[string]Calculator{
		CalculatorLessonBased:         NewLessonBasedCalculator(),
		CalculatorWeighted:            NewWeightedCalculator(),
		CalculatorAssessmentInclusive: NewAssessmentInclusiveCalculator(),
	}
	if _, ok := calculators[defaultName]; !ok {
		if defaultName != "" {
			factoryLog.Warn("Unknown default progress calculator, using lesson_based", "default", defaultName)
		}
		defaultName = CalculatorLessonBased
	}
	return &Factory{log: factoryLog, defaultName: defaultName, calculators: calculators}
}

func (f *Factory) ForCourse(course *types.Course) Calculator {
	name := f.defaultName
	if course != nil && course.ProgressCalculator != "" {
		name = course.ProgressCalculator
	}
	if calc, ok := f.calculators[name]; ok {
		return calc
	}
	f.log.Debug("Unknown progress calculator, falling back to lesson_based", "name", name)
	return f.calculators[CalculatorLessonBased]
}

func (f *Factory) ByName(name string) Calculator {
	if calc, ok := f.calculators[name]; ok {
		return calc
	}
	return f.calculators[CalculatorLessonBased]
}
