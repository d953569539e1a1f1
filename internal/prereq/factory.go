package prereq

import (
	"fmt"

	"github.com/edukita/lms-backend/internal/types"
)

// UnknownModeError marks a misconfigured prerequisite mode. Unlike the
// progress-calculator factory this is a hard failure: silently defaulting
// here could unlock gated content.
type UnknownModeError struct {
	Mode types.PrerequisiteMode
}

func (e *UnknownModeError) Error() string {
	return fmt.Sprintf("unknown prerequisite mode %q", string(e.Mode))
}

// Factory resolves the evaluator governing a path's unlocking. An unset mode
// defaults to sequential.
type Factory struct {
	defaultMode types.PrerequisiteMode
	evaluators  map[types.PrerequisiteMode]Evaluator
}

func NewFactory(defaultMode types.PrerequisiteMode) *Factory {
	if defaultMode == "" {
		defaultMode = types.PrerequisiteModeSequential
	}
	return &Factory{
		defaultMode: defaultMode,
		evaluators: map[types.PrerequisiteMode]Evaluator{
			types.PrerequisiteModeSequential:        NewSequentialEvaluator(),
			types.PrerequisiteModeImmediatePrevious: NewImmediatePreviousEvaluator(),
			types.PrerequisiteModeNone:              NewNoneEvaluator(),
		},
	}
}

func (f *Factory) ForMode(mode types.PrerequisiteMode) (Evaluator, error) {
	if mode == "" {
		mode = f.defaultMode
	}
	ev, ok := f.evaluators[mode]
	if !ok {
		return nil, &UnknownModeError{Mode: mode}
	}
	return ev, nil
}

func (f *Factory) ForPath(path *types.LearningPath) (Evaluator, error) {
	if path == nil {
		return f.ForMode("")
	}
	return f.ForMode(path.PrerequisiteMode)
}
