package prereq

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/edukita/lms-backend/internal/types"
)

func pathCourses(completed ...bool) []CourseState {
	out := make([]CourseState, len(completed))
	for i, done := range completed {
		out[i] = CourseState{CourseID: uuid.New(), Title: "Course", Position: i, Completed: done}
	}
	return out
}

func TestSequentialEvaluator(t *testing.T) {
	e := NewSequentialEvaluator()

	cases := []struct {
		name        string
		completed   []bool
		candidate   int
		wantMet     bool
		wantMissing int
	}{
		{name: "first_course_always_met", completed: []bool{false, false, false}, candidate: 0, wantMet: true},
		{name: "all_previous_done", completed: []bool{true, true, false}, candidate: 2, wantMet: true},
		{name: "gap_blocks", completed: []bool{true, false, false}, candidate: 2, wantMet: false, wantMissing: 1},
		{name: "nothing_done_blocks_last", completed: []bool{false, false, false}, candidate: 2, wantMet: false, wantMissing: 2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			courses := pathCourses(tc.completed...)
			got := e.Evaluate(courses, courses[tc.candidate])
			if got.IsMet != tc.wantMet {
				t.Fatalf("IsMet=%v, want %v", got.IsMet, tc.wantMet)
			}
			if len(got.MissingPrerequisites) != tc.wantMissing {
				t.Fatalf("missing=%d, want %d", len(got.MissingPrerequisites), tc.wantMissing)
			}
		})
	}
}

func TestImmediatePreviousEvaluator(t *testing.T) {
	e := NewImmediatePreviousEvaluator()

	cases := []struct {
		name      string
		completed []bool
		candidate int
		wantMet   bool
	}{
		{name: "first_course_always_met", completed: []bool{false, false}, candidate: 0, wantMet: true},
		{name: "previous_done", completed: []bool{false, true, false}, candidate: 2, wantMet: true},
		{name: "previous_pending", completed: []bool{true, false, false}, candidate: 2, wantMet: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			courses := pathCourses(tc.completed...)
			got := e.Evaluate(courses, courses[tc.candidate])
			if got.IsMet != tc.wantMet {
				t.Fatalf("IsMet=%v, want %v", got.IsMet, tc.wantMet)
			}
		})
	}
}

func TestNoneEvaluator(t *testing.T) {
	e := NewNoneEvaluator()
	courses := pathCourses(false, false, false)
	for i := range courses {
		if got := e.Evaluate(courses, courses[i]); !got.IsMet {
			t.Fatalf("none mode must always be met (course %d)", i)
		}
	}
}

func TestFactory_ModeResolution(t *testing.T) {
	f := NewFactory("")

	cases := []struct {
		mode types.PrerequisiteMode
		want types.PrerequisiteMode
	}{
		{mode: types.PrerequisiteModeSequential, want: types.PrerequisiteModeSequential},
		{mode: types.PrerequisiteModeImmediatePrevious, want: types.PrerequisiteModeImmediatePrevious},
		{mode: types.PrerequisiteModeNone, want: types.PrerequisiteModeNone},
		{mode: "", want: types.PrerequisiteModeSequential},
	}
	for _, tc := range cases {
		ev, err := f.ForMode(tc.mode)
		if err != nil {
			t.Fatalf("ForMode(%q): %v", tc.mode, err)
		}
		if ev.Mode() != tc.want {
			t.Fatalf("ForMode(%q)=%s, want %s", tc.mode, ev.Mode(), tc.want)
		}
	}
}

func TestFactory_UnknownModeIsHardError(t *testing.T) {
	f := NewFactory("")
	_, err := f.ForMode("adaptive")
	if err == nil {
		t.Fatalf("unknown mode must error, not silently default")
	}
	var modeErr *UnknownModeError
	if !errors.As(err, &modeErr) {
		t.Fatalf("error type=%T, want *UnknownModeError", err)
	}
	if modeErr.Mode != "adaptive" {
		t.Fatalf("mode=%q, want adaptive", modeErr.Mode)
	}
}
