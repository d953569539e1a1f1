package progress

import "testing"

func TestRequiredCoursesPercentage(t *testing.T) {
	cases := []struct {
		name string
		rows []PathCourseRef
		want float64
	}{
		{
			name: "one_of_three_required",
			rows: []PathCourseRef{
				{Required: true, Completed: true},
				{Required: true, Completed: false},
				{Required: true, Completed: false},
			},
			want: 33.3,
		},
		{
			name: "optional_courses_ignored",
			rows: []PathCourseRef{
				{Required: true, Completed: true},
				{Required: false, Completed: false},
			},
			want: 100,
		},
		{
			name: "no_required_means_all_required",
			rows: []PathCourseRef{
				{Required: false, Completed: true},
				{Required: false, Completed: false},
			},
			want: 50,
		},
		{
			name: "empty_path",
			rows: nil,
			want: 0,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := RequiredCoursesPercentage(tc.rows); got != tc.want {
				t.Fatalf("RequiredCoursesPercentage=%v, want %v", got, tc.want)
			}
		})
	}
}

func TestIsPathComplete(t *testing.T) {
	cases := []struct {
		name string
		rows []PathCourseRef
		want bool
	}{
		{
			name: "all_required_done",
			rows: []PathCourseRef{
				{Required: true, Completed: true},
				{Required: false, Completed: false},
			},
			want: true,
		},
		{
			name: "required_pending",
			rows: []PathCourseRef{
				{Required: true, Completed: true},
				{Required: true, Completed: false},
			},
			want: false,
		},
		{
			name: "none_required_all_count",
			rows: []PathCourseRef{
				{Required: false, Completed: true},
				{Required: false, Completed: true},
			},
			want: true,
		},
		{
			name: "empty_path_never_complete",
			rows: nil,
			want: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsPathComplete(tc.rows); got != tc.want {
				t.Fatalf("IsPathComplete=%v, want %v", got, tc.want)
			}
		})
	}
}
