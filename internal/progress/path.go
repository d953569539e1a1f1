package progress

// PathCourseRef is one course-progress row of a path enrollment, reduced to
// what the path-level ratio needs.
type PathCourseRef struct {
	Required  bool
	Completed bool
}

// requiredOnly filters to required courses; when the path marks nothing as
// required, every course counts as required.
func requiredOnly(rows []PathCourseRef) []PathCourseRef {
	var required []PathCourseRef
	for _, r := range rows {
		if r.Required {
			required = append(required, r)
		}
	}
	if len(required) == 0 {
		return rows
	}
	return required
}

// RequiredCoursesPercentage is the path-level completion ratio: the fraction
// of required courses completed, to 1 decimal place.
func RequiredCoursesPercentage(rows []PathCourseRef) float64 {
	counted := requiredOnly(rows)
	if len(counted) == 0 {
		return 0
	}
	done := 0
	for _, r := range counted {
		if r.Completed {
			done++
		}
	}
	return round1(float64(done) / float64(len(counted)) * 100)
}

// IsPathComplete reports whether every required course (or every course, if
// none is marked required) is completed.
func IsPathComplete(rows []PathCourseRef) bool {
	counted := requiredOnly(rows)
	if len(counted) == 0 {
		return false
	}
	for _, r := range counted {
		if !r.Completed {
			return false
		}
	}
	return true
}
