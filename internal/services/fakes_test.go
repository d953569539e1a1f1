package services

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/edukita/lms-backend/internal/logger"
	"github.com/edukita/lms-backend/internal/types"
)

func newTestLogger() *logger.Logger {
	return &logger.Logger{SugaredLogger: zap.NewNop().Sugar()}
}

// testTx is a non-nil placeholder transaction; the fakes ignore it.
func testTx() *gorm.DB { return &gorm.DB{} }

type fakeCourseRepo struct {
	courses map[uuid.UUID]*types.Course
}

func (f *fakeCourseRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Course, error) {
	if c, ok := f.courses[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeCourseRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Course, error) {
	var out []*types.Course
	for _, id := range ids {
		if c, ok := f.courses[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeLessonRepo struct {
	lessons []*types.Lesson
}

func (f *fakeLessonRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Lesson, error) {
	for _, l := range f.lessons {
		if l.ID == id {
			return l, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLessonRepo) GetByCourseID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]*types.Lesson, error) {
	var out []*types.Lesson
	for _, l := range f.lessons {
		if l.CourseID == courseID {
			out = append(out, l)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

type fakeAssessmentRepo struct {
	assessments []*types.Assessment
}

func (f *fakeAssessmentRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Assessment, error) {
	for _, a := range f.assessments {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAssessmentRepo) GetByCourseID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) ([]*types.Assessment, error) {
	var out []*types.Assessment
	for _, a := range f.assessments {
		if a.CourseID == courseID {
			out = append(out, a)
		}
	}
	return out, nil
}

type fakeQuestionRepo struct {
	questions []*types.Question
}

func (f *fakeQuestionRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Question, error) {
	for _, q := range f.questions {
		if q.ID == id {
			return q, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeQuestionRepo) GetByAssessmentID(ctx context.Context, tx *gorm.DB, assessmentID uuid.UUID) ([]*types.Question, error) {
	var out []*types.Question
	for _, q := range f.questions {
		if q.AssessmentID == assessmentID {
			out = append(out, q)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

type fakeAttemptRepo struct {
	attempts map[uuid.UUID]*types.AssessmentAttempt
}

func (f *fakeAttemptRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.AssessmentAttempt, error) {
	if a, ok := f.attempts[id]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeAttemptRepo) Create(ctx context.Context, tx *gorm.DB, attempt *types.AssessmentAttempt) error {
	if attempt.ID == uuid.Nil {
		attempt.ID = uuid.New()
	}
	f.attempts[attempt.ID] = attempt
	return nil
}

func (f *fakeAttemptRepo) Update(ctx context.Context, tx *gorm.DB, attempt *types.AssessmentAttempt) error {
	f.attempts[attempt.ID] = attempt
	return nil
}

func (f *fakeAttemptRepo) GetPassedAssessmentIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID, assessmentIDs []uuid.UUID) (map[uuid.UUID]bool, error) {
	wanted := make(map[uuid.UUID]bool, len(assessmentIDs))
	for _, id := range assessmentIDs {
		wanted[id] = true
	}
	passed := make(map[uuid.UUID]bool)
	for _, a := range f.attempts {
		if a.UserID == userID && a.Passed && wanted[a.AssessmentID] {
			passed[a.AssessmentID] = true
		}
	}
	return passed, nil
}

type fakeAttemptAnswerRepo struct {
	answers []*types.AttemptAnswer
}

func (f *fakeAttemptAnswerRepo) GetByAttemptID(ctx context.Context, tx *gorm.DB, attemptID uuid.UUID) ([]*types.AttemptAnswer, error) {
	var out []*types.AttemptAnswer
	for _, a := range f.answers {
		if a.AttemptID == attemptID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAttemptAnswerRepo) Create(ctx context.Context, tx *gorm.DB, answers []*types.AttemptAnswer) error {
	for _, a := range answers {
		if a.ID == uuid.Nil {
			a.ID = uuid.New()
		}
		f.answers = append(f.answers, a)
	}
	return nil
}

func (f *fakeAttemptAnswerRepo) Update(ctx context.Context, tx *gorm.DB, answer *types.AttemptAnswer) error {
	for i, a := range f.answers {
		if a.ID == answer.ID {
			f.answers[i] = answer
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type fakeEnrollmentRepo struct {
	enrollments map[uuid.UUID]*types.Enrollment
}

func (f *fakeEnrollmentRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Enrollment, error) {
	if e, ok := f.enrollments[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEnrollmentRepo) GetByUserAndCourse(ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID) (*types.Enrollment, error) {
	for _, e := range f.enrollments {
		if e.UserID == userID && e.CourseID == courseID {
			return e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEnrollmentRepo) GetByUserAndCourseIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID, courseIDs []uuid.UUID) ([]*types.Enrollment, error) {
	wanted := make(map[uuid.UUID]bool, len(courseIDs))
	for _, id := range courseIDs {
		wanted[id] = true
	}
	var out []*types.Enrollment
	for _, e := range f.enrollments {
		if e.UserID == userID && wanted[e.CourseID] {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEnrollmentRepo) Create(ctx context.Context, tx *gorm.DB, enrollment *types.Enrollment) error {
	if enrollment.ID == uuid.Nil {
		enrollment.ID = uuid.New()
	}
	f.enrollments[enrollment.ID] = enrollment
	return nil
}

func (f *fakeEnrollmentRepo) Update(ctx context.Context, tx *gorm.DB, enrollment *types.Enrollment) error {
	f.enrollments[enrollment.ID] = enrollment
	return nil
}

type fakeLessonProgressRepo struct {
	rows []*types.LessonProgress
}

func (f *fakeLessonProgressRepo) GetByEnrollmentAndLesson(ctx context.Context, tx *gorm.DB, enrollmentID, lessonID uuid.UUID) (*types.LessonProgress, error) {
	for _, r := range f.rows {
		if r.EnrollmentID == enrollmentID && r.LessonID == lessonID {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeLessonProgressRepo) GetByEnrollmentID(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID) ([]*types.LessonProgress, error) {
	var out []*types.LessonProgress
	for _, r := range f.rows {
		if r.EnrollmentID == enrollmentID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeLessonProgressRepo) Create(ctx context.Context, tx *gorm.DB, progress *types.LessonProgress) error {
	if progress.ID == uuid.Nil {
		progress.ID = uuid.New()
	}
	f.rows = append(f.rows, progress)
	return nil
}

func (f *fakeLessonProgressRepo) Update(ctx context.Context, tx *gorm.DB, progress *types.LessonProgress) error {
	for i, r := range f.rows {
		if r.ID == progress.ID {
			f.rows[i] = progress
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type fakeLearningPathRepo struct {
	paths map[uuid.UUID]*types.LearningPath
}

func (f *fakeLearningPathRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.LearningPath, error) {
	if p, ok := f.paths[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakePathEnrollmentRepo struct {
	enrollments map[uuid.UUID]*types.LearningPathEnrollment
}

func (f *fakePathEnrollmentRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.LearningPathEnrollment, error) {
	if e, ok := f.enrollments[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePathEnrollmentRepo) GetByUserAndPath(ctx context.Context, tx *gorm.DB, userID, pathID uuid.UUID) (*types.LearningPathEnrollment, error) {
	for _, e := range f.enrollments {
		if e.UserID == userID && e.LearningPathID == pathID {
			return e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePathEnrollmentRepo) Create(ctx context.Context, tx *gorm.DB, enrollment *types.LearningPathEnrollment) error {
	if enrollment.ID == uuid.Nil {
		enrollment.ID = uuid.New()
	}
	f.enrollments[enrollment.ID] = enrollment
	return nil
}

func (f *fakePathEnrollmentRepo) Update(ctx context.Context, tx *gorm.DB, enrollment *types.LearningPathEnrollment) error {
	f.enrollments[enrollment.ID] = enrollment
	return nil
}

type fakePathCourseProgressRepo struct {
	rows []*types.LearningPathCourseProgress
}

func (f *fakePathCourseProgressRepo) GetByEnrollmentID(ctx context.Context, tx *gorm.DB, pathEnrollmentID uuid.UUID) ([]*types.LearningPathCourseProgress, error) {
	var out []*types.LearningPathCourseProgress
	for _, r := range f.rows {
		if r.PathEnrollmentID == pathEnrollmentID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (f *fakePathCourseProgressRepo) GetByEnrollmentAndCourse(ctx context.Context, tx *gorm.DB, pathEnrollmentID, courseID uuid.UUID) (*types.LearningPathCourseProgress, error) {
	for _, r := range f.rows {
		if r.PathEnrollmentID == pathEnrollmentID && r.CourseID == courseID {
			return r, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePathCourseProgressRepo) GetByCourseEnrollmentID(ctx context.Context, tx *gorm.DB, enrollmentID uuid.UUID) ([]*types.LearningPathCourseProgress, error) {
	var out []*types.LearningPathCourseProgress
	for _, r := range f.rows {
		if r.EnrollmentID != nil && *r.EnrollmentID == enrollmentID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakePathCourseProgressRepo) CreateBatch(ctx context.Context, tx *gorm.DB, rows []*types.LearningPathCourseProgress) error {
	for _, r := range rows {
		if r.ID == uuid.Nil {
			r.ID = uuid.New()
		}
		f.rows = append(f.rows, r)
	}
	return nil
}

func (f *fakePathCourseProgressRepo) Update(ctx context.Context, tx *gorm.DB, row *types.LearningPathCourseProgress) error {
	for i, r := range f.rows {
		if r.ID == row.ID {
			f.rows[i] = row
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakePathCourseProgressRepo) DeleteByEnrollmentID(ctx context.Context, tx *gorm.DB, pathEnrollmentID uuid.UUID) error {
	kept := f.rows[:0]
	for _, r := range f.rows {
		if r.PathEnrollmentID != pathEnrollmentID {
			kept = append(kept, r)
		}
	}
	f.rows = kept
	return nil
}
