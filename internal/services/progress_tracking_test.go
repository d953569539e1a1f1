package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/edukita/lms-backend/internal/prereq"
	"github.com/edukita/lms-backend/internal/progress"
	"github.com/edukita/lms-backend/internal/types"
)

type trackingFixture struct {
	userID      uuid.UUID
	course      *types.Course
	pagedLesson *types.Lesson
	mediaLesson *types.Lesson
	enrollment  *types.Enrollment

	enrollments    *fakeEnrollmentRepo
	lessons        *fakeLessonRepo
	lessonProgress *fakeLessonProgressRepo
	svc            ProgressTrackingService
}

func newTrackingFixture() *trackingFixture {
	log := newTestLogger()

	f := &trackingFixture{
		userID: uuid.New(),
		course: &types.Course{ID: uuid.New(), Title: "Dasar Pemrograman", Status: types.CourseStatusPublished},
	}
	f.pagedLesson = &types.Lesson{
		ID:          uuid.New(),
		CourseID:    f.course.ID,
		Title:       "Modul 1",
		ContentType: types.LessonContentPaged,
		Position:    0,
		TotalPages:  10,
	}
	f.mediaLesson = &types.Lesson{
		ID:              uuid.New(),
		CourseID:        f.course.ID,
		Title:           "Video Pengantar",
		ContentType:     types.LessonContentMedia,
		Position:        1,
		DurationSeconds: 600,
	}
	f.enrollment = &types.Enrollment{
		ID:       uuid.New(),
		UserID:   f.userID,
		CourseID: f.course.ID,
		Status:   types.EnrollmentStatusActive,
	}

	f.enrollments = &fakeEnrollmentRepo{enrollments: map[uuid.UUID]*types.Enrollment{f.enrollment.ID: f.enrollment}}
	f.lessonProgress = &fakeLessonProgressRepo{}
	courses := &fakeCourseRepo{courses: map[uuid.UUID]*types.Course{f.course.ID: f.course}}
	f.lessons = &fakeLessonRepo{lessons: []*types.Lesson{f.pagedLesson, f.mediaLesson}}
	assessments := &fakeAssessmentRepo{}
	attempts := &fakeAttemptRepo{attempts: map[uuid.UUID]*types.AssessmentAttempt{}}
	pathRows := &fakePathCourseProgressRepo{}
	pathEnrollments := &fakePathEnrollmentRepo{enrollments: map[uuid.UUID]*types.LearningPathEnrollment{}}
	paths := &fakeLearningPathRepo{paths: map[uuid.UUID]*types.LearningPath{}}

	pathEnrollSvc := NewPathEnrollmentService(nil, log, paths, pathEnrollments, pathRows, f.enrollments)
	pathProgressSvc := NewPathProgressService(nil, log, paths, pathEnrollments, pathRows, f.enrollments, prereq.NewFactory(""), pathEnrollSvc)

	f.svc = NewProgressTrackingService(nil, log,
		f.enrollments, f.lessons, f.lessonProgress, courses, assessments, attempts,
		pathRows, pathEnrollments,
		progress.NewFactory(log, ""), pathProgressSvc)
	return f
}

func intPtr(v int) *int { return &v }

func TestUpdateProgressPaged(t *testing.T) {
	f := newTrackingFixture()
	ctx := context.Background()

	result, err := f.svc.UpdateProgress(ctx, testTx(), f.userID, UpdateProgressInput{
		EnrollmentID:          f.enrollment.ID,
		LessonID:              f.pagedLesson.ID,
		CurrentPage:           intPtr(5),
		TimeSpentDeltaSeconds: 120,
	})
	if err != nil {
		t.Fatalf("UpdateProgress: %v", err)
	}
	if result.LessonCompleted {
		t.Error("5/10 pages should not complete the lesson")
	}
	lp := result.LessonProgress
	if lp.CurrentPage != 5 || lp.HighestPageReached != 5 {
		t.Errorf("pages = %d/%d, want 5/5", lp.CurrentPage, lp.HighestPageReached)
	}
	if lp.TimeSpentSeconds != 120 {
		t.Errorf("time spent = %d, want 120", lp.TimeSpentSeconds)
	}
	if f.enrollment.LastLessonID == nil || *f.enrollment.LastLessonID != f.pagedLesson.ID {
		t.Error("resume pointer not updated")
	}

	// flipping back to an earlier page keeps the high-water mark
	result, err = f.svc.UpdateProgress(ctx, testTx(), f.userID, UpdateProgressInput{
		EnrollmentID: f.enrollment.ID,
		LessonID:     f.pagedLesson.ID,
		CurrentPage:  intPtr(3),
	})
	if err != nil {
		t.Fatalf("UpdateProgress: %v", err)
	}
	if result.LessonProgress.CurrentPage != 3 {
		t.Errorf("current page = %d, want 3", result.LessonProgress.CurrentPage)
	}
	if result.LessonProgress.HighestPageReached != 5 {
		t.Errorf("highest page = %d, want 5", result.LessonProgress.HighestPageReached)
	}

	result, err = f.svc.UpdateProgress(ctx, testTx(), f.userID, UpdateProgressInput{
		EnrollmentID: f.enrollment.ID,
		LessonID:     f.pagedLesson.ID,
		CurrentPage:  intPtr(10),
	})
	if err != nil {
		t.Fatalf("UpdateProgress: %v", err)
	}
	if !result.LessonCompleted {
		t.Fatal("reaching the last page should complete the lesson")
	}
	if result.LessonProgress.CompletedAt == nil {
		t.Error("completed_at not stamped")
	}
	// 1 of 2 lessons done under the lesson-based calculator
	if result.CourseProgressPercentage != 50 {
		t.Errorf("course progress = %v, want 50", result.CourseProgressPercentage)
	}
	if result.CourseCompleted {
		t.Error("course should not be complete with 1 of 2 lessons")
	}
}

func TestUpdateProgressMedia(t *testing.T) {
	f := newTrackingFixture()
	ctx := context.Background()

	result, err := f.svc.UpdateProgress(ctx, testTx(), f.userID, UpdateProgressInput{
		EnrollmentID:    f.enrollment.ID,
		LessonID:        f.mediaLesson.ID,
		PositionSeconds: intPtr(480),
	})
	if err != nil {
		t.Fatalf("UpdateProgress: %v", err)
	}
	if result.LessonCompleted {
		t.Error("80%% watched should not auto-complete at the 90%% threshold")
	}
	if result.LessonProgress.ProgressPercentage != 80 {
		t.Errorf("media progress = %v, want 80", result.LessonProgress.ProgressPercentage)
	}

	result, err = f.svc.UpdateProgress(ctx, testTx(), f.userID, UpdateProgressInput{
		EnrollmentID:    f.enrollment.ID,
		LessonID:        f.mediaLesson.ID,
		PositionSeconds: intPtr(570),
	})
	if err != nil {
		t.Fatalf("UpdateProgress: %v", err)
	}
	if !result.LessonCompleted {
		t.Fatal("95%% watched should auto-complete at the 90%% threshold")
	}
}

func TestCompleteLessonIdempotent(t *testing.T) {
	f := newTrackingFixture()
	ctx := context.Background()

	first, err := f.svc.CompleteLesson(ctx, testTx(), f.userID, f.enrollment.ID, f.pagedLesson.ID)
	if err != nil {
		t.Fatalf("CompleteLesson: %v", err)
	}
	if !first.LessonCompleted {
		t.Fatal("first call should complete the lesson")
	}
	if first.LessonProgress.CurrentPage != 10 || first.LessonProgress.HighestPageReached != 10 {
		t.Errorf("force-complete should fill pages, got %d/%d",
			first.LessonProgress.CurrentPage, first.LessonProgress.HighestPageReached)
	}
	stamp := first.LessonProgress.CompletedAt

	second, err := f.svc.CompleteLesson(ctx, testTx(), f.userID, f.enrollment.ID, f.pagedLesson.ID)
	if err != nil {
		t.Fatalf("second CompleteLesson: %v", err)
	}
	if second.LessonCompleted {
		t.Error("second call must report no new completion")
	}
	if second.LessonProgress.CompletedAt != stamp {
		t.Error("second call changed completed_at")
	}
}

func TestUpdateProgressValidations(t *testing.T) {
	f := newTrackingFixture()
	ctx := context.Background()

	_, err := f.svc.UpdateProgress(ctx, testTx(), uuid.New(), UpdateProgressInput{
		EnrollmentID: f.enrollment.ID,
		LessonID:     f.pagedLesson.ID,
		CurrentPage:  intPtr(1),
	})
	if !errors.Is(err, ErrEnrollmentOwnerMismatch) {
		t.Errorf("err = %v, want ErrEnrollmentOwnerMismatch", err)
	}

	_, err = f.svc.UpdateProgress(ctx, testTx(), f.userID, UpdateProgressInput{
		EnrollmentID: f.enrollment.ID,
		LessonID:     uuid.New(),
		CurrentPage:  intPtr(1),
	})
	if err == nil {
		t.Error("unknown lesson should fail")
	}

	otherCourseLesson := &types.Lesson{ID: uuid.New(), CourseID: uuid.New(), ContentType: types.LessonContentPaged, TotalPages: 3}
	f.lessons.lessons = append(f.lessons.lessons, otherCourseLesson)
	_, err = f.svc.UpdateProgress(ctx, testTx(), f.userID, UpdateProgressInput{
		EnrollmentID: f.enrollment.ID,
		LessonID:     otherCourseLesson.ID,
		CurrentPage:  intPtr(1),
	})
	if !errors.Is(err, ErrLessonNotInCourse) {
		t.Errorf("err = %v, want ErrLessonNotInCourse", err)
	}

	f2 := newTrackingFixture()
	f2.enrollment.Status = types.EnrollmentStatusDropped
	_, err = f2.svc.UpdateProgress(ctx, testTx(), f2.userID, UpdateProgressInput{
		EnrollmentID: f2.enrollment.ID,
		LessonID:     f2.pagedLesson.ID,
		CurrentPage:  intPtr(1),
	})
	if !errors.Is(err, ErrEnrollmentDropped) {
		t.Errorf("err = %v, want ErrEnrollmentDropped", err)
	}
}

// Completing the last lesson of a path-linked course must ripple all the way
// up: enrollment completes, the path row completes, the next course unlocks,
// and the path percentage moves.
func TestLessonCompletionCascadesIntoPath(t *testing.T) {
	pf := newPathFixture(types.PrerequisiteModeSequential, 2)
	ctx := context.Background()
	log := newTestLogger()

	enrollment := pf.enroll(t, ctx)
	rows := pf.rows(t, enrollment.ID)

	lesson := &types.Lesson{
		ID:          uuid.New(),
		CourseID:    pf.courses[0].ID,
		Title:       "Satu-satunya pelajaran",
		ContentType: types.LessonContentPaged,
		TotalPages:  1,
	}
	lessons := &fakeLessonRepo{lessons: []*types.Lesson{lesson}}
	courses := &fakeCourseRepo{courses: map[uuid.UUID]*types.Course{}}
	for _, c := range pf.courses {
		courses.courses[c.ID] = c
	}

	tracking := NewProgressTrackingService(nil, log,
		pf.enrollments, lessons, &fakeLessonProgressRepo{}, courses,
		&fakeAssessmentRepo{}, &fakeAttemptRepo{attempts: map[uuid.UUID]*types.AssessmentAttempt{}},
		pf.courseProgress, pf.pathEnrollments,
		progress.NewFactory(log, ""), pf.progressSvc)

	result, err := tracking.UpdateProgress(ctx, testTx(), pf.userID, UpdateProgressInput{
		EnrollmentID: *rows[0].EnrollmentID,
		LessonID:     lesson.ID,
		CurrentPage:  intPtr(1),
	})
	if err != nil {
		t.Fatalf("UpdateProgress: %v", err)
	}
	if !result.CourseCompleted {
		t.Fatal("single-lesson course should complete with its lesson")
	}

	rows = pf.rows(t, enrollment.ID)
	if rows[0].Status != types.CourseProgressStatusCompleted {
		t.Errorf("course[0] path row = %s, want completed", rows[0].Status)
	}
	if rows[1].Status != types.CourseProgressStatusAvailable {
		t.Errorf("course[1] path row = %s, want available", rows[1].Status)
	}
	if enrollment.ProgressPercentage != 50 {
		t.Errorf("path progress = %v, want 50", enrollment.ProgressPercentage)
	}
}
