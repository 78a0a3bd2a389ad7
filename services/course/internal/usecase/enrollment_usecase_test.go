package usecase

import (
	"context"
	"testing"
	"time"

	"learnhub/pkg/access"
	"learnhub/pkg/activity"
	"learnhub/pkg/models"
	"learnhub/pkg/queue"
	"learnhub/services/course/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) publishedCourse(t *testing.T) *entity.Course {
	t.Helper()
	course, err := f.courses.CreateCourse(context.Background(), f.teacher.ID, CreateCourseInput{Title: "Go Basics", Published: true})
	require.NoError(t, err)
	return course
}

func (f *fixture) lesson(t *testing.T, courseID string) string {
	t.Helper()
	ctx := context.Background()
	volume, err := f.courses.AddNode(ctx, f.teacher.ID, entity.NodeVolume, entity.NewNode{ParentID: courseID, Title: "V"})
	require.NoError(t, err)
	chapter, err := f.courses.AddNode(ctx, f.teacher.ID, entity.NodeChapter, entity.NewNode{ParentID: volume.ID, Title: "C"})
	require.NoError(t, err)
	module, err := f.courses.AddNode(ctx, f.teacher.ID, entity.NodeModule, entity.NewNode{ParentID: chapter.ID, Title: "M"})
	require.NoError(t, err)
	lesson, err := f.courses.AddNode(ctx, f.teacher.ID, entity.NodeLesson, entity.NewNode{ParentID: module.ID, Title: "L", Content: "text"})
	require.NoError(t, err)
	return lesson.ID
}

func TestEnroll_StatusRoundTrip(t *testing.T) {
	f := newFixture(t)
	course := f.publishedCourse(t)
	ctx := context.Background()

	status, err := f.enrollment.Status(ctx, f.student.ID, course.ID)
	require.NoError(t, err)
	assert.False(t, status.Enrolled)

	_, err = f.enrollment.Enroll(ctx, f.student.ID, course.ID)
	require.NoError(t, err)

	status, err = f.enrollment.Status(ctx, f.student.ID, course.ID)
	require.NoError(t, err)
	assert.True(t, status.Enrolled)
	assert.NotNil(t, status.EnrolledAt)

	require.NoError(t, f.enrollment.Unenroll(ctx, f.student.ID, course.ID))

	status, err = f.enrollment.Status(ctx, f.student.ID, course.ID)
	require.NoError(t, err)
	assert.False(t, status.Enrolled)
	assert.Nil(t, status.EnrolledAt)
}

func TestEnroll_Twice(t *testing.T) {
	f := newFixture(t)
	course := f.publishedCourse(t)
	ctx := context.Background()

	_, err := f.enrollment.Enroll(ctx, f.student.ID, course.ID)
	require.NoError(t, err)

	_, err = f.enrollment.Enroll(ctx, f.student.ID, course.ID)
	assert.ErrorIs(t, err, entity.ErrAlreadyEnrolled)

	var rows int64
	f.db.Model(&models.CourseEnrollment{}).Where("user_id = ? AND course_id = ?", f.student.ID, course.ID).Count(&rows)
	assert.Equal(t, int64(1), rows)
}

func TestEnroll_SideEffects(t *testing.T) {
	f := newFixture(t)
	course := f.publishedCourse(t)

	_, err := f.enrollment.Enroll(context.Background(), f.student.ID, course.ID)
	require.NoError(t, err)

	assert.Contains(t, f.emitter.types(), activity.TypeCourseEnrolled)
	require.Eventually(t, func() bool { return len(f.publisher.snapshot()) == 1 }, time.Second, 10*time.Millisecond)
	task := f.publisher.snapshot()[0]
	assert.Equal(t, queue.TaskCourseEnrolled, task.Type)
	assert.Equal(t, f.teacher.ID, task.UserID)
	assert.Equal(t, f.student.ID, task.ActorID)
}

func TestUnenroll_NotEnrolled(t *testing.T) {
	f := newFixture(t)
	course := f.publishedCourse(t)

	err := f.enrollment.Unenroll(context.Background(), f.student.ID, course.ID)
	assert.ErrorIs(t, err, entity.ErrNotEnrolled)
}

func TestEnrollment_RequiresUser(t *testing.T) {
	f := newFixture(t)
	course := f.publishedCourse(t)
	ctx := context.Background()

	_, err := f.enrollment.Enroll(ctx, "", course.ID)
	assert.ErrorIs(t, err, access.ErrUnauthenticated)
	assert.ErrorIs(t, f.enrollment.Unenroll(ctx, "", course.ID), access.ErrUnauthenticated)
	_, err = f.enrollment.Status(ctx, "", course.ID)
	assert.ErrorIs(t, err, access.ErrUnauthenticated)
}

func TestEnroll_MissingCourse(t *testing.T) {
	f := newFixture(t)

	_, err := f.enrollment.Enroll(context.Background(), f.student.ID, "missing")
	assert.ErrorIs(t, err, entity.ErrCourseNotFound)
}

func TestMarkViewed_Idempotent(t *testing.T) {
	f := newFixture(t)
	course := f.publishedCourse(t)
	lessonID := f.lesson(t, course.ID)
	ctx := context.Background()

	require.NoError(t, f.enrollment.MarkViewed(ctx, f.student.ID, lessonID))
	require.NoError(t, f.enrollment.MarkViewed(ctx, f.student.ID, lessonID))

	var rows int64
	f.db.Model(&models.LessonView{}).Where("user_id = ? AND lesson_id = ?", f.student.ID, lessonID).Count(&rows)
	assert.Equal(t, int64(1), rows)

	viewed := 0
	for _, typ := range f.emitter.types() {
		if typ == activity.TypeLessonViewed {
			viewed++
		}
	}
	assert.Equal(t, 1, viewed)

	progress, err := f.enrollment.Progress(ctx, f.student.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), progress.ViewedLessons)
	assert.Equal(t, int64(1), progress.TotalLessons)
	assert.Equal(t, float64(100), progress.Percent)
}

func TestUnmarkViewed_Missing(t *testing.T) {
	f := newFixture(t)
	course := f.publishedCourse(t)
	lessonID := f.lesson(t, course.ID)

	err := f.enrollment.UnmarkViewed(context.Background(), f.student.ID, lessonID)
	assert.ErrorIs(t, err, entity.ErrLessonNotViewed)
}

func TestMarkViewed_UnknownLesson(t *testing.T) {
	f := newFixture(t)

	err := f.enrollment.MarkViewed(context.Background(), f.student.ID, "missing")
	assert.ErrorIs(t, err, entity.ErrContentNotFound)
}

func TestEnrollment_DraftCourseLooksMissing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	draft, err := f.courses.CreateCourse(ctx, f.teacher.ID, CreateCourseInput{Title: "Draft"})
	require.NoError(t, err)
	lessonID := f.lesson(t, draft.ID)

	_, err = f.enrollment.Enroll(ctx, f.student.ID, draft.ID)
	assert.ErrorIs(t, err, entity.ErrCourseNotFound)
	_, err = f.enrollment.Enroll(ctx, f.student.ID, "missing")
	assert.ErrorIs(t, err, entity.ErrCourseNotFound)

	assert.ErrorIs(t, f.enrollment.MarkViewed(ctx, f.student.ID, lessonID), entity.ErrContentNotFound)

	_, err = f.enrollment.Progress(ctx, f.student.ID, draft.ID)
	assert.ErrorIs(t, err, entity.ErrCourseNotFound)

	var rows int64
	f.db.Model(&models.CourseEnrollment{}).Where("course_id = ?", draft.ID).Count(&rows)
	assert.Zero(t, rows)
	f.db.Model(&models.LessonView{}).Where("lesson_id = ?", lessonID).Count(&rows)
	assert.Zero(t, rows)

	_, err = f.enrollment.Enroll(ctx, f.admin.ID, draft.ID)
	assert.NoError(t, err)
	assert.NoError(t, f.enrollment.MarkViewed(ctx, f.teacher.ID, lessonID))
	progress, err := f.enrollment.Progress(ctx, f.teacher.ID, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), progress.TotalLessons)
	assert.Equal(t, int64(1), progress.ViewedLessons)
}
