package usecase

import (
	"context"
	"errors"
	"fmt"

	"learnhub/pkg/access"
	"learnhub/pkg/activity"
	"learnhub/pkg/logger"
	"learnhub/pkg/queue"
	"learnhub/services/course/internal/entity"
	"learnhub/services/course/internal/repo/persistent"
)

type EnrollmentUseCase interface {
	Enroll(ctx context.Context, userID, courseID string) (*entity.Enrollment, error)
	Unenroll(ctx context.Context, userID, courseID string) error
	Status(ctx context.Context, userID, courseID string) (*entity.EnrollmentStatus, error)
	MyEnrollments(ctx context.Context, userID string) ([]*entity.EnrolledCourse, error)
	MarkViewed(ctx context.Context, userID, lessonID string) error
	UnmarkViewed(ctx context.Context, userID, lessonID string) error
	Progress(ctx context.Context, userID, courseID string) (*entity.Progress, error)
}

type enrollmentUseCase struct {
	courseRepo     persistent.CourseRepository
	contentRepo    persistent.ContentRepository
	enrollmentRepo persistent.EnrollmentRepository
	viewRepo       persistent.LessonViewRepository
	authorizer     access.Authorizer
	emitter        activity.Emitter
	publisher      queue.Publisher
	logger         *logger.Logger
}

// NewEnrollmentUseCase accepts a nil publisher; enrollment notifications are
// then skipped.
func NewEnrollmentUseCase(
	courseRepo persistent.CourseRepository,
	contentRepo persistent.ContentRepository,
	enrollmentRepo persistent.EnrollmentRepository,
	viewRepo persistent.LessonViewRepository,
	authorizer access.Authorizer,
	emitter activity.Emitter,
	publisher queue.Publisher,
	logger *logger.Logger,
) EnrollmentUseCase {
	return &enrollmentUseCase{
		courseRepo:     courseRepo,
		contentRepo:    contentRepo,
		enrollmentRepo: enrollmentRepo,
		viewRepo:       viewRepo,
		authorizer:     authorizer,
		emitter:        emitter,
		publisher:      publisher,
		logger:         logger,
	}
}

// Enroll checks for an existing row and then inserts. The two steps are not
// atomic and the table carries no unique constraint, so two concurrent calls
// can both succeed; Unenroll removes every row for the pair.
func (uc *enrollmentUseCase) Enroll(ctx context.Context, userID, courseID string) (*entity.Enrollment, error) {
	if userID == "" {
		return nil, access.ErrUnauthenticated
	}

	course, err := uc.visibleCourse(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}

	if _, err := uc.enrollmentRepo.Find(ctx, userID, courseID); err == nil {
		return nil, entity.ErrAlreadyEnrolled
	} else if !errors.Is(err, entity.ErrNotEnrolled) {
		return nil, err
	}

	enrollment, err := uc.enrollmentRepo.Create(ctx, userID, courseID)
	if err != nil {
		return nil, fmt.Errorf("create enrollment: %w", err)
	}

	uc.emitter.Emit(activity.Event{
		UserID:     userID,
		Type:       activity.TypeCourseEnrolled,
		EntityType: "course",
		EntityID:   courseID,
		Metadata:   map[string]interface{}{"title": course.Title},
	})

	if course.AuthorID != userID {
		go uc.publishNotification(queue.NotificationTask{
			Type:       queue.TaskCourseEnrolled,
			UserID:     course.AuthorID,
			ActorID:    userID,
			Title:      "New enrollment",
			Message:    fmt.Sprintf("A new student enrolled in %s", course.Title),
			EntityType: "course",
			EntityID:   courseID,
			Priority:   3,
		})
	}

	return enrollment, nil
}

func (uc *enrollmentUseCase) publishNotification(task queue.NotificationTask) {
	if uc.publisher == nil {
		return
	}
	if err := uc.publisher.PublishNotificationTask(task); err != nil {
		uc.logger.Error("[ENROLLMENT] Failed to publish %s notification: %v", task.Type, err)
	}
}

// visibleCourse loads a course the caller may see. Drafts look missing to
// anyone who cannot manage them.
func (uc *enrollmentUseCase) visibleCourse(ctx context.Context, userID, courseID string) (*entity.Course, error) {
	course, err := uc.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if err := courseVisible(ctx, uc.authorizer, userID, course); err != nil {
		return nil, err
	}
	return course, nil
}

func (uc *enrollmentUseCase) Unenroll(ctx context.Context, userID, courseID string) error {
	if userID == "" {
		return access.ErrUnauthenticated
	}

	if err := uc.enrollmentRepo.Delete(ctx, userID, courseID); err != nil {
		return err
	}

	uc.emitter.Emit(activity.Event{
		UserID:     userID,
		Type:       activity.TypeCourseUnenrolled,
		EntityType: "course",
		EntityID:   courseID,
	})
	return nil
}

func (uc *enrollmentUseCase) Status(ctx context.Context, userID, courseID string) (*entity.EnrollmentStatus, error) {
	if userID == "" {
		return nil, access.ErrUnauthenticated
	}

	enrollment, err := uc.enrollmentRepo.Find(ctx, userID, courseID)
	if errors.Is(err, entity.ErrNotEnrolled) {
		return &entity.EnrollmentStatus{Enrolled: false}, nil
	}
	if err != nil {
		return nil, err
	}

	at := enrollment.CreatedAt
	return &entity.EnrollmentStatus{Enrolled: true, EnrolledAt: &at}, nil
}

func (uc *enrollmentUseCase) MyEnrollments(ctx context.Context, userID string) ([]*entity.EnrolledCourse, error) {
	if userID == "" {
		return nil, access.ErrUnauthenticated
	}
	return uc.enrollmentRepo.ListByUser(ctx, userID)
}

// MarkViewed is idempotent. Only the first view of a lesson counts as
// activity.
func (uc *enrollmentUseCase) MarkViewed(ctx context.Context, userID, lessonID string) error {
	if userID == "" {
		return access.ErrUnauthenticated
	}

	courseID, err := uc.contentRepo.CourseIDOf(ctx, entity.NodeLesson, lessonID)
	if err != nil {
		return err
	}
	if _, err := uc.visibleCourse(ctx, userID, courseID); err != nil {
		if errors.Is(err, entity.ErrCourseNotFound) {
			return entity.ErrContentNotFound
		}
		return err
	}

	created, err := uc.viewRepo.Upsert(ctx, userID, lessonID, courseID)
	if err != nil {
		return fmt.Errorf("mark lesson viewed: %w", err)
	}

	if created {
		uc.emitter.Emit(activity.Event{
			UserID:     userID,
			Type:       activity.TypeLessonViewed,
			EntityType: "lesson",
			EntityID:   lessonID,
			Metadata:   map[string]interface{}{"course_id": courseID},
		})
	}
	return nil
}

func (uc *enrollmentUseCase) UnmarkViewed(ctx context.Context, userID, lessonID string) error {
	if userID == "" {
		return access.ErrUnauthenticated
	}
	return uc.viewRepo.Delete(ctx, userID, lessonID)
}

func (uc *enrollmentUseCase) Progress(ctx context.Context, userID, courseID string) (*entity.Progress, error) {
	if userID == "" {
		return nil, access.ErrUnauthenticated
	}

	if _, err := uc.visibleCourse(ctx, userID, courseID); err != nil {
		return nil, err
	}

	total, err := uc.contentRepo.CountLessons(ctx, courseID)
	if err != nil {
		return nil, err
	}
	viewed, err := uc.viewRepo.CountViewed(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	return entity.NewProgress(courseID, viewed, total), nil
}
