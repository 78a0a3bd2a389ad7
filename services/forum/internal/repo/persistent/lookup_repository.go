package persistent

import (
	"context"
	"errors"

	"learnhub/pkg/models"
	"learnhub/services/forum/internal/entity"

	"gorm.io/gorm"
)

// LookupRepository reads the course, lesson and user rows the forum links to.
type LookupRepository interface {
	CourseAuthor(ctx context.Context, courseID string) (string, error)
	LessonCourse(ctx context.Context, lessonID string) (string, error)
	User(ctx context.Context, userID string) (*models.User, error)
}

type lookupRepository struct {
	db *gorm.DB
}

func NewLookupRepository(db *gorm.DB) LookupRepository {
	return &lookupRepository{db: db}
}

func (r *lookupRepository) CourseAuthor(ctx context.Context, courseID string) (string, error) {
	var course models.Course
	err := r.db.WithContext(ctx).Select("id", "author_id").Where("id = ?", courseID).First(&course).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", entity.ErrCourseNotFound
	}
	if err != nil {
		return "", err
	}
	return course.AuthorID, nil
}

func (r *lookupRepository) LessonCourse(ctx context.Context, lessonID string) (string, error) {
	var lesson models.Lesson
	err := r.db.WithContext(ctx).Select("id", "course_id").Where("id = ?", lessonID).First(&lesson).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", entity.ErrLessonNotFound
	}
	if err != nil {
		return "", err
	}
	return lesson.CourseID, nil
}

func (r *lookupRepository) User(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, entity.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}
