package persistent

import (
	"context"
	"errors"

	"learnhub/pkg/models"
	"learnhub/services/course/internal/entity"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EnrollmentRepository interface {
	Find(ctx context.Context, userID, courseID string) (*entity.Enrollment, error)
	Create(ctx context.Context, userID, courseID string) (*entity.Enrollment, error)
	Delete(ctx context.Context, userID, courseID string) error
	Count(ctx context.Context, userID, courseID string) (int64, error)
	ListByUser(ctx context.Context, userID string) ([]*entity.EnrolledCourse, error)
}

// LessonViewRepository records which lessons a user has opened.
type LessonViewRepository interface {
	Upsert(ctx context.Context, userID, lessonID, courseID string) (bool, error)
	Delete(ctx context.Context, userID, lessonID string) error
	CountViewed(ctx context.Context, userID, courseID string) (int64, error)
}

type enrollmentRepository struct {
	db *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

// Find returns ErrNotEnrolled when no row exists.
func (r *enrollmentRepository) Find(ctx context.Context, userID, courseID string) (*entity.Enrollment, error) {
	var m models.CourseEnrollment
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Order("created_at ASC").
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, entity.ErrNotEnrolled
	}
	if err != nil {
		return nil, err
	}
	return ToEnrollmentEntity(&m), nil
}

func (r *enrollmentRepository) Create(ctx context.Context, userID, courseID string) (*entity.Enrollment, error) {
	m := models.CourseEnrollment{UserID: userID, CourseID: courseID}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return nil, err
	}
	return ToEnrollmentEntity(&m), nil
}

// Delete removes every row for the pair so a duplicate left by a concurrent
// enroll does not survive an unenroll.
func (r *enrollmentRepository) Delete(ctx context.Context, userID, courseID string) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Delete(&models.CourseEnrollment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return entity.ErrNotEnrolled
	}
	return nil
}

func (r *enrollmentRepository) Count(ctx context.Context, userID, courseID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.CourseEnrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error
	return count, err
}

func (r *enrollmentRepository) ListByUser(ctx context.Context, userID string) ([]*entity.EnrolledCourse, error) {
	db := r.db.WithContext(ctx)

	var enrollments []models.CourseEnrollment
	if err := db.Where("user_id = ?", userID).Order("created_at DESC").Find(&enrollments).Error; err != nil {
		return nil, err
	}
	if len(enrollments) == 0 {
		return []*entity.EnrolledCourse{}, nil
	}

	ids := make([]string, 0, len(enrollments))
	for _, e := range enrollments {
		ids = append(ids, e.CourseID)
	}

	var courses []models.Course
	if err := db.Preload("Tags").Where("id IN ?", ids).Find(&courses).Error; err != nil {
		return nil, err
	}
	byID := make(map[string]*models.Course, len(courses))
	for i := range courses {
		byID[courses[i].ID] = &courses[i]
	}

	out := make([]*entity.EnrolledCourse, 0, len(enrollments))
	seen := make(map[string]bool, len(enrollments))
	for _, e := range enrollments {
		c, ok := byID[e.CourseID]
		if !ok || seen[e.CourseID] {
			continue
		}
		seen[e.CourseID] = true
		out = append(out, &entity.EnrolledCourse{Course: ToCourseEntity(c), EnrolledAt: e.CreatedAt})
	}
	return out, nil
}

type lessonViewRepository struct {
	db *gorm.DB
}

func NewLessonViewRepository(db *gorm.DB) LessonViewRepository {
	return &lessonViewRepository{db: db}
}

// Upsert reports whether a new row was written. Re-marking a viewed lesson
// leaves the single existing row in place.
func (r *lessonViewRepository) Upsert(ctx context.Context, userID, lessonID, courseID string) (bool, error) {
	view := models.LessonView{UserID: userID, LessonID: lessonID, CourseID: courseID}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
			DoNothing: true,
		}).
		Create(&view)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *lessonViewRepository) Delete(ctx context.Context, userID, lessonID string) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		Delete(&models.LessonView{})
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return entity.ErrLessonNotViewed
	}
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return entity.ErrLessonNotViewed
	}
	return nil
}

func (r *lessonViewRepository) CountViewed(ctx context.Context, userID, courseID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.LessonView{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error
	return count, err
}
