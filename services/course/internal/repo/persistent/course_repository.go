package persistent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"learnhub/pkg/models"
	"learnhub/services/course/internal/entity"

	"gorm.io/gorm"
)

type CourseRepository interface {
	Create(ctx context.Context, course *entity.Course) error
	GetByID(ctx context.Context, id string) (*entity.Course, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	List(ctx context.Context, filter entity.ListFilter) ([]*entity.Course, int64, error)
	Update(ctx context.Context, id string, update entity.CourseUpdate) (*entity.Course, error)
	SetCover(ctx context.Context, id, coverURL string) error
	Delete(ctx context.Context, id string) error
	AuthorStats(ctx context.Context, authorID, courseID string, since time.Time) ([]entity.CourseStats, error)
}

type courseRepository struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

// NormalizeTags lower-cases, trims and de-duplicates tag names.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func resolveTags(tx *gorm.DB, names []string) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(names))
	for _, name := range NormalizeTags(names) {
		tag := models.Tag{Name: name}
		if err := tx.Where("name = ?", name).FirstOrCreate(&tag).Error; err != nil {
			return nil, fmt.Errorf("resolve tag %s: %w", name, err)
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func (r *courseRepository) Create(ctx context.Context, course *entity.Course) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err := resolveTags(tx, course.Tags)
		if err != nil {
			return err
		}

		m := ToCourseModel(course)
		m.Tags = tags
		if err := tx.Create(m).Error; err != nil {
			return err
		}

		*course = *ToCourseEntity(m)
		return nil
	})
}

func (r *courseRepository) GetByID(ctx context.Context, id string) (*entity.Course, error) {
	var m models.Course
	err := r.db.WithContext(ctx).Preload("Tags").Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, entity.ErrCourseNotFound
	}
	if err != nil {
		return nil, err
	}
	return ToCourseEntity(&m), nil
}

func (r *courseRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Unscoped().Model(&models.Course{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

func (r *courseRepository) List(ctx context.Context, filter entity.ListFilter) ([]*entity.Course, int64, error) {
	filter.Normalize()

	scoped := func() *gorm.DB {
		query := r.db.WithContext(ctx).Model(&models.Course{})
		if filter.OnlyPublished {
			query = query.Where("courses.published = ?", true)
		}
		if filter.AuthorID != "" {
			query = query.Where("courses.author_id = ?", filter.AuthorID)
		}
		if filter.Tag != "" {
			query = query.
				Joins("JOIN course_tags ON course_tags.course_id = courses.id").
				Joins("JOIN tags ON tags.id = course_tags.tag_id").
				Where("tags.name = ?", strings.ToLower(filter.Tag))
		}
		return query
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Course
	err := scoped().Preload("Tags").
		Order("courses.created_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	courses := make([]*entity.Course, 0, len(rows))
	for i := range rows {
		courses = append(courses, ToCourseEntity(&rows[i]))
	}
	return courses, total, nil
}

func (r *courseRepository) Update(ctx context.Context, id string, update entity.CourseUpdate) (*entity.Course, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m models.Course
		if err := tx.Where("id = ?", id).First(&m).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return entity.ErrCourseNotFound
			}
			return err
		}

		fields := map[string]interface{}{}
		if update.Title != nil {
			fields["title"] = *update.Title
		}
		if update.Description != nil {
			fields["description"] = *update.Description
		}
		if update.Published != nil {
			fields["published"] = *update.Published
		}
		if len(fields) > 0 {
			if err := tx.Model(&m).Updates(fields).Error; err != nil {
				return err
			}
		}

		if update.Tags != nil {
			tags, err := resolveTags(tx, update.Tags)
			if err != nil {
				return err
			}
			if err := tx.Model(&m).Association("Tags").Replace(tags); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *courseRepository) SetCover(ctx context.Context, id, coverURL string) error {
	res := r.db.WithContext(ctx).Model(&models.Course{}).Where("id = ?", id).Update("cover_url", coverURL)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return entity.ErrCourseNotFound
	}
	return nil
}

func (r *courseRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Course{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return entity.ErrCourseNotFound
	}
	return nil
}

// AuthorStats aggregates per-course counters for the author's courses, or for
// a single course when courseID is set.
func (r *courseRepository) AuthorStats(ctx context.Context, authorID, courseID string, since time.Time) ([]entity.CourseStats, error) {
	db := r.db.WithContext(ctx)

	query := db.Model(&models.Course{}).Select("id", "title").Where("author_id = ?", authorID)
	if courseID != "" {
		query = query.Where("id = ?", courseID)
	}

	var courses []models.Course
	if err := query.Order("created_at DESC").Find(&courses).Error; err != nil {
		return nil, err
	}

	stats := make([]entity.CourseStats, 0, len(courses))
	for _, c := range courses {
		s := entity.CourseStats{CourseID: c.ID, Title: c.Title}

		if err := db.Model(&models.CourseEnrollment{}).Where("course_id = ?", c.ID).Count(&s.Enrollments).Error; err != nil {
			return nil, err
		}
		if err := db.Model(&models.CourseEnrollment{}).Where("course_id = ? AND created_at >= ?", c.ID, since).Count(&s.RecentEnrollments).Error; err != nil {
			return nil, err
		}
		if err := db.Model(&models.Question{}).Where("course_id = ?", c.ID).Count(&s.Questions).Error; err != nil {
			return nil, err
		}
		if err := db.Model(&models.Lesson{}).Where("course_id = ?", c.ID).Count(&s.Lessons).Error; err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, nil
}
