package persistent

import (
	"context"
	"errors"
	"fmt"

	"learnhub/pkg/models"
	"learnhub/services/course/internal/entity"

	"gorm.io/gorm"
)

type ContentRepository interface {
	Tree(ctx context.Context, courseID string) (*entity.CourseTree, error)
	GetLesson(ctx context.Context, lessonID string) (*entity.Lesson, error)
	// CourseIDOf resolves the course owning a node, used for ownership checks.
	CourseIDOf(ctx context.Context, kind entity.NodeKind, id string) (string, error)
	AddNode(ctx context.Context, kind entity.NodeKind, courseID string, node entity.NewNode) (*entity.Node, error)
	CountLessons(ctx context.Context, courseID string) (int64, error)
}

type contentRepository struct {
	db *gorm.DB
}

func NewContentRepository(db *gorm.DB) ContentRepository {
	return &contentRepository{db: db}
}

func ordered(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC, created_at ASC")
}

func (r *contentRepository) Tree(ctx context.Context, courseID string) (*entity.CourseTree, error) {
	var m models.Course
	err := r.db.WithContext(ctx).
		Preload("Tags").
		Preload("Volumes", ordered).
		Preload("Volumes.Chapters", ordered).
		Preload("Volumes.Chapters.Modules", ordered).
		Preload("Volumes.Chapters.Modules.Lessons", ordered).
		Where("id = ?", courseID).
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, entity.ErrCourseNotFound
	}
	if err != nil {
		return nil, err
	}
	return ToTreeEntity(&m), nil
}

func (r *contentRepository) GetLesson(ctx context.Context, lessonID string) (*entity.Lesson, error) {
	var m models.Lesson
	err := r.db.WithContext(ctx).Preload("Activities", ordered).Where("id = ?", lessonID).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, entity.ErrContentNotFound
	}
	if err != nil {
		return nil, err
	}
	return ToLessonEntity(&m), nil
}

func (r *contentRepository) CourseIDOf(ctx context.Context, kind entity.NodeKind, id string) (string, error) {
	db := r.db.WithContext(ctx)
	var courseID string
	var query *gorm.DB

	switch kind {
	case entity.NodeVolume:
		query = db.Model(&models.Volume{}).Select("volumes.course_id").Where("volumes.id = ?", id)
	case entity.NodeChapter:
		query = db.Model(&models.Chapter{}).
			Select("volumes.course_id").
			Joins("JOIN volumes ON volumes.id = chapters.volume_id").
			Where("chapters.id = ?", id)
	case entity.NodeModule:
		query = db.Model(&models.Module{}).
			Select("volumes.course_id").
			Joins("JOIN chapters ON chapters.id = modules.chapter_id").
			Joins("JOIN volumes ON volumes.id = chapters.volume_id").
			Where("modules.id = ?", id)
	case entity.NodeLesson:
		query = db.Model(&models.Lesson{}).Select("lessons.course_id").Where("lessons.id = ?", id)
	default:
		return "", fmt.Errorf("unknown node kind %q", kind)
	}

	res := query.Limit(1).Scan(&courseID)
	if res.Error != nil {
		return "", res.Error
	}
	if courseID == "" {
		return "", entity.ErrContentNotFound
	}
	return courseID, nil
}

// nextPosition returns one past the highest sibling position.
func nextPosition(tx *gorm.DB, model interface{}, parentColumn, parentID string) (int, error) {
	var max int
	err := tx.Model(model).
		Select("COALESCE(MAX(position), -1)").
		Where(parentColumn+" = ?", parentID).
		Row().
		Scan(&max)
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}

// nodeTable maps a node kind to its model and the column pointing at its
// parent.
func nodeTable(kind entity.NodeKind) (interface{}, string, error) {
	switch kind {
	case entity.NodeVolume:
		return &models.Volume{}, "course_id", nil
	case entity.NodeChapter:
		return &models.Chapter{}, "volume_id", nil
	case entity.NodeModule:
		return &models.Module{}, "chapter_id", nil
	case entity.NodeLesson:
		return &models.Lesson{}, "module_id", nil
	case entity.NodeActivity:
		return &models.LessonActivity{}, "lesson_id", nil
	}
	return nil, "", fmt.Errorf("unknown node kind %q", kind)
}

// AddNode creates a node of the given kind below node.ParentID. The parent
// must already belong to courseID.
func (r *contentRepository) AddNode(ctx context.Context, kind entity.NodeKind, courseID string, node entity.NewNode) (*entity.Node, error) {
	model, parentColumn, err := nodeTable(kind)
	if err != nil {
		return nil, err
	}

	out := &entity.Node{Kind: kind, ParentID: node.ParentID, CourseID: courseID, Title: node.Title}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if node.Position != nil {
			out.Position = *node.Position
		} else {
			next, err := nextPosition(tx, model, parentColumn, node.ParentID)
			if err != nil {
				return err
			}
			out.Position = next
		}

		switch kind {
		case entity.NodeVolume:
			v := models.Volume{CourseID: node.ParentID, Title: node.Title, Position: out.Position}
			err = tx.Create(&v).Error
			out.ID = v.ID
		case entity.NodeChapter:
			ch := models.Chapter{VolumeID: node.ParentID, Title: node.Title, Position: out.Position}
			err = tx.Create(&ch).Error
			out.ID = ch.ID
		case entity.NodeModule:
			m := models.Module{ChapterID: node.ParentID, Title: node.Title, Position: out.Position}
			err = tx.Create(&m).Error
			out.ID = m.ID
		case entity.NodeLesson:
			l := models.Lesson{ModuleID: node.ParentID, CourseID: courseID, Title: node.Title, Content: node.Content, Position: out.Position}
			err = tx.Create(&l).Error
			out.ID = l.ID
		case entity.NodeActivity:
			a := models.LessonActivity{LessonID: node.ParentID, Title: node.Title, Kind: node.Kind, Content: node.Content, Position: out.Position}
			err = tx.Create(&a).Error
			out.ID = a.ID
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *contentRepository) CountLessons(ctx context.Context, courseID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Lesson{}).Where("course_id = ?", courseID).Count(&count).Error
	return count, err
}
