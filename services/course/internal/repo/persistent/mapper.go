package persistent

import (
	"learnhub/pkg/models"
	"learnhub/services/course/internal/entity"
)

func ToCourseEntity(m *models.Course) *entity.Course {
	if m == nil {
		return nil
	}

	tags := make([]string, 0, len(m.Tags))
	for _, t := range m.Tags {
		tags = append(tags, t.Name)
	}

	return &entity.Course{
		ID:          m.ID,
		AuthorID:    m.AuthorID,
		Title:       m.Title,
		Slug:        m.Slug,
		Description: m.Description,
		CoverURL:    m.CoverURL,
		Published:   m.Published,
		Tags:        tags,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func ToCourseModel(e *entity.Course) *models.Course {
	if e == nil {
		return nil
	}

	return &models.Course{
		ID:          e.ID,
		AuthorID:    e.AuthorID,
		Title:       e.Title,
		Slug:        e.Slug,
		Description: e.Description,
		CoverURL:    e.CoverURL,
		Published:   e.Published,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

// ToTreeEntity drops lesson bodies; they are served by the lesson endpoint.
func ToTreeEntity(m *models.Course) *entity.CourseTree {
	tree := &entity.CourseTree{
		Course:  ToCourseEntity(m),
		Volumes: make([]entity.Volume, 0, len(m.Volumes)),
	}

	for _, v := range m.Volumes {
		volume := entity.Volume{ID: v.ID, Title: v.Title, Position: v.Position, Chapters: make([]entity.Chapter, 0, len(v.Chapters))}
		for _, ch := range v.Chapters {
			chapter := entity.Chapter{ID: ch.ID, Title: ch.Title, Position: ch.Position, Modules: make([]entity.Module, 0, len(ch.Modules))}
			for _, mod := range ch.Modules {
				module := entity.Module{ID: mod.ID, Title: mod.Title, Position: mod.Position, Lessons: make([]entity.LessonSummary, 0, len(mod.Lessons))}
				for _, l := range mod.Lessons {
					module.Lessons = append(module.Lessons, entity.LessonSummary{ID: l.ID, Title: l.Title, Position: l.Position})
				}
				chapter.Modules = append(chapter.Modules, module)
			}
			volume.Chapters = append(volume.Chapters, chapter)
		}
		tree.Volumes = append(tree.Volumes, volume)
	}
	return tree
}

func ToLessonEntity(m *models.Lesson) *entity.Lesson {
	if m == nil {
		return nil
	}

	activities := make([]entity.Activity, 0, len(m.Activities))
	for _, a := range m.Activities {
		activities = append(activities, entity.Activity{
			ID:       a.ID,
			LessonID: a.LessonID,
			Title:    a.Title,
			Kind:     a.Kind,
			Content:  a.Content,
			Position: a.Position,
		})
	}

	return &entity.Lesson{
		ID:         m.ID,
		ModuleID:   m.ModuleID,
		CourseID:   m.CourseID,
		Title:      m.Title,
		Content:    m.Content,
		Position:   m.Position,
		Activities: activities,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func ToEnrollmentEntity(m *models.CourseEnrollment) *entity.Enrollment {
	if m == nil {
		return nil
	}
	return &entity.Enrollment{
		ID:        m.ID,
		UserID:    m.UserID,
		CourseID:  m.CourseID,
		CreatedAt: m.CreatedAt,
	}
}
