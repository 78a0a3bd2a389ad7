package persistent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"learnhub/pkg/models"
	"learnhub/services/forum/internal/entity"

	"gorm.io/gorm"
)

type QuestionRepository interface {
	Create(ctx context.Context, q entity.NewQuestion) (*entity.Question, error)
	GetByID(ctx context.Context, id string) (*entity.Question, error)
	List(ctx context.Context, filter entity.QuestionFilter) ([]*entity.Question, int64, error)
	Update(ctx context.Context, id string, update entity.QuestionUpdate) (*entity.Question, error)
	Delete(ctx context.Context, id string) error
	SetAccepted(ctx context.Context, questionID string, answerID *string) error
	AddAttachment(ctx context.Context, id, url string) ([]string, error)
	CountByAuthor(ctx context.Context, userID string) (int64, error)
}

type questionRepository struct {
	db *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) QuestionRepository {
	return &questionRepository{db: db}
}

func normalizeTags(tags []string) []string {
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

func findOrCreateTags(tx *gorm.DB, names []string) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(names))
	for _, name := range normalizeTags(names) {
		tag := models.Tag{Name: name}
		if err := tx.Where("name = ?", name).FirstOrCreate(&tag).Error; err != nil {
			return nil, fmt.Errorf("resolve tag %s: %w", name, err)
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func (r *questionRepository) Create(ctx context.Context, q entity.NewQuestion) (*entity.Question, error) {
	var id string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tags, err := findOrCreateTags(tx, q.Tags)
		if err != nil {
			return err
		}

		m := models.Question{
			AuthorID:   q.AuthorID,
			CourseID:   q.CourseID,
			LessonID:   q.LessonID,
			Title:      q.Title,
			Body:       q.Body,
			Type:       models.QuestionType(q.Type),
			Visibility: models.Visibility(q.Visibility),
			Tags:       tags,
		}
		if err := tx.Create(&m).Error; err != nil {
			return err
		}
		id = m.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *questionRepository) GetByID(ctx context.Context, id string) (*entity.Question, error) {
	var m models.Question
	err := r.db.WithContext(ctx).Preload("Tags").Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, entity.ErrQuestionNotFound
	}
	if err != nil {
		return nil, err
	}

	q := ToQuestionEntity(&m)
	if err := r.fillCounters(ctx, []*entity.Question{q}); err != nil {
		return nil, err
	}
	return q, nil
}

type scoreRow struct {
	ID    string
	Total int64
}

// fillCounters loads vote scores and answer counts for a page of questions
// with two grouped queries.
func (r *questionRepository) fillCounters(ctx context.Context, questions []*entity.Question) error {
	if len(questions) == 0 {
		return nil
	}
	ids := make([]string, 0, len(questions))
	for _, q := range questions {
		ids = append(ids, q.ID)
	}
	db := r.db.WithContext(ctx)

	var scores []scoreRow
	err := db.Model(&models.QuestionVote{}).
		Select("question_id AS id, COALESCE(SUM(value), 0) AS total").
		Where("question_id IN ?", ids).
		Group("question_id").
		Scan(&scores).Error
	if err != nil {
		return fmt.Errorf("question scores: %w", err)
	}

	var answers []scoreRow
	err = db.Model(&models.Answer{}).
		Select("question_id AS id, COUNT(*) AS total").
		Where("question_id IN ?", ids).
		Group("question_id").
		Scan(&answers).Error
	if err != nil {
		return fmt.Errorf("answer counts: %w", err)
	}

	scoreByID := make(map[string]int64, len(scores))
	for _, s := range scores {
		scoreByID[s.ID] = s.Total
	}
	answersByID := make(map[string]int64, len(answers))
	for _, a := range answers {
		answersByID[a.ID] = a.Total
	}
	for _, q := range questions {
		q.Score = int(scoreByID[q.ID])
		q.AnswerCount = answersByID[q.ID]
	}
	return nil
}

func (r *questionRepository) List(ctx context.Context, filter entity.QuestionFilter) ([]*entity.Question, int64, error) {
	filter.Normalize()

	scoped := func() *gorm.DB {
		db := r.db.WithContext(ctx)
		query := db.Model(&models.Question{})
		if filter.CourseID != "" {
			query = query.Where("questions.course_id = ?", filter.CourseID)
		}
		if filter.AuthorID != "" {
			query = query.Where("questions.author_id = ?", filter.AuthorID)
		}
		if filter.Tag != "" {
			query = query.
				Joins("JOIN question_tags ON question_tags.question_id = questions.id").
				Joins("JOIN tags ON tags.id = question_tags.tag_id").
				Where("tags.name = ?", strings.ToLower(filter.Tag))
		}
		if !filter.AllPrivate {
			if filter.ViewerID == "" {
				query = query.Where("questions.visibility = ?", models.VisibilityPublic)
			} else {
				authored := db.Model(&models.Course{}).Select("id").Where("author_id = ?", filter.ViewerID)
				query = query.Where(
					"questions.visibility = ? OR questions.author_id = ? OR questions.course_id IN (?)",
					models.VisibilityPublic, filter.ViewerID, authored,
				)
			}
		}
		return query
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.Question
	err := scoped().Preload("Tags").
		Order("questions.created_at DESC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	questions := make([]*entity.Question, 0, len(rows))
	for i := range rows {
		questions = append(questions, ToQuestionEntity(&rows[i]))
	}
	if err := r.fillCounters(ctx, questions); err != nil {
		return nil, 0, err
	}
	return questions, total, nil
}

func (r *questionRepository) Update(ctx context.Context, id string, update entity.QuestionUpdate) (*entity.Question, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m models.Question
		if err := tx.Where("id = ?", id).First(&m).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return entity.ErrQuestionNotFound
			}
			return err
		}

		fields := map[string]interface{}{}
		if update.Title != nil {
			fields["title"] = *update.Title
		}
		if update.Body != nil {
			fields["body"] = *update.Body
		}
		if update.Type != nil {
			fields["type"] = *update.Type
		}
		if update.Visibility != nil {
			fields["visibility"] = *update.Visibility
		}
		if len(fields) > 0 {
			if err := tx.Model(&m).Updates(fields).Error; err != nil {
				return err
			}
		}

		if update.Tags != nil {
			tags, err := findOrCreateTags(tx, update.Tags)
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

func (r *questionRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Question{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return entity.ErrQuestionNotFound
	}
	return nil
}

// SetAccepted marks answerID as the accepted answer; nil clears it.
func (r *questionRepository) SetAccepted(ctx context.Context, questionID string, answerID *string) error {
	res := r.db.WithContext(ctx).Model(&models.Question{}).
		Where("id = ?", questionID).
		Update("accepted_answer_id", answerID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return entity.ErrQuestionNotFound
	}
	return nil
}

func (r *questionRepository) AddAttachment(ctx context.Context, id, url string) ([]string, error) {
	var urls []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m models.Question
		if err := tx.Select("id", "attachment_urls").Where("id = ?", id).First(&m).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return entity.ErrQuestionNotFound
			}
			return err
		}

		urls = append(decodeAttachments(m.AttachmentURLs), url)
		if len(urls) > entity.MaxAttachments {
			return entity.ErrTooManyFiles
		}
		return tx.Model(&models.Question{}).Where("id = ?", id).Update("attachment_urls", encodeAttachments(urls)).Error
	})
	if err != nil {
		return nil, err
	}
	return urls, nil
}

func (r *questionRepository) CountByAuthor(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Question{}).Where("author_id = ?", userID).Count(&count).Error
	return count, err
}
