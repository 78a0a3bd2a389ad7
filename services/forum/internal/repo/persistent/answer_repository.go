package persistent

import (
	"context"
	"errors"

	"learnhub/pkg/models"
	"learnhub/services/forum/internal/entity"

	"gorm.io/gorm"
)

type AnswerRepository interface {
	Create(ctx context.Context, questionID, authorID, body string) (*entity.Answer, error)
	GetByID(ctx context.Context, id string) (*entity.Answer, error)
	// ListByQuestion returns the accepted answer first, then by score and age.
	ListByQuestion(ctx context.Context, questionID string, accepted *string) ([]*entity.Answer, error)
	Update(ctx context.Context, id, body string) (*entity.Answer, error)
	Delete(ctx context.Context, id string) error
	CountByAuthor(ctx context.Context, userID string) (int64, error)
}

type answerRepository struct {
	db *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) AnswerRepository {
	return &answerRepository{db: db}
}

func (r *answerRepository) Create(ctx context.Context, questionID, authorID, body string) (*entity.Answer, error) {
	m := models.Answer{QuestionID: questionID, AuthorID: authorID, Body: body}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return nil, err
	}
	return ToAnswerEntity(&m, nil), nil
}

func (r *answerRepository) score(ctx context.Context, id string) (int, error) {
	var total int
	err := r.db.WithContext(ctx).Model(&models.AnswerVote{}).
		Select("COALESCE(SUM(value), 0)").
		Where("answer_id = ?", id).
		Row().
		Scan(&total)
	return total, err
}

func (r *answerRepository) GetByID(ctx context.Context, id string) (*entity.Answer, error) {
	var m models.Answer
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, entity.ErrAnswerNotFound
	}
	if err != nil {
		return nil, err
	}

	a := ToAnswerEntity(&m, nil)
	if a.Score, err = r.score(ctx, id); err != nil {
		return nil, err
	}
	return a, nil
}

func (r *answerRepository) ListByQuestion(ctx context.Context, questionID string, accepted *string) ([]*entity.Answer, error) {
	db := r.db.WithContext(ctx)

	var rows []models.Answer
	if err := db.Where("question_id = ?", questionID).Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []*entity.Answer{}, nil
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	var scores []scoreRow
	err := db.Model(&models.AnswerVote{}).
		Select("answer_id AS id, COALESCE(SUM(value), 0) AS total").
		Where("answer_id IN ?", ids).
		Group("answer_id").
		Scan(&scores).Error
	if err != nil {
		return nil, err
	}
	scoreByID := make(map[string]int, len(scores))
	for _, s := range scores {
		scoreByID[s.ID] = int(s.Total)
	}

	answers := make([]*entity.Answer, 0, len(rows))
	for i := range rows {
		a := ToAnswerEntity(&rows[i], accepted)
		a.Score = scoreByID[a.ID]
		answers = append(answers, a)
	}
	sortAnswers(answers)
	return answers, nil
}

// sortAnswers is a stable insertion sort; pages of answers are small.
func sortAnswers(answers []*entity.Answer) {
	less := func(a, b *entity.Answer) bool {
		if a.Accepted != b.Accepted {
			return a.Accepted
		}
		return a.Score > b.Score
	}
	for i := 1; i < len(answers); i++ {
		for j := i; j > 0 && less(answers[j], answers[j-1]); j-- {
			answers[j], answers[j-1] = answers[j-1], answers[j]
		}
	}
}

func (r *answerRepository) Update(ctx context.Context, id, body string) (*entity.Answer, error) {
	res := r.db.WithContext(ctx).Model(&models.Answer{}).Where("id = ?", id).Update("body", body)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, entity.ErrAnswerNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *answerRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Answer{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return entity.ErrAnswerNotFound
	}
	return nil
}

func (r *answerRepository) CountByAuthor(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Answer{}).Where("author_id = ?", userID).Count(&count).Error
	return count, err
}
