package persistent

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"learnhub/pkg/activity"
	"learnhub/pkg/models"
	"learnhub/services/forum/internal/entity"

	"gorm.io/gorm"
)

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

type ReputationRepository interface {
	// Reputation sums every vote on content authored by userID. Nothing is
	// stored; each call aggregates the vote tables again.
	Reputation(ctx context.Context, userID string) (*entity.Reputation, error)
	// ContributionDays lists days with any contribution, oldest first.
	ContributionDays(ctx context.Context, userID string) ([]string, error)
	// ContributionCounts returns per-day counts from the day of since onwards.
	ContributionCounts(ctx context.Context, userID string, since time.Time) (map[string]int, error)
}

type reputationRepository struct {
	db *gorm.DB
}

func NewReputationRepository(db *gorm.DB) ReputationRepository {
	return &reputationRepository{db: db}
}

func (r *reputationRepository) Reputation(ctx context.Context, userID string) (*entity.Reputation, error) {
	db := r.db.WithContext(ctx)
	rep := &entity.Reputation{UserID: userID}

	err := db.Model(&models.QuestionVote{}).
		Select("COALESCE(SUM(question_votes.value), 0)").
		Joins("JOIN questions ON questions.id = question_votes.question_id").
		Where("questions.author_id = ?", userID).
		Row().
		Scan(&rep.QuestionScore)
	if err != nil {
		return nil, err
	}

	err = db.Model(&models.AnswerVote{}).
		Select("COALESCE(SUM(answer_votes.value), 0)").
		Joins("JOIN answers ON answers.id = answer_votes.answer_id").
		Where("answers.author_id = ?", userID).
		Row().
		Scan(&rep.AnswerScore)
	if err != nil {
		return nil, err
	}

	rep.Reputation = rep.QuestionScore + rep.AnswerScore
	return rep, nil
}

func (r *reputationRepository) ContributionDays(ctx context.Context, userID string) ([]string, error) {
	var days []string
	err := r.db.WithContext(ctx).Model(&models.Contribution{}).
		Where("user_id = ? AND count > 0", userID).
		Order("day ASC").
		Pluck("day", &days).Error
	return days, err
}

func (r *reputationRepository) ContributionCounts(ctx context.Context, userID string, since time.Time) (map[string]int, error) {
	var rows []models.Contribution
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND day >= ?", userID, activity.DayKey(since)).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(rows))
	for _, row := range rows {
		counts[row.Day] = row.Count
	}
	return counts, nil
}
