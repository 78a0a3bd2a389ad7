package persistent

import (
	"context"
	"fmt"

	"learnhub/pkg/models"
	"learnhub/services/forum/internal/entity"

	"gorm.io/gorm"
)

type VoteRepository interface {
	// VoteQuestion applies value for userID: no prior vote inserts it, the
	// same value removes it and the opposite value flips it.
	VoteQuestion(ctx context.Context, questionID, userID string, value int) (*entity.VoteResult, error)
	VoteAnswer(ctx context.Context, answerID, userID string, value int) (*entity.VoteResult, error)
}

type voteRepository struct {
	db *gorm.DB
}

func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &voteRepository{db: db}
}

// voteTarget abstracts the two vote tables.
type voteTarget struct {
	model   interface{}
	column  string
	newVote func(targetID, userID string, value int) interface{}
}

var (
	questionVotes = voteTarget{
		model:  &models.QuestionVote{},
		column: "question_id",
		newVote: func(targetID, userID string, value int) interface{} {
			return &models.QuestionVote{QuestionID: targetID, UserID: userID, Value: value}
		},
	}
	answerVotes = voteTarget{
		model:  &models.AnswerVote{},
		column: "answer_id",
		newVote: func(targetID, userID string, value int) interface{} {
			return &models.AnswerVote{AnswerID: targetID, UserID: userID, Value: value}
		},
	}
)

func (r *voteRepository) VoteQuestion(ctx context.Context, questionID, userID string, value int) (*entity.VoteResult, error) {
	return r.toggle(ctx, questionVotes, questionID, userID, value)
}

func (r *voteRepository) VoteAnswer(ctx context.Context, answerID, userID string, value int) (*entity.VoteResult, error) {
	return r.toggle(ctx, answerVotes, answerID, userID, value)
}

func (r *voteRepository) toggle(ctx context.Context, target voteTarget, targetID, userID string, value int) (*entity.VoteResult, error) {
	if !entity.ValidVote(value) {
		return nil, entity.ErrInvalidVote
	}

	result := &entity.VoteResult{}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		where := fmt.Sprintf("%s = ? AND user_id = ?", target.column)

		var current int
		err := tx.Model(target.model).Select("value").Where(where, targetID, userID).Row().Scan(&current)
		switch {
		case isNoRows(err):
			if err := tx.Create(target.newVote(targetID, userID, value)).Error; err != nil {
				return err
			}
			result.Vote = value
		case err != nil:
			return err
		case current == value:
			if err := tx.Where(where, targetID, userID).Delete(target.model).Error; err != nil {
				return err
			}
			result.Vote = 0
		default:
			if err := tx.Model(target.model).Where(where, targetID, userID).Update("value", value).Error; err != nil {
				return err
			}
			result.Vote = value
		}

		return tx.Model(target.model).
			Select("COALESCE(SUM(value), 0)").
			Where(target.column+" = ?", targetID).
			Row().
			Scan(&result.Score)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
