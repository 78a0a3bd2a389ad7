package usecase

import (
	"context"

	"learnhub/pkg/access"
	"learnhub/pkg/activity"
	"learnhub/pkg/logger"
	"learnhub/pkg/queue"
	"learnhub/services/forum/internal/entity"
	"learnhub/services/forum/internal/repo/persistent"
)

type VoteUseCase interface {
	VoteQuestion(ctx context.Context, userID, questionID string, value int) (*entity.VoteResult, error)
	VoteAnswer(ctx context.Context, userID, answerID string, value int) (*entity.VoteResult, error)
}

type voteUseCase struct {
	guard
	notifier
	questionRepo persistent.QuestionRepository
	answerRepo   persistent.AnswerRepository
	voteRepo     persistent.VoteRepository
	emitter      activity.Emitter
}

func NewVoteUseCase(
	questionRepo persistent.QuestionRepository,
	answerRepo persistent.AnswerRepository,
	voteRepo persistent.VoteRepository,
	lookup persistent.LookupRepository,
	authorizer access.Authorizer,
	emitter activity.Emitter,
	publisher queue.Publisher,
	logger *logger.Logger,
) VoteUseCase {
	return &voteUseCase{
		guard:        guard{lookup: lookup, authorizer: authorizer},
		notifier:     notifier{publisher: publisher, logger: logger},
		questionRepo: questionRepo,
		answerRepo:   answerRepo,
		voteRepo:     voteRepo,
		emitter:      emitter,
	}
}

// after records the vote and tells the content author about new or flipped
// votes. Removing a vote is silent.
func (uc *voteUseCase) after(userID, authorID, entityType, entityID string, result *entity.VoteResult) {
	uc.emitter.Emit(activity.Event{
		UserID:     userID,
		Type:       activity.TypeVoteCast,
		EntityType: entityType,
		EntityID:   entityID,
		Metadata:   map[string]interface{}{"value": result.Vote},
	})

	if result.Vote == 0 {
		return
	}
	message := "Someone upvoted your " + entityType
	if result.Vote < 0 {
		message = "Someone downvoted your " + entityType
	}
	uc.notify(queue.NotificationTask{
		Type:       queue.TaskVote,
		UserID:     authorID,
		ActorID:    userID,
		Title:      "New vote",
		Message:    message,
		EntityType: entityType,
		EntityID:   entityID,
		Data:       map[string]interface{}{"value": result.Vote, "score": result.Score},
		Priority:   1,
	})
}

func (uc *voteUseCase) VoteQuestion(ctx context.Context, userID, questionID string, value int) (*entity.VoteResult, error) {
	if userID == "" {
		return nil, access.ErrUnauthenticated
	}
	if !entity.ValidVote(value) {
		return nil, entity.ErrInvalidVote
	}

	question, err := uc.questionRepo.GetByID(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if err := uc.canRead(ctx, userID, question); err != nil {
		return nil, err
	}

	result, err := uc.voteRepo.VoteQuestion(ctx, questionID, userID, value)
	if err != nil {
		return nil, err
	}
	uc.after(userID, question.AuthorID, "question", questionID, result)
	return result, nil
}

func (uc *voteUseCase) VoteAnswer(ctx context.Context, userID, answerID string, value int) (*entity.VoteResult, error) {
	if userID == "" {
		return nil, access.ErrUnauthenticated
	}
	if !entity.ValidVote(value) {
		return nil, entity.ErrInvalidVote
	}

	answer, err := uc.answerRepo.GetByID(ctx, answerID)
	if err != nil {
		return nil, err
	}
	question, err := uc.questionRepo.GetByID(ctx, answer.QuestionID)
	if err != nil {
		return nil, answerHidden(err)
	}
	if err := uc.canRead(ctx, userID, question); err != nil {
		return nil, answerHidden(err)
	}

	result, err := uc.voteRepo.VoteAnswer(ctx, answerID, userID, value)
	if err != nil {
		return nil, err
	}
	uc.after(userID, answer.AuthorID, "answer", answerID, result)
	return result, nil
}
