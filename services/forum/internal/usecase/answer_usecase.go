package usecase

import (
	"context"
	"fmt"

	"learnhub/pkg/access"
	"learnhub/pkg/activity"
	"learnhub/pkg/logger"
	"learnhub/pkg/queue"
	"learnhub/services/forum/internal/entity"
	"learnhub/services/forum/internal/repo/persistent"
)

type AnswerUseCase interface {
	Post(ctx context.Context, userID, questionID, body string) (*entity.Answer, error)
	List(ctx context.Context, viewerID, questionID string) ([]*entity.Answer, error)
	Update(ctx context.Context, userID, answerID, body string) (*entity.Answer, error)
	Delete(ctx context.Context, userID, answerID string) error
	// Accept is limited to the question author; accepting the accepted
	// answer again clears it.
	Accept(ctx context.Context, userID, answerID string) (*entity.Question, error)
}

type answerUseCase struct {
	guard
	notifier
	questionRepo persistent.QuestionRepository
	answerRepo   persistent.AnswerRepository
	emitter      activity.Emitter
	logger       *logger.Logger
}

func NewAnswerUseCase(
	questionRepo persistent.QuestionRepository,
	answerRepo persistent.AnswerRepository,
	lookup persistent.LookupRepository,
	authorizer access.Authorizer,
	emitter activity.Emitter,
	publisher queue.Publisher,
	logger *logger.Logger,
) AnswerUseCase {
	return &answerUseCase{
		guard:        guard{lookup: lookup, authorizer: authorizer},
		notifier:     notifier{publisher: publisher, logger: logger},
		questionRepo: questionRepo,
		answerRepo:   answerRepo,
		emitter:      emitter,
		logger:       logger,
	}
}

func (uc *answerUseCase) readableQuestion(ctx context.Context, viewerID, questionID string) (*entity.Question, error) {
	question, err := uc.questionRepo.GetByID(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if err := uc.canRead(ctx, viewerID, question); err != nil {
		return nil, err
	}
	return question, nil
}

func (uc *answerUseCase) Post(ctx context.Context, userID, questionID, body string) (*entity.Answer, error) {
	if userID == "" {
		return nil, access.ErrUnauthenticated
	}

	question, err := uc.readableQuestion(ctx, userID, questionID)
	if err != nil {
		return nil, err
	}

	answer, err := uc.answerRepo.Create(ctx, questionID, userID, body)
	if err != nil {
		return nil, fmt.Errorf("create answer: %w", err)
	}

	uc.emitter.Emit(activity.Event{
		UserID:     userID,
		Type:       activity.TypeAnswerPosted,
		EntityType: "answer",
		EntityID:   answer.ID,
		Metadata:   map[string]interface{}{"question_id": questionID},
	})

	uc.notify(queue.NotificationTask{
		Type:       queue.TaskAnswer,
		UserID:     question.AuthorID,
		ActorID:    userID,
		Title:      "New answer",
		Message:    fmt.Sprintf("Your question \"%s\" has a new answer", question.Title),
		EntityType: "question",
		EntityID:   questionID,
		Data:       map[string]interface{}{"answer_id": answer.ID},
		Priority:   5,
	})

	return answer, nil
}

func (uc *answerUseCase) List(ctx context.Context, viewerID, questionID string) ([]*entity.Answer, error) {
	question, err := uc.readableQuestion(ctx, viewerID, questionID)
	if err != nil {
		return nil, err
	}
	return uc.answerRepo.ListByQuestion(ctx, questionID, question.AcceptedAnswerID)
}

// writable checks that the answer's question is visible to userID and that
// userID wrote the answer or moderates.
func (uc *answerUseCase) writable(ctx context.Context, userID, answerID string) (*entity.Answer, error) {
	if userID == "" {
		return nil, access.ErrUnauthenticated
	}
	answer, err := uc.answerRepo.GetByID(ctx, answerID)
	if err != nil {
		return nil, err
	}
	if _, err := uc.readableQuestion(ctx, userID, answer.QuestionID); err != nil {
		return nil, answerHidden(err)
	}
	if err := uc.canModify(ctx, userID, answer.AuthorID); err != nil {
		return nil, err
	}
	return answer, nil
}

func (uc *answerUseCase) Update(ctx context.Context, userID, answerID, body string) (*entity.Answer, error) {
	if _, err := uc.writable(ctx, userID, answerID); err != nil {
		return nil, err
	}
	return uc.answerRepo.Update(ctx, answerID, body)
}

func (uc *answerUseCase) Delete(ctx context.Context, userID, answerID string) error {
	answer, err := uc.writable(ctx, userID, answerID)
	if err != nil {
		return err
	}

	question, err := uc.questionRepo.GetByID(ctx, answer.QuestionID)
	if err != nil {
		return err
	}
	if question.AcceptedAnswerID != nil && *question.AcceptedAnswerID == answerID {
		if err := uc.questionRepo.SetAccepted(ctx, question.ID, nil); err != nil {
			return err
		}
	}
	return uc.answerRepo.Delete(ctx, answerID)
}

func (uc *answerUseCase) Accept(ctx context.Context, userID, answerID string) (*entity.Question, error) {
	if userID == "" {
		return nil, access.ErrUnauthenticated
	}

	answer, err := uc.answerRepo.GetByID(ctx, answerID)
	if err != nil {
		return nil, err
	}
	question, err := uc.readableQuestion(ctx, userID, answer.QuestionID)
	if err != nil {
		return nil, answerHidden(err)
	}
	if question.AuthorID != userID {
		return nil, access.ErrForbidden
	}

	if question.AcceptedAnswerID != nil && *question.AcceptedAnswerID == answerID {
		if err := uc.questionRepo.SetAccepted(ctx, question.ID, nil); err != nil {
			return nil, err
		}
		return uc.questionRepo.GetByID(ctx, question.ID)
	}

	if err := uc.questionRepo.SetAccepted(ctx, question.ID, &answerID); err != nil {
		return nil, err
	}

	uc.emitter.Emit(activity.Event{
		UserID:     userID,
		Type:       activity.TypeAnswerAccepted,
		EntityType: "answer",
		EntityID:   answerID,
		Metadata:   map[string]interface{}{"question_id": question.ID},
	})

	uc.notify(queue.NotificationTask{
		Type:       queue.TaskAccepted,
		UserID:     answer.AuthorID,
		ActorID:    userID,
		Title:      "Answer accepted",
		Message:    fmt.Sprintf("Your answer to \"%s\" was accepted", question.Title),
		EntityType: "answer",
		EntityID:   answerID,
		Data:       map[string]interface{}{"question_id": question.ID},
		Priority:   7,
	})

	return uc.questionRepo.GetByID(ctx, question.ID)
}
