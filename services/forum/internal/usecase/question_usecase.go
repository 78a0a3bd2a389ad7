package usecase

import (
	"context"
	"fmt"
	"io"

	"learnhub/pkg/access"
	"learnhub/pkg/activity"
	"learnhub/pkg/logger"
	"learnhub/pkg/queue"
	"learnhub/pkg/s3"
	"learnhub/services/forum/internal/entity"
	"learnhub/services/forum/internal/repo/persistent"
)

type QuestionUseCase interface {
	Create(ctx context.Context, q entity.NewQuestion) (*entity.Question, error)
	List(ctx context.Context, viewerID string, filter entity.QuestionFilter) ([]*entity.Question, int64, error)
	Get(ctx context.Context, viewerID, questionID string) (*entity.Question, error)
	Update(ctx context.Context, userID, questionID string, update entity.QuestionUpdate) (*entity.Question, error)
	Delete(ctx context.Context, userID, questionID string) error
	UploadAttachment(ctx context.Context, userID, questionID string, file io.ReadSeeker, size int64, filename, contentType string) ([]string, error)
}

type questionUseCase struct {
	guard
	notifier
	questionRepo persistent.QuestionRepository
	uploader     s3.Uploader
	emitter      activity.Emitter
	logger       *logger.Logger
}

func NewQuestionUseCase(
	questionRepo persistent.QuestionRepository,
	lookup persistent.LookupRepository,
	authorizer access.Authorizer,
	uploader s3.Uploader,
	emitter activity.Emitter,
	publisher queue.Publisher,
	logger *logger.Logger,
) QuestionUseCase {
	return &questionUseCase{
		guard:        guard{lookup: lookup, authorizer: authorizer},
		notifier:     notifier{publisher: publisher, logger: logger},
		questionRepo: questionRepo,
		uploader:     uploader,
		emitter:      emitter,
		logger:       logger,
	}
}

// resolveCourse fills the course from the lesson when only the lesson is
// given and checks that both exist and agree.
func (uc *questionUseCase) resolveCourse(ctx context.Context, q *entity.NewQuestion) (string, error) {
	if q.LessonID != nil {
		courseID, err := uc.lookup.LessonCourse(ctx, *q.LessonID)
		if err != nil {
			return "", err
		}
		if q.CourseID != nil && *q.CourseID != courseID {
			return "", entity.ErrLessonMismatch
		}
		q.CourseID = &courseID
	}
	if q.CourseID == nil {
		return "", nil
	}
	return uc.lookup.CourseAuthor(ctx, *q.CourseID)
}

func (uc *questionUseCase) Create(ctx context.Context, q entity.NewQuestion) (*entity.Question, error) {
	if q.AuthorID == "" {
		return nil, access.ErrUnauthenticated
	}
	if q.Type == "" {
		q.Type = "OBJECTIVE"
	}
	if q.Visibility == "" {
		q.Visibility = "PUBLIC"
	}

	courseAuthorID, err := uc.resolveCourse(ctx, &q)
	if err != nil {
		return nil, err
	}

	question, err := uc.questionRepo.Create(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("create question: %w", err)
	}

	uc.emitter.Emit(activity.Event{
		UserID:     q.AuthorID,
		Type:       activity.TypeQuestionAsked,
		EntityType: "question",
		EntityID:   question.ID,
		Metadata:   map[string]interface{}{"title": question.Title},
	})

	if courseAuthorID != "" {
		uc.notify(queue.NotificationTask{
			Type:       queue.TaskCourseQuestion,
			UserID:     courseAuthorID,
			ActorID:    q.AuthorID,
			Title:      "New question in your course",
			Message:    question.Title,
			EntityType: "question",
			EntityID:   question.ID,
			Priority:   5,
		})
	}

	uc.logger.Info("[FORUM] %s asked question %s", q.AuthorID, question.ID)
	return question, nil
}

func (uc *questionUseCase) List(ctx context.Context, viewerID string, filter entity.QuestionFilter) ([]*entity.Question, int64, error) {
	filter.ViewerID = viewerID
	filter.AllPrivate = uc.isModerator(ctx, viewerID)
	return uc.questionRepo.List(ctx, filter)
}

func (uc *questionUseCase) Get(ctx context.Context, viewerID, questionID string) (*entity.Question, error) {
	question, err := uc.questionRepo.GetByID(ctx, questionID)
	if err != nil {
		return nil, err
	}
	if err := uc.canRead(ctx, viewerID, question); err != nil {
		return nil, err
	}
	return question, nil
}

// writable loads a question the caller may both see and change. Hidden
// questions stay 404; visible ones the caller does not own are 403.
func (uc *questionUseCase) writable(ctx context.Context, userID, questionID string) (*entity.Question, error) {
	if userID == "" {
		return nil, access.ErrUnauthenticated
	}
	question, err := uc.Get(ctx, userID, questionID)
	if err != nil {
		return nil, err
	}
	if err := uc.canModify(ctx, userID, question.AuthorID); err != nil {
		return nil, err
	}
	return question, nil
}

func (uc *questionUseCase) Update(ctx context.Context, userID, questionID string, update entity.QuestionUpdate) (*entity.Question, error) {
	if _, err := uc.writable(ctx, userID, questionID); err != nil {
		return nil, err
	}
	return uc.questionRepo.Update(ctx, questionID, update)
}

func (uc *questionUseCase) Delete(ctx context.Context, userID, questionID string) error {
	if _, err := uc.writable(ctx, userID, questionID); err != nil {
		return err
	}
	if err := uc.questionRepo.Delete(ctx, questionID); err != nil {
		return err
	}
	uc.logger.Info("[FORUM] %s deleted question %s", userID, questionID)
	return nil
}

func (uc *questionUseCase) UploadAttachment(ctx context.Context, userID, questionID string, file io.ReadSeeker, size int64, filename, contentType string) ([]string, error) {
	question, err := uc.writable(ctx, userID, questionID)
	if err != nil {
		return nil, err
	}
	if len(question.Attachments) >= entity.MaxAttachments {
		return nil, entity.ErrTooManyFiles
	}

	url, err := uc.uploader.Upload(ctx, s3.ObjectKey("questions", questionID, filename), file, size, contentType)
	if err != nil {
		return nil, err
	}
	return uc.questionRepo.AddAttachment(ctx, questionID, url)
}
