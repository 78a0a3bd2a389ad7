package http

import (
	"context"
	"io"

	"learnhub/pkg/validation"
	"learnhub/services/forum/internal/entity"
	"learnhub/services/forum/internal/repo/webapi"
	"learnhub/services/forum/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
)

type MockQuestionUseCase struct {
	mock.Mock
}

func (m *MockQuestionUseCase) Create(ctx context.Context, q entity.NewQuestion) (*entity.Question, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Question), args.Error(1)
}

func (m *MockQuestionUseCase) List(ctx context.Context, viewerID string, filter entity.QuestionFilter) ([]*entity.Question, int64, error) {
	args := m.Called(ctx, viewerID, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entity.Question), args.Get(1).(int64), args.Error(2)
}

func (m *MockQuestionUseCase) Get(ctx context.Context, viewerID, questionID string) (*entity.Question, error) {
	args := m.Called(ctx, viewerID, questionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Question), args.Error(1)
}

func (m *MockQuestionUseCase) Update(ctx context.Context, userID, questionID string, update entity.QuestionUpdate) (*entity.Question, error) {
	args := m.Called(ctx, userID, questionID, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Question), args.Error(1)
}

func (m *MockQuestionUseCase) Delete(ctx context.Context, userID, questionID string) error {
	args := m.Called(ctx, userID, questionID)
	return args.Error(0)
}

func (m *MockQuestionUseCase) UploadAttachment(ctx context.Context, userID, questionID string, file io.ReadSeeker, size int64, filename, contentType string) ([]string, error) {
	args := m.Called(ctx, userID, questionID, file, size, filename, contentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockAnswerUseCase struct {
	mock.Mock
}

func (m *MockAnswerUseCase) Post(ctx context.Context, userID, questionID, body string) (*entity.Answer, error) {
	args := m.Called(ctx, userID, questionID, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Answer), args.Error(1)
}

func (m *MockAnswerUseCase) List(ctx context.Context, viewerID, questionID string) ([]*entity.Answer, error) {
	args := m.Called(ctx, viewerID, questionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Answer), args.Error(1)
}

func (m *MockAnswerUseCase) Update(ctx context.Context, userID, answerID, body string) (*entity.Answer, error) {
	args := m.Called(ctx, userID, answerID, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Answer), args.Error(1)
}

func (m *MockAnswerUseCase) Delete(ctx context.Context, userID, answerID string) error {
	args := m.Called(ctx, userID, answerID)
	return args.Error(0)
}

func (m *MockAnswerUseCase) Accept(ctx context.Context, userID, answerID string) (*entity.Question, error) {
	args := m.Called(ctx, userID, answerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Question), args.Error(1)
}

type MockVoteUseCase struct {
	mock.Mock
}

func (m *MockVoteUseCase) VoteQuestion(ctx context.Context, userID, questionID string, value int) (*entity.VoteResult, error) {
	args := m.Called(ctx, userID, questionID, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.VoteResult), args.Error(1)
}

func (m *MockVoteUseCase) VoteAnswer(ctx context.Context, userID, answerID string, value int) (*entity.VoteResult, error) {
	args := m.Called(ctx, userID, answerID, value)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.VoteResult), args.Error(1)
}

type MockProfileUseCase struct {
	mock.Mock
}

func (m *MockProfileUseCase) Reputation(ctx context.Context, userID string) (*entity.Reputation, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Reputation), args.Error(1)
}

func (m *MockProfileUseCase) Profile(ctx context.Context, userID string) (*entity.Profile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Profile), args.Error(1)
}

type MockSimilarityAPI struct {
	mock.Mock
}

func (m *MockSimilarityAPI) Search(ctx context.Context, q webapi.SimilarityQuery) (*webapi.Response, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*webapi.Response), args.Error(1)
}

func (m *MockSimilarityAPI) SearchBatch(ctx context.Context, q webapi.SimilarityBatch) (*webapi.Response, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*webapi.Response), args.Error(1)
}

var (
	_ usecase.QuestionUseCase = (*MockQuestionUseCase)(nil)
	_ usecase.AnswerUseCase   = (*MockAnswerUseCase)(nil)
	_ usecase.VoteUseCase     = (*MockVoteUseCase)(nil)
	_ usecase.ProfileUseCase  = (*MockProfileUseCase)(nil)
	_ webapi.SimilarityAPI    = (*MockSimilarityAPI)(nil)
)

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	validation.Init()
	return gin.New()
}

func asUser(userID string, h gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		h(c)
	}
}
