package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"learnhub/pkg/access"
	"learnhub/pkg/logger"
	"learnhub/services/forum/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &body)
	assert.NoError(t, err)
	return body
}

func TestCreateQuestion(t *testing.T) {
	tests := []struct {
		name        string
		body        map[string]interface{}
		setupMock   func(*MockQuestionUseCase)
		wantStatus  int
		wantField   string
		expectError bool
	}{
		{
			name: "success",
			body: map[string]interface{}{
				"title": "How do goroutines work?",
				"body":  "I do not understand the scheduler.",
				"tags":  []string{"go"},
			},
			setupMock: func(m *MockQuestionUseCase) {
				m.On("Create", mock.Anything, mock.MatchedBy(func(q entity.NewQuestion) bool {
					return q.AuthorID == "user-1" && q.Title == "How do goroutines work?" && len(q.Tags) == 1
				})).Return(&entity.Question{ID: "q-1", AuthorID: "user-1", Title: "How do goroutines work?"}, nil)
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:        "short title",
			body:        map[string]interface{}{"title": "Go", "body": "I do not understand the scheduler."},
			setupMock:   func(m *MockQuestionUseCase) {},
			wantStatus:  http.StatusBadRequest,
			wantField:   "title",
			expectError: true,
		},
		{
			name:        "missing body",
			body:        map[string]interface{}{"title": "How do goroutines work?"},
			setupMock:   func(m *MockQuestionUseCase) {},
			wantStatus:  http.StatusBadRequest,
			wantField:   "body",
			expectError: true,
		},
		{
			name: "bad visibility",
			body: map[string]interface{}{
				"title":      "How do goroutines work?",
				"body":       "I do not understand the scheduler.",
				"visibility": "SECRET",
			},
			setupMock:   func(m *MockQuestionUseCase) {},
			wantStatus:  http.StatusBadRequest,
			wantField:   "visibility",
			expectError: true,
		},
		{
			name: "internal error",
			body: map[string]interface{}{
				"title": "How do goroutines work?",
				"body":  "I do not understand the scheduler.",
			},
			setupMock: func(m *MockQuestionUseCase) {
				m.On("Create", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))
			},
			wantStatus:  http.StatusInternalServerError,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUseCase := new(MockQuestionUseCase)
			tt.setupMock(mockUseCase)
			handler := NewQuestionHandler(mockUseCase, logger.New(), 1024)

			router := setupTestRouter()
			router.POST("/questions", asUser("user-1", handler.CreateQuestion))

			raw, _ := json.Marshal(tt.body)
			req, _ := http.NewRequest(http.MethodPost, "/questions", bytes.NewBuffer(raw))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			body := decode(t, w)
			if tt.expectError {
				assert.Contains(t, body, "error")
			} else {
				assert.Equal(t, "q-1", body["id"])
			}
			if tt.wantField != "" {
				fields, ok := body["fields"].(map[string]interface{})
				assert.True(t, ok)
				assert.Contains(t, fields, tt.wantField)
			}
			mockUseCase.AssertExpectations(t)
		})
	}
}

func TestCreateQuestion_Unauthenticated(t *testing.T) {
	mockUseCase := new(MockQuestionUseCase)
	handler := NewQuestionHandler(mockUseCase, logger.New(), 1024)

	router := setupTestRouter()
	router.POST("/questions", handler.CreateQuestion)

	req, _ := http.NewRequest(http.MethodPost, "/questions", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Unauthorized", body["error"])
	mockUseCase.AssertNotCalled(t, "Create")
}

func TestListQuestions_Filters(t *testing.T) {
	mockUseCase := new(MockQuestionUseCase)
	handler := NewQuestionHandler(mockUseCase, logger.New(), 1024)

	want := entity.QuestionFilter{CourseID: "course-1", Tag: "go", Limit: 100, Offset: 0}
	mockUseCase.On("List", mock.Anything, "", want).
		Return([]*entity.Question{{ID: "q-1"}}, int64(1), nil)

	router := setupTestRouter()
	router.GET("/questions", handler.ListQuestions)

	req, _ := http.NewRequest(http.MethodGet, "/questions?course=course-1&tag=go&limit=500&offset=-3", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, float64(1), body["total"])
	assert.Equal(t, float64(100), body["limit"])
	mockUseCase.AssertExpectations(t)
}

func TestGetQuestion_Hidden(t *testing.T) {
	mockUseCase := new(MockQuestionUseCase)
	handler := NewQuestionHandler(mockUseCase, logger.New(), 1024)
	mockUseCase.On("Get", mock.Anything, "user-2", "q-1").Return(nil, entity.ErrQuestionNotFound)

	router := setupTestRouter()
	router.GET("/questions/:id", asUser("user-2", handler.GetQuestion))

	req, _ := http.NewRequest(http.MethodGet, "/questions/q-1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "question not found", decode(t, w)["error"])
}

func TestUpdateQuestion_Forbidden(t *testing.T) {
	mockUseCase := new(MockQuestionUseCase)
	handler := NewQuestionHandler(mockUseCase, logger.New(), 1024)
	mockUseCase.On("Update", mock.Anything, "user-2", "q-1", mock.Anything).Return(nil, access.ErrForbidden)

	router := setupTestRouter()
	router.PUT("/questions/:id", asUser("user-2", handler.UpdateQuestion))

	req, _ := http.NewRequest(http.MethodPut, "/questions/q-1", bytes.NewBufferString(`{"title":"A better title"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	mockUseCase.AssertExpectations(t)
}

func TestDeleteQuestion(t *testing.T) {
	mockUseCase := new(MockQuestionUseCase)
	handler := NewQuestionHandler(mockUseCase, logger.New(), 1024)
	mockUseCase.On("Delete", mock.Anything, "user-1", "q-1").Return(nil)

	router := setupTestRouter()
	router.DELETE("/questions/:id", asUser("user-1", handler.DeleteQuestion))

	req, _ := http.NewRequest(http.MethodDelete, "/questions/q-1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Question deleted", decode(t, w)["message"])
}

func multipartFile(t *testing.T, field, name string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)
	part, err := writer.CreateFormFile(field, name)
	assert.NoError(t, err)
	_, _ = part.Write(content)
	assert.NoError(t, writer.Close())
	return buf, writer.FormDataContentType()
}

func TestUploadAttachment(t *testing.T) {
	tests := []struct {
		name       string
		content    []byte
		err        error
		wantStatus int
	}{
		{"success", []byte("hello"), nil, http.StatusOK},
		{"too large", bytes.Repeat([]byte("x"), 2048), nil, http.StatusRequestEntityTooLarge},
		{"too many files", []byte("hello"), entity.ErrTooManyFiles, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUseCase := new(MockQuestionUseCase)
			handler := NewQuestionHandler(mockUseCase, logger.New(), 1024)

			if len(tt.content) <= 1024 {
				call := mockUseCase.On("UploadAttachment", mock.Anything, "user-1", "q-1", mock.Anything, int64(len(tt.content)), "notes.txt", mock.Anything)
				if tt.err != nil {
					call.Return(nil, tt.err)
				} else {
					call.Return([]string{"https://cdn/questions/q-1/notes.txt"}, nil)
				}
			}

			router := setupTestRouter()
			router.POST("/questions/:id/attachments", asUser("user-1", handler.UploadAttachment))

			buf, contentType := multipartFile(t, "file", "notes.txt", tt.content)
			req, _ := http.NewRequest(http.MethodPost, "/questions/q-1/attachments", buf)
			req.Header.Set("Content-Type", contentType)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			mockUseCase.AssertExpectations(t)
		})
	}
}
