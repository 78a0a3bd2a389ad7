package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"learnhub/pkg/access"
	"learnhub/pkg/logger"
	"learnhub/services/course/internal/entity"

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

func TestEnroll(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantOK     bool
	}{
		{"success", nil, http.StatusCreated, true},
		{"already enrolled", entity.ErrAlreadyEnrolled, http.StatusConflict, false},
		{"missing course", entity.ErrCourseNotFound, http.StatusNotFound, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUseCase := new(MockEnrollmentUseCase)
			handler := NewEnrollmentHandler(mockUseCase, logger.New())

			if tt.err != nil {
				mockUseCase.On("Enroll", mock.Anything, "user-1", "course-1").Return(nil, tt.err)
			} else {
				mockUseCase.On("Enroll", mock.Anything, "user-1", "course-1").
					Return(&entity.Enrollment{ID: "e-1", UserID: "user-1", CourseID: "course-1"}, nil)
			}

			router := setupTestRouter()
			router.POST("/courses/:id/enroll", asUser("user-1", handler.Enroll))

			req, _ := http.NewRequest(http.MethodPost, "/courses/course-1/enroll", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			body := decode(t, w)
			assert.Equal(t, tt.wantOK, body["success"])
			if !tt.wantOK {
				assert.Equal(t, tt.err.Error(), body["error"])
			}
			mockUseCase.AssertExpectations(t)
		})
	}
}

func TestEnroll_Unauthenticated(t *testing.T) {
	mockUseCase := new(MockEnrollmentUseCase)
	handler := NewEnrollmentHandler(mockUseCase, logger.New())
	mockUseCase.On("Enroll", mock.Anything, "", "course-1").Return(nil, access.ErrUnauthenticated)

	router := setupTestRouter()
	router.POST("/courses/:id/enroll", handler.Enroll)

	req, _ := http.NewRequest(http.MethodPost, "/courses/course-1/enroll", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Unauthorized", body["error"])
}

func TestUnenroll(t *testing.T) {
	mockUseCase := new(MockEnrollmentUseCase)
	handler := NewEnrollmentHandler(mockUseCase, logger.New())
	mockUseCase.On("Unenroll", mock.Anything, "user-1", "course-1").Return(nil).Once()
	mockUseCase.On("Unenroll", mock.Anything, "user-1", "course-2").Return(entity.ErrNotEnrolled).Once()

	router := setupTestRouter()
	router.DELETE("/courses/:id/enroll", asUser("user-1", handler.Unenroll))

	req, _ := http.NewRequest(http.MethodDelete, "/courses/course-1/enroll", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["success"])

	req, _ = http.NewRequest(http.MethodDelete, "/courses/course-2/enroll", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "not enrolled", decode(t, w)["error"])
}

func TestStatus(t *testing.T) {
	mockUseCase := new(MockEnrollmentUseCase)
	handler := NewEnrollmentHandler(mockUseCase, logger.New())
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	mockUseCase.On("Status", mock.Anything, "user-1", "course-1").
		Return(&entity.EnrollmentStatus{Enrolled: true, EnrolledAt: &at}, nil)

	router := setupTestRouter()
	router.GET("/courses/:id/enrollment", asUser("user-1", handler.Status))

	req, _ := http.NewRequest(http.MethodGet, "/courses/course-1/enrollment", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, true, body["enrolled"])
	assert.Equal(t, "2026-01-02T03:04:05Z", body["enrolled_at"])
}

func TestUnmarkViewed_Missing(t *testing.T) {
	mockUseCase := new(MockEnrollmentUseCase)
	handler := NewEnrollmentHandler(mockUseCase, logger.New())
	mockUseCase.On("UnmarkViewed", mock.Anything, "user-1", "lesson-1").Return(entity.ErrLessonNotViewed)

	router := setupTestRouter()
	router.DELETE("/lessons/:id/view", asUser("user-1", handler.UnmarkViewed))

	req, _ := http.NewRequest(http.MethodDelete, "/lessons/lesson-1/view", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, false, decode(t, w)["success"])
}

func TestProgress(t *testing.T) {
	mockUseCase := new(MockEnrollmentUseCase)
	handler := NewEnrollmentHandler(mockUseCase, logger.New())
	mockUseCase.On("Progress", mock.Anything, "user-1", "course-1").
		Return(entity.NewProgress("course-1", 1, 3), nil)

	router := setupTestRouter()
	router.GET("/courses/:id/progress", asUser("user-1", handler.Progress))

	req, _ := http.NewRequest(http.MethodGet, "/courses/course-1/progress", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, float64(33.3), body["percent"])
	assert.Equal(t, float64(3), body["total_lessons"])
}
