package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"learnhub/pkg/logger"
	"learnhub/services/notification/internal/entity"

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

func TestGetNotifications_Unauthorized(t *testing.T) {
	mockUseCase := new(MockNotificationUseCase)
	handler := NewNotificationHandler(mockUseCase, logger.New())

	router := setupNotificationTestRouter()
	router.GET("/notifications", handler.GetNotifications)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/notifications", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	body := decode(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Unauthorized", body["error"])
}

func TestGetNotifications(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		filter     *entity.ListFilter
		wantStatus int
	}{
		{"defaults", "", &entity.ListFilter{Limit: 50}, http.StatusOK},
		{"unread page", "?state=UNREAD&limit=10&offset=20", &entity.ListFilter{State: entity.StateUnread, Limit: 10, Offset: 20}, http.StatusOK},
		{"limit capped", "?limit=1000", &entity.ListFilter{Limit: 100}, http.StatusOK},
		{"bad state", "?state=DELETED", nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUseCase := new(MockNotificationUseCase)
			handler := NewNotificationHandler(mockUseCase, logger.New())
			if tt.filter != nil {
				mockUseCase.On("List", mock.Anything, "user-1", *tt.filter).
					Return([]*entity.Notification{{ID: "n-1", State: entity.StateUnread}}, int64(1), nil)
			}

			router := setupNotificationTestRouter()
			router.GET("/notifications", asUser("user-1", handler.GetNotifications))

			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, "/notifications"+tt.query, nil)
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				body := decode(t, w)
				assert.Equal(t, float64(1), body["total"])
				assert.Equal(t, float64(1), body["count"])
			}
			mockUseCase.AssertExpectations(t)
		})
	}
}

func TestGetUnreadCount(t *testing.T) {
	mockUseCase := new(MockNotificationUseCase)
	handler := NewNotificationHandler(mockUseCase, logger.New())
	mockUseCase.On("UnreadCount", mock.Anything, "user-1").Return(int64(4), nil)

	router := setupNotificationTestRouter()
	router.GET("/notifications/unread-count", asUser("user-1", handler.GetUnreadCount))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/notifications/unread-count", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(4), decode(t, w)["unread"])
}

func TestMarkRead(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"success", nil, http.StatusOK},
		{"not mine", entity.ErrNotificationNotFound, http.StatusNotFound},
		{"archived already", entity.ErrInvalidTransition, http.StatusConflict},
		{"database down", errors.New("db down"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUseCase := new(MockNotificationUseCase)
			handler := NewNotificationHandler(mockUseCase, logger.New())
			if tt.err != nil {
				mockUseCase.On("MarkRead", mock.Anything, "user-1", "n-1").Return(nil, tt.err)
			} else {
				mockUseCase.On("MarkRead", mock.Anything, "user-1", "n-1").
					Return(&entity.Notification{ID: "n-1", State: entity.StateRead}, nil)
			}

			router := setupNotificationTestRouter()
			router.POST("/notifications/:id/read", asUser("user-1", handler.MarkRead))

			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodPost, "/notifications/n-1/read", nil)
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.err == nil {
				assert.Equal(t, "READ", decode(t, w)["state"])
			}
			mockUseCase.AssertExpectations(t)
		})
	}
}

func TestArchive(t *testing.T) {
	mockUseCase := new(MockNotificationUseCase)
	handler := NewNotificationHandler(mockUseCase, logger.New())
	mockUseCase.On("Archive", mock.Anything, "user-1", "n-1").
		Return(&entity.Notification{ID: "n-1", State: entity.StateArchived}, nil)

	router := setupNotificationTestRouter()
	router.POST("/notifications/:id/archive", asUser("user-1", handler.Archive))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/notifications/n-1/archive", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ARCHIVED", decode(t, w)["state"])
}

func TestMarkAllRead(t *testing.T) {
	mockUseCase := new(MockNotificationUseCase)
	handler := NewNotificationHandler(mockUseCase, logger.New())
	mockUseCase.On("MarkAllRead", mock.Anything, "user-1").Return(int64(3), nil)

	router := setupNotificationTestRouter()
	router.POST("/notifications/read-all", asUser("user-1", handler.MarkAllRead))

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/notifications/read-all", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(3), decode(t, w)["updated"])
}
