package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go-gin-guestlist/internal/model"
	apperrors "go-gin-guestlist/pkg/app_errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupNotificationTestRouter(mockService *NotificationServiceMock) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	NewNotificationHandler(mockService).RegisterRoutes(router)
	return router
}

func sampleNotification(id, userID uuid.UUID, read bool) *model.Notification {
	return &model.Notification{
		ID:      id,
		UserID:  userID,
		Type:    model.NotificationTableRequest,
		Title:   "Table request",
		Message: "Someone wants to join your table",
		Read:    read,
	}
}

func TestCreateNotification(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := NewNotificationServiceMock()
		router := setupNotificationTestRouter(mockService)

		userID := uuid.New()
		mockService.On("Create", mock.Anything, mock.Anything).
			Return(sampleNotification(uuid.New(), userID, false), nil).Once()

		req := createJSONHTTPRequest("POST", "/notifications/create", model.CreateNotificationRequest{
			UserID:  userID,
			Type:    model.NotificationTableRequest,
			Title:   "Table request",
			Message: "Someone wants to join your table",
		})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("InvalidType", func(t *testing.T) {
		mockService := NewNotificationServiceMock()
		router := setupNotificationTestRouter(mockService)

		mockService.On("Create", mock.Anything, mock.Anything).
			Return(nil, apperrors.ErrInvalidInput).Once()

		req := createJSONHTTPRequest("POST", "/notifications/create", model.CreateNotificationRequest{
			UserID:  uuid.New(),
			Type:    "party_time",
			Title:   "x",
			Message: "y",
		})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("BindingError", func(t *testing.T) {
		mockService := NewNotificationServiceMock()
		router := setupNotificationTestRouter(mockService)

		req := createJSONHTTPRequest("POST", "/notifications/create", InvalidJSON)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "Create")
	})
}

func TestListNotificationsByUser(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := NewNotificationServiceMock()
		router := setupNotificationTestRouter(mockService)

		userID := uuid.New()
		mockService.On("ListByUser", mock.Anything, userID).Return([]*model.Notification{
			sampleNotification(uuid.New(), userID, false),
			sampleNotification(uuid.New(), userID, true),
		}, nil).Once()

		req := httptest.NewRequest("GET", "/notifications/"+userID.String(), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("InvalidID", func(t *testing.T) {
		mockService := NewNotificationServiceMock()
		router := setupNotificationTestRouter(mockService)

		req := httptest.NewRequest("GET", "/notifications/invalid", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockService.AssertNotCalled(t, "ListByUser")
	})
}

func TestMarkNotificationRead(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := NewNotificationServiceMock()
		router := setupNotificationTestRouter(mockService)

		id := uuid.New()
		mockService.On("MarkRead", mock.Anything, id).
			Return(sampleNotification(id, uuid.New(), true), nil).Once()

		req := httptest.NewRequest("PUT", "/notifications/"+id.String()+"/read", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"read":true`)
		mockService.AssertExpectations(t)
	})

	t.Run("NotFound", func(t *testing.T) {
		mockService := NewNotificationServiceMock()
		router := setupNotificationTestRouter(mockService)

		id := uuid.New()
		mockService.On("MarkRead", mock.Anything, id).
			Return(nil, apperrors.ErrNotificationNotFound).Once()

		req := httptest.NewRequest("PUT", "/notifications/"+id.String()+"/read", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		mockService.AssertExpectations(t)
	})
}

func TestDeleteNotification(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		mockService := NewNotificationServiceMock()
		router := setupNotificationTestRouter(mockService)

		id := uuid.New()
		mockService.On("Delete", mock.Anything, id).Return(nil).Once()

		req := httptest.NewRequest("DELETE", "/notifications/"+id.String(), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("NotFound", func(t *testing.T) {
		mockService := NewNotificationServiceMock()
		router := setupNotificationTestRouter(mockService)

		id := uuid.New()
		mockService.On("Delete", mock.Anything, id).Return(apperrors.ErrNotificationNotFound).Once()

		req := httptest.NewRequest("DELETE", "/notifications/"+id.String(), nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		mockService.AssertExpectations(t)
	})
}
