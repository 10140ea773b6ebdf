package handler

import (
	"go-gin-guestlist/internal/model"
	"go-gin-guestlist/internal/service"
	apperrors "go-gin-guestlist/pkg/app_errors"
	"go-gin-guestlist/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type NotificationHandler struct {
	service service.NotificationService
}

func NewNotificationHandler(service service.NotificationService) *NotificationHandler {
	return &NotificationHandler{service: service}
}

func (h *NotificationHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/notifications")
	{
		router.POST("/create", h.Create)
		router.GET("/:userId", h.ListByUser)
		router.PUT("/:id/read", h.MarkRead)
		router.DELETE("/:id", h.Delete)
	}
}

func (h *NotificationHandler) Create(c *gin.Context) {
	var req model.CreateNotificationRequest
	if err := BindJson(c, &req); err != nil {
		return
	}
	notification, err := h.service.Create(c, req)
	if err != nil {
		h.handleError(c, err, "Create")
		return
	}
	c.JSON(http.StatusCreated, notification)
}

func (h *NotificationHandler) ListByUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}
	notifications, err := h.service.ListByUser(c, userID)
	if err != nil {
		h.handleError(c, err, "ListByUser")
		return
	}
	c.JSON(http.StatusOK, notifications)
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification id"})
		return
	}
	notification, err := h.service.MarkRead(c, id)
	if err != nil {
		h.handleError(c, err, "MarkRead")
		return
	}
	c.JSON(http.StatusOK, notification)
}

func (h *NotificationHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification id"})
		return
	}
	if err := h.service.Delete(c, id); err != nil {
		h.handleError(c, err, "Delete")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *NotificationHandler) handleError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case err == apperrors.ErrNotificationNotFound:
		log.Warn("Notification not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
	case err == apperrors.ErrInvalidInput:
		log.Warn("Invalid input")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
