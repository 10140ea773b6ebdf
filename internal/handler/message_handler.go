package handler

import (
	"go-gin-guestlist/internal/service"
	apperrors "go-gin-guestlist/pkg/app_errors"
	"go-gin-guestlist/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type MessageHandler struct {
	service service.ChatService
}

func NewMessageHandler(service service.ChatService) *MessageHandler {
	return &MessageHandler{service: service}
}

func (h *MessageHandler) RegisterRoutes(r *gin.Engine, authRequired gin.HandlerFunc) {
	router := r.Group("/messages", authRequired)
	{
		router.POST("/send", h.Send)
		router.GET("/:chatId", h.ListByChat)
	}
}

// SendMessageRequest 發送訊息請求；chatId 為 "global" 時進全域頻道
type SendMessageRequest struct {
	ChatID  string `json:"chatId" binding:"required"`
	Content string `json:"content" binding:"required"`
}

func (h *MessageHandler) Send(c *gin.Context) {
	var req SendMessageRequest
	if err := BindJson(c, &req); err != nil {
		return
	}

	senderID, ok := c.MustGet("user_id").(uuid.UUID)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
		return
	}

	message, err := h.service.Send(c, senderID, req.ChatID, req.Content)
	if err != nil {
		h.handleError(c, err, "Send")
		return
	}
	c.JSON(http.StatusCreated, message)
}

func (h *MessageHandler) ListByChat(c *gin.Context) {
	messages, err := h.service.ListByChat(c, c.Param("chatId"))
	if err != nil {
		h.handleError(c, err, "ListByChat")
		return
	}
	c.JSON(http.StatusOK, messages)
}

func (h *MessageHandler) handleError(c *gin.Context, err error, operation string) {
	log := logger.WithComponent("handler").With(zap.String("operation", operation), zap.Error(err))
	switch {
	case err == apperrors.ErrChatNotFound:
		log.Warn("Chat not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "Chat not found"})
	case err == apperrors.ErrInvalidInput:
		log.Warn("Invalid input")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
	default:
		log.Error("Unexpected error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
