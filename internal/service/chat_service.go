package service

import (
	"context"

	"go-gin-guestlist/internal/model"
	"go-gin-guestlist/internal/queue"
	"go-gin-guestlist/internal/realtime"
	"go-gin-guestlist/internal/repository"
	apperrors "go-gin-guestlist/pkg/app_errors"
	"go-gin-guestlist/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ChatService interface {
	// Send 持久化訊息後扇出到頻道；"global" 代表共享全域頻道
	Send(ctx context.Context, senderID uuid.UUID, chatID, content string) (*model.Message, error)
	ListByChat(ctx context.Context, chatID string) ([]*model.Message, error)
}

type ChatServiceImpl struct {
	repository repository.MessageRepository
	events     queue.EventQueue
}

func NewChatService(messageRepository repository.MessageRepository, events queue.EventQueue) ChatService {
	return &ChatServiceImpl{
		repository: messageRepository,
		events:     events,
	}
}

func (s *ChatServiceImpl) Send(ctx context.Context, senderID uuid.UUID, chatID, content string) (*model.Message, error) {
	if chatID == "" || content == "" {
		return nil, apperrors.ErrInvalidInput
	}

	message := &model.Message{
		ChatID:   chatID,
		SenderID: senderID,
		Content:  content,
	}

	created, err := s.repository.Create(ctx, message)
	if err != nil {
		return nil, err
	}

	// 房間成員都收到；直聊房間只有先 join 的雙方在裡面
	err = s.events.Publish(ctx, &queue.Event{
		Type:    realtime.EventNewMessage,
		Room:    realtime.ChatRoom(chatID),
		Payload: created,
	})
	if err != nil {
		logger.WithComponent("chat").Error("publish new_message failed",
			zap.String("chat_id", chatID), zap.Error(err))
	}

	return created, nil
}

func (s *ChatServiceImpl) ListByChat(ctx context.Context, chatID string) ([]*model.Message, error) {
	exists, err := s.repository.ChatExists(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.ErrChatNotFound
	}

	return s.repository.ListByChat(ctx, chatID)
}
