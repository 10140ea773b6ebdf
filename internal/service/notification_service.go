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

type NotificationService interface {
	// Create 先持久化，收件人在線才推播；離線就只落地，等下次連線再拉
	Create(ctx context.Context, req model.CreateNotificationRequest) (*model.Notification, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID) (*model.Notification, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type NotificationServiceImpl struct {
	repository repository.NotificationRepository
	presence   realtime.PresenceStore
	events     queue.EventQueue
}

func NewNotificationService(
	notificationRepository repository.NotificationRepository,
	presence realtime.PresenceStore,
	events queue.EventQueue,
) NotificationService {
	return &NotificationServiceImpl{
		repository: notificationRepository,
		presence:   presence,
		events:     events,
	}
}

func (s *NotificationServiceImpl) Create(ctx context.Context, req model.CreateNotificationRequest) (*model.Notification, error) {
	if !req.Type.IsValid() {
		return nil, apperrors.ErrInvalidInput
	}

	notification := &model.Notification{
		UserID:   req.UserID,
		Type:     req.Type,
		Title:    req.Title,
		Message:  req.Message,
		Metadata: req.Metadata,
	}

	// 持久化失敗就不扇出：客戶端不該看到沒存進去的事件
	created, err := s.repository.Create(ctx, notification)
	if err != nil {
		return nil, err
	}

	s.emitIfOnline(ctx, created.UserID, realtime.EventNewNotification, created)

	return created, nil
}

func (s *NotificationServiceImpl) ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.Notification, error) {
	return s.repository.ListByUser(ctx, userID)
}

func (s *NotificationServiceImpl) MarkRead(ctx context.Context, id uuid.UUID) (*model.Notification, error) {
	updated, err := s.repository.MarkRead(ctx, id)
	if err != nil {
		return nil, err
	}

	s.emitIfOnline(ctx, updated.UserID, realtime.EventNotificationUpdated, updated)

	return updated, nil
}

func (s *NotificationServiceImpl) Delete(ctx context.Context, id uuid.UUID) error {
	// 先查收件人，刪除後才知道要通知誰
	notification, err := s.repository.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repository.Delete(ctx, id); err != nil {
		return err
	}

	s.emitIfOnline(ctx, notification.UserID, realtime.EventNotificationDeleted, map[string]string{"id": id.String()})

	return nil
}

// emitIfOnline fire-and-forget：收件人離線就跳過，沒有重送佇列
func (s *NotificationServiceImpl) emitIfOnline(ctx context.Context, userID uuid.UUID, eventType string, payload interface{}) {
	online, err := s.presence.IsOnline(ctx, userID)
	if err != nil {
		logger.WithComponent("notification").Error("presence lookup failed",
			zap.String("user_id", userID.String()), zap.Error(err))
		return
	}
	if !online {
		return
	}

	err = s.events.Publish(ctx, &queue.Event{
		Type:    eventType,
		Room:    realtime.UserRoom(userID),
		Payload: payload,
	})
	if err != nil {
		logger.WithComponent("notification").Error("publish event failed",
			zap.String("user_id", userID.String()),
			zap.String("event", eventType), zap.Error(err))
	}
}
