package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"go-gin-guestlist/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

var (
	InvalidJSON = `{"invalid": json}`
)

// create JSON request body
func createJSONRequest(data interface{}) *bytes.Buffer {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return bytes.NewBuffer([]byte(""))
	}
	return bytes.NewBuffer(jsonData)
}

// create HTTP request with JSON body
func createJSONHTTPRequest(method, url string, data interface{}) *http.Request {
	req, err := http.NewRequest(method, url, createJSONRequest(data))
	if err != nil {
		return nil
	}
	req.Header.Set("Content-Type", "application/json")
	return req
}

type AdmissionServiceMock struct {
	mock.Mock
}

func NewAdmissionServiceMock() *AdmissionServiceMock {
	return &AdmissionServiceMock{}
}

func (m *AdmissionServiceMock) Validate(ctx context.Context, id uuid.UUID) (*model.Ticket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

func (m *AdmissionServiceMock) CheckIn(ctx context.Context, id uuid.UUID) (*model.Ticket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

func (m *AdmissionServiceMock) CheckOut(ctx context.Context, id uuid.UUID) (*model.Ticket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

func (m *AdmissionServiceMock) CreateGuestCode(ctx context.Context, req model.CreateGuestCodeRequest) (*model.Ticket, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

type NotificationServiceMock struct {
	mock.Mock
}

func NewNotificationServiceMock() *NotificationServiceMock {
	return &NotificationServiceMock{}
}

func (m *NotificationServiceMock) Create(ctx context.Context, req model.CreateNotificationRequest) (*model.Notification, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Notification), args.Error(1)
}

func (m *NotificationServiceMock) ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.Notification, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Notification), args.Error(1)
}

func (m *NotificationServiceMock) MarkRead(ctx context.Context, id uuid.UUID) (*model.Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Notification), args.Error(1)
}

func (m *NotificationServiceMock) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type ChatServiceMock struct {
	mock.Mock
}

func NewChatServiceMock() *ChatServiceMock {
	return &ChatServiceMock{}
}

func (m *ChatServiceMock) Send(ctx context.Context, senderID uuid.UUID, chatID, content string) (*model.Message, error) {
	args := m.Called(ctx, senderID, chatID, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Message), args.Error(1)
}

func (m *ChatServiceMock) ListByChat(ctx context.Context, chatID string) ([]*model.Message, error) {
	args := m.Called(ctx, chatID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Message), args.Error(1)
}
