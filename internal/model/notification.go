package model

import (
	"time"

	"github.com/google/uuid"
)

// NotificationType 通知類型
type NotificationType string

const (
	NotificationInfo                  NotificationType = "info"
	NotificationSuccess               NotificationType = "success"
	NotificationWarning               NotificationType = "warning"
	NotificationError                 NotificationType = "error"
	NotificationColorChange           NotificationType = "color_change"
	NotificationJoinRequest           NotificationType = "join_request"
	NotificationJoinRequestAccepted   NotificationType = "join_request_accepted"
	NotificationJoinRequestRejected   NotificationType = "join_request_rejected"
	NotificationNewFollower           NotificationType = "new_follower"
	NotificationTableRequest          NotificationType = "table_request"
	NotificationTableRequestConfirmed NotificationType = "table_request_confirmed"
	NotificationTableRequestDeclined  NotificationType = "table_request_declined"
	NotificationTableRequestCancelled NotificationType = "table_request_cancelled"
	NotificationMediaUploaded         NotificationType = "media_uploaded"
)

// IsValid 驗證通知類型是否有效
func (t NotificationType) IsValid() bool {
	switch t {
	case NotificationInfo, NotificationSuccess, NotificationWarning,
		NotificationError, NotificationColorChange, NotificationJoinRequest,
		NotificationJoinRequestAccepted, NotificationJoinRequestRejected,
		NotificationNewFollower, NotificationTableRequest,
		NotificationTableRequestConfirmed, NotificationTableRequestDeclined,
		NotificationTableRequestCancelled, NotificationMediaUploaded:
		return true
	}
	return false
}

// Notification 通知模型。created(unread) → read 或 deleted，無其他轉換。
type Notification struct {
	ID        uuid.UUID              `json:"id" db:"id"`
	UserID    uuid.UUID              `json:"user_id" db:"user_id"`
	Type      NotificationType       `json:"type" db:"type"`
	Title     string                 `json:"title" db:"title"`
	Message   string                 `json:"message" db:"message"`
	Metadata  map[string]interface{} `json:"metadata,omitempty" db:"metadata"`
	Read      bool                   `json:"read" db:"read"`
	CreatedAt time.Time              `json:"created_at" db:"created_at"`
}

// CreateNotificationRequest 建立通知請求
type CreateNotificationRequest struct {
	UserID   uuid.UUID              `json:"user_id" binding:"required"`
	Type     NotificationType       `json:"type" binding:"required"`
	Title    string                 `json:"title" binding:"required"`
	Message  string                 `json:"message" binding:"required"`
	Metadata map[string]interface{} `json:"metadata"`
}
