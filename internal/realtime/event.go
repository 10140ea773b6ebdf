package realtime

import (
	"go-gin-guestlist/internal/model"

	"github.com/google/uuid"
)

// Server → client event names.
const (
	EventInitialOnlineUsers  = "initial_online_users"
	EventUserStatus          = "user_status"
	EventNewMessage          = "new_message"
	EventNewNotification     = "new_notification"
	EventNotificationUpdated = "notification_updated"
	EventNotificationDeleted = "notification_deleted"
	EventTyping              = "typing"
	EventStopTyping          = "stop_typing"
	EventTokenRefreshed      = "token_refreshed"
	EventError               = "error"
)

// Client → server event names.
const (
	ClientEventSendMessage = "send_message"
	ClientEventJoinChat    = "join_chat"
	ClientEventLeaveChat   = "leave_chat"
	ClientEventTyping      = "typing"
	ClientEventStopTyping  = "stop_typing"
	// legacy aliases still sent by older clients
	ClientEventUserTyping     = "user_typing"
	ClientEventUserStopTyping = "user_stop_typing"
)

// GlobalRoom is the broadcast scope every authenticated session joins.
const GlobalRoom = "global"

// UserRoom 每位使用者的個人頻道，點對點通知走這裡
func UserRoom(userID uuid.UUID) string {
	return "user:" + userID.String()
}

// ChatRoom maps a chat identifier to its room. The distinguished global
// chat shares the global broadcast room.
func ChatRoom(chatID string) string {
	if chatID == model.GlobalChatID {
		return GlobalRoom
	}
	return "chat:" + chatID
}

// Event 送往客戶端的訊框
type Event struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data,omitempty"`
}

// UserStatusPayload user_status 事件內容
type UserStatusPayload struct {
	UserID   uuid.UUID         `json:"userId"`
	Status   string            `json:"status"` // "online" or "offline"
	UserData *model.PublicUser `json:"userData,omitempty"`
}

// OnlineUserPayload initial_online_users 快照的單一項目
type OnlineUserPayload struct {
	UserID   uuid.UUID        `json:"userId"`
	UserData model.PublicUser `json:"userData"`
}

// TypingPayload typing / stop_typing 事件內容
type TypingPayload struct {
	UserID uuid.UUID `json:"userId"`
}
