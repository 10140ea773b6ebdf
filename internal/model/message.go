package model

import (
	"time"

	"github.com/google/uuid"
)

// GlobalChatID is the distinguished shared channel every session joins.
const GlobalChatID = "global"

// Message 聊天訊息模型
type Message struct {
	ID        uuid.UUID   `json:"id" db:"id"`
	ChatID    string      `json:"chat_id" db:"chat_id"`
	SenderID  uuid.UUID   `json:"sender_id" db:"sender_id"`
	Content   string      `json:"content" db:"content"`
	ReadBy    []uuid.UUID `json:"read_by" db:"read_by"`
	CreatedAt time.Time   `json:"created_at" db:"created_at"`
}

// Chat 聊天室模型，LastMessageID 供列表排序使用
type Chat struct {
	ID            string     `json:"id" db:"id"`
	LastMessageID *uuid.UUID `json:"last_message_id,omitempty" db:"last_message_id"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}
