package model

import (
	"time"

	"github.com/google/uuid"
)

// TicketKind 票種類型：四種掃描變體共用一個帶標籤的模型
type TicketKind string

const (
	KindFriendsCode TicketKind = "friends_code"
	KindGuestCode   TicketKind = "guest_code"
	KindTableCode   TicketKind = "table_code"
	KindTicket      TicketKind = "ticket"
)

// kindPriority is the fixed resolution order when an identifier could
// match more than one variant. Lower wins.
var kindPriority = map[TicketKind]int{
	KindFriendsCode: 0,
	KindGuestCode:   1,
	KindTableCode:   2,
	KindTicket:      3,
}

// IsValid 驗證票種是否有效
func (k TicketKind) IsValid() bool {
	_, ok := kindPriority[k]
	return ok
}

// Priority returns the resolution rank of the kind. Unknown kinds sort last.
func (k TicketKind) Priority() int {
	p, ok := kindPriority[k]
	if !ok {
		return len(kindPriority)
	}
	return p
}

// AllKinds lists the variants in resolution priority order.
func AllKinds() []TicketKind {
	return []TicketKind{KindFriendsCode, KindGuestCode, KindTableCode, KindTicket}
}

// Ticket 入場憑證模型。Pax 在建立後不可變；PaxChecked 只由入場計數服務調整。
type Ticket struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Kind        TicketKind `json:"kind" db:"kind"`
	EventID     uuid.UUID  `json:"event_id" db:"event_id"`
	Code        string     `json:"code" db:"code"`
	HolderName  string     `json:"holder_name" db:"holder_name"`
	HolderEmail *string    `json:"holder_email,omitempty" db:"holder_email"`
	Pax         int        `json:"pax" db:"pax"`
	PaxChecked  int        `json:"pax_checked" db:"pax_checked"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

// Remaining 檢查剩餘可入場人數
func (t *Ticket) Remaining() int {
	return t.Pax - t.PaxChecked
}

// IsFull 檢查是否已滿
func (t *Ticket) IsFull() bool {
	return t.PaxChecked >= t.Pax
}

// CreateGuestCodeRequest 建立賓客碼請求
type CreateGuestCodeRequest struct {
	EventID     uuid.UUID `json:"event_id" binding:"required"`
	HolderName  string    `json:"holder_name" binding:"required"`
	HolderEmail *string   `json:"holder_email"`
	Pax         int       `json:"pax" binding:"required,min=1"`
}
