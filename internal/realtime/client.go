package realtime

import (
	"encoding/json"
	"go-gin-guestlist/internal/model"
	"go-gin-guestlist/pkg/logger"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendQueueSize  = 64
)

// ClientEvent 客戶端送上來的事件訊框
type ClientEvent struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Client 一條已認證的 WebSocket 連線。send 由伺服器端寫入，
// 佇列滿時事件直接丟棄，避免慢客戶端拖住廣播。
type Client struct {
	ID     string
	UserID uuid.UUID
	User   *model.User

	conn      *websocket.Conn
	send      chan Event
	done      chan struct{}
	closeOnce sync.Once
}

func NewClient(user *model.User, conn *websocket.Conn) *Client {
	return &Client{
		ID:     uuid.New().String(),
		UserID: user.ID,
		User:   user,
		conn:   conn,
		send:   make(chan Event, sendQueueSize),
		done:   make(chan struct{}),
	}
}

// Send 非阻塞投遞；連線已關閉或佇列滿時回傳 false
func (c *Client) Send(event Event) bool {
	select {
	case <-c.done:
		return false
	default:
	}

	select {
	case c.send <- event:
		return true
	default:
		logger.WithComponent("realtime").Warn("send queue full, dropping event",
			zap.String("conn_id", c.ID),
			zap.String("event", event.Event))
		return false
	}
}

// Close 冪等；不關閉 send，避免併發廣播 panic
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		if c.conn != nil {
			c.conn.Close()
		}
	})
}

// WritePump 把 send 佇列寫到連線上，並定期 ping。呼叫端應以 goroutine 執行。
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case <-c.done:
			return
		case event := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(event); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ReadPump 讀取客戶端事件並交給 handle，連線斷開時返回。
func (c *Client) ReadPump(handle func(event ClientEvent)) {
	defer c.Close()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.WithComponent("realtime").Warn("unexpected close",
					zap.String("conn_id", c.ID), zap.Error(err))
			}
			return
		}

		var event ClientEvent
		if err := json.Unmarshal(raw, &event); err != nil {
			logger.WithComponent("realtime").Warn("invalid client event",
				zap.String("conn_id", c.ID), zap.Error(err))
			continue
		}

		handle(event)
	}
}
