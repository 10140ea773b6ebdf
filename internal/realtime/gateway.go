package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"go-gin-guestlist/internal/auth"
	"go-gin-guestlist/internal/model"
	"go-gin-guestlist/internal/queue"
	"go-gin-guestlist/internal/repository"
	apperrors "go-gin-guestlist/pkg/app_errors"
	"go-gin-guestlist/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// MessageSender 讓 gateway 轉交 send_message 事件，由聊天服務持久化並扇出
type MessageSender interface {
	Send(ctx context.Context, senderID uuid.UUID, chatID, content string) (*model.Message, error)
}

// Gateway 驗證每條進來的 WebSocket 連線並接上 presence 與房間。
type Gateway struct {
	hub      *Hub
	presence PresenceStore
	users    repository.UserRepository
	messages MessageSender
	events   queue.EventQueue
	tokens   *auth.TokenManager
	upgrader websocket.Upgrader
}

func NewGateway(
	hub *Hub,
	presence PresenceStore,
	users repository.UserRepository,
	messages MessageSender,
	events queue.EventQueue,
	tokens *auth.TokenManager,
	allowedOrigin string,
) *Gateway {
	return &Gateway{
		hub:      hub,
		presence: presence,
		users:    users,
		messages: messages,
		events:   events,
		tokens:   tokens,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				if allowedOrigin == "*" {
					return true
				}
				return r.Header.Get("Origin") == allowedOrigin
			},
		},
	}
}

func (g *Gateway) RegisterRoutes(r *gin.Engine) {
	r.GET("/ws", g.Handle)
}

// Handle 處理交握：token 必填，refreshToken 選填，過期的 access token
// 只在 refresh token 有效時換發一次，否則直接拒絕。
func (g *Gateway) Handle(c *gin.Context) {
	conn, err := g.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.WithComponent("gateway").Warn("upgrade failed", zap.Error(err))
		return
	}

	ctx := c.Request.Context()
	log := logger.WithComponent("gateway")

	userID, freshAccess, err := g.authenticate(c.Query("token"), c.Query("refreshToken"))
	if err != nil {
		g.reject(conn, "authentication failed: invalid or expired token")
		return
	}

	// 不為已刪除的帳號建立 session
	user, err := g.users.FindByID(ctx, userID)
	if err != nil {
		g.reject(conn, "authentication failed: unknown user")
		return
	}

	client := NewClient(user, conn)

	if freshAccess != "" {
		client.Send(Event{Event: EventTokenRefreshed, Data: map[string]string{"accessToken": freshAccess}})
	}

	// 快照必須在自己註冊之前取：新連線的快照不含自己
	snapshot, err := g.presence.Snapshot(ctx)
	if err != nil {
		log.Error("presence snapshot failed", zap.Error(err))
		snapshot = nil
	}

	g.hub.Join(GlobalRoom, client)
	g.hub.Join(UserRoom(user.ID), client)

	first, err := g.presence.Register(ctx, user.Public(), client.ID)
	if err != nil {
		log.Error("presence register failed", zap.Error(err))
	}

	online := make([]OnlineUserPayload, 0, len(snapshot))
	for _, entry := range snapshot {
		online = append(online, OnlineUserPayload{UserID: entry.UserID, UserData: entry.User})
	}
	client.Send(Event{Event: EventInitialOnlineUsers, Data: online})

	if first {
		g.publishStatus(ctx, user, "online")
	}

	log.Info("session established",
		zap.String("conn_id", client.ID),
		zap.String("user_id", user.ID.String()))

	go client.WritePump()
	client.ReadPump(func(event ClientEvent) {
		g.handleClientEvent(ctx, client, event)
	})

	// read pump 返回即斷線
	g.hub.Remove(client)
	last, err := g.presence.Unregister(context.Background(), user.ID, client.ID)
	if err != nil {
		log.Error("presence unregister failed", zap.Error(err))
	}
	if last {
		g.publishStatus(context.Background(), user, "offline")
	}
	client.Close()

	log.Info("session closed",
		zap.String("conn_id", client.ID),
		zap.String("user_id", user.ID.String()))
}

func (g *Gateway) authenticate(token, refreshToken string) (uuid.UUID, string, error) {
	if token == "" {
		return uuid.Nil, "", apperrors.ErrUnauthorized
	}

	userID, err := g.tokens.VerifyAccess(token)
	if err == nil {
		return userID, "", nil
	}

	// 過期且帶了 refresh token 才走換發，且只嘗試一次
	if errors.Is(err, jwt.ErrTokenExpired) && refreshToken != "" {
		refreshedID, err := g.tokens.VerifyRefresh(refreshToken)
		if err != nil {
			return uuid.Nil, "", apperrors.ErrUnauthorized
		}

		freshAccess, err := g.tokens.MintAccess(refreshedID)
		if err != nil {
			return uuid.Nil, "", err
		}

		return refreshedID, freshAccess, nil
	}

	return uuid.Nil, "", apperrors.ErrUnauthorized
}

// reject 送出連線層級的錯誤事件後關閉，不建立 session、不記 presence
func (g *Gateway) reject(conn *websocket.Conn, message string) {
	_ = conn.WriteJSON(Event{Event: EventError, Data: map[string]string{"message": message}})
	_ = conn.Close()
}

func (g *Gateway) publishStatus(ctx context.Context, user *model.User, status string) {
	payload := UserStatusPayload{
		UserID: user.ID,
		Status: status,
	}
	if status == "online" {
		public := user.Public()
		payload.UserData = &public
	}

	err := g.events.Publish(ctx, &queue.Event{
		Type:    EventUserStatus,
		Room:    GlobalRoom,
		Payload: payload,
	})
	if err != nil {
		logger.WithComponent("gateway").Error("publish user_status failed",
			zap.String("user_id", user.ID.String()), zap.Error(err))
	}
}

type chatEventData struct {
	ChatID  string `json:"chatId"`
	Content string `json:"content"`
}

func (g *Gateway) handleClientEvent(ctx context.Context, client *Client, event ClientEvent) {
	var data chatEventData
	if len(event.Data) > 0 {
		if err := json.Unmarshal(event.Data, &data); err != nil {
			client.Send(Event{Event: EventError, Data: map[string]string{"message": "invalid event payload"}})
			return
		}
	}

	switch event.Event {
	case ClientEventSendMessage:
		if _, err := g.messages.Send(ctx, client.UserID, data.ChatID, data.Content); err != nil {
			client.Send(Event{Event: EventError, Data: map[string]string{"message": "message not delivered"}})
		}
	case ClientEventJoinChat:
		if data.ChatID != "" {
			g.hub.Join(ChatRoom(data.ChatID), client)
		}
	case ClientEventLeaveChat:
		if data.ChatID != "" {
			g.hub.Leave(ChatRoom(data.ChatID), client)
		}
	case ClientEventTyping, ClientEventUserTyping:
		// 純轉發，不落地；接收端自行在 2 秒後清掉指示
		g.hub.EmitExcept(ChatRoom(data.ChatID), Event{Event: EventTyping, Data: TypingPayload{UserID: client.UserID}}, client)
	case ClientEventStopTyping, ClientEventUserStopTyping:
		g.hub.EmitExcept(ChatRoom(data.ChatID), Event{Event: EventStopTyping, Data: TypingPayload{UserID: client.UserID}}, client)
	default:
		logger.WithComponent("gateway").Warn("unknown client event",
			zap.String("event", event.Event), zap.String("conn_id", client.ID))
	}
}
