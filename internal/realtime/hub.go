package realtime

import (
	"sync"
)

// Hub 房間註冊表：global、user:<id>、chat:<id> 三類房間的本地扇出
type Hub struct {
	mu      sync.RWMutex
	rooms   map[string]map[*Client]struct{}
	members map[*Client]map[string]struct{}
}

func NewHub() *Hub {
	return &Hub{
		rooms:   make(map[string]map[*Client]struct{}),
		members: make(map[*Client]map[string]struct{}),
	}
}

func (h *Hub) Join(room string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Client]struct{})
	}
	h.rooms[room][client] = struct{}{}

	if h.members[client] == nil {
		h.members[client] = make(map[string]struct{})
	}
	h.members[client][room] = struct{}{}
}

func (h *Hub) Leave(room string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.leaveLocked(room, client)
}

// Remove drops the client from every room it joined.
func (h *Hub) Remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for room := range h.members[client] {
		h.leaveLocked(room, client)
	}
	delete(h.members, client)
}

func (h *Hub) leaveLocked(room string, client *Client) {
	if clients, ok := h.rooms[room]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.rooms, room)
		}
	}
	if rooms, ok := h.members[client]; ok {
		delete(rooms, room)
	}
}

// Emit 投遞事件給房間內所有連線
func (h *Hub) Emit(room string, event Event) {
	h.EmitExcept(room, event, nil)
}

// EmitExcept 同 Emit，但跳過指定連線（typing 轉發不回送給發送者）
func (h *Hub) EmitExcept(room string, event Event, except *Client) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.rooms[room]))
	for client := range h.rooms[room] {
		if client != except {
			clients = append(clients, client)
		}
	}
	h.mu.RUnlock()

	for _, client := range clients {
		client.Send(event)
	}
}

// RoomSize 房間目前連線數，測試與監控用
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}
