package realtime

import (
	"context"
	"go-gin-guestlist/internal/model"
	"sync"

	"github.com/google/uuid"
)

// PresenceEntry 線上使用者快照項目
type PresenceEntry struct {
	UserID uuid.UUID
	User   model.PublicUser
}

// PresenceStore tracks which users currently hold open connections.
// Entries are keyed by (user, connection) so that a multi-device user
// only goes offline when their last connection closes.
type PresenceStore interface {
	// Register records a connection. first is true when this is the
	// user's first live connection (the online transition).
	Register(ctx context.Context, user model.PublicUser, connID string) (first bool, err error)
	// Unregister removes a connection. last is true when no connections
	// remain for the user (the offline transition).
	Unregister(ctx context.Context, userID uuid.UUID, connID string) (last bool, err error)
	// Snapshot returns all currently online users.
	Snapshot(ctx context.Context) ([]PresenceEntry, error)
	IsOnline(ctx context.Context, userID uuid.UUID) (bool, error)
}

type presenceRecord struct {
	user  model.PublicUser
	conns map[string]struct{}
}

// MemoryPresenceStore 單機版 presence：行程內 map，不跨實例
type MemoryPresenceStore struct {
	mu     sync.RWMutex
	online map[uuid.UUID]*presenceRecord
}

func NewMemoryPresenceStore() *MemoryPresenceStore {
	return &MemoryPresenceStore{
		online: make(map[uuid.UUID]*presenceRecord),
	}
}

func (s *MemoryPresenceStore) Register(ctx context.Context, user model.PublicUser, connID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.online[user.ID]
	if !ok {
		record = &presenceRecord{
			user:  user,
			conns: make(map[string]struct{}),
		}
		s.online[user.ID] = record
	}
	record.conns[connID] = struct{}{}

	return len(record.conns) == 1, nil
}

func (s *MemoryPresenceStore) Unregister(ctx context.Context, userID uuid.UUID, connID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.online[userID]
	if !ok {
		return false, nil
	}

	delete(record.conns, connID)
	if len(record.conns) == 0 {
		delete(s.online, userID)
		return true, nil
	}

	return false, nil
}

func (s *MemoryPresenceStore) Snapshot(ctx context.Context) ([]PresenceEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]PresenceEntry, 0, len(s.online))
	for userID, record := range s.online {
		entries = append(entries, PresenceEntry{
			UserID: userID,
			User:   record.user,
		})
	}

	return entries, nil
}

func (s *MemoryPresenceStore) IsOnline(ctx context.Context, userID uuid.UUID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.online[userID]
	return ok, nil
}
