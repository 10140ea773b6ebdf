package realtime

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"go-gin-guestlist/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser(name string) model.PublicUser {
	return model.PublicUser{
		ID:          uuid.New(),
		Username:    name,
		DisplayName: name,
	}
}

func TestMemoryPresence_FirstAndLastConnection(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryPresenceStore()
	user := testUser("alice")

	first, err := store.Register(ctx, user, "conn-1")
	require.NoError(t, err)
	assert.True(t, first, "first connection should report the online transition")

	// 第二台裝置連上，不算新的上線
	first, err = store.Register(ctx, user, "conn-2")
	require.NoError(t, err)
	assert.False(t, first)

	online, err := store.IsOnline(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, online)

	// 關掉其中一台，使用者仍然在線
	last, err := store.Unregister(ctx, user.ID, "conn-1")
	require.NoError(t, err)
	assert.False(t, last, "user still has a live connection")

	online, err = store.IsOnline(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, online)

	// 最後一台關掉才算離線
	last, err = store.Unregister(ctx, user.ID, "conn-2")
	require.NoError(t, err)
	assert.True(t, last)

	online, err = store.IsOnline(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, online)
}

func TestMemoryPresence_SnapshotBeforeRegisterExcludesJoiner(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryPresenceStore()
	alice := testUser("alice")
	bob := testUser("bob")

	_, err := store.Register(ctx, alice, "conn-a")
	require.NoError(t, err)

	// gateway 在註冊自己之前取快照：快照不含新加入者
	snapshot, err := store.Snapshot(ctx)
	require.NoError(t, err)

	_, err = store.Register(ctx, bob, "conn-b")
	require.NoError(t, err)

	require.Len(t, snapshot, 1)
	assert.Equal(t, alice.ID, snapshot[0].UserID)
	for _, entry := range snapshot {
		assert.NotEqual(t, bob.ID, entry.UserID, "joining user must not see itself")
	}
}

func TestMemoryPresence_UnregisterUnknownConnection(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryPresenceStore()

	last, err := store.Unregister(ctx, uuid.New(), "ghost")
	require.NoError(t, err)
	assert.False(t, last)
}

func TestMemoryPresence_ConcurrentRegisterUnregister(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryPresenceStore()
	user := testUser("carol")

	const conns = 50

	var wg sync.WaitGroup
	for i := 0; i < conns; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := store.Register(ctx, user, fmt.Sprintf("conn-%d", n))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	online, err := store.IsOnline(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, online)

	var lastCount int
	var mu sync.Mutex
	for i := 0; i < conns; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			last, err := store.Unregister(ctx, user.ID, fmt.Sprintf("conn-%d", n))
			assert.NoError(t, err)
			if last {
				mu.Lock()
				lastCount++
				mu.Unlock()
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, lastCount, "exactly one unregister observes the offline transition")

	online, err = store.IsOnline(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, online)
}
