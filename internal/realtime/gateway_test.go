package realtime

import (
	"testing"
	"time"

	"go-gin-guestlist/internal/auth"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGateway(t *testing.T) (*Gateway, *auth.TokenManager) {
	t.Helper()
	tokens := auth.NewTokenManager("access-secret", "refresh-secret", 15)
	gateway := NewGateway(NewHub(), NewMemoryPresenceStore(), nil, nil, nil, tokens, "*")
	return gateway, tokens
}

func expiredAccessToken(t *testing.T, tokens *auth.TokenManager, userID uuid.UUID) string {
	t.Helper()
	expired := auth.NewTokenManager("access-secret", "refresh-secret", -1)
	token, err := expired.MintAccess(userID)
	require.NoError(t, err)
	return token
}

func TestAuthenticate_ValidAccessToken(t *testing.T) {
	gateway, tokens := newTestGateway(t)
	userID := uuid.New()

	token, err := tokens.MintAccess(userID)
	require.NoError(t, err)

	got, fresh, err := gateway.authenticate(token, "")
	require.NoError(t, err)
	assert.Equal(t, userID, got)
	assert.Empty(t, fresh, "no refresh should happen for a valid token")
}

func TestAuthenticate_ExpiredAccessWithValidRefresh(t *testing.T) {
	gateway, tokens := newTestGateway(t)
	userID := uuid.New()

	access := expiredAccessToken(t, tokens, userID)
	refresh, err := tokens.MintRefresh(userID, time.Hour)
	require.NoError(t, err)

	got, fresh, err := gateway.authenticate(access, refresh)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
	require.NotEmpty(t, fresh, "client should receive a fresh access token")

	// 換發的 token 必須可以直接驗證
	refreshedID, err := tokens.VerifyAccess(fresh)
	require.NoError(t, err)
	assert.Equal(t, userID, refreshedID)
}

func TestAuthenticate_ExpiredAccessWithoutRefresh(t *testing.T) {
	gateway, tokens := newTestGateway(t)

	access := expiredAccessToken(t, tokens, uuid.New())

	_, _, err := gateway.authenticate(access, "")
	assert.Error(t, err)
}

func TestAuthenticate_ExpiredRefreshRejected(t *testing.T) {
	gateway, tokens := newTestGateway(t)
	userID := uuid.New()

	access := expiredAccessToken(t, tokens, userID)
	staleRefresh, err := tokens.MintRefresh(userID, -time.Hour)
	require.NoError(t, err)

	// refresh 只嘗試一次，失敗就拒絕，不再有後備
	_, _, err = gateway.authenticate(access, staleRefresh)
	assert.Error(t, err)
}

func TestAuthenticate_MissingOrMalformedToken(t *testing.T) {
	gateway, _ := newTestGateway(t)

	_, _, err := gateway.authenticate("", "")
	assert.Error(t, err)

	_, _, err = gateway.authenticate("garbage", "")
	assert.Error(t, err)
}
