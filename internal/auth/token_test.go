package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *TokenManager {
	return NewTokenManager("access-secret", "refresh-secret", 15)
}

func TestTokenRoundTrip(t *testing.T) {
	m := newTestManager()
	userID := uuid.New()

	token, err := m.MintAccess(userID)
	require.NoError(t, err)

	got, err := m.VerifyAccess(token)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestExpiredAccessTokenReportsExpiry(t *testing.T) {
	m := newTestManager()
	userID := uuid.New()

	expired, err := m.mint(userID, m.accessSecret, -time.Minute)
	require.NoError(t, err)

	_, err = m.VerifyAccess(expired)
	require.Error(t, err)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestRefreshTokenNotValidAsAccess(t *testing.T) {
	m := newTestManager()
	userID := uuid.New()

	refresh, err := m.MintRefresh(userID, time.Hour)
	require.NoError(t, err)

	// 不同密鑰簽發，不能互用
	_, err = m.VerifyAccess(refresh)
	assert.Error(t, err)

	got, err := m.VerifyRefresh(refresh)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestMalformedToken(t *testing.T) {
	m := newTestManager()

	_, err := m.VerifyAccess("not-a-jwt")
	assert.Error(t, err)
}
