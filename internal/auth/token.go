package auth

import (
	"fmt"
	"time"

	apperrors "go-gin-guestlist/pkg/app_errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenManager 簽發與驗證 access / refresh token。兩種 token 使用不同密鑰。
type TokenManager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
}

func NewTokenManager(accessSecret, refreshSecret string, accessTTLMin int) *TokenManager {
	return &TokenManager{
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     time.Duration(accessTTLMin) * time.Minute,
	}
}

func (m *TokenManager) MintAccess(userID uuid.UUID) (string, error) {
	return m.mint(userID, m.accessSecret, m.accessTTL)
}

// MintRefresh is used by the wider platform's login flow; this core only
// needs it for the one-shot refresh fallback and for tests.
func (m *TokenManager) MintRefresh(userID uuid.UUID, ttl time.Duration) (string, error) {
	return m.mint(userID, m.refreshSecret, ttl)
}

func (m *TokenManager) mint(userID uuid.UUID, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// VerifyAccess 驗證 access token 並回傳 subject。過期錯誤可用
// errors.Is(err, jwt.ErrTokenExpired) 判斷，供 gateway 走 refresh 流程。
func (m *TokenManager) VerifyAccess(raw string) (uuid.UUID, error) {
	return m.verify(raw, m.accessSecret)
}

func (m *TokenManager) VerifyRefresh(raw string) (uuid.UUID, error) {
	return m.verify(raw, m.refreshSecret)
}

func (m *TokenManager) verify(raw string, secret []byte) (uuid.UUID, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return uuid.Nil, err
	}
	if !token.Valid {
		return uuid.Nil, apperrors.ErrUnauthorized
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, apperrors.ErrUnauthorized
	}

	return userID, nil
}
