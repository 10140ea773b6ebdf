package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"go-gin-guestlist/internal/model"
	"go-gin-guestlist/internal/realtime"
	"go-gin-guestlist/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	profilesKey   = "presence:profiles"
	onlineSetKey  = "presence:online"
	connSetPrefix = "presence:conns"
)

// RedisPresenceStore 多實例版 presence：連線集合與上線名單放 Redis，
// 用 Lua 腳本保證註冊/註銷與首連/末連判定的原子性。
type RedisPresenceStore struct {
	client *redis.Client
}

func NewRedisPresenceStore(client *redis.Client) realtime.PresenceStore {
	return &RedisPresenceStore{
		client: client,
	}
}

func connSetKey(userID uuid.UUID) string {
	return fmt.Sprintf("%s:%s", connSetPrefix, userID.String())
}

func (s *RedisPresenceStore) Register(ctx context.Context, user model.PublicUser, connID string) (bool, error) {
	profileJSON, err := json.Marshal(user)
	if err != nil {
		return false, err
	}

	script := `
		-- 1. 取得參數
		local conns_key = KEYS[1]
		local profiles_key = KEYS[2]
		local online_key = KEYS[3]

		local user_id = ARGV[1]
		local conn_id = ARGV[2]
		local profile = ARGV[3]

		-- 2. 記錄連線
		redis.call('SADD', conns_key, conn_id)

		-- 3. 第一條連線才算上線
		if redis.call('SCARD', conns_key) == 1 then
			redis.call('HSET', profiles_key, user_id, profile)
			redis.call('SADD', online_key, user_id)
			return 1
		end

		return 0
	`

	result, err := s.client.Eval(ctx, script,
		[]string{connSetKey(user.ID), profilesKey, onlineSetKey},
		user.ID.String(), connID, string(profileJSON),
	).Result()
	if err != nil {
		return false, err
	}

	return result.(int64) == 1, nil
}

func (s *RedisPresenceStore) Unregister(ctx context.Context, userID uuid.UUID, connID string) (bool, error) {
	script := `
		local conns_key = KEYS[1]
		local profiles_key = KEYS[2]
		local online_key = KEYS[3]

		local user_id = ARGV[1]
		local conn_id = ARGV[2]

		redis.call('SREM', conns_key, conn_id)

		-- 最後一條連線關閉才算離線
		if redis.call('SCARD', conns_key) == 0 then
			redis.call('HDEL', profiles_key, user_id)
			redis.call('SREM', online_key, user_id)
			return 1
		end

		return 0
	`

	result, err := s.client.Eval(ctx, script,
		[]string{connSetKey(userID), profilesKey, onlineSetKey},
		userID.String(), connID,
	).Result()
	if err != nil {
		return false, err
	}

	return result.(int64) == 1, nil
}

func (s *RedisPresenceStore) Snapshot(ctx context.Context) ([]realtime.PresenceEntry, error) {
	profiles, err := s.client.HGetAll(ctx, profilesKey).Result()
	if err != nil {
		return nil, err
	}

	entries := make([]realtime.PresenceEntry, 0, len(profiles))
	for rawID, profileJSON := range profiles {
		userID, err := uuid.Parse(rawID)
		if err != nil {
			logger.WithComponent("presence").Warn("invalid user id in profiles hash", zap.String("user_id", rawID))
			continue
		}

		var user model.PublicUser
		if err := json.Unmarshal([]byte(profileJSON), &user); err != nil {
			logger.WithComponent("presence").Warn("invalid profile payload", zap.String("user_id", rawID), zap.Error(err))
			continue
		}

		entries = append(entries, realtime.PresenceEntry{
			UserID: userID,
			User:   user,
		})
	}

	return entries, nil
}

func (s *RedisPresenceStore) IsOnline(ctx context.Context, userID uuid.UUID) (bool, error) {
	return s.client.SIsMember(ctx, onlineSetKey, userID.String()).Result()
}
