package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"go-gin-guestlist/pkg/logger"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	StreamKey          = "fanout:stream"
	GroupNamePrefix    = "fanout"
	ConsumerName       = "gateway"
	streamMaxLenApprox = 10000
)

// RedisStreamEventQueueConfig 可注入的逾時與重試設定；nil 或零值時使用預設。
type RedisStreamEventQueueConfig struct {
	ClaimMinIdleTime   time.Duration // PEL 中超過此時間才被 XAUTOCLAIM 領取
	MaxRetryCount      int           // 超過此次數視為毒藥消息並丟棄
	ReadGroupBlockTime time.Duration // XReadGroup 阻塞時間
}

func defaultRedisStreamConfig() RedisStreamEventQueueConfig {
	return RedisStreamEventQueueConfig{
		ClaimMinIdleTime:   5 * time.Second,
		MaxRetryCount:      5,
		ReadGroupBlockTime: 2 * time.Second,
	}
}

// RedisStreamEventQueueImpl 跨實例扇出中繼。每個實例使用自己的
// consumer group（fanout:<instanceID>），因此同一筆事件會被每個
// 實例各讀到一次，各自投遞給本地連線。
type RedisStreamEventQueueImpl struct {
	client    *redis.Client
	streamKey string
	groupName string
	cfg       RedisStreamEventQueueConfig
}

// NewRedisStreamEventQueue 建立 Redis Stream 版 EventQueue。config 可為 nil，則使用預設逾時與重試次數。
func NewRedisStreamEventQueue(client *redis.Client, instanceID string, config *RedisStreamEventQueueConfig) (EventQueue, error) {
	if instanceID == "" {
		instanceID = uuid.New().String()
	}
	cfg := defaultRedisStreamConfig()
	if config != nil {
		if config.ClaimMinIdleTime > 0 {
			cfg.ClaimMinIdleTime = config.ClaimMinIdleTime
		}
		if config.MaxRetryCount > 0 {
			cfg.MaxRetryCount = config.MaxRetryCount
		}
		if config.ReadGroupBlockTime > 0 {
			cfg.ReadGroupBlockTime = config.ReadGroupBlockTime
		}
	}
	q := &RedisStreamEventQueueImpl{
		client:    client,
		streamKey: StreamKey,
		groupName: fmt.Sprintf("%s:%s", GroupNamePrefix, instanceID),
		cfg:       cfg,
	}
	ctx := context.Background()
	if err := q.ensureConsumerGroup(ctx); err != nil {
		return nil, fmt.Errorf("ensure consumer group: %w", err)
	}
	return q, nil
}

func (q *RedisStreamEventQueueImpl) ensureConsumerGroup(ctx context.Context) error {
	// 從 "$" 開始：實例只關心啟動後的事件，重啟不重播歷史
	err := q.client.XGroupCreateMkStream(ctx, q.streamKey, q.groupName, "$").Err()
	if err != nil && err.Error() != "BUSYGROUP Consumer Group name already exists" {
		return err
	}
	return nil
}

func (q *RedisStreamEventQueueImpl) Publish(ctx context.Context, event *Event) error {
	eventJSON, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	_, err = q.client.XAdd(ctx, &redis.XAddArgs{
		Stream: q.streamKey,
		MaxLen: streamMaxLenApprox,
		Approx: true,
		ID:     "*",
		Values: map[string]interface{}{"event": string(eventJSON)},
	}).Result()
	if err != nil {
		return fmt.Errorf("xadd: %w", err)
	}
	return nil
}

func (q *RedisStreamEventQueueImpl) Subscribe(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)
	go func() {
		defer close(out)
		go q.runAutoClaim(ctx, out)
		q.runReadLoop(ctx, out)
	}()
	return out, nil
}

// runReadLoop 主讀取循環：只讀新消息(">")
func (q *RedisStreamEventQueueImpl) runReadLoop(ctx context.Context, out chan<- Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
			q.readAndDeliver(ctx, out)
		}
	}
}

// readAndDeliver 執行一輪讀取並投遞到 out
// Pending 的訊息已投遞過，不再重複投遞，改由 XAUTOCLAIM 超時後領回重試。
func (q *RedisStreamEventQueueImpl) readAndDeliver(ctx context.Context, out chan<- Delivery) {
	streams, err := q.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    q.groupName,
		Consumer: ConsumerName,
		Streams:  []string{q.streamKey, ">"},
		Count:    10,
		Block:    q.cfg.ReadGroupBlockTime,
	}).Result()

	if err == redis.Nil {
		return
	}
	if err != nil {
		logger.WithComponent("mq").Error("XReadGroup failed", zap.Error(err))
		time.Sleep(time.Second)
		return
	}

	for _, stream := range streams {
		if stream.Stream != q.streamKey {
			continue
		}
		for _, msg := range stream.Messages {
			d := q.newDelivery(ctx, msg)
			if d != nil {
				select {
				case out <- *d:
				case <-ctx.Done():
					return
				}
			}
		}
	}
}

// shouldProcessMessage 檢查是否應處理（含毒藥消息判斷）
func (q *RedisStreamEventQueueImpl) shouldProcessMessage(ctx context.Context, messageID string) bool {
	n, err := q.getMessageRetryCount(ctx, messageID)
	if err != nil {
		logger.WithComponent("mq").Warn("getMessageRetryCount failed", zap.String("message_id", messageID), zap.Error(err))
		return true
	}
	if n >= q.cfg.MaxRetryCount {
		logger.WithComponent("mq").Warn("discard poison message", zap.String("message_id", messageID), zap.Int("retries", n), zap.Int("max_retries", q.cfg.MaxRetryCount))
		_ = q.client.XAck(ctx, q.streamKey, q.groupName, messageID).Err()
		return false
	}
	return true
}

func (q *RedisStreamEventQueueImpl) getMessageRetryCount(ctx context.Context, messageID string) (int, error) {
	pending, err := q.client.XPendingExt(ctx, &redis.XPendingExtArgs{
		Stream: q.streamKey,
		Group:  q.groupName,
		Start:  messageID,
		End:    messageID,
		Count:  1,
	}).Result()
	if err != nil {
		if err == redis.Nil {
			return 0, nil
		}
		return 0, err
	}
	if len(pending) == 0 {
		return 0, nil
	}
	return int(pending[0].RetryCount), nil
}

// runAutoClaim 定時用 XAUTOCLAIM 領取超時未處理的消息
func (q *RedisStreamEventQueueImpl) runAutoClaim(ctx context.Context, out chan<- Delivery) {
	ticker := time.NewTicker(q.cfg.ClaimMinIdleTime)
	defer ticker.Stop()
	startID := "0-0"

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			claimed, nextID, err := q.client.XAutoClaim(ctx, &redis.XAutoClaimArgs{
				Stream:   q.streamKey,
				Group:    q.groupName,
				Consumer: ConsumerName,
				MinIdle:  q.cfg.ClaimMinIdleTime,
				Count:    10,
				Start:    startID,
			}).Result()

			if err != nil && err != redis.Nil {
				logger.WithComponent("mq").Error("XAutoClaim failed", zap.Error(err))
				continue
			}
			if nextID != "" && nextID != "0-0" {
				startID = nextID
			} else {
				startID = "0-0"
			}

			for _, msg := range claimed {
				if !q.shouldProcessMessage(ctx, msg.ID) {
					continue
				}
				d := q.newDelivery(ctx, msg)
				if d != nil {
					select {
					case out <- *d:
					case <-ctx.Done():
						return
					}
				}
			}
		}
	}
}

// newDelivery 從 Redis 消息組裝 Delivery（含 Ack/Nack）
func (q *RedisStreamEventQueueImpl) newDelivery(ctx context.Context, msg redis.XMessage) *Delivery {
	eventJSON, ok := msg.Values["event"].(string)
	if !ok {
		logger.WithComponent("mq").Warn("invalid message: missing event field", zap.String("message_id", msg.ID))
		return nil
	}
	var event Event
	if err := json.Unmarshal([]byte(eventJSON), &event); err != nil {
		logger.WithComponent("mq").Warn("unmarshal event failed", zap.String("message_id", msg.ID), zap.Error(err))
		return nil
	}
	msgID := msg.ID
	return &Delivery{
		Event: &event,
		Ack: func() {
			if err := q.client.XAck(ctx, q.streamKey, q.groupName, msgID).Err(); err != nil {
				logger.WithComponent("mq").Error("XAck failed", zap.String("message_id", msgID), zap.Error(err))
			}
		},
		Nack: func(requeue bool) {
			if requeue {
				// 不做任何事：消息留在 PEL，等 ClaimMinIdleTime 後由 XAUTOCLAIM 領取，形成延遲重試
				logger.WithComponent("mq").Info("message nack(requeue), will retry", zap.String("message_id", msgID), zap.Duration("claim_min_idle", q.cfg.ClaimMinIdleTime))
				return
			}
			if err := q.client.XAck(ctx, q.streamKey, q.groupName, msgID).Err(); err != nil {
				logger.WithComponent("mq").Error("XAck discard failed", zap.String("message_id", msgID), zap.Error(err))
			}
		},
	}
}
