package queue

import (
	"context"
)

// Event 一筆待扇出的即時事件。Room 指定目標房間，Payload 為送往客戶端的內容。
type Event struct {
	Type    string      `json:"type"`
	Room    string      `json:"room"`
	Payload interface{} `json:"payload,omitempty"`
}

type Delivery struct {
	Event *Event
	Ack   func()
	Nack  func(requeue bool)
}

type EventQueue interface {
	// 發送事件到隊列
	Publish(ctx context.Context, event *Event) error
	// 訂閱事件隊列
	Subscribe(ctx context.Context) (<-chan Delivery, error)
}

// EventQueueImpl 單機版：用 Go channel 串接寫入路徑與扇出 worker
type EventQueueImpl struct {
	ch chan *Event
}

func NewEventQueue(bufferSize int) EventQueue {
	return &EventQueueImpl{
		ch: make(chan *Event, bufferSize),
	}
}

func (q *EventQueueImpl) Publish(ctx context.Context, event *Event) error {
	select {
	case q.ch <- event:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *EventQueueImpl) Subscribe(ctx context.Context) (<-chan Delivery, error) {
	out := make(chan Delivery)

	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-q.ch:
				if !ok {
					return
				}

				out <- Delivery{
					Event: event,
					Ack:   func() { /* 記憶體版不用做特別動作 */ },
					Nack: func(requeue bool) {
						if requeue {
							q.ch <- event // 簡單模擬重回隊列
						}
					},
				}
			}
		}
	}()

	return out, nil
}
