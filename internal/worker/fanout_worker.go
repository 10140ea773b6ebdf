package worker

import (
	"context"
	"go-gin-guestlist/internal/queue"
	"go-gin-guestlist/internal/realtime"
)

type FanoutWorker interface {
	// 訂閱事件隊列並轉交本地 hub
	Start(ctx context.Context) error
}

type FanoutWorkerImpl struct {
	hub   *realtime.Hub
	queue queue.EventQueue
}

func NewFanoutWorker(hub *realtime.Hub, queue queue.EventQueue) FanoutWorker {
	return &FanoutWorkerImpl{
		hub:   hub,
		queue: queue,
	}
}

func (w *FanoutWorkerImpl) Start(ctx context.Context) error {
	msgs, err := w.queue.Subscribe(ctx)
	if err != nil {
		return err
	}

	go func() {
		for msg := range msgs {
			// 投遞給目標房間的本地連線；慢客戶端丟事件由 client 層處理，
			// 所以這裡一律 Ack，不會因單一連線卡住整條流
			w.hub.Emit(msg.Event.Room, realtime.Event{
				Event: msg.Event.Type,
				Data:  msg.Event.Payload,
			})
			msg.Ack()
		}
	}()

	return nil
}
