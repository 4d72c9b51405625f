package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/gachwala/storefront/internal/model"
)

// AMQPConsumer is the consuming half of *amqp.Channel.
type AMQPConsumer interface {
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
}

// EventRecorder stores applied order events.
type EventRecorder interface {
	AppendEvent(ctx context.Context, event *model.OrderEvent) error
}

// TimelineWorker consumes order events and records them as the order's
// timeline. Each event is applied at most once.
type TimelineWorker struct {
	channel     AMQPConsumer
	recorder    EventRecorder
	idempotency IdempotencyStore
	log         *slog.Logger
	done        chan struct{}
	wg          sync.WaitGroup
	stopOnce    sync.Once
}

func NewTimelineWorker(ch AMQPConsumer, recorder EventRecorder, idempotency IdempotencyStore, log *slog.Logger) *TimelineWorker {
	return &TimelineWorker{
		channel:     ch,
		recorder:    recorder,
		idempotency: idempotency,
		log:         log,
		done:        make(chan struct{}),
	}
}

func (w *TimelineWorker) Start(ctx context.Context) error {
	msgs, err := w.channel.Consume(TimelineQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				w.processMessage(ctx, msg)
			case <-w.done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	w.log.Info("timeline worker started")
	return nil
}

// Stop ends consumption and waits for the in-flight message to finish.
func (w *TimelineWorker) Stop() {
	w.stopOnce.Do(func() { close(w.done) })
	w.wg.Wait()
}

func (w *TimelineWorker) processMessage(ctx context.Context, msg amqp.Delivery) {
	var event model.OrderEventMessage
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		w.log.Error("unmarshal order event", "error", err)
		_ = msg.Nack(false, false)
		return
	}
	if err := validateEvent(event); err != nil {
		w.log.Error("invalid order event", "error", err)
		_ = msg.Nack(false, false)
		return
	}

	log := w.log.With("event_id", event.EventID, "order_id", event.OrderID, "event_type", event.Type)

	key := "order_event:" + event.EventID.String()
	seen, err := w.idempotency.Seen(ctx, key)
	if err != nil {
		log.Error("check idempotency key", "error", err)
		_ = msg.Nack(false, true)
		return
	}
	if seen {
		log.Info("event already applied, skipping")
		_ = msg.Ack(false)
		return
	}

	if err := w.recorder.AppendEvent(ctx, &model.OrderEvent{
		ID:         event.EventID,
		OrderID:    event.OrderID,
		Type:       event.Type,
		Status:     event.Status,
		OccurredAt: event.OccurredAt,
	}); err != nil {
		log.Error("record order event", "error", err)
		_ = msg.Nack(false, false)
		return
	}

	if err := w.idempotency.Mark(ctx, key); err != nil {
		log.Error("mark event applied", "error", err)
	}

	_ = msg.Ack(false)
	log.Info("order event recorded")
}

func validateEvent(e model.OrderEventMessage) error {
	switch {
	case e.EventID == uuid.Nil:
		return errors.New("missing event_id")
	case e.OrderID == uuid.Nil:
		return errors.New("missing order_id")
	case e.Type != model.OrderEventPlaced && e.Type != model.OrderEventStatusChanged:
		return fmt.Errorf("unknown event type %q", e.Type)
	case !e.Status.Valid():
		return fmt.Errorf("unknown status %q", e.Status)
	}
	return nil
}
