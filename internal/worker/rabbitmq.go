package worker

import (
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/gachwala/storefront/internal/model"
)

const (
	EventsExchange  = "orders.events"
	TimelineQueue   = "orders.timeline"
	timelineBinding = "order.#"
	dlxExchange     = "orders.dlx"
	dlqQueueName    = "orders.timeline.dlq"
)

// SetupRabbitMQ declares the events exchange, the timeline queue and its
// dead-letter path.
func SetupRabbitMQ(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(dlxExchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare DLX: %w", err)
	}
	if _, err := ch.QueueDeclare(dlqQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare DLQ: %w", err)
	}
	if err := ch.QueueBind(dlqQueueName, TimelineQueue, dlxExchange, false, nil); err != nil {
		return fmt.Errorf("bind DLQ: %w", err)
	}

	if err := ch.ExchangeDeclare(EventsExchange, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare events exchange: %w", err)
	}
	if _, err := ch.QueueDeclare(TimelineQueue, true, false, false, false, amqp.Table{
		"x-dead-letter-exchange":    dlxExchange,
		"x-dead-letter-routing-key": TimelineQueue,
	}); err != nil {
		return fmt.Errorf("declare timeline queue: %w", err)
	}
	if err := ch.QueueBind(TimelineQueue, timelineBinding, EventsExchange, false, nil); err != nil {
		return fmt.Errorf("bind timeline queue: %w", err)
	}

	if err := ch.Qos(1, 0, false); err != nil {
		return fmt.Errorf("set QoS: %w", err)
	}
	return nil
}

// RoutingKey is the topic an event of type t is published under.
func RoutingKey(t model.OrderEventType) string {
	return "order." + string(t)
}
