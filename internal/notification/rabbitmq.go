package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/VedantNarayan/champaran-meat-house/internal/models"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
)

const OrdersExchange = "orders_topic"

// Publisher is the part of an AMQP channel the relay uses.
type Publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// OrderEvent is the JSON body published on the orders exchange.
type OrderEvent struct {
	Event       string             `json:"event"`
	OrderID     string             `json:"order_id"`
	ShortID     string             `json:"short_id"`
	Status      models.OrderStatus `json:"status"`
	TotalAmount *decimal.Decimal   `json:"total_amount,omitempty"`
	Summary     string             `json:"summary,omitempty"`
	OccurredAt  time.Time          `json:"occurred_at"`
}

// RabbitRelay publishes order events to the orders topic exchange, keyed by event name.
type RabbitRelay struct {
	pub Publisher
	now func() time.Time
}

func NewRabbitRelay(pub Publisher) *RabbitRelay {
	return &RabbitRelay{pub: pub, now: time.Now}
}

// DialRabbit connects and declares the orders exchange. The returned connection must be closed
// by the caller.
func DialRabbit(url string) (*amqp.Connection, *amqp.Channel, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("failed to open channel: %w", err)
	}
	err = ch.ExchangeDeclare(
		OrdersExchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		conn.Close()
		return nil, nil, fmt.Errorf("failed to declare exchange: %w", err)
	}
	return conn, ch, nil
}

func (r *RabbitRelay) Name() string { return "rabbitmq" }

func (r *RabbitRelay) Send(ctx context.Context, msg Message) error {
	event := OrderEvent{
		Event:      msg.Event,
		OrderID:    msg.OrderID,
		Status:     msg.Status,
		Summary:    msg.Text,
		OccurredAt: r.now().UTC(),
	}
	if msg.Order != nil {
		event.ShortID = msg.Order.ShortID()
		total := msg.Order.TotalAmount
		event.TotalAmount = &total
	}

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return r.pub.PublishWithContext(
		ctx,
		OrdersExchange,
		msg.Event,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Body:         body,
		})
}
