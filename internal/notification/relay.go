package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/VedantNarayan/champaran-meat-house/internal/logger"
	"github.com/VedantNarayan/champaran-meat-house/internal/models"
)

// Message is what a relay delivers for one order event.
type Message struct {
	Event   string
	OrderID string
	Status  models.OrderStatus
	Text    string
	Order   *models.Order
}

const (
	EventOrderCreated  = "order.created"
	EventStatusChanged = "order.status_changed"
)

type Relay interface {
	Name() string
	Send(ctx context.Context, msg Message) error
}

// LogRelay writes messages to the log. It is the relay used when no chat gateway is configured.
type LogRelay struct {
	log *logger.Logger
}

func NewLogRelay(log *logger.Logger) *LogRelay {
	return &LogRelay{log: log}
}

func (r *LogRelay) Name() string { return "log" }

func (r *LogRelay) Send(_ context.Context, msg Message) error {
	r.log.Info("kitchen notification", "event", msg.Event, "order_id", msg.OrderID, "message", msg.Text)
	return nil
}

// TextSender is satisfied by the WhatsApp gateway client.
type TextSender interface {
	SendTextMessage(ctx context.Context, phone, message string) error
}

// WhatsAppRelay sends new order summaries to the chef's number.
type WhatsAppRelay struct {
	sender TextSender
	phone  string
}

func NewWhatsAppRelay(sender TextSender, chefPhone string) *WhatsAppRelay {
	return &WhatsAppRelay{sender: sender, phone: chefPhone}
}

func (r *WhatsAppRelay) Name() string { return "whatsapp" }

func (r *WhatsAppRelay) Send(ctx context.Context, msg Message) error {
	if msg.Event != EventOrderCreated || msg.Text == "" {
		return nil
	}
	return r.sender.SendTextMessage(ctx, r.phone, msg.Text)
}

// MultiRelay delivers to every relay and joins their failures.
type MultiRelay struct {
	relays []Relay
	log    *logger.Logger
}

func NewMultiRelay(log *logger.Logger, relays ...Relay) *MultiRelay {
	return &MultiRelay{relays: relays, log: log}
}

func (m *MultiRelay) Name() string { return "multi" }

func (m *MultiRelay) Send(ctx context.Context, msg Message) error {
	var errs []error
	for _, r := range m.relays {
		if err := r.Send(ctx, msg); err != nil {
			m.log.Warn("relay failed", "relay", r.Name(), "order_id", msg.OrderID, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", r.Name(), err))
		}
	}
	return errors.Join(errs...)
}
