package notification

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/VedantNarayan/champaran-meat-house/internal/logger"
	"github.com/VedantNarayan/champaran-meat-house/internal/models"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleOrder() *models.Order {
	return &models.Order{
		ID:          "3f9a2b1c-0000-4000-8000-000000000001",
		Status:      models.OrderConfirmed,
		TotalAmount: decimal.RequireFromString("340.00"),
		DeliveryAddress: models.DeliveryAddress{
			FullName: "Asha",
			Phone:    "9876543210",
			Street:   "12 Station Road",
			City:     "Motihari",
		},
		Items: []models.OrderItem{
			{Quantity: 2, MenuItem: &models.MenuItem{Name: "Mutton Handi"}},
			{Quantity: 1, MenuItem: &models.MenuItem{Name: "Rumali Roti"}},
		},
		CreatedAt: time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC),
	}
}

func TestFormatOrderSummary(t *testing.T) {
	msg := FormatOrderSummary(sampleOrder())

	want := "🍽️ *New Order Received!* 🍽️\n" +
		"Order ID: #3f9a2b1c\n" +
		"Amount: ₹340\n\n" +
		"*Items:*\n" +
		"- 2x Mutton Handi\n" +
		"- 1x Rumali Roti\n\n" +
		"*Customer Details:*\n" +
		"Asha, 9876543210\n" +
		"12 Station Road, Motihari\n\n" +
		"Time: 5/1/2026, 2:30:00 pm"
	assert.Equal(t, want, msg)
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		text   string
		ok     bool
		status models.OrderStatus
		prefix string
	}{
		{"confirm 3f9a2b1c", true, models.OrderConfirmed, "3f9a2b1c"},
		{"Prepare 3F9A", true, models.OrderPreparing, "3f9a"},
		{"  out   3f9a2b1c  extra", true, models.OrderOutForDelivery, "3f9a2b1c"},
		{"DONE 3f9a2b1c-0000", true, models.OrderDelivered, "3f9a2b1c-0000"},
		{"cancel ab", true, models.OrderCancelled, "ab"},
		{"confirm", false, "", ""},
		{"", false, "", ""},
		{"ship 3f9a2b1c", false, "", ""},
		{"confirm 3f9a%", false, "", ""},
		{"confirm xyz", false, "", ""},
		{"confirm " + strings.Repeat("a", 37), false, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			cmd, ok := ParseCommand(tt.text)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.status, cmd.Status)
				assert.Equal(t, tt.prefix, cmd.Prefix)
			}
		})
	}
}

func TestWebhookPayload_FirstText(t *testing.T) {
	var p WebhookPayload
	require.NoError(t, json.Unmarshal([]byte(`{
		"object": "whatsapp_business_account",
		"entry": [{"changes": [{"value": {"messages": [{"from": "9198", "text": {"body": "confirm 3f9a2b1c"}}]}}]}]
	}`), &p))

	from, body, ok := p.FirstText()
	assert.True(t, ok)
	assert.Equal(t, "9198", from)
	assert.Equal(t, "confirm 3f9a2b1c", body)

	var status WebhookPayload
	require.NoError(t, json.Unmarshal([]byte(`{"object":"x","entry":[{"changes":[{"value":{"statuses":[]}}]}]}`), &status))
	_, _, ok = status.FirstText()
	assert.False(t, ok)
}

func TestVerifySubscription(t *testing.T) {
	challenge, ok := VerifySubscription("subscribe", "tok", "12345", "tok")
	assert.True(t, ok)
	assert.Equal(t, "12345", challenge)

	_, ok = VerifySubscription("subscribe", "bad", "12345", "tok")
	assert.False(t, ok)
	_, ok = VerifySubscription("unsubscribe", "tok", "12345", "tok")
	assert.False(t, ok)
	_, ok = VerifySubscription("subscribe", "", "12345", "")
	assert.False(t, ok)
}

type recordingRelay struct {
	name string
	err  error
	got  []Message
}

func (r *recordingRelay) Name() string { return r.name }

func (r *recordingRelay) Send(_ context.Context, msg Message) error {
	r.got = append(r.got, msg)
	return r.err
}

func TestMultiRelay_DeliversToAllAndJoinsErrors(t *testing.T) {
	boom := errors.New("boom")
	a := &recordingRelay{name: "a", err: boom}
	b := &recordingRelay{name: "b"}
	m := NewMultiRelay(logger.Nop(), a, b)

	err := m.Send(context.Background(), Message{Event: EventOrderCreated, OrderID: "o1"})
	assert.ErrorIs(t, err, boom)
	assert.Len(t, a.got, 1)
	assert.Len(t, b.got, 1)

	a.err = nil
	assert.NoError(t, m.Send(context.Background(), Message{Event: EventOrderCreated}))
}

type fakeSender struct {
	phone, text string
	calls       int
}

func (s *fakeSender) SendTextMessage(_ context.Context, phone, message string) error {
	s.calls++
	s.phone, s.text = phone, message
	return nil
}

func TestWhatsAppRelay_OnlyNewOrders(t *testing.T) {
	s := &fakeSender{}
	r := NewWhatsAppRelay(s, "9000000000")

	require.NoError(t, r.Send(context.Background(), Message{Event: EventStatusChanged, Text: "x"}))
	assert.Equal(t, 0, s.calls)

	require.NoError(t, r.Send(context.Background(), Message{Event: EventOrderCreated, Text: "summary"}))
	assert.Equal(t, 1, s.calls)
	assert.Equal(t, "9000000000", s.phone)
	assert.Equal(t, "summary", s.text)
}

type fakePublisher struct {
	exchange, key string
	msg           amqp.Publishing
}

func (p *fakePublisher) PublishWithContext(_ context.Context, exchange, key string, _, _ bool, msg amqp.Publishing) error {
	p.exchange, p.key, p.msg = exchange, key, msg
	return nil
}

func TestRabbitRelay_Publishes(t *testing.T) {
	pub := &fakePublisher{}
	r := NewRabbitRelay(pub)
	order := sampleOrder()

	err := r.Send(context.Background(), Message{Event: EventOrderCreated, OrderID: order.ID, Status: order.Status, Order: order})
	require.NoError(t, err)

	assert.Equal(t, OrdersExchange, pub.exchange)
	assert.Equal(t, "order.created", pub.key)
	assert.Equal(t, "application/json", pub.msg.ContentType)

	var ev OrderEvent
	require.NoError(t, json.Unmarshal(pub.msg.Body, &ev))
	assert.Equal(t, "3f9a2b1c", ev.ShortID)
	assert.Equal(t, models.OrderConfirmed, ev.Status)
	require.NotNil(t, ev.TotalAmount)
	assert.True(t, ev.TotalAmount.Equal(decimal.NewFromInt(340)))
}
