package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/VedantNarayan/champaran-meat-house/internal/cart"
	"github.com/VedantNarayan/champaran-meat-house/internal/logger"
	"github.com/VedantNarayan/champaran-meat-house/internal/models"
	"github.com/VedantNarayan/champaran-meat-house/internal/payment"
	"github.com/VedantNarayan/champaran-meat-house/internal/realtime"
	"github.com/VedantNarayan/champaran-meat-house/internal/redis"
	"github.com/VedantNarayan/champaran-meat-house/internal/repository"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentOracle is implemented by payment.Oracle.
type PaymentOracle interface {
	CreateIntent(ctx context.Context, amount decimal.Decimal, currency string) (*payment.Intent, error)
	Verify(v payment.Verification) error
}

// EventPublisher receives row change events for live subscribers.
type EventPublisher interface {
	Publish(e realtime.Event)
}

// OrderNotifier tells the kitchen about a new order.
type OrderNotifier interface {
	NotifyOrderCreated(ctx context.Context, orderID string) error
}

// IntentLedger remembers what each payment intent was opened for. *redis.Client implements it.
type IntentLedger interface {
	SetTempData(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	GetTempData(ctx context.Context, key string, dest interface{}) error
	TakeTempData(ctx context.Context, key string, dest interface{}) error
}

const (
	intentTTL       = 24 * time.Hour
	intentKeyPrefix = "payment_intent:"
)

// intentRecord is what the customer agreed to pay when the intent was opened.
type intentRecord struct {
	ClientID string `json:"client_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// Quote is the server-side price of a cart.
type Quote struct {
	Subtotal    decimal.Decimal `json:"subtotal"`
	DeliveryFee decimal.Decimal `json:"delivery_fee"`
	Total       decimal.Decimal `json:"total"`
	TotalItems  int             `json:"total_items"`
}

type CheckoutInput struct {
	ClientID string
	UserID   *string
	Payment  payment.Verification
	Address  models.DeliveryAddress
}

type CheckoutService interface {
	Quote(ctx context.Context, clientID string) (*Quote, error)
	CreateIntent(ctx context.Context, clientID string) (*payment.Intent, error)
	VerifyPayment(v payment.Verification) error
	PlaceOrder(ctx context.Context, in CheckoutInput) (*models.Order, error)
}

type checkoutService struct {
	orderRepo   repository.OrderRepository
	carts       cart.Store
	oracle      PaymentOracle
	intents     IntentLedger
	addresses   AddressService
	notifier    OrderNotifier
	events      EventPublisher
	deliveryFee decimal.Decimal
	currency    string
	log         *logger.Logger
}

func NewCheckoutService(
	orderRepo repository.OrderRepository,
	carts cart.Store,
	oracle PaymentOracle,
	intents IntentLedger,
	addresses AddressService,
	notifier OrderNotifier,
	events EventPublisher,
	deliveryFee decimal.Decimal,
	currency string,
	log *logger.Logger,
) CheckoutService {
	return &checkoutService{
		orderRepo:   orderRepo,
		carts:       carts,
		oracle:      oracle,
		intents:     intents,
		addresses:   addresses,
		notifier:    notifier,
		events:      events,
		deliveryFee: deliveryFee,
		currency:    currency,
		log:         log,
	}
}

func (s *checkoutService) Quote(ctx context.Context, clientID string) (*Quote, error) {
	c, err := cart.Load(ctx, s.carts, clientID, s.log)
	if err != nil {
		return nil, err
	}
	return s.quote(c), nil
}

func (s *checkoutService) quote(c *cart.Cart) *Quote {
	subtotal := c.TotalPrice()
	return &Quote{
		Subtotal:    subtotal,
		DeliveryFee: s.deliveryFee,
		Total:       subtotal.Add(s.deliveryFee),
		TotalItems:  c.TotalItems(),
	}
}

func (s *checkoutService) CreateIntent(ctx context.Context, clientID string) (*payment.Intent, error) {
	c, err := cart.Load(ctx, s.carts, clientID, s.log)
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		return nil, ErrEmptyCart
	}
	intent, err := s.oracle.CreateIntent(ctx, s.quote(c).Total, s.currency)
	if err != nil {
		return nil, err
	}

	rec := intentRecord{ClientID: clientID, Amount: intent.Amount, Currency: intent.Currency}
	if err := s.intents.SetTempData(ctx, intentKeyPrefix+intent.ID, rec, intentTTL); err != nil {
		return nil, fmt.Errorf("failed to record payment intent: %w", err)
	}
	return intent, nil
}

func (s *checkoutService) VerifyPayment(v payment.Verification) error {
	if err := s.oracle.Verify(v); err != nil {
		return fmt.Errorf("%w: %v", ErrPaymentRejected, err)
	}
	return nil
}

// PlaceOrder verifies the payment, consumes its intent, records the order with its lines, then runs the best-effort
// follow ups: address autosave, kitchen notification, cart clearing and the change event.
func (s *checkoutService) PlaceOrder(ctx context.Context, in CheckoutInput) (*models.Order, error) {
	c, err := cart.Load(ctx, s.carts, in.ClientID, s.log)
	if err != nil {
		return nil, err
	}
	if c.IsEmpty() {
		return nil, ErrEmptyCart
	}

	if err := s.VerifyPayment(in.Payment); err != nil {
		return nil, err
	}
	total := s.quote(c).Total
	if err := s.claimIntent(ctx, in.Payment.IntentID, in.ClientID, total); err != nil {
		return nil, err
	}

	lines := c.Lines()
	items := make([]models.OrderItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, models.OrderItem{
			MenuItemID:   l.MenuItemID,
			Quantity:     l.Quantity,
			PriceAtOrder: l.Price,
			Variant:      l.Variant,
		})
	}

	address := in.Address
	address.PaymentID = in.Payment.PaymentID

	order := &models.Order{
		ID:              uuid.NewString(),
		UserID:          in.UserID,
		Status:          models.OrderConfirmed,
		TotalAmount:     total,
		DeliveryAddress: address,
	}

	if err := s.orderRepo.PlaceOrder(ctx, order, items); err != nil {
		s.log.Error("order insert failed after payment", "payment_id", in.Payment.PaymentID, "error", err)
		return nil, &OrderNotRecordedError{PaymentID: in.Payment.PaymentID, Err: err}
	}
	order.Items = items

	if in.UserID != nil && s.addresses != nil {
		if _, err := s.addresses.SaveIfNew(ctx, *in.UserID, address); err != nil {
			s.log.Warn("failed to save address", "user_id", *in.UserID, "error", err)
		}
	}

	if s.notifier != nil {
		go s.notify(context.WithoutCancel(ctx), order.ID)
	}

	if err := c.Clear(ctx); err != nil {
		s.log.Warn("failed to clear cart", "client_id", in.ClientID, "error", err)
	}

	if s.events != nil {
		s.events.Publish(realtime.Event{Table: realtime.TableOrders, Type: realtime.EventInsert, ID: order.ID, Record: order})
	}

	return order, nil
}

// claimIntent checks that the intent was opened for this cart at this total, then consumes it.
// A mismatch leaves the intent in place so the customer can restore the cart and retry.
func (s *checkoutService) claimIntent(ctx context.Context, intentID, clientID string, total decimal.Decimal) error {
	key := intentKeyPrefix + intentID

	var rec intentRecord
	err := s.intents.GetTempData(ctx, key, &rec)
	if errors.Is(err, redis.ErrTempDataNotFound) {
		return ErrPaymentAlreadyUsed
	}
	if err != nil {
		return fmt.Errorf("failed to load payment intent: %w", err)
	}
	if rec.ClientID != clientID || rec.Currency != s.currency || rec.Amount != payment.ToMinorUnits(total) {
		s.log.Warn("payment does not match cart", "intent_id", intentID, "client_id", clientID,
			"paid", rec.Amount, "cart", payment.ToMinorUnits(total))
		return ErrPaymentMismatch
	}

	err = s.intents.TakeTempData(ctx, key, &rec)
	if errors.Is(err, redis.ErrTempDataNotFound) {
		return ErrPaymentAlreadyUsed
	}
	if err != nil {
		return fmt.Errorf("failed to consume payment intent: %w", err)
	}
	return nil
}

func (s *checkoutService) notify(ctx context.Context, orderID string) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := s.notifier.NotifyOrderCreated(ctx, orderID); err != nil && !errors.Is(err, context.Canceled) {
		s.log.Warn("order notification failed", "order_id", orderID, "error", err)
	}
}
