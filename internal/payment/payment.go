// Package payment fronts the payment gateway: intent creation with a mock fallback for local
// setups, and verification of the gateway's HMAC signature.
package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/VedantNarayan/champaran-meat-house/internal/logger"
	"github.com/VedantNarayan/champaran-meat-house/pkg/razorpay"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	MockIntentPrefix  = "order_mock_"
	MockPaymentPrefix = "pay_mock_"

	ModeLive = "live"
	ModeMock = "mock"
)

var (
	ErrInvalidSignature = errors.New("transaction not legit")
	ErrInvalidAmount    = errors.New("amount must be positive")
	ErrMockNotAllowed   = errors.New("mock payments are disabled")
)

type Gateway interface {
	CreateOrder(ctx context.Context, req razorpay.CreateOrderRequest) (*razorpay.Order, error)
}

// Intent is a gateway order the client pays against. Amount is in minor units.
type Intent struct {
	ID       string `json:"id"`
	Currency string `json:"currency"`
	Amount   int64  `json:"amount"`
}

// Verification is what the client submits after paying.
type Verification struct {
	IntentID  string `json:"orderCreationId" binding:"required"`
	PaymentID string `json:"razorpayPaymentId" binding:"required"`
	Signature string `json:"razorpaySignature"`
}

type Oracle struct {
	gateway     Gateway
	secret      string
	mode        string
	development bool
	log         *logger.Logger
}

func NewOracle(gateway Gateway, secret, mode string, development bool, log *logger.Logger) *Oracle {
	return &Oracle{gateway: gateway, secret: secret, mode: mode, development: development, log: log}
}

// CreateIntent asks the gateway for a payment order. In mock mode, or when the gateway fails
// in development, a synthetic order_mock_ intent is returned instead.
func (o *Oracle) CreateIntent(ctx context.Context, amount decimal.Decimal, currency string) (*Intent, error) {
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	minor := ToMinorUnits(amount)

	if o.mode == ModeMock {
		return o.mockIntent(minor, currency), nil
	}

	order, err := o.gateway.CreateOrder(ctx, razorpay.CreateOrderRequest{
		Amount:   minor,
		Currency: currency,
		Receipt:  "receipt_" + uuid.NewString()[:7],
	})
	if err != nil {
		if o.development {
			o.log.Warn("payment order creation failed, returning mock intent", "error", err)
			return o.mockIntent(minor, currency), nil
		}
		return nil, fmt.Errorf("failed to create payment order: %w", err)
	}

	return &Intent{ID: order.ID, Currency: order.Currency, Amount: order.Amount}, nil
}

// Verify checks the signature over intentID|paymentID. Mock intents are accepted without a
// signature only when mocks are enabled.
func (o *Oracle) Verify(v Verification) error {
	if IsMockIntent(v.IntentID) {
		if !o.MockAllowed() {
			return ErrMockNotAllowed
		}
		if !strings.HasPrefix(v.PaymentID, MockPaymentPrefix) {
			return ErrInvalidSignature
		}
		return nil
	}
	return VerifySignature(o.secret, v.IntentID, v.PaymentID, v.Signature)
}

func (o *Oracle) MockAllowed() bool {
	return o.mode == ModeMock || o.development
}

func (o *Oracle) mockIntent(minor int64, currency string) *Intent {
	return &Intent{ID: MockIntentPrefix + uuid.NewString()[:7], Currency: currency, Amount: minor}
}

// Sign returns hex(HMAC-SHA256(secret, intentID|paymentID)).
func Sign(secret, intentID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(intentID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func VerifySignature(secret, intentID, paymentID, signature string) error {
	expected := Sign(secret, intentID, paymentID)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrInvalidSignature
	}
	return nil
}

func IsMockIntent(id string) bool {
	return strings.HasPrefix(id, MockIntentPrefix)
}

// NewMockPaymentID synthesizes the payment id the client uses for a mock intent.
func NewMockPaymentID() string {
	return MockPaymentPrefix + uuid.NewString()[:7]
}

// ToMinorUnits converts a currency amount to its smallest unit, rounding half away from zero.
func ToMinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}
