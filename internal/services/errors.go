package services

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCart          = errors.New("cart is empty")
	ErrItemUnavailable    = errors.New("menu item is not available")
	ErrPaymentRejected    = errors.New("payment verification failed")
	ErrPaymentAlreadyUsed = errors.New("payment intent is unknown or already used")
	ErrPaymentMismatch    = errors.New("cart no longer matches the paid amount")
	ErrOrderNotRecorded   = errors.New("payment succeeded but the order was not recorded")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email already registered")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
	ErrInvalidRole        = errors.New("invalid role")
	ErrInvalidProfile     = errors.New("full name cannot be empty")
	ErrInvalidResetToken  = errors.New("reset link is invalid or has expired")
	ErrMFARequired        = errors.New("authenticator code required")
	ErrInvalidMFACode     = errors.New("invalid authenticator code")
	ErrMFANotEnrolled     = errors.New("no authenticator enrollment in progress")
	ErrSessionExpired     = errors.New("session expired")
)

// OrderNotRecordedError is returned when payment was verified but inserting the order failed.
// It carries the payment reference the customer quotes to support.
type OrderNotRecordedError struct {
	PaymentID string
	Err       error
}

func (e *OrderNotRecordedError) Error() string {
	return fmt.Sprintf("%s (payment %s): %v", ErrOrderNotRecorded, e.PaymentID, e.Err)
}

func (e *OrderNotRecordedError) Unwrap() []error {
	return []error{ErrOrderNotRecorded, e.Err}
}
