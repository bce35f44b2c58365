// Package lifecycle holds the role guard for order status changes.
//
// The store itself accepts any status on any order. This guard is the one place that decides
// which principal may move an order where.
package lifecycle

import (
	"errors"
	"fmt"

	"github.com/VedantNarayan/champaran-meat-house/internal/models"
)

var (
	ErrUnknownStatus        = errors.New("unknown order status")
	ErrForbiddenTransition  = errors.New("status change not allowed")
	ErrConfirmationRequired = errors.New("cancellation must be confirmed")
	ErrNotOrderOwner        = errors.New("order does not belong to this customer")
)

// Actor is the principal asking for the change.
type Actor struct {
	ID   string
	Role models.Role
}

// Change is the single-row update that results from an authorized request.
type Change struct {
	Status   models.OrderStatus
	DriverID *string
}

// Request describes a wanted status change.
type Request struct {
	Target    models.OrderStatus
	Confirmed bool
}

// Authorize decides whether actor may move order to req.Target and returns the row update to
// apply. Drivers claiming a pickup get their own id written as the driver.
func Authorize(actor Actor, order *models.Order, req Request) (Change, error) {
	if !req.Target.Valid() {
		return Change{}, fmt.Errorf("%w: %q", ErrUnknownStatus, req.Target)
	}

	switch actor.Role {
	case models.RoleAdmin:
		return Change{Status: req.Target}, nil

	case models.RoleCustomer:
		if order.UserID == nil || *order.UserID != actor.ID {
			return Change{}, ErrNotOrderOwner
		}
		if req.Target != models.OrderCancelled || !CustomerCancellable(order.Status) {
			return Change{}, forbidden(actor.Role, order.Status, req.Target)
		}
		if !req.Confirmed {
			return Change{}, ErrConfirmationRequired
		}
		return Change{Status: models.OrderCancelled}, nil

	case models.RoleDriver:
		switch {
		case req.Target == models.OrderOutForDelivery && PickupEligible(order.Status):
			driverID := actor.ID
			return Change{Status: models.OrderOutForDelivery, DriverID: &driverID}, nil
		case req.Target == models.OrderDelivered && order.Status == models.OrderOutForDelivery && order.IsAssignedTo(actor.ID):
			return Change{Status: models.OrderDelivered}, nil
		}
		return Change{}, forbidden(actor.Role, order.Status, req.Target)
	}

	return Change{}, forbidden(actor.Role, order.Status, req.Target)
}

// CustomerCancellable reports whether a customer may still cancel an order in status s.
func CustomerCancellable(s models.OrderStatus) bool {
	return s == models.OrderPending || s == models.OrderConfirmed
}

// PickupEligible reports whether any driver may pick up an order in status s.
func PickupEligible(s models.OrderStatus) bool {
	return s == models.OrderConfirmed || s == models.OrderPreparing || s == models.OrderReady
}

func forbidden(role models.Role, from, to models.OrderStatus) error {
	return fmt.Errorf("%w: %s cannot move %s to %s", ErrForbiddenTransition, role, from, to)
}
