package lifecycle

import "github.com/VedantNarayan/champaran-meat-house/internal/models"

// AvailableForPickup returns the orders any driver may claim. It does not look at driver_id: an
// admin can move a delivered order back to ready and leave a stale driver behind.
func AvailableForPickup(orders []models.Order) []models.Order {
	return filter(orders, func(o models.Order) bool { return PickupEligible(o.Status) })
}

// ActiveDeliveries returns the orders the driver is currently carrying.
func ActiveDeliveries(orders []models.Order, driverID string) []models.Order {
	return filter(orders, func(o models.Order) bool {
		return o.Status == models.OrderOutForDelivery && o.IsAssignedTo(driverID)
	})
}

// DeliveryHistory returns the orders the driver has delivered.
func DeliveryHistory(orders []models.Order, driverID string) []models.Order {
	return filter(orders, func(o models.Order) bool {
		return o.Status == models.OrderDelivered && o.IsAssignedTo(driverID)
	})
}

// Step is one entry of the customer tracking progress bar.
type Step struct {
	Status models.OrderStatus `json:"status"`
	Done   bool               `json:"done"`
	Active bool               `json:"active"`
}

// Progress lays out the tracking steps for an order in status s. A cancelled order yields a
// single cancelled step.
func Progress(s models.OrderStatus) []Step {
	if s == models.OrderCancelled {
		return []Step{{Status: models.OrderCancelled, Done: true, Active: true}}
	}

	current := -1
	for i, st := range models.OrderProgression {
		if st == s {
			current = i
		}
	}

	steps := make([]Step, 0, len(models.OrderProgression))
	for i, st := range models.OrderProgression {
		steps = append(steps, Step{Status: st, Done: i <= current, Active: i == current})
	}
	return steps
}

func filter(orders []models.Order, keep func(models.Order) bool) []models.Order {
	out := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if keep(o) {
			out = append(out, o)
		}
	}
	return out
}
