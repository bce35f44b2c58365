package notification

import (
	"strings"

	"github.com/VedantNarayan/champaran-meat-house/internal/models"
)

// Command is a status change requested from chat, e.g. "confirm 3f9a2b1c".
type Command struct {
	Status models.OrderStatus
	Prefix string
}

var commandStatuses = map[string]models.OrderStatus{
	"confirm": models.OrderConfirmed,
	"prepare": models.OrderPreparing,
	"out":     models.OrderOutForDelivery,
	"done":    models.OrderDelivered,
	"cancel":  models.OrderCancelled,
}

const maxPrefixLen = 36

// ParseCommand reads "<command> <order-id-prefix>". Unknown commands, a missing prefix and
// prefixes that cannot be part of an order id are rejected.
func ParseCommand(text string) (Command, bool) {
	parts := strings.Fields(text)
	if len(parts) < 2 {
		return Command{}, false
	}

	status, ok := commandStatuses[strings.ToLower(parts[0])]
	if !ok {
		return Command{}, false
	}

	prefix := strings.ToLower(parts[1])
	if !validPrefix(prefix) {
		return Command{}, false
	}

	return Command{Status: status, Prefix: prefix}, true
}

func validPrefix(prefix string) bool {
	if prefix == "" || len(prefix) > maxPrefixLen {
		return false
	}
	for _, r := range prefix {
		if !(r >= '0' && r <= '9' || r >= 'a' && r <= 'f' || r == '-') {
			return false
		}
	}
	return true
}
