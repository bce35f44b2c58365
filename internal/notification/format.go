// Package notification renders order summaries for the kitchen, fans them out over the
// configured relays and parses the chef's chat replies.
package notification

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/VedantNarayan/champaran-meat-house/internal/models"
)

const kitchenTimeZone = "Asia/Kolkata"

var kitchenLocation = loadKitchenLocation()

func loadKitchenLocation() *time.Location {
	loc, err := time.LoadLocation(kitchenTimeZone)
	if err != nil {
		return time.FixedZone("IST", 5*60*60+30*60)
	}
	return loc
}

// FormatOrderSummary renders the chat message sent to the kitchen for a new order.
func FormatOrderSummary(order *models.Order) string {
	var items strings.Builder
	for i, item := range order.Items {
		if i > 0 {
			items.WriteByte('\n')
		}
		name := ""
		if item.MenuItem != nil {
			name = item.MenuItem.Name
		}
		fmt.Fprintf(&items, "- %dx %s", item.Quantity, name)
	}

	addr := order.DeliveryAddress
	return strings.TrimSpace(fmt.Sprintf(`🍽️ *New Order Received!* 🍽️
Order ID: #%s
Amount: ₹%s

*Items:*
%s

*Customer Details:*
%s, %s
%s, %s

Time: %s`,
		order.ShortID(),
		order.TotalAmount.String(),
		items.String(),
		addr.FullName, addr.Phone,
		addr.Street, addr.City,
		FormatKitchenTime(order.CreatedAt),
	))
}

// FormatKitchenTime prints t in the restaurant's local time, d/m/yyyy, h:mm:ss am.
func FormatKitchenTime(t time.Time) string {
	return t.In(kitchenLocation).Format("2/1/2006, 3:04:05 pm")
}
