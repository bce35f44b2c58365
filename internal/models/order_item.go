package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderItem struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	OrderID      string          `json:"order_id" gorm:"type:uuid;not null;index"`
	MenuItemID   uint            `json:"menu_item_id" gorm:"not null"`
	MenuItem     *MenuItem       `json:"menu_items,omitempty" gorm:"foreignKey:MenuItemID"`
	Quantity     int             `json:"quantity" gorm:"not null;check:quantity > 0"`
	PriceAtOrder decimal.Decimal `json:"price_at_order" gorm:"type:numeric(10,2);not null"`
	Variant      string          `json:"customizations"`
	CreatedAt    time.Time       `json:"created_at"`
}

// LineTotal is price-at-order times quantity.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.PriceAtOrder.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
