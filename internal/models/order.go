package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID              string          `json:"id" gorm:"type:uuid;primaryKey"`
	UserID          *string         `json:"user_id" gorm:"type:uuid;index"`
	DriverID        *string         `json:"driver_id" gorm:"type:uuid;index"`
	Status          OrderStatus     `json:"status" gorm:"type:varchar(32);not null;default:'pending';index"`
	TotalAmount     decimal.Decimal `json:"total_amount" gorm:"type:numeric(10,2);not null"`
	DeliveryAddress DeliveryAddress `json:"delivery_address" gorm:"type:jsonb;serializer:json"`
	Items           []OrderItem     `json:"order_items,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// DeliveryAddress is stored as a JSON document on the order row.
type DeliveryAddress struct {
	FullName       string  `json:"fullName"`
	Phone          string  `json:"phone"`
	SecondaryPhone *string `json:"secondary_phone"`
	Street         string  `json:"street"`
	City           string  `json:"city"`
	Instructions   string  `json:"instructions"`
	PaymentID      string  `json:"paymentId"`
}

type OrderStatus string

const (
	OrderPending        OrderStatus = "pending"
	OrderConfirmed      OrderStatus = "confirmed"
	OrderPreparing      OrderStatus = "preparing"
	OrderReady          OrderStatus = "ready"
	OrderOutForDelivery OrderStatus = "out_for_delivery"
	OrderDelivered      OrderStatus = "delivered"
	OrderCancelled      OrderStatus = "cancelled"
)

// OrderProgression is the canonical forward order of the lifecycle. Cancelled is terminal and
// sits outside it.
var OrderProgression = []OrderStatus{
	OrderPending,
	OrderConfirmed,
	OrderPreparing,
	OrderReady,
	OrderOutForDelivery,
	OrderDelivered,
}

func (s OrderStatus) Valid() bool {
	if s == OrderCancelled {
		return true
	}
	for _, st := range OrderProgression {
		if st == s {
			return true
		}
	}
	return false
}

// ShortID is the eight character prefix used in notifications and chat commands.
func (o *Order) ShortID() string {
	if len(o.ID) < 8 {
		return o.ID
	}
	return o.ID[:8]
}

// IsAssignedTo reports whether the order's driver is the given principal.
func (o *Order) IsAssignedTo(driverID string) bool {
	return o.DriverID != nil && *o.DriverID == driverID
}
