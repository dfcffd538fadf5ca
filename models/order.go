package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents all possible states of a dine-in order
type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderPreparing OrderStatus = "preparing"
	OrderReady     OrderStatus = "ready"
	OrderServed    OrderStatus = "served"
	OrderCompleted OrderStatus = "completed"
	OrderCancelled OrderStatus = "cancelled"
)

var OrderStatuses = []OrderStatus{
	OrderPending, OrderConfirmed, OrderPreparing, OrderReady,
	OrderServed, OrderCompleted, OrderCancelled,
}

func (s OrderStatus) Valid() bool {
	for _, v := range OrderStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Editable reports whether the item list may still change.
func (s OrderStatus) Editable() bool {
	return s == OrderPending || s == OrderConfirmed
}

// Billable reports whether a bill may be derived from the order.
func (s OrderStatus) Billable() bool {
	return s == OrderReady || s == OrderServed || s == OrderCompleted
}

type Order struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	TableID       uint            `json:"table_id" gorm:"not null;index"`
	StaffID       *uint           `json:"staff_id"`
	ReservationID *uint           `json:"reservation_id"`
	CustomerName  string          `json:"customer_name"`
	CustomerPhone string          `json:"customer_phone"`
	PartySize     int             `json:"party_size" gorm:"not null"`
	Notes         string          `json:"notes"`
	Status        OrderStatus     `json:"status" gorm:"not null;default:'pending';index"`
	CancelReason  string          `json:"cancel_reason,omitempty"`
	Subtotal      decimal.Decimal `json:"subtotal" gorm:"type:decimal(14,2);not null"`
	Items         []OrderItem     `json:"items,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

type OrderItem struct {
	ID             uint            `json:"id" gorm:"primaryKey"`
	OrderID        uint            `json:"order_id" gorm:"not null;index"`
	MenuItemID     uint            `json:"menu_item_id" gorm:"not null"`
	Name           string          `json:"name"` // snapshot name
	Quantity       int             `json:"quantity" gorm:"not null"`
	UnitPrice      decimal.Decimal `json:"unit_price" gorm:"type:decimal(14,2);not null"` // snapshot price at time of order
	SpecialRequest string          `json:"special_request,omitempty"`
	Status         OrderStatus     `json:"status" gorm:"not null;default:'pending'"`
	CreatedAt      time.Time       `json:"created_at"`
}

// LineTotal is the unit price snapshot times quantity.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ComputeSubtotal sums the line totals of the given items.
func ComputeSubtotal(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.LineTotal())
	}
	return total
}
