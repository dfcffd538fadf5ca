package models

import "time"

type KitchenStatus string

const (
	KitchenPending   KitchenStatus = "pending"
	KitchenConfirmed KitchenStatus = "confirmed"
	KitchenPreparing KitchenStatus = "preparing"
	KitchenReady     KitchenStatus = "ready"
	KitchenServed    KitchenStatus = "served"
	KitchenCancelled KitchenStatus = "cancelled"
)

var KitchenStatuses = []KitchenStatus{
	KitchenPending, KitchenConfirmed, KitchenPreparing,
	KitchenReady, KitchenServed, KitchenCancelled,
}

func (s KitchenStatus) Valid() bool {
	for _, v := range KitchenStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Queued reports whether the entry belongs on the kitchen display.
func (s KitchenStatus) Queued() bool {
	return s == KitchenPending || s == KitchenConfirmed || s == KitchenPreparing
}

// OrderStatus is the order status kept in lockstep with the kitchen status.
func (s KitchenStatus) OrderStatus() OrderStatus {
	switch s {
	case KitchenPending, KitchenConfirmed:
		return OrderConfirmed
	case KitchenPreparing:
		return OrderPreparing
	case KitchenReady:
		return OrderReady
	case KitchenServed:
		return OrderServed
	default:
		return OrderCancelled
	}
}

// KitchenEntry is the kitchen-facing record for preparing one order.
type KitchenEntry struct {
	ID            uint          `json:"id" gorm:"primaryKey"`
	OrderID       uint          `json:"order_id" gorm:"not null;uniqueIndex"`
	Order         *Order        `json:"order,omitempty" gorm:"foreignKey:OrderID"`
	StaffID       *uint         `json:"staff_id"` // assigned chef
	Priority      int           `json:"priority" gorm:"not null;default:0"`
	Status        KitchenStatus `json:"status" gorm:"not null;default:'pending';index"`
	EstimatedTime *int          `json:"estimated_time_minutes"`
	StartedAt     *time.Time    `json:"started_at"`
	CompletedAt   *time.Time    `json:"completed_at"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}
