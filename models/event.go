package models

import "time"

type EntityType string

const (
	EntityOrder        EntityType = "order"
	EntityKitchenEntry EntityType = "kitchenEntry"
	EntityBill         EntityType = "bill"
)

// Broadcast topics.
const (
	TopicOrders  = "orders"
	TopicKitchen = "kitchen"
	TopicBilling = "billing"
)

// StatusEvent records one transition. It is stored as the audit trail and
// published to real-time subscribers after the transition commits.
type StatusEvent struct {
	Seq            uint       `json:"-" gorm:"primaryKey;autoIncrement"`
	ID             string     `json:"id" gorm:"uniqueIndex;size:36;not null"`
	EntityType     EntityType `json:"entityType" gorm:"not null"`
	EntityID       uint       `json:"entityId" gorm:"not null"`
	OrderID        uint       `json:"orderId" gorm:"not null;index"`
	KitchenEntryID *uint      `json:"kitchenEntryId,omitempty"`
	FromStatus     string     `json:"fromStatus"`
	ToStatus       string     `json:"toStatus" gorm:"not null"`
	OccurredAt     time.Time  `json:"occurredAt" gorm:"not null"`
	ActorStaffID   *uint      `json:"actorStaffId"`
	Note           string     `json:"note,omitempty"`
}

// Topics lists the broadcast channels interested in the event.
func (e StatusEvent) Topics() []string {
	switch e.EntityType {
	case EntityKitchenEntry:
		return []string{TopicKitchen, TopicOrders}
	case EntityBill:
		return []string{TopicBilling, TopicOrders}
	}
	if e.KitchenEntryID != nil {
		return []string{TopicOrders, TopicKitchen}
	}
	return []string{TopicOrders}
}
