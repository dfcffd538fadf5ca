package store

import (
	"context"

	"restaurant-api/models"
)

func (s *GormStore) AppendEvent(ctx context.Context, e *models.StatusEvent) error {
	return s.conn(ctx).Create(e).Error
}

// OrderEvents returns the audit trail of an order in commit order.
func (s *GormStore) OrderEvents(ctx context.Context, orderID uint) ([]models.StatusEvent, error) {
	var events []models.StatusEvent
	err := s.conn(ctx).
		Where("order_id = ?", orderID).
		Order("occurred_at asc, seq asc").
		Find(&events).Error
	return events, err
}
