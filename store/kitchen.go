package store

import (
	"context"
	"errors"

	"restaurant-api/apperr"
	"restaurant-api/models"

	"gorm.io/gorm"
)

func (s *GormStore) CreateKitchenEntry(ctx context.Context, e *models.KitchenEntry) error {
	return s.conn(ctx).Omit("Order").Create(e).Error
}

func (s *GormStore) LoadKitchenEntry(ctx context.Context, id uint) (*models.KitchenEntry, error) {
	var e models.KitchenEntry
	if err := s.conn(ctx).First(&e, id).Error; err != nil {
		return nil, notFound(err, "kitchen entry", id)
	}
	return &e, nil
}

func (s *GormStore) KitchenEntryForOrder(ctx context.Context, orderID uint) (*models.KitchenEntry, error) {
	var e models.KitchenEntry
	err := s.conn(ctx).Where("order_id = ?", orderID).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("kitchen entry for order", orderID)
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *GormStore) SaveKitchenEntry(ctx context.Context, e *models.KitchenEntry, expected models.KitchenStatus) error {
	e.UpdatedAt = s.now()
	res := s.conn(ctx).Model(&models.KitchenEntry{}).
		Where("id = ? AND status = ?", e.ID, expected).
		Updates(map[string]any{
			"status":         e.Status,
			"staff_id":       e.StaffID,
			"priority":       e.Priority,
			"estimated_time": e.EstimatedTime,
			"started_at":     e.StartedAt,
			"completed_at":   e.CompletedAt,
			"updated_at":     e.UpdatedAt,
		})
	return checkSwap(res, "kitchen entry", e.ID)
}

// KitchenQueue returns entries still waiting or being prepared, highest
// priority first and oldest first within a priority.
func (s *GormStore) KitchenQueue(ctx context.Context) ([]models.KitchenEntry, error) {
	var entries []models.KitchenEntry
	err := s.conn(ctx).
		Preload("Order").
		Preload("Order.Items", preloadItems).
		Where("status IN ?", []models.KitchenStatus{
			models.KitchenPending, models.KitchenConfirmed, models.KitchenPreparing,
		}).
		Order("priority desc, created_at asc, id asc").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
