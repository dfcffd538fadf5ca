package store

import (
	"context"

	"restaurant-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrderFilter struct {
	Status  models.OrderStatus
	TableID uint
	StaffID uint
	Limit   int
}

func preloadItems(db *gorm.DB) *gorm.DB {
	return db.Order("order_items.id asc")
}

func (s *GormStore) CreateOrder(ctx context.Context, o *models.Order) error {
	return s.conn(ctx).Create(o).Error
}

func (s *GormStore) LoadOrder(ctx context.Context, id uint) (*models.Order, error) {
	var o models.Order
	if err := s.conn(ctx).Preload("Items", preloadItems).First(&o, id).Error; err != nil {
		return nil, notFound(err, "order", id)
	}
	return &o, nil
}

func (s *GormStore) LockOrder(ctx context.Context, id uint) (*models.Order, error) {
	var o models.Order
	err := s.conn(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).First(&o, id).Error
	if err != nil {
		return nil, notFound(err, "order", id)
	}
	if err := s.conn(ctx).Where("order_id = ?", id).Order("id asc").Find(&o.Items).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *GormStore) ListOrders(ctx context.Context, f OrderFilter) ([]models.Order, error) {
	query := s.conn(ctx).Preload("Items", preloadItems)
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	if f.TableID != 0 {
		query = query.Where("table_id = ?", f.TableID)
	}
	if f.StaffID != 0 {
		query = query.Where("staff_id = ?", f.StaffID)
	}
	if f.Limit > 0 {
		query = query.Limit(f.Limit)
	}
	var orders []models.Order
	if err := query.Order("created_at desc, id desc").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// SaveOrder writes the mutable header fields only if the stored status is
// still expected. Item statuses follow the order status.
func (s *GormStore) SaveOrder(ctx context.Context, o *models.Order, expected models.OrderStatus) error {
	o.UpdatedAt = s.now()
	res := s.conn(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ?", o.ID, expected).
		Updates(map[string]any{
			"status":        o.Status,
			"cancel_reason": o.CancelReason,
			"subtotal":      o.Subtotal,
			"updated_at":    o.UpdatedAt,
		})
	if err := checkSwap(res, "order", o.ID); err != nil {
		return err
	}
	if o.Status == expected {
		return nil
	}
	err := s.conn(ctx).Model(&models.OrderItem{}).
		Where("order_id = ?", o.ID).
		Update("status", o.Status).Error
	if err != nil {
		return err
	}
	for i := range o.Items {
		o.Items[i].Status = o.Status
	}
	return nil
}

// AppendOrderItems inserts new lines for an existing order. The caller
// guards the status and saves the recomputed subtotal.
func (s *GormStore) AppendOrderItems(ctx context.Context, o *models.Order, items []models.OrderItem) error {
	for i := range items {
		items[i].OrderID = o.ID
		items[i].Status = o.Status
	}
	if err := s.conn(ctx).Create(&items).Error; err != nil {
		return err
	}
	o.Items = append(o.Items, items...)
	return nil
}
