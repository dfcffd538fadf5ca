package store

import (
	"context"
	"errors"

	"restaurant-api/apperr"
	"restaurant-api/models"

	"gorm.io/gorm"
)

// CreateBill inserts a bill. A second non-cancelled bill for the same order
// violates idx_bills_active_order and is reported as ErrConflict.
func (s *GormStore) CreateBill(ctx context.Context, b *models.Bill) error {
	err := s.conn(ctx).Create(b).Error
	if isDuplicate(err) {
		return apperr.Conflict("order %d already has an active bill", b.OrderID)
	}
	return err
}

func (s *GormStore) LoadBill(ctx context.Context, id uint) (*models.Bill, error) {
	var b models.Bill
	if err := s.conn(ctx).First(&b, id).Error; err != nil {
		return nil, notFound(err, "bill", id)
	}
	return &b, nil
}

// ActiveBillForOrder returns the order's non-cancelled bill.
func (s *GormStore) ActiveBillForOrder(ctx context.Context, orderID uint) (*models.Bill, error) {
	var b models.Bill
	err := s.conn(ctx).
		Where("order_id = ? AND payment_status <> ?", orderID, models.PaymentCancelled).
		Order("id desc").
		First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("bill for order", orderID)
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *GormStore) SaveBill(ctx context.Context, b *models.Bill, expected models.PaymentStatus) error {
	b.UpdatedAt = s.now()
	res := s.conn(ctx).Model(&models.Bill{}).
		Where("id = ? AND payment_status = ?", b.ID, expected).
		Updates(map[string]any{
			"payment_status": b.PaymentStatus,
			"payment_method": b.PaymentMethod,
			"paid_amount":    b.PaidAmount,
			"change_amount":  b.ChangeAmount,
			"transaction_id": b.TransactionID,
			"paid_at":        b.PaidAt,
			"updated_at":     b.UpdatedAt,
		})
	return checkSwap(res, "bill", b.ID)
}
