package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"restaurant-api/apperr"
	"restaurant-api/models"
	"restaurant-api/statemachine"
	"restaurant-api/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BillInput struct {
	Discount decimal.Decimal
	StaffID  *uint
}

// DeriveBill freezes the order's item snapshots into a pending bill.
// Tax applies to the discounted subtotal; the service charge to the
// undiscounted subtotal.
func (s *Service) DeriveBill(ctx context.Context, orderID uint, in BillInput) (*models.Bill, error) {
	if in.Discount.IsNegative() {
		return nil, apperr.Validation("discount must not be negative")
	}
	order, err := s.repo.LoadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.Status.Billable() {
		return nil, fmt.Errorf("%w: order %d is %s; a bill needs a ready, served or completed order",
			apperr.ErrInvalidTransition, order.ID, order.Status)
	}
	if err := s.ensureNoActiveBill(ctx, s.repo, orderID); err != nil {
		return nil, err
	}

	subtotal := models.ComputeSubtotal(order.Items)
	if in.Discount.GreaterThan(subtotal) {
		return nil, apperr.Validation("discount %s exceeds subtotal %s", in.Discount, subtotal)
	}
	taxable := subtotal.Sub(in.Discount)
	tax := taxable.Mul(s.rates.Tax).Round(2)
	service := subtotal.Mul(s.rates.Service).Round(2)

	bill := &models.Bill{
		OrderID:        order.ID,
		TableID:        order.TableID,
		StaffID:        in.StaffID,
		Subtotal:       subtotal,
		TaxRate:        s.rates.Tax,
		TaxAmount:      tax,
		DiscountAmount: in.Discount,
		ServiceCharge:  service,
		TotalAmount:    taxable.Add(tax).Add(service),
		PaymentStatus:  models.PaymentPending,
	}

	evt := s.newEvent(models.EntityBill, 0, order.ID, "", string(models.PaymentPending), in.StaffID)
	err = s.commit(ctx, evt, func(tx store.Repository) error {
		// the order row lock serializes concurrent derivations for one order
		if _, err := tx.LockOrder(ctx, orderID); err != nil {
			return err
		}
		if err := s.ensureNoActiveBill(ctx, tx, orderID); err != nil {
			return err
		}
		if err := tx.CreateBill(ctx, bill); err != nil {
			return err
		}
		evt.EntityID = bill.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return bill, nil
}

func (s *Service) ensureNoActiveBill(ctx context.Context, repo store.Repository, orderID uint) error {
	existing, err := repo.ActiveBillForOrder(ctx, orderID)
	if err == nil {
		return apperr.Conflict("order %d already has bill %d", orderID, existing.ID)
	}
	if errors.Is(err, apperr.ErrNotFound) {
		return nil
	}
	return err
}

type PaymentInput struct {
	Method        models.PaymentMethod
	Amount        decimal.Decimal
	TransactionID string
	StaffID       *uint
}

// ProcessPayment settles a pending bill in full. A served order is
// completed in the same transaction.
func (s *Service) ProcessPayment(ctx context.Context, billID uint, in PaymentInput) (*models.Bill, error) {
	if !in.Method.Valid() {
		return nil, apperr.Validation("unknown payment method %q", in.Method)
	}
	if !in.Amount.IsPositive() {
		return nil, apperr.Validation("amount must be positive")
	}
	bill, err := s.repo.LoadBill(ctx, billID)
	if err != nil {
		return nil, err
	}
	if err := statemachine.Payment.CanTransition(bill.PaymentStatus, models.PaymentPaid); err != nil {
		return nil, err
	}
	if in.Amount.LessThan(bill.TotalAmount) {
		return nil, fmt.Errorf("%w: received %s, total is %s", apperr.ErrInsufficientPayment, in.Amount, bill.TotalAmount)
	}

	order, err := s.repo.LoadOrder(ctx, bill.OrderID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	prev := bill.PaymentStatus
	bill.PaymentStatus = models.PaymentPaid
	bill.PaymentMethod = in.Method
	bill.PaidAmount = in.Amount
	bill.ChangeAmount = in.Amount.Sub(bill.TotalAmount)
	bill.PaidAt = &now
	bill.TransactionID = strings.TrimSpace(in.TransactionID)
	if bill.TransactionID == "" {
		bill.TransactionID = "TXN-" + strings.ToUpper(uuid.NewString()[:8])
	}

	orderPrev := order.Status
	completes := statemachine.Order.CanTransition(orderPrev, models.OrderCompleted) == nil
	if completes {
		order.Status = models.OrderCompleted
	}

	evt := s.newEvent(models.EntityBill, bill.ID, bill.OrderID, string(prev), string(bill.PaymentStatus), in.StaffID)
	if completes {
		evt.Note = "order completed"
	}
	err = s.commit(ctx, evt, func(tx store.Repository) error {
		if err := tx.SaveBill(ctx, bill, prev); err != nil {
			return err
		}
		if completes {
			return tx.SaveOrder(ctx, order, orderPrev)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return bill, nil
}

// CancelBill voids a pending bill so a new one can be derived.
func (s *Service) CancelBill(ctx context.Context, billID uint, actor *uint) (*models.Bill, error) {
	return s.moveBill(ctx, billID, models.PaymentCancelled, actor)
}

func (s *Service) RefundBill(ctx context.Context, billID uint, actor *uint) (*models.Bill, error) {
	return s.moveBill(ctx, billID, models.PaymentRefunded, actor)
}

func (s *Service) moveBill(ctx context.Context, billID uint, target models.PaymentStatus, actor *uint) (*models.Bill, error) {
	bill, err := s.repo.LoadBill(ctx, billID)
	if err != nil {
		return nil, err
	}
	if err := statemachine.Payment.CanTransition(bill.PaymentStatus, target); err != nil {
		return nil, err
	}
	prev := bill.PaymentStatus
	bill.PaymentStatus = target

	evt := s.newEvent(models.EntityBill, bill.ID, bill.OrderID, string(prev), string(target), actor)
	err = s.commit(ctx, evt, func(tx store.Repository) error {
		return tx.SaveBill(ctx, bill, prev)
	})
	if err != nil {
		return nil, err
	}
	return bill, nil
}

func (s *Service) GetBill(ctx context.Context, billID uint) (*models.Bill, error) {
	return s.repo.LoadBill(ctx, billID)
}

func (s *Service) BillForOrder(ctx context.Context, orderID uint) (*models.Bill, error) {
	return s.repo.ActiveBillForOrder(ctx, orderID)
}
