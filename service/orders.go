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
)

type ItemInput struct {
	MenuItemID     uint
	Quantity       int
	SpecialRequest string
}

type CreateOrderInput struct {
	TableID       uint
	StaffID       *uint
	ReservationID *uint
	CustomerName  string
	CustomerPhone string
	PartySize     int
	Notes         string
	Items         []ItemInput
}

func validateItems(items []ItemInput) error {
	if len(items) == 0 {
		return apperr.Validation("order must contain at least one item")
	}
	for i, it := range items {
		if it.MenuItemID == 0 {
			return apperr.Validation("item %d: menu_item_id is required", i)
		}
		if it.Quantity < 1 {
			return apperr.Validation("item %d: quantity must be at least 1", i)
		}
	}
	return nil
}

// buildItems snapshots name and price from the menu.
func (s *Service) buildItems(ctx context.Context, inputs []ItemInput, status models.OrderStatus) ([]models.OrderItem, error) {
	items := make([]models.OrderItem, 0, len(inputs))
	for _, in := range inputs {
		menuItem, err := s.repo.MenuItem(ctx, in.MenuItemID)
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.Validation("menu item %d does not exist", in.MenuItemID)
		}
		if err != nil {
			return nil, err
		}
		if !menuItem.IsAvailable {
			return nil, apperr.Validation("menu item '%s' is not available", menuItem.Name)
		}
		items = append(items, models.OrderItem{
			MenuItemID:     menuItem.ID,
			Name:           menuItem.Name,
			Quantity:       in.Quantity,
			UnitPrice:      menuItem.Price,
			SpecialRequest: strings.TrimSpace(in.SpecialRequest),
			Status:         status,
		})
	}
	return items, nil
}

// CreateOrder validates the request and stores a pending order.
func (s *Service) CreateOrder(ctx context.Context, in CreateOrderInput) (*models.Order, error) {
	if in.TableID == 0 {
		return nil, apperr.Validation("table_id is required")
	}
	if in.PartySize < 1 {
		return nil, apperr.Validation("party_size must be at least 1")
	}
	if err := validateItems(in.Items); err != nil {
		return nil, err
	}

	table, err := s.repo.Table(ctx, in.TableID)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, apperr.Validation("table %d does not exist", in.TableID)
	}
	if err != nil {
		return nil, err
	}
	if !table.IsActive {
		return nil, apperr.Validation("table %s is not in service", table.Number)
	}

	items, err := s.buildItems(ctx, in.Items, models.OrderPending)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		TableID:       in.TableID,
		StaffID:       in.StaffID,
		ReservationID: in.ReservationID,
		CustomerName:  strings.TrimSpace(in.CustomerName),
		CustomerPhone: strings.TrimSpace(in.CustomerPhone),
		PartySize:     in.PartySize,
		Notes:         in.Notes,
		Status:        models.OrderPending,
		Subtotal:      models.ComputeSubtotal(items),
		Items:         items,
	}

	evt := s.newEvent(models.EntityOrder, 0, 0, "", string(models.OrderPending), in.StaffID)
	err = s.commit(ctx, evt, func(tx store.Repository) error {
		if err := tx.CreateOrder(ctx, order); err != nil {
			return err
		}
		evt.EntityID, evt.OrderID = order.ID, order.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// ConfirmOrder moves a pending order to confirmed and opens its kitchen
// entry in the same transaction.
func (s *Service) ConfirmOrder(ctx context.Context, orderID uint, actor *uint) (*models.Order, error) {
	order, err := s.repo.LoadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := statemachine.Order.CanTransition(order.Status, models.OrderConfirmed); err != nil {
		return nil, err
	}

	prev := order.Status
	order.Status = models.OrderConfirmed
	entry := &models.KitchenEntry{
		OrderID: order.ID,
		Status:  models.KitchenConfirmed,
	}

	evt := s.newEvent(models.EntityOrder, order.ID, order.ID, string(prev), string(order.Status), actor)
	err = s.commit(ctx, evt, func(tx store.Repository) error {
		if err := tx.SaveOrder(ctx, order, prev); err != nil {
			return err
		}
		if err := tx.CreateKitchenEntry(ctx, entry); err != nil {
			return err
		}
		evt.KitchenEntryID = &entry.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// CancelOrder cancels an order that has not left the kitchen, together with
// its kitchen entry.
func (s *Service) CancelOrder(ctx context.Context, orderID uint, reason string, actor *uint) (*models.Order, error) {
	order, err := s.repo.LoadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := statemachine.Order.CanTransition(order.Status, models.OrderCancelled); err != nil {
		return nil, err
	}

	entry, err := s.repo.KitchenEntryForOrder(ctx, orderID)
	if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return nil, err
	}
	var entryPrev models.KitchenStatus
	if entry != nil {
		if err := statemachine.Kitchen.CanTransition(entry.Status, models.KitchenCancelled); err != nil {
			return nil, err
		}
		entryPrev = entry.Status
		entry.Status = models.KitchenCancelled
	}

	prev := order.Status
	order.Status = models.OrderCancelled
	order.CancelReason = strings.TrimSpace(reason)

	evt := s.newEvent(models.EntityOrder, order.ID, order.ID, string(prev), string(order.Status), actor)
	evt.Note = order.CancelReason
	if entry != nil {
		evt.KitchenEntryID = &entry.ID
	}
	err = s.commit(ctx, evt, func(tx store.Repository) error {
		if err := tx.SaveOrder(ctx, order, prev); err != nil {
			return err
		}
		if entry != nil {
			return tx.SaveKitchenEntry(ctx, entry, entryPrev)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// AddItems appends lines to an order the kitchen has not started yet.
func (s *Service) AddItems(ctx context.Context, orderID uint, inputs []ItemInput) (*models.Order, error) {
	if err := validateItems(inputs); err != nil {
		return nil, err
	}
	order, err := s.repo.LoadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.Status.Editable() {
		return nil, fmt.Errorf("%w: cannot add items to a %s order", apperr.ErrInvalidTransition, order.Status)
	}

	items, err := s.buildItems(ctx, inputs, order.Status)
	if err != nil {
		return nil, err
	}

	// The locked reload sees items added by concurrent calls, so the
	// subtotal always covers every stored line.
	var saved *models.Order
	err = s.repo.Tx(ctx, func(tx store.Repository) error {
		locked, err := tx.LockOrder(ctx, orderID)
		if err != nil {
			return err
		}
		if locked.Status != order.Status {
			return apperr.StaleStatus("order", orderID)
		}
		if err := tx.AppendOrderItems(ctx, locked, items); err != nil {
			return err
		}
		locked.Subtotal = models.ComputeSubtotal(locked.Items)
		if err := tx.SaveOrder(ctx, locked, locked.Status); err != nil {
			return err
		}
		saved = locked
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// CompleteOrder closes a served order.
func (s *Service) CompleteOrder(ctx context.Context, orderID uint, actor *uint) (*models.Order, error) {
	order, err := s.repo.LoadOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := statemachine.Order.CanTransition(order.Status, models.OrderCompleted); err != nil {
		return nil, err
	}
	prev := order.Status
	order.Status = models.OrderCompleted

	evt := s.newEvent(models.EntityOrder, order.ID, order.ID, string(prev), string(order.Status), actor)
	err = s.commit(ctx, evt, func(tx store.Repository) error {
		return tx.SaveOrder(ctx, order, prev)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *Service) GetOrder(ctx context.Context, orderID uint) (*models.Order, error) {
	return s.repo.LoadOrder(ctx, orderID)
}

func (s *Service) ListOrders(ctx context.Context, f store.OrderFilter) ([]models.Order, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, apperr.Validation("unknown order status %q", f.Status)
	}
	return s.repo.ListOrders(ctx, f)
}

// OrderEvents returns the audit trail of an order.
func (s *Service) OrderEvents(ctx context.Context, orderID uint) ([]models.StatusEvent, error) {
	if _, err := s.repo.LoadOrder(ctx, orderID); err != nil {
		return nil, err
	}
	return s.repo.OrderEvents(ctx, orderID)
}
