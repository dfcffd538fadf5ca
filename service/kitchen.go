package service

import (
	"context"
	"fmt"

	"restaurant-api/apperr"
	"restaurant-api/models"
	"restaurant-api/statemachine"
	"restaurant-api/store"
)

// AdvanceKitchenStatus moves a kitchen entry one stage forward, or to
// cancelled, and mirrors the new stage onto the order. Requesting the
// current status again is a no-op.
func (s *Service) AdvanceKitchenStatus(ctx context.Context, entryID uint, target models.KitchenStatus, actor *uint) (*models.KitchenEntry, error) {
	if !target.Valid() {
		return nil, apperr.Validation("unknown kitchen status %q", target)
	}
	entry, err := s.repo.LoadKitchenEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.Status == target {
		return entry, nil
	}
	if err := statemachine.Kitchen.CanTransition(entry.Status, target); err != nil {
		return nil, err
	}

	order, err := s.repo.LoadOrder(ctx, entry.OrderID)
	if err != nil {
		return nil, err
	}
	orderPrev := order.Status
	mirrored := target.OrderStatus()
	if mirrored != orderPrev {
		if err := statemachine.Order.CanTransition(orderPrev, mirrored); err != nil {
			return nil, fmt.Errorf("order %d out of step with kitchen: %w", order.ID, err)
		}
		order.Status = mirrored
		if mirrored == models.OrderCancelled {
			order.CancelReason = "cancelled by kitchen"
		}
	}

	prev := entry.Status
	now := s.now()
	entry.Status = target
	switch target {
	case models.KitchenPreparing:
		entry.StartedAt = &now
		if entry.StaffID == nil {
			entry.StaffID = actor
		}
	case models.KitchenReady, models.KitchenServed:
		if entry.CompletedAt == nil {
			entry.CompletedAt = &now
		}
	}

	evt := s.newEvent(models.EntityKitchenEntry, entry.ID, entry.OrderID, string(prev), string(target), actor)
	evt.KitchenEntryID = &entry.ID
	err = s.commit(ctx, evt, func(tx store.Repository) error {
		if err := tx.SaveKitchenEntry(ctx, entry, prev); err != nil {
			return err
		}
		if order.Status != orderPrev {
			return tx.SaveOrder(ctx, order, orderPrev)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// KitchenUpdate carries the non-status fields staff may change on a queued
// entry. Nil fields are left as they are.
type KitchenUpdate struct {
	StaffID       *uint
	Priority      *int
	EstimatedTime *int
}

func (s *Service) UpdateKitchenEntry(ctx context.Context, entryID uint, upd KitchenUpdate) (*models.KitchenEntry, error) {
	if upd.EstimatedTime != nil && *upd.EstimatedTime < 0 {
		return nil, apperr.Validation("estimated_time must not be negative")
	}
	entry, err := s.repo.LoadKitchenEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if !entry.Status.Queued() {
		return nil, fmt.Errorf("%w: kitchen entry %d is %s", apperr.ErrInvalidTransition, entry.ID, entry.Status)
	}
	if upd.StaffID != nil {
		entry.StaffID = upd.StaffID
	}
	if upd.Priority != nil {
		entry.Priority = *upd.Priority
	}
	if upd.EstimatedTime != nil {
		entry.EstimatedTime = upd.EstimatedTime
	}
	if err := s.repo.SaveKitchenEntry(ctx, entry, entry.Status); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *Service) GetKitchenEntry(ctx context.Context, entryID uint) (*models.KitchenEntry, error) {
	return s.repo.LoadKitchenEntry(ctx, entryID)
}

// KitchenQueue lists waiting and in-progress entries, highest priority first
// and oldest first within a priority.
func (s *Service) KitchenQueue(ctx context.Context) ([]models.KitchenEntry, error) {
	return s.repo.KitchenQueue(ctx)
}
