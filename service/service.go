// Package service implements the order lifecycle: order intake, the kitchen
// queue, and bill derivation and payment. Every status write is conditional
// on the status read before it, multi-entity transitions share one
// transaction, and each committed transition publishes exactly one
// StatusEvent.
package service

import (
	"context"
	"time"

	"restaurant-api/models"
	"restaurant-api/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Publisher receives events after their transition has committed.
type Publisher interface {
	Publish(topic string, evt models.StatusEvent)
}

type nopPublisher struct{}

func (nopPublisher) Publish(string, models.StatusEvent) {}

// Rates are billing fractions, e.g. 0.10 for 10% tax.
type Rates struct {
	Tax     decimal.Decimal
	Service decimal.Decimal
}

type Service struct {
	repo      store.Repository
	publisher Publisher
	rates     Rates
	now       func() time.Time
}

func New(repo store.Repository, publisher Publisher, rates Rates) *Service {
	if publisher == nil {
		publisher = nopPublisher{}
	}
	return &Service{
		repo:      repo,
		publisher: publisher,
		rates:     rates,
		now:       time.Now,
	}
}

func (s *Service) newEvent(entity models.EntityType, entityID, orderID uint, from, to string, actor *uint) *models.StatusEvent {
	return &models.StatusEvent{
		ID:           uuid.NewString(),
		EntityType:   entity,
		EntityID:     entityID,
		OrderID:      orderID,
		FromStatus:   from,
		ToStatus:     to,
		OccurredAt:   s.now().UTC(),
		ActorStaffID: actor,
	}
}

// commit runs fn and records evt in one transaction, then publishes evt.
// fn may fill in event fields that are only known inside the transaction.
func (s *Service) commit(ctx context.Context, evt *models.StatusEvent, fn func(store.Repository) error) error {
	err := s.repo.Tx(ctx, func(tx store.Repository) error {
		if err := fn(tx); err != nil {
			return err
		}
		return tx.AppendEvent(ctx, evt)
	})
	if err != nil {
		return err
	}
	for _, topic := range evt.Topics() {
		s.publisher.Publish(topic, *evt)
	}
	return nil
}
