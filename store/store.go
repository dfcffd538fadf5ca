// Package store persists orders, kitchen entries, bills and the audit trail
// with gorm. Status writes are conditional on the previously read status so
// that concurrent transitions of the same entity cannot both apply.
package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"restaurant-api/apperr"
	"restaurant-api/models"

	"gorm.io/gorm"
)

// Repository is the persistence collaborator of the order core.
type Repository interface {
	// Tx runs fn in a single database transaction. fn must only use the
	// Repository it receives.
	Tx(ctx context.Context, fn func(Repository) error) error

	MenuItem(ctx context.Context, id uint) (*models.MenuItem, error)
	Table(ctx context.Context, id uint) (*models.Table, error)

	CreateOrder(ctx context.Context, o *models.Order) error
	LoadOrder(ctx context.Context, id uint) (*models.Order, error)
	// LockOrder loads an order with its items and holds a row lock on it
	// until the surrounding transaction ends. Only meaningful inside Tx.
	LockOrder(ctx context.Context, id uint) (*models.Order, error)
	ListOrders(ctx context.Context, f OrderFilter) ([]models.Order, error)
	SaveOrder(ctx context.Context, o *models.Order, expected models.OrderStatus) error
	AppendOrderItems(ctx context.Context, o *models.Order, items []models.OrderItem) error

	CreateKitchenEntry(ctx context.Context, e *models.KitchenEntry) error
	LoadKitchenEntry(ctx context.Context, id uint) (*models.KitchenEntry, error)
	KitchenEntryForOrder(ctx context.Context, orderID uint) (*models.KitchenEntry, error)
	SaveKitchenEntry(ctx context.Context, e *models.KitchenEntry, expected models.KitchenStatus) error
	KitchenQueue(ctx context.Context) ([]models.KitchenEntry, error)

	CreateBill(ctx context.Context, b *models.Bill) error
	LoadBill(ctx context.Context, id uint) (*models.Bill, error)
	ActiveBillForOrder(ctx context.Context, orderID uint) (*models.Bill, error)
	SaveBill(ctx context.Context, b *models.Bill, expected models.PaymentStatus) error

	AppendEvent(ctx context.Context, e *models.StatusEvent) error
	OrderEvents(ctx context.Context, orderID uint) ([]models.StatusEvent, error)
}

type GormStore struct {
	db  *gorm.DB
	now func() time.Time
}

func New(db *gorm.DB) *GormStore {
	return &GormStore{db: db, now: time.Now}
}

func (s *GormStore) Tx(ctx context.Context, fn func(Repository) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx, now: s.now})
	})
}

func (s *GormStore) conn(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}

// notFound converts gorm's missing-row error into the apperr taxonomy.
func notFound(err error, entity string, id uint) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(entity, id)
	}
	return err
}

// isDuplicate reports a unique constraint violation. gorm translates it for
// postgres; the sqlite message is matched as a fallback.
func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// checkSwap turns a conditional update result into ErrConflict when the
// expected status no longer matched.
func checkSwap(res *gorm.DB, entity string, id uint) error {
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.StaleStatus(entity, id)
	}
	return nil
}
