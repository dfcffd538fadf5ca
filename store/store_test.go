package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"restaurant-api/apperr"
	"restaurant-api/config"
	"restaurant-api/logger"
	"restaurant-api/models"

	"github.com/shopspring/decimal"
)

func newTestStore(t *testing.T) *GormStore {
	t.Helper()
	db, err := config.OpenDB(config.DBConfig{Driver: "sqlite", DSN: ":memory:"}, logger.Discard())
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	return New(db)
}

func seedOrder(t *testing.T, s *GormStore, status models.OrderStatus) *models.Order {
	t.Helper()
	o := &models.Order{
		TableID:   1,
		PartySize: 2,
		Status:    status,
		Subtotal:  decimal.NewFromInt(100),
		Items: []models.OrderItem{
			{MenuItemID: 1, Name: "Pho", Quantity: 2, UnitPrice: decimal.NewFromInt(50), Status: status},
		},
	}
	if err := s.CreateOrder(context.Background(), o); err != nil {
		t.Fatalf("create order: %v", err)
	}
	return o
}

func TestSaveOrderConditional(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	o := seedOrder(t, s, models.OrderPending)

	o.Status = models.OrderConfirmed
	if err := s.SaveOrder(ctx, o, models.OrderPending); err != nil {
		t.Fatalf("SaveOrder: %v", err)
	}

	stale := *o
	stale.Status = models.OrderCancelled
	err := s.SaveOrder(ctx, &stale, models.OrderPending)
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("stale SaveOrder error = %v, want ErrConflict", err)
	}

	got, err := s.LoadOrder(ctx, o.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != models.OrderConfirmed {
		t.Errorf("status = %s, want confirmed", got.Status)
	}
	if got.Items[0].Status != models.OrderConfirmed {
		t.Errorf("item status = %s, want confirmed", got.Items[0].Status)
	}
	if !got.Subtotal.Equal(decimal.NewFromInt(100)) {
		t.Errorf("subtotal = %s, want 100", got.Subtotal)
	}
}

func TestLoadMissing(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if _, err := s.LoadOrder(ctx, 99); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("LoadOrder error = %v, want ErrNotFound", err)
	}
	if _, err := s.LoadKitchenEntry(ctx, 99); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("LoadKitchenEntry error = %v, want ErrNotFound", err)
	}
	if _, err := s.ActiveBillForOrder(ctx, 99); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("ActiveBillForOrder error = %v, want ErrNotFound", err)
	}
}

func TestKitchenQueueOrdering(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	entries := []struct {
		priority int
		status   models.KitchenStatus
	}{
		{0, models.KitchenConfirmed},
		{5, models.KitchenPreparing},
		{0, models.KitchenPreparing},
		{5, models.KitchenConfirmed},
		{9, models.KitchenReady},
		{9, models.KitchenCancelled},
	}
	var ids []uint
	for _, e := range entries {
		o := seedOrder(t, s, models.OrderConfirmed)
		ke := &models.KitchenEntry{OrderID: o.ID, Priority: e.priority, Status: e.status}
		if err := s.CreateKitchenEntry(ctx, ke); err != nil {
			t.Fatal(err)
		}
		ids = append(ids, ke.ID)
	}

	queue, err := s.KitchenQueue(ctx)
	if err != nil {
		t.Fatal(err)
	}
	want := []uint{ids[1], ids[3], ids[0], ids[2]}
	if len(queue) != len(want) {
		t.Fatalf("queue length = %d, want %d", len(queue), len(want))
	}
	for i, e := range queue {
		if e.ID != want[i] {
			t.Errorf("queue[%d] = entry %d, want %d", i, e.ID, want[i])
		}
		if e.Order == nil || len(e.Order.Items) != 1 {
			t.Errorf("queue[%d] should preload order items", i)
		}
	}
}

func TestTxRollsBack(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	o := seedOrder(t, s, models.OrderPending)

	boom := errors.New("boom")
	err := s.Tx(ctx, func(tx Repository) error {
		o.Status = models.OrderConfirmed
		if err := tx.SaveOrder(ctx, o, models.OrderPending); err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Tx error = %v, want boom", err)
	}
	got, _ := s.LoadOrder(ctx, o.ID)
	if got.Status != models.OrderPending {
		t.Errorf("status = %s, want pending after rollback", got.Status)
	}
}

func TestCreateStaffDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	m := &models.Staff{Name: "An", Email: "an@example.com", PasswordHash: "x", Role: models.RoleWaiter}
	if err := s.CreateStaff(ctx, m); err != nil {
		t.Fatal(err)
	}
	dup := &models.Staff{Name: "Binh", Email: "an@example.com", PasswordHash: "y", Role: models.RoleChef}
	if err := s.CreateStaff(ctx, dup); !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("duplicate CreateStaff error = %v, want ErrConflict", err)
	}
}

func seedBill(t *testing.T, s *GormStore, orderID uint) *models.Bill {
	t.Helper()
	b := &models.Bill{OrderID: orderID, TableID: 1, PaymentStatus: models.PaymentPending}
	if err := s.CreateBill(context.Background(), b); err != nil {
		t.Fatalf("create bill: %v", err)
	}
	return b
}

func TestOneActiveBillPerOrder(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	o := seedOrder(t, s, models.OrderReady)
	first := seedBill(t, s, o.ID)

	dup := &models.Bill{OrderID: o.ID, TableID: 1, PaymentStatus: models.PaymentPending}
	if err := s.CreateBill(ctx, dup); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("second CreateBill error = %v, want ErrConflict", err)
	}

	first.PaymentStatus = models.PaymentCancelled
	if err := s.SaveBill(ctx, first, models.PaymentPending); err != nil {
		t.Fatal(err)
	}
	next := seedBill(t, s, o.ID)
	got, err := s.ActiveBillForOrder(ctx, o.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != next.ID {
		t.Errorf("active bill = %d, want %d", got.ID, next.ID)
	}
}

func TestLockOrder(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	o := seedOrder(t, s, models.OrderConfirmed)

	err := s.Tx(ctx, func(tx Repository) error {
		locked, err := tx.LockOrder(ctx, o.ID)
		if err != nil {
			return err
		}
		if locked.Status != models.OrderConfirmed || len(locked.Items) != 1 {
			t.Errorf("locked order = %s with %d items, want confirmed with 1", locked.Status, len(locked.Items))
		}
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	err = s.Tx(ctx, func(tx Repository) error {
		_, err := tx.LockOrder(ctx, 999)
		return err
	})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("missing LockOrder error = %v, want ErrNotFound", err)
	}
}

func TestOrderEventsSameInstant(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	// IDs sort opposite to insertion order
	ids := []string{"ffffffff-0000-0000-0000-000000000001", "00000000-0000-0000-0000-000000000002", "88888888-0000-0000-0000-000000000003"}
	statuses := []string{"confirmed", "preparing", "ready"}
	for i, id := range ids {
		e := &models.StatusEvent{ID: id, EntityType: models.EntityOrder, EntityID: 7, OrderID: 7, ToStatus: statuses[i], OccurredAt: at}
		if err := s.AppendEvent(ctx, e); err != nil {
			t.Fatal(err)
		}
	}

	got, err := s.OrderEvents(ctx, 7)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != len(statuses) {
		t.Fatalf("events = %d, want %d", len(got), len(statuses))
	}
	for i, e := range got {
		if e.ToStatus != statuses[i] {
			t.Errorf("event %d = %s, want %s", i, e.ToStatus, statuses[i])
		}
	}
}
