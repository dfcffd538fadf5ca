package statemachine

import (
	"errors"
	"testing"

	"restaurant-api/apperr"
	"restaurant-api/models"
)

func TestOrderCanTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    models.OrderStatus
		to      models.OrderStatus
		wantErr bool
	}{
		{"pendingToConfirmed", models.OrderPending, models.OrderConfirmed, false},
		{"confirmedToPreparing", models.OrderConfirmed, models.OrderPreparing, false},
		{"servedToCompleted", models.OrderServed, models.OrderCompleted, false},
		{"pendingToPreparingSkipsConfirm", models.OrderPending, models.OrderPreparing, true},
		{"readyToPending", models.OrderReady, models.OrderPending, true},
		{"preparingToCancelled", models.OrderPreparing, models.OrderCancelled, false},
		{"readyToCancelled", models.OrderReady, models.OrderCancelled, true},
		{"servedToCancelled", models.OrderServed, models.OrderCancelled, true},
		{"completedToCancelled", models.OrderCompleted, models.OrderCancelled, true},
		{"cancelledToCancelled", models.OrderCancelled, models.OrderCancelled, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Order.CanTransition(tt.from, tt.to)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CanTransition(%s, %s) error = %v, wantErr %v", tt.from, tt.to, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, apperr.ErrInvalidTransition) {
				t.Errorf("error %v should match ErrInvalidTransition", err)
			}
		})
	}
}

func TestKitchenNoSkipping(t *testing.T) {
	for i, from := range []models.KitchenStatus{
		models.KitchenPending, models.KitchenConfirmed, models.KitchenPreparing,
	} {
		for _, to := range models.KitchenStatuses[i+2 : len(models.KitchenStatuses)-1] {
			if err := Kitchen.CanTransition(from, to); err == nil {
				t.Errorf("Kitchen.CanTransition(%s, %s) should fail", from, to)
			}
		}
	}
}

func TestTerminalStates(t *testing.T) {
	for _, s := range []models.OrderStatus{models.OrderCompleted, models.OrderCancelled} {
		if !Order.Terminal(s) {
			t.Errorf("order %s should be terminal", s)
		}
	}
	if Order.Terminal(models.OrderServed) {
		t.Error("order served should not be terminal")
	}
	if !Kitchen.Terminal(models.KitchenServed) {
		t.Error("kitchen served should be terminal")
	}
	if !Payment.Terminal(models.PaymentRefunded) {
		t.Error("refunded bill should be terminal")
	}
}

func TestTransitionErrorMessage(t *testing.T) {
	err := Order.CanTransition(models.OrderCompleted, models.OrderCancelled)
	var te *TransitionError
	if !errors.As(err, &te) {
		t.Fatalf("expected *TransitionError, got %T", err)
	}
	want := "invalid order transition: completed → cancelled is not allowed. Valid transitions from completed are: none (terminal state)"
	if te.Error() != want {
		t.Errorf("Error() = %q, want %q", te.Error(), want)
	}

	err = Order.CanTransition(models.OrderPending, models.OrderReady)
	if !errors.As(err, &te) {
		t.Fatalf("expected *TransitionError, got %T", err)
	}
	if len(te.Valid) != 2 || te.Valid[0] != "confirmed" || te.Valid[1] != "cancelled" {
		t.Errorf("Valid = %v, want [confirmed cancelled]", te.Valid)
	}
}
