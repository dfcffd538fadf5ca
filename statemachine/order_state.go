package statemachine

import (
	"strings"

	"restaurant-api/apperr"
	"restaurant-api/models"
)

// Transition defines a valid state change
type Transition[S ~string] struct {
	From S `json:"from"`
	To   S `json:"to"`
}

// Machine is a closed transition table for one entity's status type.
type Machine[S ~string] struct {
	entity      string
	transitions []Transition[S]
	allowed     map[Transition[S]]bool
}

// New builds a machine and its lookup map for O(1) validation
func New[S ~string](entity string, transitions ...Transition[S]) *Machine[S] {
	m := &Machine[S]{
		entity:      entity,
		transitions: transitions,
		allowed:     make(map[Transition[S]]bool, len(transitions)),
	}
	for _, t := range transitions {
		m.allowed[t] = true
	}
	return m
}

// ValidTransitionsFrom returns all valid next states from a given state
func (m *Machine[S]) ValidTransitionsFrom(status S) []S {
	var nexts []S
	for _, t := range m.transitions {
		if t.From == status {
			nexts = append(nexts, t.To)
		}
	}
	return nexts
}

// Terminal reports whether no transition leaves status.
func (m *Machine[S]) Terminal(status S) bool {
	return len(m.ValidTransitionsFrom(status)) == 0
}

// CanTransition returns a *TransitionError when from → to is not in the table.
func (m *Machine[S]) CanTransition(from, to S) error {
	if m.allowed[Transition[S]{From: from, To: to}] {
		return nil
	}
	valid := make([]string, 0)
	for _, s := range m.ValidTransitionsFrom(from) {
		valid = append(valid, string(s))
	}
	return &TransitionError{Entity: m.entity, From: string(from), To: string(to), Valid: valid}
}

// Transitions returns the full table for documentation
func (m *Machine[S]) Transitions() []Transition[S] {
	return m.transitions
}

// TransitionError describes a rejected transition. It matches
// apperr.ErrInvalidTransition under errors.Is.
type TransitionError struct {
	Entity string
	From   string
	To     string
	Valid  []string
}

func (e *TransitionError) Error() string {
	valid := "none (terminal state)"
	if len(e.Valid) > 0 {
		valid = strings.Join(e.Valid, ", ")
	}
	return "invalid " + e.Entity + " transition: " + e.From + " → " + e.To +
		" is not allowed. Valid transitions from " + e.From + " are: " + valid
}

func (e *TransitionError) Unwrap() error { return apperr.ErrInvalidTransition }

// Order is the authoritative order lifecycle
var Order = New("order",
	Transition[models.OrderStatus]{From: models.OrderPending, To: models.OrderConfirmed},
	Transition[models.OrderStatus]{From: models.OrderConfirmed, To: models.OrderPreparing},
	Transition[models.OrderStatus]{From: models.OrderPreparing, To: models.OrderReady},
	Transition[models.OrderStatus]{From: models.OrderReady, To: models.OrderServed},
	Transition[models.OrderStatus]{From: models.OrderServed, To: models.OrderCompleted},
	// Cancellation is only possible before the food leaves the pass
	Transition[models.OrderStatus]{From: models.OrderPending, To: models.OrderCancelled},
	Transition[models.OrderStatus]{From: models.OrderConfirmed, To: models.OrderCancelled},
	Transition[models.OrderStatus]{From: models.OrderPreparing, To: models.OrderCancelled},
)

// Kitchen drives kitchen entries; no stage may be skipped.
var Kitchen = New("kitchen entry",
	Transition[models.KitchenStatus]{From: models.KitchenPending, To: models.KitchenConfirmed},
	Transition[models.KitchenStatus]{From: models.KitchenConfirmed, To: models.KitchenPreparing},
	Transition[models.KitchenStatus]{From: models.KitchenPreparing, To: models.KitchenReady},
	Transition[models.KitchenStatus]{From: models.KitchenReady, To: models.KitchenServed},
	Transition[models.KitchenStatus]{From: models.KitchenPending, To: models.KitchenCancelled},
	Transition[models.KitchenStatus]{From: models.KitchenConfirmed, To: models.KitchenCancelled},
	Transition[models.KitchenStatus]{From: models.KitchenPreparing, To: models.KitchenCancelled},
)

var Payment = New("bill",
	Transition[models.PaymentStatus]{From: models.PaymentPending, To: models.PaymentPaid},
	Transition[models.PaymentStatus]{From: models.PaymentPending, To: models.PaymentCancelled},
	Transition[models.PaymentStatus]{From: models.PaymentPaid, To: models.PaymentRefunded},
)
