package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentPaid      PaymentStatus = "paid"
	PaymentRefunded  PaymentStatus = "refunded"
	PaymentCancelled PaymentStatus = "cancelled"
)

var PaymentStatuses = []PaymentStatus{PaymentPending, PaymentPaid, PaymentRefunded, PaymentCancelled}

type PaymentMethod string

const (
	MethodCash     PaymentMethod = "cash"
	MethodCard     PaymentMethod = "card"
	MethodTransfer PaymentMethod = "transfer"
)

var PaymentMethods = []PaymentMethod{MethodCash, MethodCard, MethodTransfer}

func (m PaymentMethod) Valid() bool {
	for _, v := range PaymentMethods {
		if v == m {
			return true
		}
	}
	return false
}

// Bill is a frozen snapshot of an order's totals at derivation time.
type Bill struct {
	ID             uint            `json:"id" gorm:"primaryKey"`
	OrderID        uint            `json:"order_id" gorm:"not null;uniqueIndex:idx_bills_active_order,where:payment_status <> 'cancelled'"`
	TableID        uint            `json:"table_id" gorm:"not null"`
	StaffID        *uint           `json:"staff_id"`
	Subtotal       decimal.Decimal `json:"subtotal" gorm:"type:decimal(14,2);not null"`
	TaxRate        decimal.Decimal `json:"tax_rate" gorm:"type:decimal(6,4);not null"`
	TaxAmount      decimal.Decimal `json:"tax_amount" gorm:"type:decimal(14,2);not null"`
	DiscountAmount decimal.Decimal `json:"discount_amount" gorm:"type:decimal(14,2);not null"`
	ServiceCharge  decimal.Decimal `json:"service_charge" gorm:"type:decimal(14,2);not null"`
	TotalAmount    decimal.Decimal `json:"total_amount" gorm:"type:decimal(14,2);not null"`
	PaymentStatus  PaymentStatus   `json:"payment_status" gorm:"not null;default:'pending';index"`
	PaymentMethod  PaymentMethod   `json:"payment_method,omitempty"`
	PaidAmount     decimal.Decimal `json:"paid_amount" gorm:"type:decimal(14,2)"`
	ChangeAmount   decimal.Decimal `json:"change_amount" gorm:"type:decimal(14,2)"`
	TransactionID  string          `json:"transaction_id,omitempty"`
	PaidAt         *time.Time      `json:"paid_at"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}
