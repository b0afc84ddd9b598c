package models

import (
	"fmt"
	"time"
)

// PaymentType selects which fee a payment settles.
type PaymentType string

const (
	PaymentTypeMonthly PaymentType = "monthly"
	PaymentTypeAnnual  PaymentType = "annual"
)

// ParsePaymentType validates raw input.
func ParsePaymentType(raw string) (PaymentType, error) {
	switch t := PaymentType(raw); t {
	case PaymentTypeMonthly, PaymentTypeAnnual:
		return t, nil
	default:
		return "", fmt.Errorf("unknown payment type %q", raw)
	}
}

// PaymentStatus is the lifecycle state of a payment record.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// Terminal reports whether no further transition is permitted from s.
func (s PaymentStatus) Terminal() bool {
	switch s {
	case PaymentStatusCompleted, PaymentStatusFailed:
		return true
	case PaymentStatusPending:
		return false
	default:
		// unknown values never move
		return true
	}
}

// CanTransitionTo reports whether s -> next is a legal edge of the payment state machine.
func (s PaymentStatus) CanTransitionTo(next PaymentStatus) bool {
	switch s {
	case PaymentStatusPending:
		return next == PaymentStatusCompleted || next == PaymentStatusFailed
	case PaymentStatusCompleted, PaymentStatusFailed:
		return false
	default:
		return false
	}
}

// SettlementStatus maps a gateway outcome onto the terminal status it produces.
func SettlementStatus(success bool) PaymentStatus {
	if success {
		return PaymentStatusCompleted
	}
	return PaymentStatusFailed
}

// Payment is a ledger entry. Amount is fixed when the record is created.
type Payment struct {
	ID          int64         `db:"id" json:"id"`
	Student     string        `db:"student" json:"student"`
	PaymentType PaymentType   `db:"payment_type" json:"paymentType"`
	Amount      int64         `db:"amount" json:"amount"`
	Status      PaymentStatus `db:"status" json:"status"`
	PaymentDate time.Time     `db:"payment_date" json:"paymentDate"`
	SettledAt   *time.Time    `db:"settled_at" json:"settledAt,omitempty"`
}
