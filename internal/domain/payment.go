package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod is how money was received
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodUPI          PaymentMethod = "upi"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCard         PaymentMethod = "card"
	PaymentMethodCheque       PaymentMethod = "cheque"
)

// ParsePaymentMethod converts untrusted input into a PaymentMethod
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch m := PaymentMethod(strings.ToLower(strings.TrimSpace(s))); m {
	case PaymentMethodCash, PaymentMethodUPI, PaymentMethodBankTransfer, PaymentMethodCard, PaymentMethodCheque:
		return m, nil
	default:
		return "", NewValidationError("paymentMethod", "must be one of cash, upi, bank_transfer, card, cheque")
	}
}

// AdvancePaymentNote marks the payment recorded from an event's advance
const AdvancePaymentNote = "Advance payment"

// Payment is money received against an event
type Payment struct {
	ID            string          `json:"id"`
	FirmID        string          `json:"firmId"`
	EventID       string          `json:"eventId"`
	ReceivedBy    string          `json:"receivedBy"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	PaymentDate   time.Time       `json:"paymentDate"`
	Notes         string          `json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// OwnerFirmID returns the owning firm
func (p *Payment) OwnerFirmID() string { return p.FirmID }

// NewPaymentParams carries the fields needed to record a payment
type NewPaymentParams struct {
	ID            string
	FirmID        string
	EventID       string
	ReceivedBy    string
	Amount        decimal.Decimal
	PaymentMethod PaymentMethod
	PaymentDate   time.Time
	Notes         string
}

// NewPayment validates params and builds a payment. A zero PaymentDate defaults to now.
func NewPayment(p NewPaymentParams, now time.Time) (*Payment, error) {
	pay := &Payment{
		ID:            p.ID,
		FirmID:        p.FirmID,
		EventID:       p.EventID,
		ReceivedBy:    p.ReceivedBy,
		Amount:        p.Amount,
		PaymentMethod: p.PaymentMethod,
		PaymentDate:   p.PaymentDate,
		Notes:         strings.TrimSpace(p.Notes),
		CreatedAt:     now,
	}
	if pay.PaymentDate.IsZero() {
		pay.PaymentDate = now
	}
	if pay.EventID == "" {
		return nil, NewValidationError("eventId", "is required")
	}
	if !pay.Amount.IsPositive() {
		return nil, NewValidationError("amount", "must be greater than zero")
	}
	if err := validateMoney("amount", pay.Amount); err != nil {
		return nil, err
	}
	if _, err := ParsePaymentMethod(string(pay.PaymentMethod)); err != nil {
		return nil, err
	}
	return pay, nil
}

// PaymentWithEvent is the read model for payment listings
type PaymentWithEvent struct {
	Payment
	Event *EventSummary `json:"event"`
}
