package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Expense is money spent by a firm
type Expense struct {
	ID          string          `json:"id"`
	FirmID      string          `json:"firmId"`
	CreatedBy   string          `json:"createdBy"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	ExpenseDate time.Time       `json:"expenseDate"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// OwnerFirmID returns the owning firm
func (e *Expense) OwnerFirmID() string { return e.FirmID }

// NewExpenseParams carries the fields needed to record an expense
type NewExpenseParams struct {
	ID          string
	FirmID      string
	CreatedBy   string
	Title       string
	Description string
	Amount      decimal.Decimal
	Category    string
	ExpenseDate time.Time
}

// NewExpense validates params and builds an expense. A zero ExpenseDate defaults to now.
func NewExpense(p NewExpenseParams, now time.Time) (*Expense, error) {
	e := &Expense{
		ID:          p.ID,
		FirmID:      p.FirmID,
		CreatedBy:   p.CreatedBy,
		Title:       strings.TrimSpace(p.Title),
		Description: strings.TrimSpace(p.Description),
		Amount:      p.Amount,
		Category:    strings.ToLower(strings.TrimSpace(p.Category)),
		ExpenseDate: p.ExpenseDate,
		CreatedAt:   now,
	}
	if e.ExpenseDate.IsZero() {
		e.ExpenseDate = now
	}
	if len([]rune(e.Title)) < 2 {
		return nil, NewValidationError("title", "must be at least 2 characters")
	}
	if !e.Amount.IsPositive() {
		return nil, NewValidationError("amount", "must be greater than zero")
	}
	if err := validateMoney("amount", e.Amount); err != nil {
		return nil, err
	}
	if e.Category == "" {
		return nil, NewValidationError("category", "is required")
	}
	return e, nil
}
