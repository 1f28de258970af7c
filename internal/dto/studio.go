package dto

import (
	"strings"
	"time"

	"github.com/prohmpiriya/lensdesk/internal/domain"
	"github.com/shopspring/decimal"
)

// CreateClientRequest is the body of POST /api/clients
type CreateClientRequest struct {
	Name    string `json:"name" binding:"required,min=2"`
	Email   string `json:"email" binding:"omitempty,email"`
	Phone   string `json:"phone" binding:"required"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

// CreateEventRequest is the body of POST /api/events
type CreateEventRequest struct {
	ClientID       string          `json:"clientId" binding:"required"`
	Title          string          `json:"title" binding:"required,min=2"`
	Description    string          `json:"description"`
	EventType      string          `json:"eventType" binding:"required"`
	EventDate      string          `json:"eventDate" binding:"required"`
	Venue          string          `json:"venue"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	AdvanceAmount  decimal.Decimal `json:"advanceAmount"`
	PhotographerID *string         `json:"photographerId"`
	VideographerID *string         `json:"videographerId"`
}

// UpdateStatusRequest is the body of the status PATCH endpoints
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// CreateTaskRequest is the body of POST /api/tasks
type CreateTaskRequest struct {
	EventID     string `json:"eventId" binding:"required"`
	AssignedTo  string `json:"assignedTo" binding:"required"`
	Title       string `json:"title" binding:"required,min=2"`
	Description string `json:"description"`
	TaskType    string `json:"taskType" binding:"required"`
	Priority    string `json:"priority"`
	DueDate     string `json:"dueDate"`
}

// CreatePaymentRequest is the body of POST /api/payments
type CreatePaymentRequest struct {
	EventID       string          `json:"eventId" binding:"required"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"paymentMethod" binding:"required"`
	PaymentDate   string          `json:"paymentDate"`
	Notes         string          `json:"notes"`
}

// CreateExpenseRequest is the body of POST /api/expenses
type CreateExpenseRequest struct {
	Title       string          `json:"title" binding:"required,min=2"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category" binding:"required"`
	ExpenseDate string          `json:"expenseDate"`
}

// CreateQuotationRequest is the body of POST /api/quotations
type CreateQuotationRequest struct {
	ClientID    string          `json:"clientId" binding:"required"`
	Title       string          `json:"title" binding:"required,min=2"`
	Description string          `json:"description"`
	EventType   string          `json:"eventType" binding:"required"`
	EventDate   string          `json:"eventDate" binding:"required"`
	Venue       string          `json:"venue"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	ValidUntil  string          `json:"validUntil"`
}

// ConvertQuotationRequest is the optional body of POST /api/quotations/:id/convert
type ConvertQuotationRequest struct {
	AdvanceAmount  decimal.Decimal `json:"advanceAmount"`
	PhotographerID *string         `json:"photographerId"`
	VideographerID *string         `json:"videographerId"`
}

// ActivityQuery is the query string of GET /api/activity
type ActivityQuery struct {
	Limit int `form:"limit"`
}

// ParseDate accepts RFC 3339 timestamps and plain YYYY-MM-DD dates
func ParseDate(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Time{}, domain.NewValidationError(field, "must be a date (YYYY-MM-DD) or RFC 3339 timestamp")
}

// ParseOptionalDate is ParseDate that maps an empty value to nil
func ParseOptionalDate(field, value string) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	t, err := ParseDate(field, value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
