package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// EventStatus is the lifecycle state of a booked event
type EventStatus string

const (
	EventStatusScheduled  EventStatus = "scheduled"
	EventStatusInProgress EventStatus = "in_progress"
	EventStatusEditing    EventStatus = "editing"
	EventStatusCompleted  EventStatus = "completed"
	EventStatusDelivered  EventStatus = "delivered"
)

// ParseEventStatus converts untrusted input into an EventStatus
func ParseEventStatus(s string) (EventStatus, error) {
	switch st := EventStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case EventStatusScheduled, EventStatusInProgress, EventStatusEditing, EventStatusCompleted, EventStatusDelivered:
		return st, nil
	default:
		return "", NewValidationError("status", "must be one of scheduled, in_progress, editing, completed, delivered")
	}
}

// IsActive reports whether the event still counts as ongoing work
func (s EventStatus) IsActive() bool {
	return s != EventStatusCompleted && s != EventStatusDelivered
}

// Event is a booked shoot for a client
type Event struct {
	ID             string          `json:"id"`
	FirmID         string          `json:"firmId"`
	ClientID       string          `json:"clientId"`
	Title          string          `json:"title"`
	Description    string          `json:"description,omitempty"`
	EventType      string          `json:"eventType"`
	EventDate      time.Time       `json:"eventDate"`
	Venue          string          `json:"venue,omitempty"`
	Status         EventStatus     `json:"status"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
	AdvanceAmount  decimal.Decimal `json:"advanceAmount"`
	BalanceAmount  decimal.Decimal `json:"balanceAmount"`
	PhotographerID *string         `json:"photographerId,omitempty"`
	VideographerID *string         `json:"videographerId,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// OwnerFirmID returns the owning firm
func (e *Event) OwnerFirmID() string { return e.FirmID }

// NewEventParams carries the fields needed to book an event
type NewEventParams struct {
	ID             string
	FirmID         string
	ClientID       string
	Title          string
	Description    string
	EventType      string
	EventDate      time.Time
	Venue          string
	TotalAmount    decimal.Decimal
	AdvanceAmount  decimal.Decimal
	PhotographerID *string
	VideographerID *string
}

// NewEvent validates params and builds a scheduled event.
// The balance starts at the total; the advance is applied as a payment by the caller.
func NewEvent(p NewEventParams, now time.Time) (*Event, error) {
	e := &Event{
		ID:             p.ID,
		FirmID:         p.FirmID,
		ClientID:       p.ClientID,
		Title:          strings.TrimSpace(p.Title),
		Description:    strings.TrimSpace(p.Description),
		EventType:      strings.TrimSpace(p.EventType),
		EventDate:      p.EventDate,
		Venue:          strings.TrimSpace(p.Venue),
		Status:         EventStatusScheduled,
		TotalAmount:    p.TotalAmount,
		AdvanceAmount:  p.AdvanceAmount,
		BalanceAmount:  p.TotalAmount,
		PhotographerID: emptyToNil(p.PhotographerID),
		VideographerID: emptyToNil(p.VideographerID),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if e.ClientID == "" {
		return nil, NewValidationError("clientId", "is required")
	}
	if len([]rune(e.Title)) < 2 {
		return nil, NewValidationError("title", "must be at least 2 characters")
	}
	if e.EventType == "" {
		return nil, NewValidationError("eventType", "is required")
	}
	if e.EventDate.IsZero() {
		return nil, NewValidationError("eventDate", "is required")
	}
	if e.TotalAmount.IsNegative() {
		return nil, NewValidationError("totalAmount", "must not be negative")
	}
	if err := validateMoney("totalAmount", e.TotalAmount); err != nil {
		return nil, err
	}
	if err := validateMoney("advanceAmount", e.AdvanceAmount); err != nil {
		return nil, err
	}
	if e.AdvanceAmount.IsNegative() {
		return nil, NewValidationError("advanceAmount", "must not be negative")
	}
	if e.AdvanceAmount.GreaterThan(e.TotalAmount) {
		return nil, NewValidationError("advanceAmount", "must not exceed totalAmount")
	}
	return e, nil
}

// ApplyPayment decrements the outstanding balance
func (e *Event) ApplyPayment(amount decimal.Decimal, now time.Time) error {
	if !amount.IsPositive() {
		return NewValidationError("amount", "must be greater than zero")
	}
	if err := validateMoney("amount", amount); err != nil {
		return err
	}
	if amount.GreaterThan(e.BalanceAmount) {
		return NewValidationError("amount", "exceeds the outstanding balance")
	}
	e.BalanceAmount = e.BalanceAmount.Sub(amount)
	e.UpdatedAt = now
	return nil
}

// EventSummary is an event with its client attached
type EventSummary struct {
	Event
	Client *Client `json:"client"`
}

// EventWithClient is the read model for event listings and detail pages
type EventWithClient struct {
	Event
	Client       *Client    `json:"client"`
	Photographer *User      `json:"photographer,omitempty"`
	Videographer *User      `json:"videographer,omitempty"`
	Tasks        []*Task    `json:"tasks"`
	Payments     []*Payment `json:"payments"`
}

func emptyToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
