package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// QuotationStatus is the state of a quotation
type QuotationStatus string

const (
	QuotationStatusPending   QuotationStatus = "pending"
	QuotationStatusAccepted  QuotationStatus = "accepted"
	QuotationStatusRejected  QuotationStatus = "rejected"
	QuotationStatusConverted QuotationStatus = "converted"
)

// Quotation is a priced offer to a client that may become an event
type Quotation struct {
	ID          string          `json:"id"`
	FirmID      string          `json:"firmId"`
	ClientID    string          `json:"clientId"`
	CreatedBy   string          `json:"createdBy"`
	Title       string          `json:"title"`
	Description string          `json:"description,omitempty"`
	EventType   string          `json:"eventType"`
	EventDate   time.Time       `json:"eventDate"`
	Venue       string          `json:"venue,omitempty"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	ValidUntil  *time.Time      `json:"validUntil,omitempty"`
	Status      QuotationStatus `json:"status"`
	EventID     *string         `json:"eventId,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// OwnerFirmID returns the owning firm
func (q *Quotation) OwnerFirmID() string { return q.FirmID }

// NewQuotationParams carries the fields needed to draft a quotation
type NewQuotationParams struct {
	ID          string
	FirmID      string
	ClientID    string
	CreatedBy   string
	Title       string
	Description string
	EventType   string
	EventDate   time.Time
	Venue       string
	TotalAmount decimal.Decimal
	ValidUntil  *time.Time
}

// NewQuotation validates params and builds a pending quotation
func NewQuotation(p NewQuotationParams, now time.Time) (*Quotation, error) {
	q := &Quotation{
		ID:          p.ID,
		FirmID:      p.FirmID,
		ClientID:    p.ClientID,
		CreatedBy:   p.CreatedBy,
		Title:       strings.TrimSpace(p.Title),
		Description: strings.TrimSpace(p.Description),
		EventType:   strings.TrimSpace(p.EventType),
		EventDate:   p.EventDate,
		Venue:       strings.TrimSpace(p.Venue),
		TotalAmount: p.TotalAmount,
		ValidUntil:  p.ValidUntil,
		Status:      QuotationStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if q.ClientID == "" {
		return nil, NewValidationError("clientId", "is required")
	}
	if len([]rune(q.Title)) < 2 {
		return nil, NewValidationError("title", "must be at least 2 characters")
	}
	if q.EventType == "" {
		return nil, NewValidationError("eventType", "is required")
	}
	if q.EventDate.IsZero() {
		return nil, NewValidationError("eventDate", "is required")
	}
	if !q.TotalAmount.IsPositive() {
		return nil, NewValidationError("totalAmount", "must be greater than zero")
	}
	if err := validateMoney("totalAmount", q.TotalAmount); err != nil {
		return nil, err
	}
	return q, nil
}

// CanConvert reports whether the quotation may still become an event
func (q *Quotation) CanConvert() bool {
	return q.Status == QuotationStatusPending || q.Status == QuotationStatusAccepted
}

// MarkConverted links the quotation to the event created from it
func (q *Quotation) MarkConverted(eventID string, now time.Time) error {
	if !q.CanConvert() {
		return NewValidationError("status", "quotation cannot be converted from status "+string(q.Status))
	}
	q.Status = QuotationStatusConverted
	q.EventID = &eventID
	q.UpdatedAt = now
	return nil
}

// EventParams builds the event booking for a conversion
func (q *Quotation) EventParams(eventID string, advance decimal.Decimal, photographerID, videographerID *string) NewEventParams {
	return NewEventParams{
		ID:             eventID,
		FirmID:         q.FirmID,
		ClientID:       q.ClientID,
		Title:          q.Title,
		Description:    q.Description,
		EventType:      q.EventType,
		EventDate:      q.EventDate,
		Venue:          q.Venue,
		TotalAmount:    q.TotalAmount,
		AdvanceAmount:  advance,
		PhotographerID: photographerID,
		VideographerID: videographerID,
	}
}
