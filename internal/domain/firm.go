package domain

import (
	"strings"
	"time"
	"unicode"
)

// Firm is the tenant boundary
type Firm struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Pin           string    `json:"pin"`
	IsActive      bool      `json:"isActive"`
	SpreadsheetID string    `json:"spreadsheetId,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// FirmSummary is the public view of a firm used during signup
type FirmSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Summary strips everything but id and name
func (f *Firm) Summary() FirmSummary {
	return FirmSummary{ID: f.ID, Name: f.Name}
}

// NewFirm validates and builds an active firm
func NewFirm(id, name, pin string, now time.Time) (*Firm, error) {
	name = strings.TrimSpace(name)
	pin = strings.TrimSpace(pin)

	if len([]rune(name)) < 2 {
		return nil, NewValidationError("name", "must be at least 2 characters")
	}
	if err := ValidatePin(pin); err != nil {
		return nil, err
	}

	return &Firm{
		ID:        id,
		Name:      name,
		Pin:       pin,
		IsActive:  true,
		CreatedAt: now,
	}, nil
}

// ValidatePin checks the firm access pin format
func ValidatePin(pin string) error {
	if len(pin) < 4 || len(pin) > 12 {
		return NewValidationError("pin", "must be between 4 and 12 characters")
	}
	for _, r := range pin {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return NewValidationError("pin", "must contain only letters and digits")
		}
	}
	return nil
}
