package domain

import (
	"strings"
	"time"
)

// Client is a customer of a firm
type Client struct {
	ID        string    `json:"id"`
	FirmID    string    `json:"firmId"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// OwnerFirmID returns the owning firm
func (c *Client) OwnerFirmID() string { return c.FirmID }

// NewClient validates and builds a client
func NewClient(id, firmID, name, email, phone, address, notes string, now time.Time) (*Client, error) {
	c := &Client{
		ID:        id,
		FirmID:    firmID,
		Name:      strings.TrimSpace(name),
		Email:     NormalizeEmail(email),
		Phone:     strings.TrimSpace(phone),
		Address:   strings.TrimSpace(address),
		Notes:     strings.TrimSpace(notes),
		CreatedAt: now,
	}
	if len([]rune(c.Name)) < 2 {
		return nil, NewValidationError("name", "must be at least 2 characters")
	}
	if c.Phone == "" {
		return nil, NewValidationError("phone", "is required")
	}
	return c, nil
}
