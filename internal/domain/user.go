package domain

import (
	"net/mail"
	"regexp"
	"strings"
	"time"
)

var phonePattern = regexp.MustCompile(`^[0-9]{10}$`)

// User is a staff member. FirmID is nil only for admins who have not created a firm yet.
type User struct {
	ID           string    `json:"id"`
	FirmID       *string   `json:"firmId"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Phone        string    `json:"phone"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
}

// NewUserParams carries the fields needed to register a user
type NewUserParams struct {
	ID           string
	FirmID       *string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Phone        string
	Role         Role
}

// NewUser validates params and builds an active user
func NewUser(p NewUserParams, now time.Time) (*User, error) {
	u := &User{
		ID:           p.ID,
		FirmID:       p.FirmID,
		Email:        NormalizeEmail(p.Email),
		PasswordHash: p.PasswordHash,
		FirstName:    strings.TrimSpace(p.FirstName),
		LastName:     strings.TrimSpace(p.LastName),
		Phone:        strings.TrimSpace(p.Phone),
		Role:         p.Role,
		IsActive:     true,
		CreatedAt:    now,
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	return u, nil
}

// Validate enforces field formats and the role/firm invariant
func (u *User) Validate() error {
	if _, err := mail.ParseAddress(u.Email); err != nil || !strings.Contains(u.Email, "@") {
		return NewValidationError("email", "must be a valid email address")
	}
	if len([]rune(u.FirstName)) < 2 {
		return NewValidationError("firstName", "must be at least 2 characters")
	}
	if len([]rune(u.LastName)) < 2 {
		return NewValidationError("lastName", "must be at least 2 characters")
	}
	if !phonePattern.MatchString(u.Phone) {
		return NewValidationError("phone", "must be exactly 10 digits")
	}
	if !u.Role.Valid() {
		return NewValidationError("role", "is not a known role")
	}
	if u.Role.RequiresFirm() && (u.FirmID == nil || *u.FirmID == "") {
		return NewValidationError("firmId", "is required for non-admin roles")
	}
	if u.PasswordHash == "" {
		return NewValidationError("password", "is required")
	}
	return nil
}

// FullName joins first and last name
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// FirmIDValue returns the firm id or an empty string
func (u *User) FirmIDValue() string {
	if u.FirmID == nil {
		return ""
	}
	return *u.FirmID
}

// BelongsTo reports whether the user is a member of firmID
func (u *User) BelongsTo(firmID string) bool {
	return firmID != "" && u.FirmIDValue() == firmID
}

// EmailLocalPart returns the part of the email before '@'
func (u *User) EmailLocalPart() string {
	local, _, _ := strings.Cut(u.Email, "@")
	return local
}

// NormalizeEmail lowercases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
