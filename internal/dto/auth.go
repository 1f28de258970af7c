package dto

import (
	"github.com/prohmpiriya/lensdesk/internal/domain"
)

// LoginRequest accepts either {firmPin, username, password} or {email, password}
type LoginRequest struct {
	FirmPin  string `json:"firmPin"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password" binding:"required"`
}

// UsesPin reports whether the request is a PIN login
func (r *LoginRequest) UsesPin() bool {
	return r.FirmPin != ""
}

// Validate checks that one complete credential set is present
func (r *LoginRequest) Validate() error {
	if r.UsesPin() {
		if r.Username == "" {
			return domain.NewValidationError("username", "is required with firmPin")
		}
		return nil
	}
	if r.Email == "" {
		return domain.NewValidationError("email", "firmPin or email is required")
	}
	return nil
}

// EmailLoginRequest is the body of POST /api/auth/login-email
type EmailLoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// SignupRequest registers a new user. Admins get a new firm; other roles join FirmID.
type SignupRequest struct {
	Email     string  `json:"email" binding:"required,email"`
	Password  string  `json:"password" binding:"required,min=8"`
	FirstName string  `json:"firstName" binding:"required,min=2"`
	LastName  string  `json:"lastName" binding:"required,min=2"`
	Phone     string  `json:"phone" binding:"required,len=10,numeric"`
	Role      string  `json:"role" binding:"required"`
	FirmID    *string `json:"firmId"`
	FirmName  string  `json:"firmName"`
	FirmPin   string  `json:"firmPin"`
}

// AuthResponse is returned by login and me
type AuthResponse struct {
	User  *domain.User `json:"user"`
	Firm  *domain.Firm `json:"firm"`
	Token string       `json:"token,omitempty"`
}

// SignupResponse is returned by signup; signup does not log in
type SignupResponse struct {
	User *domain.User `json:"user"`
	Firm *domain.Firm `json:"firm,omitempty"`
}

// CreateFirmRequest lets an admin without a firm create one
type CreateFirmRequest struct {
	Name string `json:"name" binding:"required,min=2"`
	Pin  string `json:"pin" binding:"required,min=4,max=12"`
}

// CreateTeamMemberRequest adds a staff member to the admin's firm
type CreateTeamMemberRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"firstName" binding:"required,min=2"`
	LastName  string `json:"lastName" binding:"required,min=2"`
	Phone     string `json:"phone" binding:"required,len=10,numeric"`
	Role      string `json:"role" binding:"required"`
}
