package service

import (
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is enforced on signup and team member creation
const MinPasswordLength = 8

// PasswordHasher hashes and verifies passwords with bcrypt
type PasswordHasher struct {
	cost  int
	dummy []byte
}

// NewPasswordHasher creates a hasher. A cost outside bcrypt's range falls back to the default.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	// compared against when the user does not exist, so a miss costs the same as a hit
	dummy, _ := bcrypt.GenerateFromPassword([]byte("lensdesk-timing-equalizer"), cost)
	return &PasswordHasher{cost: cost, dummy: dummy}
}

// Hash returns the bcrypt hash of password
func (h *PasswordHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Compare reports whether password matches hash
func (h *PasswordHasher) Compare(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// CompareMissing burns one comparison for a user that was not found
func (h *PasswordHasher) CompareMissing(password string) {
	_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(password))
}
