package service

import (
	"errors"
	"fmt"

	"github.com/prohmpiriya/lensdesk/internal/domain"
)

var (
	// ErrInvalidCredentials is the only answer to a failed login
	ErrInvalidCredentials = fmt.Errorf("invalid credentials: %w", domain.ErrUnauthenticated)
	// ErrAccountCreation hides whether an email is already registered
	ErrAccountCreation = fmt.Errorf("failed to create account: %w", domain.ErrValidation)
	// ErrFirmAlreadyAssigned is returned when an admin who already has a firm tries to create another
	ErrFirmAlreadyAssigned = domain.NewValidationError("firm", "user already belongs to a firm")
	// ErrAdminOnly is returned for team management by non-admins
	ErrAdminOnly = fmt.Errorf("admin role required: %w", domain.ErrForbidden)

	ErrFirmNotFound      = domain.NotFound("firm")
	ErrUserNotFound      = domain.NotFound("user")
	ErrClientNotFound    = domain.NotFound("client")
	ErrEventNotFound     = domain.NotFound("event")
	ErrTaskNotFound      = domain.NotFound("task")
	ErrQuotationNotFound = domain.NotFound("quotation")
)

// storageErr wraps unclassified repository failures as storage errors.
// Errors that already carry a domain classification pass through.
func storageErr(op string, err error) error {
	if err == nil {
		return nil
	}
	for _, known := range []error{
		domain.ErrValidation,
		domain.ErrNotFound,
		domain.ErrUnauthenticated,
		domain.ErrForbidden,
		domain.ErrConflict,
		domain.ErrStorage,
	} {
		if errors.Is(err, known) {
			return err
		}
	}
	return domain.StorageError(op, err)
}
