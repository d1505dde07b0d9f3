package service

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a referenced entity or ledger row
	// does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists is returned by strict toggle-on operations when
	// the ledger row already exists.
	ErrAlreadyExists = errors.New("already exists")
	// ErrForbidden is returned when the acting user is not permitted to
	// modify the target.
	ErrForbidden = errors.New("forbidden")
	// ErrSelfSubscription is returned on attempts to follow oneself.
	ErrSelfSubscription = errors.New("cannot subscribe to yourself")
	// ErrNoSuchEntry is returned by strict toggle-off operations when
	// no matching ledger row exists. Unlike ErrNotFound it is a client
	// error, not a missing entity.
	ErrNoSuchEntry = errors.New("entry does not exist")
	// ErrEmptyCart is returned when a shopping list is requested for an
	// empty cart.
	ErrEmptyCart = errors.New("shopping cart is empty")
	// ErrImageDecode is returned when an embedded image payload cannot
	// be base64-decoded.
	ErrImageDecode = errors.New("cannot decode image data")
	// ErrInvalidCredentials is returned on failed logins.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError reports a rejected write input and names the
// offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// isUniqueViolation reports whether err is a unique-constraint
// violation from either the postgres or the sqlite driver. The unique
// indexes are the authoritative backstop for racing toggles, so these
// violations are mapped to ErrAlreadyExists at the call sites.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}
