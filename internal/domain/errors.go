package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound          = errors.New("not found")
	ErrAlreadyExists     = errors.New("already exists")
	ErrValidation        = errors.New("validation error")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrConflict          = errors.New("conflict")
	ErrDuplicateScan     = errors.New("duplicate scan")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}

// StatusConflictError reports a rejected inventory item transition.
// Current is the status the item actually has, so callers can report
// "already dispatched" without treating it as fatal.
type StatusConflictError struct {
	ItemID  string
	Current ItemStatus
	Target  ItemStatus
}

func (e *StatusConflictError) Error() string {
	if e.Target == "" {
		return fmt.Sprintf("item %s: already registered as %s", e.ItemID, e.Current)
	}
	return fmt.Sprintf("item %s: cannot move from %s to %s", e.ItemID, e.Current, e.Target)
}

func (e *StatusConflictError) Unwrap() error { return ErrConflict }

// SessionConflictError reports a mutation attempted on a session that is no
// longer active.
type SessionConflictError struct {
	SessionID uuid.UUID
	Status    SessionStatus
}

func (e *SessionConflictError) Error() string {
	return fmt.Sprintf("session %s is %s", e.SessionID, e.Status)
}

func (e *SessionConflictError) Unwrap() error { return ErrConflict }

// LedgerClosedError reports a mutation attempted on a closed daily ledger.
type LedgerClosedError struct {
	Date string
}

func (e *LedgerClosedError) Error() string {
	return fmt.Sprintf("ledger %s is closed", e.Date)
}

func (e *LedgerClosedError) Unwrap() error { return ErrConflict }
