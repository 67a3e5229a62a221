package domain

import (
	"time"

	"github.com/google/uuid"
)

// SessionFilter contains filtering/pagination parameters for session listings.
type SessionFilter struct {
	OperatorID    *uuid.UUID
	Status        *SessionStatus
	OperationType *OperationType
	StartedFrom   *time.Time
	StartedTo     *time.Time
	Limit         int
	Offset        int
}

// DateRange is an inclusive range of ledger dates.
type DateRange struct {
	From time.Time
	To   time.Time
}

// Validate rejects inverted ranges.
func (r DateRange) Validate() error {
	if r.From.IsZero() || r.To.IsZero() {
		return NewValidationError("range", "from and to are required")
	}
	if r.To.Before(r.From) {
		return NewValidationError("range", "to must not be before from")
	}
	return nil
}
