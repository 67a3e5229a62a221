package ledger

import (
	"strings"
	"time"

	"github.com/aerotrack/partledger/internal/domain"
)

// AddQuantityInput describes one stock change. The sign of Delta is ignored;
// Kind decides the direction. A zero Date means today.
type AddQuantityInput struct {
	Date   time.Time
	Delta  int
	Kind   domain.LedgerEntryKind
	ItemID string
}

// Validate checks all fields and collects all errors.
func (i AddQuantityInput) Validate() error {
	var errs []domain.FieldError

	if i.Delta == 0 {
		errs = append(errs, domain.FieldError{Field: "delta", Message: "must not be zero"})
	}
	if !i.Kind.IsValid() {
		errs = append(errs, domain.FieldError{Field: "kind", Message: "must be ADDED or DISPATCHED"})
	}
	if len(i.ItemID) > 128 {
		errs = append(errs, domain.FieldError{Field: "item_id", Message: "max 128 characters"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// ResyncInput holds the operator's reason for discarding today's counters.
type ResyncInput struct {
	Reason string
}

// Validate checks all fields and collects all errors.
func (i ResyncInput) Validate() error {
	reason := strings.TrimSpace(i.Reason)
	if reason == "" {
		return domain.NewValidationError("reason", "required")
	}
	if len(reason) > 500 {
		return domain.NewValidationError("reason", "max 500 characters")
	}
	return nil
}
