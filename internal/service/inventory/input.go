package inventory

import (
	"strings"

	"github.com/google/uuid"

	"github.com/aerotrack/partledger/internal/domain"
)

const maxItemIDLength = 128

// RegisterInput holds the parameters for registering a new unit.
type RegisterInput struct {
	PartID       uuid.UUID
	ItemID       string
	Status       domain.ItemStatus
	SerialNumber *string
}

// Validate checks all fields and collects all errors.
func (i RegisterInput) Validate() error {
	var errs []domain.FieldError

	if i.PartID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "part_id", Message: "required"})
	}
	errs = append(errs, validateItemID(i.ItemID)...)
	if !domain.IsInitialStatus(i.Status) {
		errs = append(errs, domain.FieldError{Field: "status", Message: "must be VALIDATED or IN_STOCK"})
	}
	if i.SerialNumber != nil && len(*i.SerialNumber) > 128 {
		errs = append(errs, domain.FieldError{Field: "serial_number", Message: "max 128 characters"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// TransitionInput holds the parameters for moving a unit to a new status.
type TransitionInput struct {
	PartID uuid.UUID
	ItemID string
	Target domain.ItemStatus
}

// Validate checks all fields and collects all errors.
func (i TransitionInput) Validate() error {
	var errs []domain.FieldError

	if i.PartID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "part_id", Message: "required"})
	}
	errs = append(errs, validateItemID(i.ItemID)...)
	if !i.Target.IsValid() {
		errs = append(errs, domain.FieldError{Field: "target", Message: "invalid status"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

func validateItemID(id string) []domain.FieldError {
	switch {
	case strings.TrimSpace(id) == "":
		return []domain.FieldError{{Field: "item_id", Message: "required"}}
	case len(id) > maxItemIDLength:
		return []domain.FieldError{{Field: "item_id", Message: "max 128 characters"}}
	}
	return nil
}
