package report

import (
	"errors"

	"github.com/aerotrack/partledger/internal/domain"
)

const (
	defaultTopParts = 10
	maxTopParts     = 100
	maxRangeDays    = 366
)

// TopPartsInput selects the busiest parts of a date range.
type TopPartsInput struct {
	Range domain.DateRange
	Limit int
}

// Validate checks all fields and collects all errors.
func (i TopPartsInput) Validate() error {
	var errs []domain.FieldError

	if err := validateRange(i.Range); err != nil {
		errs = append(errs, err...)
	}
	if i.Limit < 0 || i.Limit > maxTopParts {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "must be between 0 and 100"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

func (i TopPartsInput) limit() int {
	if i.Limit == 0 {
		return defaultTopParts
	}
	return i.Limit
}

func validateRange(r domain.DateRange) []domain.FieldError {
	if err := r.Validate(); err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			return ve.Errors
		}
		return []domain.FieldError{{Field: "range", Message: err.Error()}}
	}
	if days := int(r.To.Sub(r.From).Hours() / 24); days >= maxRangeDays {
		return []domain.FieldError{{Field: "range", Message: "max 366 days"}}
	}
	return nil
}

func checkRange(r domain.DateRange) error {
	if errs := validateRange(r); len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}
