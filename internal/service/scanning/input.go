package scanning

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aerotrack/partledger/internal/domain"
)

const (
	maxExpectedItems = 500
	defaultPageSize  = 20
	maxPageSize      = 100
)

// ExpectedItemInput is one requested part line of a new session.
type ExpectedItemInput struct {
	PartNumber string
	PartName   string
	Quantity   int
}

// CreateSessionInput holds the parameters for starting a session.
type CreateSessionInput struct {
	OperationType string
	JobCardRef    string
	JobCardKind   domain.JobCardKind
	ExpectedItems []ExpectedItemInput
}

// Validate checks all fields and collects all errors.
func (i CreateSessionInput) Validate() error {
	var errs []domain.FieldError

	if _, ok := domain.ParseOperationType(i.OperationType); !ok {
		errs = append(errs, domain.FieldError{Field: "operation_type", Message: "must be QC_VALIDATION, STORE_INWARD or STORE_OUTWARD"})
	}
	ref := strings.TrimSpace(i.JobCardRef)
	if ref == "" {
		errs = append(errs, domain.FieldError{Field: "job_card_ref", Message: "required"})
	}
	if len(ref) > 100 {
		errs = append(errs, domain.FieldError{Field: "job_card_ref", Message: "max 100 characters"})
	}
	if i.JobCardKind != "" && !i.JobCardKind.IsValid() {
		errs = append(errs, domain.FieldError{Field: "job_card_kind", Message: "must be JOB_CARD or DNS"})
	}
	if len(i.ExpectedItems) > maxExpectedItems {
		errs = append(errs, domain.FieldError{Field: "expected_items", Message: fmt.Sprintf("max %d lines", maxExpectedItems)})
	}

	seen := make(map[string]bool, len(i.ExpectedItems))
	for idx, e := range i.ExpectedItems {
		field := fmt.Sprintf("expected_items[%d]", idx)
		key := domain.NormalizePartKey(e.PartNumber)
		if key == "" {
			key = "name:" + domain.NormalizePartKey(e.PartName)
		}
		switch {
		case strings.TrimSpace(e.PartNumber) == "" && strings.TrimSpace(e.PartName) == "":
			errs = append(errs, domain.FieldError{Field: field, Message: "part number or part name required"})
		case seen[key]:
			errs = append(errs, domain.FieldError{Field: field, Message: "duplicate part"})
		}
		seen[key] = true
		if e.Quantity < 1 {
			errs = append(errs, domain.FieldError{Field: field + ".quantity", Message: "must be at least 1"})
		}
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// ScanPayload is one scan as submitted by a device or the UI. A zero
// ScannedAt is stamped with the server clock.
type ScanPayload struct {
	QRID         string
	PartName     string
	PartNumber   string
	SerialNumber *string
	ScannedAt    time.Time
}

// Validate checks all fields and collects all errors.
func (p ScanPayload) Validate() error {
	var errs []domain.FieldError

	qr := strings.TrimSpace(p.QRID)
	if qr == "" {
		errs = append(errs, domain.FieldError{Field: "qr_id", Message: "required"})
	}
	if len(qr) > 128 {
		errs = append(errs, domain.FieldError{Field: "qr_id", Message: "max 128 characters"})
	}
	if strings.TrimSpace(p.PartNumber) == "" && strings.TrimSpace(p.PartName) == "" {
		errs = append(errs, domain.FieldError{Field: "part_number", Message: "part number or part name required"})
	}
	if p.SerialNumber != nil && len(*p.SerialNumber) > 128 {
		errs = append(errs, domain.FieldError{Field: "serial_number", Message: "max 128 characters"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// PayloadFromEvent converts a broadcast scan event.
func PayloadFromEvent(e domain.ScanEvent) ScanPayload {
	return ScanPayload{
		QRID:         e.QRID,
		PartName:     e.PartName,
		PartNumber:   e.PartNumber,
		SerialNumber: e.SerialNumber,
		ScannedAt:    e.ScannedAt,
	}
}

// ListSessionsInput holds filters and pagination for session listings.
type ListSessionsInput struct {
	OperatorID    *uuid.UUID
	Status        string
	OperationType string
	Limit         int
	Offset        int
}

// Validate checks all fields and collects all errors.
func (i ListSessionsInput) Validate() error {
	var errs []domain.FieldError

	if i.Status != "" && !domain.SessionStatus(strings.ToUpper(i.Status)).IsValid() {
		errs = append(errs, domain.FieldError{Field: "status", Message: "must be ACTIVE, COMPLETED or CANCELLED"})
	}
	if i.OperationType != "" {
		if _, ok := domain.ParseOperationType(i.OperationType); !ok {
			errs = append(errs, domain.FieldError{Field: "operation_type", Message: "invalid operation type"})
		}
	}
	if i.Limit < 0 || i.Limit > maxPageSize {
		errs = append(errs, domain.FieldError{Field: "limit", Message: fmt.Sprintf("must be between 0 and %d", maxPageSize)})
	}
	if i.Offset < 0 {
		errs = append(errs, domain.FieldError{Field: "offset", Message: "must not be negative"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

func (i ListSessionsInput) filter() domain.SessionFilter {
	f := domain.SessionFilter{
		OperatorID: i.OperatorID,
		Limit:      i.Limit,
		Offset:     i.Offset,
	}
	if f.Limit == 0 {
		f.Limit = defaultPageSize
	}
	if i.Status != "" {
		st := domain.SessionStatus(strings.ToUpper(i.Status))
		f.Status = &st
	}
	if op, ok := domain.ParseOperationType(i.OperationType); ok {
		f.OperationType = &op
	}
	return f
}
