package domain

import (
	"time"

	"github.com/google/uuid"
)

// ScanEvent is an ephemeral message published by a scanning device. It is
// never persisted; only its effects on items and sessions are.
type ScanEvent struct {
	DeviceID     string
	SessionID    *uuid.UUID
	QRID         string
	PartName     string
	PartNumber   string
	SerialNumber *string
	ScannedAt    time.Time
}

// Validate rejects events that cannot be classified.
func (e *ScanEvent) Validate() error {
	var errs []FieldError

	if e.QRID == "" {
		errs = append(errs, FieldError{Field: "qr_id", Message: "required"})
	}
	if len(e.QRID) > 128 {
		errs = append(errs, FieldError{Field: "qr_id", Message: "max 128 characters"})
	}
	if e.PartNumber == "" && e.PartName == "" {
		errs = append(errs, FieldError{Field: "part_number", Message: "part number or part name required"})
	}
	if e.ScannedAt.IsZero() {
		errs = append(errs, FieldError{Field: "scanned_at", Message: "required"})
	}

	if len(errs) > 0 {
		return NewValidationErrors(errs)
	}
	return nil
}
