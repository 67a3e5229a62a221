package broadcast

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/aerotrack/partledger/internal/domain"
)

// eventJSON is the wire form of a scan event shared by every transport.
type eventJSON struct {
	DeviceID     string     `json:"device_id"`
	SessionID    *uuid.UUID `json:"session_id,omitempty"`
	QRID         string     `json:"qr_id"`
	PartName     string     `json:"part_name,omitempty"`
	PartNumber   string     `json:"part_number,omitempty"`
	SerialNumber *string    `json:"serial_number,omitempty"`
	ScannedAt    time.Time  `json:"scanned_at"`
}

// EncodeEvent marshals a scan event to its wire form.
func EncodeEvent(e domain.ScanEvent) ([]byte, error) {
	data, err := json.Marshal(eventJSON(e))
	if err != nil {
		return nil, fmt.Errorf("encode scan event: %w", err)
	}
	return data, nil
}

// DecodeEvent parses and validates a scan event.
func DecodeEvent(data []byte) (domain.ScanEvent, error) {
	var j eventJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return domain.ScanEvent{}, domain.NewValidationError("body", "malformed scan event")
	}
	e := domain.ScanEvent(j)
	if err := e.Validate(); err != nil {
		return domain.ScanEvent{}, err
	}
	return e, nil
}
