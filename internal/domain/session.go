package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ScanningSession is one operator activity of scanning units for an
// operation type, optionally against a list of expected parts.
// ScannedItems is append-only; a COMPLETED or CANCELLED session is immutable.
type ScanningSession struct {
	ID            uuid.UUID
	Operator      Operator
	OperationType OperationType
	JobCardRef    string
	ExpectedItems []ExpectedItem
	ScannedItems  []ScannedItem
	Statistics    SessionStatistics
	Status        SessionStatus
	StartedAt     time.Time
	EndedAt       *time.Time
	DurationMs    *int64
	Notes         string
	CancelReason  string
	CreatedAt     time.Time
}

// ExpectedItem is a part/quantity pair a product-scoped session expects.
type ExpectedItem struct {
	PartName     string
	PartNumber   string
	Quantity     int
	ScannedCount int
}

// ScannedItem is one accepted scan. Status and PreviousStatus describe the
// inventory unit after and before the scan's operation was applied; Message
// explains why the operation was not applied, if it was not.
type ScannedItem struct {
	QRID           string
	PartName       string
	PartNumber     string
	SerialNumber   *string
	ScannedAt      time.Time
	IsExpected     bool
	Status         ItemStatus
	PreviousStatus ItemStatus
	Message        string
}

// SessionStatistics is derived from the scanned items and recomputed on
// every mutation. DuplicateScans is the only counter not derivable from
// ScannedItems, because duplicates are never appended.
type SessionStatistics struct {
	TotalExpected        int
	TotalScanned         int
	SuccessfulScans      int
	UnexpectedScans      int
	DuplicateScans       int
	CompletionPercentage float64
}

// NewScanningSession builds an ACTIVE session with zeroed statistics.
func NewScanningSession(id uuid.UUID, op Operator, opType OperationType, jobCardRef string, expected []ExpectedItem, now time.Time) *ScanningSession {
	items := make([]ExpectedItem, len(expected))
	copy(items, expected)
	for i := range items {
		items[i].ScannedCount = 0
	}

	s := &ScanningSession{
		ID:            id,
		Operator:      op,
		OperationType: opType,
		JobCardRef:    jobCardRef,
		ExpectedItems: items,
		ScannedItems:  []ScannedItem{},
		Status:        SessionStatusActive,
		StartedAt:     now,
	}
	s.RecomputeStatistics()
	return s
}

// IsActive reports whether the session still accepts mutations.
func (s *ScanningSession) IsActive() bool { return s.Status == SessionStatusActive }

// HasScanned reports whether qrID is already in the scanned-item log.
func (s *ScanningSession) HasScanned(qrID string) bool {
	for _, it := range s.ScannedItems {
		if it.QRID == qrID {
			return true
		}
	}
	return false
}

// CheckAccepts returns the error AddScan would return for qrID without
// changing anything: a conflict for a terminal session, ErrDuplicateScan for
// an already scanned code, nil otherwise.
func (s *ScanningSession) CheckAccepts(qrID string) error {
	if !s.IsActive() {
		return &SessionConflictError{SessionID: s.ID, Status: s.Status}
	}
	if s.HasScanned(qrID) {
		return ErrDuplicateScan
	}
	return nil
}

// RecordDuplicate counts a rejected repeat scan.
func (s *ScanningSession) RecordDuplicate() {
	s.Statistics.DuplicateScans++
}

// WouldExpect reports whether a scan of the given part appended now would be
// classified as expected.
func (s *ScanningSession) WouldExpect(partNumber, partName string) bool {
	if len(s.ExpectedItems) == 0 {
		return true
	}
	idx := s.matchExpected(partNumber, partName)
	if idx < 0 {
		return false
	}
	e := s.ExpectedItems[idx]
	return e.ScannedCount+1 <= e.Quantity
}

// AddScan classifies item, appends it and recomputes statistics. A duplicate
// only bumps DuplicateScans and returns ErrDuplicateScan; a terminal session
// returns a *SessionConflictError and is left untouched.
func (s *ScanningSession) AddScan(item ScannedItem) (ScannedItem, error) {
	if err := s.CheckAccepts(item.QRID); err != nil {
		if errors.Is(err, ErrDuplicateScan) {
			s.RecordDuplicate()
		}
		return ScannedItem{}, err
	}

	if len(s.ExpectedItems) == 0 {
		item.IsExpected = true
	} else if idx := s.matchExpected(item.PartNumber, item.PartName); idx >= 0 {
		e := &s.ExpectedItems[idx]
		e.ScannedCount++
		// Scans beyond the requested quantity are overscans.
		item.IsExpected = e.ScannedCount <= e.Quantity
		if item.PartName == "" {
			item.PartName = e.PartName
		}
	} else {
		item.IsExpected = false
	}

	s.ScannedItems = append(s.ScannedItems, item)
	s.RecomputeStatistics()
	return item, nil
}

// matchExpected finds the expected entry for a part, preferring the part
// number. The name decides only when one side carries no number; two
// different numbers never match.
func (s *ScanningSession) matchExpected(partNumber, partName string) int {
	number := NormalizePartKey(partNumber)
	if number != "" {
		for i, e := range s.ExpectedItems {
			if e.PartNumber != "" && NormalizePartKey(e.PartNumber) == number {
				return i
			}
		}
	}
	if key := NormalizePartKey(partName); key != "" {
		for i, e := range s.ExpectedItems {
			if number != "" && NormalizePartKey(e.PartNumber) != "" {
				continue
			}
			if NormalizePartKey(e.PartName) == key {
				return i
			}
		}
	}
	return -1
}

// RecomputeStatistics derives all counters except DuplicateScans.
func (s *ScanningSession) RecomputeStatistics() {
	st := SessionStatistics{DuplicateScans: s.Statistics.DuplicateScans}
	for _, e := range s.ExpectedItems {
		st.TotalExpected += e.Quantity
	}
	for _, it := range s.ScannedItems {
		st.TotalScanned++
		if it.IsExpected {
			st.SuccessfulScans++
		} else {
			st.UnexpectedScans++
		}
	}
	if st.TotalExpected > 0 {
		st.CompletionPercentage = float64(st.SuccessfulScans) / float64(st.TotalExpected) * 100
	}
	s.Statistics = st
}

// Complete moves an ACTIVE session to COMPLETED.
func (s *ScanningSession) Complete(now time.Time, notes string) error {
	if err := s.terminate(now, SessionStatusCompleted); err != nil {
		return err
	}
	s.Notes = notes
	return nil
}

// Cancel moves an ACTIVE session to CANCELLED.
func (s *ScanningSession) Cancel(now time.Time, reason string) error {
	if err := s.terminate(now, SessionStatusCancelled); err != nil {
		return err
	}
	s.CancelReason = reason
	return nil
}

func (s *ScanningSession) terminate(now time.Time, status SessionStatus) error {
	if !s.IsActive() {
		return &SessionConflictError{SessionID: s.ID, Status: s.Status}
	}
	duration := now.Sub(s.StartedAt).Milliseconds()
	s.Status = status
	s.EndedAt = &now
	s.DurationMs = &duration
	return nil
}
