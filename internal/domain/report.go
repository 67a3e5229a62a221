package domain

import (
	"time"

	"github.com/google/uuid"
)

// PartAvailability counts the units of one part by status.
type PartAvailability struct {
	PartID     uuid.UUID
	PartName   string
	PartNumber string
	Validated  int
	InStock    int
	Used       int
	Dispatched int
}

// Available is the number of units that can be issued right now.
func (a PartAvailability) Available() int { return a.InStock }

// LedgerSummary aggregates the daily ledgers of a date range.
type LedgerSummary struct {
	From            time.Time
	To              time.Time
	Days            []DailyLedger
	TotalAdded      int
	TotalDispatched int
	FirstOpening    int
	LastClosing     *int
}

// PartUsage is the number of units of a part that left stock in a range.
type PartUsage struct {
	PartID     uuid.UUID
	PartName   string
	PartNumber string
	Count      int
}

// OperatorStats aggregates the sessions one operator ran in a range.
type OperatorStats struct {
	OperatorID      uuid.UUID
	OperatorName    string
	OperatorEmail   string
	Active          int
	Completed       int
	Cancelled       int
	TotalScanned    int
	SuccessfulScans int
	UnexpectedScans int
	DuplicateScans  int
}

// Reconciliation compares the ledger's running stock with a live count of
// IN_STOCK units. A non-zero Drift is the input for a forced resync.
type Reconciliation struct {
	Date        time.Time
	LedgerStock int
	LiveStock   int
	Drift       int
	CheckedAt   time.Time
}
