package domain

import "strings"

// ItemStatus is the canonical lifecycle status of a serialized inventory unit.
type ItemStatus string

const (
	ItemStatusValidated  ItemStatus = "VALIDATED"
	ItemStatusInStock    ItemStatus = "IN_STOCK"
	ItemStatusUsed       ItemStatus = "USED"
	ItemStatusDispatched ItemStatus = "DISPATCHED"
)

func (s ItemStatus) String() string { return string(s) }

func (s ItemStatus) IsValid() bool {
	switch s {
	case ItemStatusValidated, ItemStatusInStock, ItemStatusUsed, ItemStatusDispatched:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is possible from s.
func (s ItemStatus) IsTerminal() bool {
	return s == ItemStatusUsed || s == ItemStatusDispatched
}

// External returns the lowercase wire form used by scanners and the UI
// ("validated", "in-stock", "used", "dispatched").
func (s ItemStatus) External() string {
	return strings.ReplaceAll(strings.ToLower(string(s)), "_", "-")
}

// ParseItemStatus maps any external spelling of a status to the canonical
// enum. Matching ignores case and treats '-', '_' and ' ' as equivalent, so
// "in-stock", "In Stock" and "IN_STOCK" are the same value, as are "used" and
// "Used". "dispatched" and "used" stay distinct statuses.
func ParseItemStatus(raw string) (ItemStatus, bool) {
	norm := strings.ToUpper(strings.TrimSpace(raw))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)
	switch norm {
	case "VALIDATED", "QC_PASSED":
		return ItemStatusValidated, true
	case "IN_STOCK", "INSTOCK", "STOCKED":
		return ItemStatusInStock, true
	case "USED", "CONSUMED":
		return ItemStatusUsed, true
	case "DISPATCHED", "SENT":
		return ItemStatusDispatched, true
	}
	return "", false
}

var itemPredecessors = map[ItemStatus][]ItemStatus{
	ItemStatusValidated:  nil,
	ItemStatusInStock:    {ItemStatusValidated},
	ItemStatusUsed:       {ItemStatusValidated, ItemStatusInStock},
	ItemStatusDispatched: {ItemStatusValidated, ItemStatusInStock},
}

// CanTransition reports whether an item in status from may move to status to.
func CanTransition(from, to ItemStatus) bool {
	for _, p := range itemPredecessors[to] {
		if p == from {
			return true
		}
	}
	return false
}

// IsInitialStatus reports whether a unit may be registered directly in s.
func IsInitialStatus(s ItemStatus) bool {
	return s == ItemStatusValidated || s == ItemStatusInStock
}

// LedgerEffect returns the ledger counter a transition from -> to feeds.
// Entering IN_STOCK adds a unit; leaving IN_STOCK for USED or DISPATCHED
// dispatches one. from is empty for a fresh registration.
func LedgerEffect(from, to ItemStatus) (LedgerEntryKind, bool) {
	switch {
	case to == ItemStatusInStock && from != ItemStatusInStock:
		return LedgerEntryAdded, true
	case from == ItemStatusInStock && to.IsTerminal():
		return LedgerEntryDispatched, true
	}
	return "", false
}

// OperationType is the kind of work a scanning session performs.
type OperationType string

const (
	OperationQCValidation OperationType = "QC_VALIDATION"
	OperationStoreInward  OperationType = "STORE_INWARD"
	OperationStoreOutward OperationType = "STORE_OUTWARD"
)

func (o OperationType) String() string { return string(o) }

func (o OperationType) IsValid() bool {
	switch o {
	case OperationQCValidation, OperationStoreInward, OperationStoreOutward:
		return true
	}
	return false
}

// ParseOperationType accepts "qc_validation", "store-inward", "STORE_OUTWARD"
// and similar spellings.
func ParseOperationType(raw string) (OperationType, bool) {
	norm := strings.ToUpper(strings.TrimSpace(raw))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)
	op := OperationType(norm)
	return op, op.IsValid()
}

// TargetStatus returns the inventory status a successful scan moves a unit to.
func (o OperationType) TargetStatus() ItemStatus {
	switch o {
	case OperationQCValidation:
		return ItemStatusValidated
	case OperationStoreInward:
		return ItemStatusInStock
	case OperationStoreOutward:
		return ItemStatusDispatched
	}
	return ""
}

// SessionStatus is the lifecycle status of a scanning session.
type SessionStatus string

const (
	SessionStatusActive    SessionStatus = "ACTIVE"
	SessionStatusCompleted SessionStatus = "COMPLETED"
	SessionStatusCancelled SessionStatus = "CANCELLED"
)

func (s SessionStatus) String() string { return string(s) }

func (s SessionStatus) IsValid() bool {
	switch s {
	case SessionStatusActive, SessionStatusCompleted, SessionStatusCancelled:
		return true
	}
	return false
}

// LedgerEntryKind identifies which ledger counter a quantity change feeds.
type LedgerEntryKind string

const (
	LedgerEntryAdded      LedgerEntryKind = "ADDED"
	LedgerEntryDispatched LedgerEntryKind = "DISPATCHED"
	LedgerEntryResync     LedgerEntryKind = "RESYNC"
)

func (k LedgerEntryKind) String() string { return string(k) }

// IsValid reports whether k can be passed to AddQuantity. RESYNC is written
// only by the recovery path.
func (k LedgerEntryKind) IsValid() bool {
	return k == LedgerEntryAdded || k == LedgerEntryDispatched
}

// JobCardKind distinguishes work-order references from DNS serial references.
type JobCardKind string

const (
	JobCardKindJobCard JobCardKind = "JOB_CARD"
	JobCardKindDNS     JobCardKind = "DNS"
)

func (k JobCardKind) IsValid() bool {
	return k == JobCardKindJobCard || k == JobCardKindDNS
}
