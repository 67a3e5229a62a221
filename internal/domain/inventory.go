package domain

import (
	"time"

	"github.com/google/uuid"
)

// Part is the catalog identity a serialized unit belongs to.
type Part struct {
	ID        uuid.UUID
	Name      string
	Number    string
	CreatedAt time.Time
}

// InventoryItem is one physical unit identified by the code scanned off it.
type InventoryItem struct {
	ID              string
	PartID          uuid.UUID
	Status          ItemStatus
	StatusChangedAt time.Time
	SerialNumber    *string
	CreatedAt       time.Time
}

// ItemEvent is one recorded status change of an item. From is empty for the
// registration event.
type ItemEvent struct {
	ItemID    string
	PartID    uuid.UUID
	From      ItemStatus
	To        ItemStatus
	ChangedAt time.Time
}

// Operator is an already-authenticated person running scans.
type Operator struct {
	ID    uuid.UUID
	Name  string
	Email string
	Role  string
}

// IsAdmin reports whether the operator may run administrative ledger actions.
func (o Operator) IsAdmin() bool { return o.Role == "admin" }

// JobCard is an external work-order or DNS reference a session is bound to.
type JobCard struct {
	Identifier string
	Kind       JobCardKind
	Title      string
	UsageCount int
	CreatedAt  time.Time
}
