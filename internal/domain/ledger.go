package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the textual form of a ledger date.
const DateLayout = "2006-01-02"

// DailyLedger is the stock accounting record of one calendar day.
// CurrentStock always equals OpeningStock + PartsAdded - PartsDispatched.
type DailyLedger struct {
	Date            time.Time
	OpeningStock    int
	ClosingStock    *int
	CurrentStock    int
	PartsAdded      int
	PartsDispatched int
	IsOpened        bool
	IsClosed        bool
	OpenedAt        *time.Time
	ClosedAt        *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewDailyLedger returns an empty ledger for date seeded with opening stock.
func NewDailyLedger(date time.Time, opening int) DailyLedger {
	return DailyLedger{
		Date:         date,
		OpeningStock: opening,
		CurrentStock: opening,
	}
}

// DateString returns the ledger date as YYYY-MM-DD.
func (l *DailyLedger) DateString() string { return l.Date.Format(DateLayout) }

// CheckInvariant verifies the counter identity and non-negative stock.
func (l *DailyLedger) CheckInvariant() error {
	if l.CurrentStock != l.OpeningStock+l.PartsAdded-l.PartsDispatched {
		return fmt.Errorf("ledger %s: current %d != opening %d + added %d - dispatched %d",
			l.DateString(), l.CurrentStock, l.OpeningStock, l.PartsAdded, l.PartsDispatched)
	}
	if l.CurrentStock < 0 {
		return fmt.Errorf("ledger %s: negative stock %d", l.DateString(), l.CurrentStock)
	}
	return nil
}

// Apply adds |delta| units to the counter selected by kind and recomputes
// CurrentStock. The direction comes from kind alone, so (-5, DISPATCHED) and
// (5, DISPATCHED) are the same change. Nothing is modified when an error is
// returned.
func (l *DailyLedger) Apply(kind LedgerEntryKind, delta int) error {
	if delta < 0 {
		delta = -delta
	}
	if delta == 0 {
		return NewValidationError("delta", "must not be zero")
	}
	if !kind.IsValid() {
		return NewValidationError("kind", "must be ADDED or DISPATCHED")
	}
	if l.IsClosed {
		return &LedgerClosedError{Date: l.DateString()}
	}

	added, dispatched := l.PartsAdded, l.PartsDispatched
	switch kind {
	case LedgerEntryAdded:
		added += delta
	case LedgerEntryDispatched:
		dispatched += delta
	}

	current := l.OpeningStock + added - dispatched
	if current < 0 {
		return fmt.Errorf("ledger %s: dispatch %d with %d in stock: %w",
			l.DateString(), delta, l.CurrentStock, ErrInsufficientStock)
	}

	l.PartsAdded = added
	l.PartsDispatched = dispatched
	l.CurrentStock = current
	return nil
}

// Open marks the day opened. It reports false when the day was already open.
func (l *DailyLedger) Open(now time.Time) bool {
	if l.IsOpened {
		return false
	}
	l.IsOpened = true
	l.OpenedAt = &now
	return true
}

// Close freezes ClosingStock at the current stock. It reports false when
// the day was already closed.
func (l *DailyLedger) Close(now time.Time) bool {
	if l.IsClosed {
		return false
	}
	closing := l.CurrentStock
	l.ClosingStock = &closing
	l.IsClosed = true
	l.ClosedAt = &now
	return true
}

// CarryOver returns the stock the next day should open with.
func (l *DailyLedger) CarryOver() int {
	if l.ClosingStock != nil {
		return *l.ClosingStock
	}
	return l.CurrentStock
}

// LedgerAdjustment is an append-only audit row describing one change applied
// to a daily ledger.
type LedgerAdjustment struct {
	ID        uuid.UUID
	Date      time.Time
	Kind      LedgerEntryKind
	Delta     int
	ItemID    *string
	Reason    string
	CreatedAt time.Time
}

// BusinessDate returns the calendar date of now in loc, as midnight UTC so
// it maps 1:1 onto a DATE column.
func BusinessDate(now time.Time, loc *time.Location) time.Time {
	local := now.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD ledger date.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}
