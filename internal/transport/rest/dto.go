package rest

import (
	"time"

	"github.com/aerotrack/partledger/internal/domain"
)

type ledgerResponse struct {
	Date            string     `json:"date"`
	OpeningStock    int        `json:"opening_stock"`
	ClosingStock    *int       `json:"closing_stock"`
	CurrentStock    int        `json:"current_stock"`
	PartsAdded      int        `json:"parts_added"`
	PartsDispatched int        `json:"parts_dispatched"`
	IsOpened        bool       `json:"is_opened"`
	IsClosed        bool       `json:"is_closed"`
	OpenedAt        *time.Time `json:"opened_at,omitempty"`
	ClosedAt        *time.Time `json:"closed_at,omitempty"`
}

func toLedgerResponse(l *domain.DailyLedger) ledgerResponse {
	return ledgerResponse{
		Date:            l.DateString(),
		OpeningStock:    l.OpeningStock,
		ClosingStock:    l.ClosingStock,
		CurrentStock:    l.CurrentStock,
		PartsAdded:      l.PartsAdded,
		PartsDispatched: l.PartsDispatched,
		IsOpened:        l.IsOpened,
		IsClosed:        l.IsClosed,
		OpenedAt:        l.OpenedAt,
		ClosedAt:        l.ClosedAt,
	}
}

func toLedgerList(days []domain.DailyLedger) []ledgerResponse {
	out := make([]ledgerResponse, len(days))
	for i := range days {
		out[i] = toLedgerResponse(&days[i])
	}
	return out
}

type rolloverResponse struct {
	Ledger  ledgerResponse `json:"ledger"`
	Changed bool           `json:"changed"`
}

type adjustmentResponse struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Delta     int       `json:"delta"`
	ItemID    *string   `json:"item_id,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toAdjustmentList(adj []domain.LedgerAdjustment) []adjustmentResponse {
	out := make([]adjustmentResponse, len(adj))
	for i, a := range adj {
		out[i] = adjustmentResponse{
			ID:        a.ID.String(),
			Kind:      a.Kind.String(),
			Delta:     a.Delta,
			ItemID:    a.ItemID,
			Reason:    a.Reason,
			CreatedAt: a.CreatedAt,
		}
	}
	return out
}

type operatorResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type expectedItemResponse struct {
	PartName     string `json:"part_name"`
	PartNumber   string `json:"part_number,omitempty"`
	Quantity     int    `json:"quantity"`
	ScannedCount int    `json:"scanned_count"`
}

// scannedItemResponse reports statuses in their external spelling.
type scannedItemResponse struct {
	QRID           string    `json:"qr_id"`
	PartName       string    `json:"part_name,omitempty"`
	PartNumber     string    `json:"part_number,omitempty"`
	SerialNumber   *string   `json:"serial_number,omitempty"`
	ScannedAt      time.Time `json:"scanned_at"`
	IsExpected     bool      `json:"is_expected"`
	Status         string    `json:"status,omitempty"`
	PreviousStatus string    `json:"previous_status,omitempty"`
	Message        string    `json:"message,omitempty"`
}

type statisticsResponse struct {
	TotalExpected        int     `json:"total_expected"`
	TotalScanned         int     `json:"total_scanned"`
	SuccessfulScans      int     `json:"successful_scans"`
	UnexpectedScans      int     `json:"unexpected_scans"`
	DuplicateScans       int     `json:"duplicate_scans"`
	CompletionPercentage float64 `json:"completion_percentage"`
}

type sessionResponse struct {
	ID            string                 `json:"id"`
	Operator      operatorResponse       `json:"operator"`
	OperationType string                 `json:"operation_type"`
	JobCardRef    string                 `json:"job_card_ref"`
	ExpectedItems []expectedItemResponse `json:"expected_items"`
	ScannedItems  []scannedItemResponse  `json:"scanned_items"`
	Statistics    statisticsResponse     `json:"statistics"`
	Status        string                 `json:"status"`
	StartedAt     time.Time              `json:"started_at"`
	EndedAt       *time.Time             `json:"ended_at,omitempty"`
	DurationMs    *int64                 `json:"duration_ms,omitempty"`
	Notes         string                 `json:"notes,omitempty"`
	CancelReason  string                 `json:"cancel_reason,omitempty"`
}

func externalStatus(s domain.ItemStatus) string {
	if s == "" {
		return ""
	}
	return s.External()
}

func toScannedItemResponse(it domain.ScannedItem) scannedItemResponse {
	return scannedItemResponse{
		QRID:           it.QRID,
		PartName:       it.PartName,
		PartNumber:     it.PartNumber,
		SerialNumber:   it.SerialNumber,
		ScannedAt:      it.ScannedAt,
		IsExpected:     it.IsExpected,
		Status:         externalStatus(it.Status),
		PreviousStatus: externalStatus(it.PreviousStatus),
		Message:        it.Message,
	}
}

func toSessionResponse(s *domain.ScanningSession) sessionResponse {
	expected := make([]expectedItemResponse, len(s.ExpectedItems))
	for i, e := range s.ExpectedItems {
		expected[i] = expectedItemResponse(e)
	}
	scanned := make([]scannedItemResponse, len(s.ScannedItems))
	for i, it := range s.ScannedItems {
		scanned[i] = toScannedItemResponse(it)
	}
	return sessionResponse{
		ID: s.ID.String(),
		Operator: operatorResponse{
			ID:    s.Operator.ID.String(),
			Name:  s.Operator.Name,
			Email: s.Operator.Email,
		},
		OperationType: s.OperationType.String(),
		JobCardRef:    s.JobCardRef,
		ExpectedItems: expected,
		ScannedItems:  scanned,
		Statistics:    statisticsResponse(s.Statistics),
		Status:        s.Status.String(),
		StartedAt:     s.StartedAt,
		EndedAt:       s.EndedAt,
		DurationMs:    s.DurationMs,
		Notes:         s.Notes,
		CancelReason:  s.CancelReason,
	}
}

type sessionListResponse struct {
	Sessions []sessionResponse `json:"sessions"`
	Total    int               `json:"total"`
}

type itemResponse struct {
	ID              string    `json:"id"`
	PartID          string    `json:"part_id"`
	Status          string    `json:"status"`
	StatusChangedAt time.Time `json:"status_changed_at"`
	SerialNumber    *string   `json:"serial_number,omitempty"`
}

func toItemResponse(it *domain.InventoryItem) itemResponse {
	return itemResponse{
		ID:              it.ID,
		PartID:          it.PartID.String(),
		Status:          it.Status.External(),
		StatusChangedAt: it.StatusChangedAt,
		SerialNumber:    it.SerialNumber,
	}
}

type itemEventResponse struct {
	From      string    `json:"from,omitempty"`
	To        string    `json:"to"`
	ChangedAt time.Time `json:"changed_at"`
}

type transitionResponse struct {
	Item           itemResponse `json:"item"`
	PreviousStatus string       `json:"previous_status"`
}
