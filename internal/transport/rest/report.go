package rest

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/aerotrack/partledger/internal/domain"
	"github.com/aerotrack/partledger/internal/service/report"
)

const (
	defaultReportDays = 30
	xlsxContentType   = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type reportService interface {
	Today() time.Time
	PartAvailability(ctx context.Context) ([]domain.PartAvailability, error)
	LedgerSummary(ctx context.Context, r domain.DateRange) (*domain.LedgerSummary, error)
	TopUsedParts(ctx context.Context, input report.TopPartsInput) ([]domain.PartUsage, error)
	OperatorStats(ctx context.Context, r domain.DateRange) ([]domain.OperatorStats, error)
	Reconcile(ctx context.Context) (*domain.Reconciliation, error)
	ExportLedgerXLSX(ctx context.Context, r domain.DateRange, w io.Writer) error
}

// ReportHandler serves read-only statistics endpoints.
type ReportHandler struct {
	svc reportService
	log *slog.Logger
}

// NewReportHandler creates a ReportHandler.
func NewReportHandler(svc reportService, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{svc: svc, log: logger.With("handler", "reports")}
}

type availabilityResponse struct {
	PartID     string `json:"part_id"`
	PartName   string `json:"part_name"`
	PartNumber string `json:"part_number"`
	Validated  int    `json:"validated"`
	InStock    int    `json:"in_stock"`
	Used       int    `json:"used"`
	Dispatched int    `json:"dispatched"`
	Available  int    `json:"available"`
}

// Availability returns unit counts per part and status.
// GET /reports/availability
func (h *ReportHandler) Availability(w http.ResponseWriter, r *http.Request) {
	rows, err := h.svc.PartAvailability(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	out := make([]availabilityResponse, len(rows))
	for i, a := range rows {
		out[i] = availabilityResponse{
			PartID:     a.PartID.String(),
			PartName:   a.PartName,
			PartNumber: a.PartNumber,
			Validated:  a.Validated,
			InStock:    a.InStock,
			Used:       a.Used,
			Dispatched: a.Dispatched,
			Available:  a.Available(),
		}
	}
	writeJSON(w, http.StatusOK, out)
}

type ledgerSummaryResponse struct {
	From            string           `json:"from"`
	To              string           `json:"to"`
	Days            []ledgerResponse `json:"days"`
	TotalAdded      int              `json:"total_added"`
	TotalDispatched int              `json:"total_dispatched"`
	FirstOpening    int              `json:"first_opening"`
	LastClosing     *int             `json:"last_closing"`
}

// Ledger returns the per-day ledger rows of a range with totals.
// GET /reports/ledger?from=&to=
func (h *ReportHandler) Ledger(w http.ResponseWriter, r *http.Request) {
	rng, ok := h.dateRange(w, r)
	if !ok {
		return
	}
	sum, err := h.svc.LedgerSummary(r.Context(), rng)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ledgerSummaryResponse{
		From:            sum.From.Format(domain.DateLayout),
		To:              sum.To.Format(domain.DateLayout),
		Days:            toLedgerList(sum.Days),
		TotalAdded:      sum.TotalAdded,
		TotalDispatched: sum.TotalDispatched,
		FirstOpening:    sum.FirstOpening,
		LastClosing:     sum.LastClosing,
	})
}

// LedgerXLSX downloads the ledger summary as a workbook. The workbook is
// built in memory first so a failure still gets a JSON error response.
// GET /reports/ledger.xlsx?from=&to=
func (h *ReportHandler) LedgerXLSX(w http.ResponseWriter, r *http.Request) {
	rng, ok := h.dateRange(w, r)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := h.svc.ExportLedgerXLSX(r.Context(), rng, &buf); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	name := "ledger_" + rng.From.Format(domain.DateLayout) + "_" + rng.To.Format(domain.DateLayout) + ".xlsx"
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w) //nolint:errcheck
}

type partUsageResponse struct {
	PartID     string `json:"part_id"`
	PartName   string `json:"part_name"`
	PartNumber string `json:"part_number"`
	Count      int    `json:"count"`
}

// TopParts returns the parts that left stock most often in a range.
// GET /reports/top-parts?from=&to=&limit=10
func (h *ReportHandler) TopParts(w http.ResponseWriter, r *http.Request) {
	rng, ok := h.dateRange(w, r)
	if !ok {
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	rows, err := h.svc.TopUsedParts(r.Context(), report.TopPartsInput{Range: rng, Limit: limit})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	out := make([]partUsageResponse, len(rows))
	for i, u := range rows {
		out[i] = partUsageResponse{
			PartID:     u.PartID.String(),
			PartName:   u.PartName,
			PartNumber: u.PartNumber,
			Count:      u.Count,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

type operatorStatsResponse struct {
	OperatorID      string `json:"operator_id"`
	OperatorName    string `json:"operator_name"`
	OperatorEmail   string `json:"operator_email"`
	Active          int    `json:"active"`
	Completed       int    `json:"completed"`
	Cancelled       int    `json:"cancelled"`
	TotalScanned    int    `json:"total_scanned"`
	SuccessfulScans int    `json:"successful_scans"`
	UnexpectedScans int    `json:"unexpected_scans"`
	DuplicateScans  int    `json:"duplicate_scans"`
}

// Operators returns per-operator session statistics of a range.
// GET /reports/operators?from=&to=
func (h *ReportHandler) Operators(w http.ResponseWriter, r *http.Request) {
	rng, ok := h.dateRange(w, r)
	if !ok {
		return
	}
	rows, err := h.svc.OperatorStats(r.Context(), rng)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	out := make([]operatorStatsResponse, len(rows))
	for i, s := range rows {
		out[i] = operatorStatsResponse{
			OperatorID:      s.OperatorID.String(),
			OperatorName:    s.OperatorName,
			OperatorEmail:   s.OperatorEmail,
			Active:          s.Active,
			Completed:       s.Completed,
			Cancelled:       s.Cancelled,
			TotalScanned:    s.TotalScanned,
			SuccessfulScans: s.SuccessfulScans,
			UnexpectedScans: s.UnexpectedScans,
			DuplicateScans:  s.DuplicateScans,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

type reconciliationResponse struct {
	Date        string    `json:"date"`
	LedgerStock int       `json:"ledger_stock"`
	LiveStock   int       `json:"live_stock"`
	Drift       int       `json:"drift"`
	InSync      bool      `json:"in_sync"`
	CheckedAt   time.Time `json:"checked_at"`
}

// Reconcile compares today's ledger with a live stock count.
// GET /reports/reconcile
func (h *ReportHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.Reconcile(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reconciliationResponse{
		Date:        rec.Date.Format(domain.DateLayout),
		LedgerStock: rec.LedgerStock,
		LiveStock:   rec.LiveStock,
		Drift:       rec.Drift,
		InSync:      rec.Drift == 0,
		CheckedAt:   rec.CheckedAt,
	})
}

func (h *ReportHandler) dateRange(w http.ResponseWriter, r *http.Request) (domain.DateRange, bool) {
	rng, err := dateRange(r, h.svc.Today(), defaultReportDays)
	if err != nil {
		handleError(h.log, w, r, err)
		return domain.DateRange{}, false
	}
	return rng, true
}
