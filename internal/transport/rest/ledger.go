package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/aerotrack/partledger/internal/domain"
	"github.com/aerotrack/partledger/internal/service/ledger"
)

const defaultLedgerDays = 7

type ledgerService interface {
	Today() time.Time
	GetToday(ctx context.Context) (*domain.DailyLedger, error)
	GetByDate(ctx context.Context, date time.Time) (*domain.DailyLedger, error)
	ListRange(ctx context.Context, r domain.DateRange) ([]domain.DailyLedger, error)
	Adjustments(ctx context.Context, date time.Time) ([]domain.LedgerAdjustment, error)
	OpenDay(ctx context.Context) (*domain.DailyLedger, bool, error)
	CloseDay(ctx context.Context) (*domain.DailyLedger, bool, error)
	ForceResync(ctx context.Context, input ledger.ResyncInput) (*domain.DailyLedger, error)
}

// LedgerHandler serves daily ledger endpoints.
type LedgerHandler struct {
	svc ledgerService
	log *slog.Logger
}

// NewLedgerHandler creates a LedgerHandler.
func NewLedgerHandler(svc ledgerService, logger *slog.Logger) *LedgerHandler {
	return &LedgerHandler{svc: svc, log: logger.With("handler", "ledger")}
}

// Today returns today's ledger. It does not create one.
// GET /ledger/today
func (h *LedgerHandler) Today(w http.ResponseWriter, r *http.Request) {
	l, err := h.svc.GetToday(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toLedgerResponse(l))
}

// List returns the ledgers of a date range, the last week by default.
// GET /ledger?from=2026-10-01&to=2026-10-15
func (h *LedgerHandler) List(w http.ResponseWriter, r *http.Request) {
	rng, err := dateRange(r, h.svc.Today(), defaultLedgerDays)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	days, err := h.svc.ListRange(r.Context(), rng)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toLedgerList(days))
}

// Get returns one day's ledger.
// GET /ledger/{date}
func (h *LedgerHandler) Get(w http.ResponseWriter, r *http.Request) {
	date, ok := h.pathDate(w, r)
	if !ok {
		return
	}
	l, err := h.svc.GetByDate(r.Context(), date)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toLedgerResponse(l))
}

// Adjustments returns a day's audit trail.
// GET /ledger/{date}/adjustments
func (h *LedgerHandler) Adjustments(w http.ResponseWriter, r *http.Request) {
	date, ok := h.pathDate(w, r)
	if !ok {
		return
	}
	adj, err := h.svc.Adjustments(r.Context(), date)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toAdjustmentList(adj))
}

// Open runs the open-day rollover now.
// POST /admin/ledger/open
func (h *LedgerHandler) Open(w http.ResponseWriter, r *http.Request) {
	h.rollover(w, r, h.svc.OpenDay)
}

// Close runs the close-day rollover now.
// POST /admin/ledger/close
func (h *LedgerHandler) Close(w http.ResponseWriter, r *http.Request) {
	h.rollover(w, r, h.svc.CloseDay)
}

func (h *LedgerHandler) rollover(w http.ResponseWriter, r *http.Request, run func(context.Context) (*domain.DailyLedger, bool, error)) {
	l, changed, err := run(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rolloverResponse{Ledger: toLedgerResponse(l), Changed: changed})
}

type resyncRequest struct {
	Reason string `json:"reason"`
}

// Resync rebuilds today's ledger from a live stock count.
// POST /admin/ledger/resync
func (h *LedgerHandler) Resync(w http.ResponseWriter, r *http.Request) {
	var req resyncRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	l, err := h.svc.ForceResync(r.Context(), ledger.ResyncInput{Reason: req.Reason})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toLedgerResponse(l))
}

func (h *LedgerHandler) pathDate(w http.ResponseWriter, r *http.Request) (time.Time, bool) {
	date, err := domain.ParseDate(r.PathValue("date"))
	if err != nil {
		handleError(h.log, w, r, domain.NewValidationError("date", "must be "+domain.DateLayout))
		return time.Time{}, false
	}
	return date, true
}
