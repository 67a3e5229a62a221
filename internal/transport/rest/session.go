package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/aerotrack/partledger/internal/domain"
	"github.com/aerotrack/partledger/internal/service/scanning"
	"github.com/aerotrack/partledger/pkg/ctxutil"
)

type scanningService interface {
	CreateSession(ctx context.Context, input scanning.CreateSessionInput) (*domain.ScanningSession, error)
	GetSession(ctx context.Context, id uuid.UUID) (*domain.ScanningSession, error)
	ListSessions(ctx context.Context, input scanning.ListSessionsInput) ([]domain.ScanningSession, int, error)
	AddScannedItem(ctx context.Context, sessionID uuid.UUID, payload scanning.ScanPayload) (*scanning.ScanResult, error)
	CompleteSession(ctx context.Context, id uuid.UUID, notes string) (*domain.ScanningSession, error)
	CancelSession(ctx context.Context, id uuid.UUID, reason string) (*domain.ScanningSession, error)
	AuthorizeSession(ctx context.Context, id uuid.UUID) (*domain.ScanningSession, error)
}

// SessionHandler serves scanning session endpoints.
type SessionHandler struct {
	svc scanningService
	log *slog.Logger
}

// NewSessionHandler creates a SessionHandler.
func NewSessionHandler(svc scanningService, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{svc: svc, log: logger.With("handler", "sessions")}
}

type expectedItemRequest struct {
	PartNumber string `json:"part_number"`
	PartName   string `json:"part_name"`
	Quantity   int    `json:"quantity"`
}

type createSessionRequest struct {
	OperationType string                `json:"operation_type"`
	JobCardRef    string                `json:"job_card_ref"`
	JobCardKind   string                `json:"job_card_kind"`
	ExpectedItems []expectedItemRequest `json:"expected_items"`
}

// Create starts a session for the calling operator.
// POST /sessions
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	input := scanning.CreateSessionInput{
		OperationType: req.OperationType,
		JobCardRef:    req.JobCardRef,
		JobCardKind:   domain.JobCardKind(req.JobCardKind),
		ExpectedItems: make([]scanning.ExpectedItemInput, len(req.ExpectedItems)),
	}
	for i, e := range req.ExpectedItems {
		input.ExpectedItems[i] = scanning.ExpectedItemInput(e)
	}

	s, err := h.svc.CreateSession(r.Context(), input)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toSessionResponse(s))
}

// Get returns one session.
// GET /sessions/{id}
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	s, err := h.svc.GetSession(r.Context(), id)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(s))
}

// List returns a page of sessions. Operators see their own sessions;
// admins see everyone's unless ?mine=true.
// GET /sessions?status=ACTIVE&operation_type=STORE_INWARD&limit=20&offset=0
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, err := queryInt(r, "limit")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	offset, err := queryInt(r, "offset")
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	input := scanning.ListSessionsInput{
		Status:        q.Get("status"),
		OperationType: q.Get("operation_type"),
		Limit:         limit,
		Offset:        offset,
	}
	if caller, ok := ctxutil.IdentityFromCtx(r.Context()); ok && (caller.Role != ctxutil.RoleAdmin || q.Get("mine") == "true") {
		input.OperatorID = &caller.ID
	}

	sessions, total, err := h.svc.ListSessions(r.Context(), input)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	resp := sessionListResponse{Sessions: make([]sessionResponse, len(sessions)), Total: total}
	for i := range sessions {
		resp.Sessions[i] = toSessionResponse(&sessions[i])
	}
	writeJSON(w, http.StatusOK, resp)
}

type scanRequest struct {
	QRID         string     `json:"qr_id"`
	PartName     string     `json:"part_name"`
	PartNumber   string     `json:"part_number"`
	SerialNumber *string    `json:"serial_number"`
	ScannedAt    *time.Time `json:"scanned_at"`
}

type scanResponse struct {
	Item      scannedItemResponse `json:"item"`
	Session   sessionResponse     `json:"session"`
	Duplicate bool                `json:"duplicate"`
}

// Scan records one scan. A repeated code is not an error for the scanner:
// it answers 200 with duplicate set and the session unchanged apart from
// its duplicate counter. Only the session's owner or an admin may scan.
// POST /sessions/{id}/scans
func (h *SessionHandler) Scan(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	if _, err := h.svc.AuthorizeSession(r.Context(), id); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	var req scanRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	payload := scanning.ScanPayload{
		QRID:         req.QRID,
		PartName:     req.PartName,
		PartNumber:   req.PartNumber,
		SerialNumber: req.SerialNumber,
	}
	if req.ScannedAt != nil {
		payload.ScannedAt = *req.ScannedAt
	}

	res, err := h.svc.AddScannedItem(r.Context(), id, payload)
	switch {
	case errors.Is(err, domain.ErrDuplicateScan) && res != nil:
		writeJSON(w, http.StatusOK, scanResponse{
			Item:      scannedItemResponse{QRID: req.QRID, PartName: req.PartName, PartNumber: req.PartNumber},
			Session:   toSessionResponse(res.Session),
			Duplicate: true,
		})
	case err != nil:
		handleError(h.log, w, r, err)
	default:
		writeJSON(w, http.StatusCreated, scanResponse{
			Item:    toScannedItemResponse(res.Item),
			Session: toSessionResponse(res.Session),
		})
	}
}

type endSessionRequest struct {
	Notes  string `json:"notes"`
	Reason string `json:"reason"`
}

// Complete ends a session as COMPLETED.
// POST /sessions/{id}/complete
func (h *SessionHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.end(w, r, func(ctx context.Context, id uuid.UUID, req endSessionRequest) (*domain.ScanningSession, error) {
		return h.svc.CompleteSession(ctx, id, req.Notes)
	})
}

// Cancel ends a session as CANCELLED.
// POST /sessions/{id}/cancel
func (h *SessionHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.end(w, r, func(ctx context.Context, id uuid.UUID, req endSessionRequest) (*domain.ScanningSession, error) {
		return h.svc.CancelSession(ctx, id, req.Reason)
	})
}

func (h *SessionHandler) end(w http.ResponseWriter, r *http.Request, fn func(context.Context, uuid.UUID, endSessionRequest) (*domain.ScanningSession, error)) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}
	var req endSessionRequest
	if err := decodeOptionalJSON(w, r, &req); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	s, err := fn(r.Context(), id, req)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSessionResponse(s))
}

func (h *SessionHandler) pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handleError(h.log, w, r, domain.NewValidationError("id", "must be a UUID"))
		return uuid.Nil, false
	}
	return id, true
}
