package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/aerotrack/partledger/internal/domain"
	"github.com/aerotrack/partledger/internal/service/inventory"
)

type inventoryService interface {
	Register(ctx context.Context, input inventory.RegisterInput) (*domain.InventoryItem, error)
	Transition(ctx context.Context, input inventory.TransitionInput) (*inventory.TransitionResult, error)
	Get(ctx context.Context, itemID string) (*domain.InventoryItem, error)
	ListByPart(ctx context.Context, partID uuid.UUID) ([]domain.InventoryItem, error)
	History(ctx context.Context, itemID string) ([]domain.ItemEvent, error)
}

// ItemHandler serves inventory unit endpoints.
type ItemHandler struct {
	svc inventoryService
	log *slog.Logger
}

// NewItemHandler creates an ItemHandler.
func NewItemHandler(svc inventoryService, logger *slog.Logger) *ItemHandler {
	return &ItemHandler{svc: svc, log: logger.With("handler", "items")}
}

type registerItemRequest struct {
	ItemID       string  `json:"item_id"`
	Status       string  `json:"status"`
	SerialNumber *string `json:"serial_number"`
}

// Register creates a unit of a part. Status accepts any external spelling
// ("validated", "in-stock", "IN_STOCK") and defaults to validated.
// POST /parts/{partID}/items
func (h *ItemHandler) Register(w http.ResponseWriter, r *http.Request) {
	partID, ok := h.partID(w, r)
	if !ok {
		return
	}
	var req registerItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(h.log, w, r, err)
		return
	}

	status := domain.ItemStatusValidated
	if req.Status != "" {
		parsed, ok := domain.ParseItemStatus(req.Status)
		if !ok {
			handleError(h.log, w, r, domain.NewValidationError("status", "unknown status"))
			return
		}
		status = parsed
	}

	item, err := h.svc.Register(r.Context(), inventory.RegisterInput{
		PartID:       partID,
		ItemID:       req.ItemID,
		Status:       status,
		SerialNumber: req.SerialNumber,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toItemResponse(item))
}

// List returns every unit of a part.
// GET /parts/{partID}/items
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	partID, ok := h.partID(w, r)
	if !ok {
		return
	}
	items, err := h.svc.ListByPart(r.Context(), partID)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	out := make([]itemResponse, len(items))
	for i := range items {
		out[i] = toItemResponse(&items[i])
	}
	writeJSON(w, http.StatusOK, out)
}

// Get looks a unit up by its scanned code.
// GET /items/{itemID}
func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := h.svc.Get(r.Context(), r.PathValue("itemID"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemResponse(item))
}

// History lists the status changes of a unit, oldest first.
// GET /items/{itemID}/history
func (h *ItemHandler) History(w http.ResponseWriter, r *http.Request) {
	events, err := h.svc.History(r.Context(), r.PathValue("itemID"))
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	out := make([]itemEventResponse, len(events))
	for i, e := range events {
		out[i] = itemEventResponse{
			From:      externalStatus(e.From),
			To:        e.To.External(),
			ChangedAt: e.ChangedAt,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

type transitionRequest struct {
	Status string `json:"status"`
}

// Transition moves a unit to a new status.
// POST /parts/{partID}/items/{itemID}/transition
func (h *ItemHandler) Transition(w http.ResponseWriter, r *http.Request) {
	partID, ok := h.partID(w, r)
	if !ok {
		return
	}
	var req transitionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(h.log, w, r, err)
		return
	}
	target, ok := domain.ParseItemStatus(req.Status)
	if !ok {
		handleError(h.log, w, r, domain.NewValidationError("status", "unknown status"))
		return
	}

	res, err := h.svc.Transition(r.Context(), inventory.TransitionInput{
		PartID: partID,
		ItemID: r.PathValue("itemID"),
		Target: target,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, transitionResponse{
		Item:           toItemResponse(res.Item),
		PreviousStatus: res.Previous.External(),
	})
}

func (h *ItemHandler) partID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("partID"))
	if err != nil {
		handleError(h.log, w, r, domain.NewValidationError("part_id", "must be a UUID"))
		return uuid.Nil, false
	}
	return id, true
}
