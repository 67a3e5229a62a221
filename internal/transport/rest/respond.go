package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aerotrack/partledger/internal/domain"
	"github.com/aerotrack/partledger/pkg/ctxutil"
)

const maxBodyBytes = 1 << 20

// errorBody is the JSON error shape shared with the middleware package.
type errorBody struct {
	Error     string              `json:"error"`
	Code      string              `json:"code"`
	RequestID string              `json:"request_id,omitempty"`
	Fields    []domain.FieldError `json:"fields,omitempty"`
	Item      *statusConflictBody `json:"item,omitempty"`
}

type statusConflictBody struct {
	ID      string `json:"id"`
	Current string `json:"current"`
	Target  string `json:"target"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	writeJSON(w, status, errorBody{
		Error:     message,
		Code:      code,
		RequestID: ctxutil.RequestIDFromCtx(r.Context()),
	})
}

// handleError maps a service error to an HTTP response. Unexpected errors
// are logged and hidden from the client.
func handleError(log *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	body := errorBody{RequestID: ctxutil.RequestIDFromCtx(r.Context())}
	status := http.StatusInternalServerError

	var (
		verr *domain.ValidationError
		serr *domain.StatusConflictError
	)
	switch {
	case errors.As(err, &verr):
		status, body.Code, body.Error = http.StatusBadRequest, "VALIDATION", "validation failed"
		body.Fields = verr.Errors
	case errors.Is(err, domain.ErrNotFound):
		status, body.Code, body.Error = http.StatusNotFound, "NOT_FOUND", err.Error()
	case errors.Is(err, domain.ErrUnauthorized):
		status, body.Code, body.Error = http.StatusUnauthorized, "UNAUTHENTICATED", "authentication required"
	case errors.Is(err, domain.ErrForbidden):
		status, body.Code, body.Error = http.StatusForbidden, "FORBIDDEN", "access denied"
	case errors.Is(err, domain.ErrDuplicateScan):
		status, body.Code, body.Error = http.StatusConflict, "DUPLICATE_SCAN", "code already scanned in this session"
	case errors.Is(err, domain.ErrInsufficientStock):
		status, body.Code, body.Error = http.StatusUnprocessableEntity, "INSUFFICIENT_STOCK", err.Error()
	case errors.As(err, &serr):
		status, body.Code, body.Error = http.StatusConflict, "STATUS_CONFLICT", err.Error()
		body.Item = &statusConflictBody{ID: serr.ItemID, Current: serr.Current.String(), Target: serr.Target.String()}
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrAlreadyExists):
		status, body.Code, body.Error = http.StatusConflict, "CONFLICT", err.Error()
	default:
		log.ErrorContext(r.Context(), "internal error",
			slog.String("error", err.Error()),
			slog.String("path", r.URL.Path),
		)
		body.Code, body.Error = "INTERNAL", "internal server error"
	}

	writeJSON(w, status, body)
}

// decodeJSON reads a bounded JSON body into v. Unknown fields are
// rejected so typos in field names do not pass silently.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	return decode(w, r, v, false)
}

// decodeOptionalJSON is decodeJSON for endpoints whose body may be empty.
func decodeOptionalJSON(w http.ResponseWriter, r *http.Request, v any) error {
	return decode(w, r, v, true)
}

func decode(w http.ResponseWriter, r *http.Request, v any, optional bool) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	err := dec.Decode(v)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, io.EOF) && optional:
		return nil
	case errors.Is(err, io.EOF):
		return domain.NewValidationError("body", "required")
	}
	return domain.NewValidationError("body", "malformed JSON: "+err.Error())
}

func queryInt(r *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.NewValidationError(name, "must be an integer")
	}
	return n, nil
}

// dateRange reads ?from=&to= as YYYY-MM-DD. A missing bound defaults to
// today, and a missing from also covers the previous defaultDays-1 days.
func dateRange(r *http.Request, today time.Time, defaultDays int) (domain.DateRange, error) {
	q := r.URL.Query()
	rng := domain.DateRange{To: today, From: today.AddDate(0, 0, -(defaultDays - 1))}

	var errs []domain.FieldError
	if raw := q.Get("to"); raw != "" {
		d, err := domain.ParseDate(raw)
		if err != nil {
			errs = append(errs, domain.FieldError{Field: "to", Message: fmt.Sprintf("must be %s", domain.DateLayout)})
		}
		rng.To = d
	}
	if raw := q.Get("from"); raw != "" {
		d, err := domain.ParseDate(raw)
		if err != nil {
			errs = append(errs, domain.FieldError{Field: "from", Message: fmt.Sprintf("must be %s", domain.DateLayout)})
		}
		rng.From = d
	} else if q.Get("to") != "" {
		rng.From = rng.To.AddDate(0, 0, -(defaultDays - 1))
	}
	if len(errs) > 0 {
		return domain.DateRange{}, domain.NewValidationErrors(errs)
	}
	return rng, nil
}
