package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/aerotrack/partledger/pkg/ctxutil"
)

// writeError writes the same JSON error body the REST handlers use.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	body := map[string]string{"error": message, "code": code}
	if id := ctxutil.RequestIDFromCtx(r.Context()); id != "" {
		body["request_id"] = id
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}
