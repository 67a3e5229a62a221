package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/aerotrack/partledger/pkg/ctxutil"
)

// RequestIDHeader is read from clients and echoed on every response.
const RequestIDHeader = "X-Request-Id"

const maxRequestIDLen = 64

// RequestID reuses a client-supplied request ID when it is short enough to
// log safely and generates one otherwise.
func RequestID() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if id == "" || len(id) > maxRequestIDLen {
				id = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, id)
			next.ServeHTTP(w, r.WithContext(ctxutil.WithRequestID(r.Context(), id)))
		})
	}
}
