package middleware

import (
	"context"
	"net/http"

	"github.com/aerotrack/partledger/internal/domain"
	"github.com/aerotrack/partledger/pkg/ctxutil"
)

// RequireAdmin returns domain.ErrForbidden if the context operator is not an
// admin. Use inside handlers; AdminOnly is the HTTP middleware form.
func RequireAdmin(ctx context.Context) error {
	if !ctxutil.IsAdminCtx(ctx) {
		return domain.ErrForbidden
	}
	return nil
}

// AdminOnly rejects requests from anonymous callers with 401 and from
// non-admin operators with 403.
func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := ctxutil.IdentityFromCtx(r.Context()); !ok {
			writeError(w, r, http.StatusUnauthorized, "UNAUTHENTICATED", "authentication required")
			return
		}
		if err := RequireAdmin(r.Context()); err != nil {
			writeError(w, r, http.StatusForbidden, "FORBIDDEN", "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
