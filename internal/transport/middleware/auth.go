package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/aerotrack/partledger/pkg/ctxutil"
)

// TokenQueryParam carries the access token on WebSocket upgrades, where
// browsers and scanner firmware cannot set an Authorization header.
const TokenQueryParam = "access_token"

type tokenValidator interface {
	ValidateToken(ctx context.Context, token string) (ctxutil.Identity, error)
}

// Auth resolves the access token into an operator identity. Requests without
// a token pass through anonymously; RequireAuth rejects them where needed.
func Auth(validator tokenValidator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}
			id, err := validator.ValidateToken(r.Context(), token)
			if err != nil {
				writeError(w, r, http.StatusUnauthorized, "UNAUTHENTICATED", "invalid or expired token")
				return
			}
			ctx := ctxutil.WithIdentity(r.Context(), id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects anonymous requests.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := ctxutil.IdentityFromCtx(r.Context()); !ok {
			writeError(w, r, http.StatusUnauthorized, "UNAUTHENTICATED", "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func extractToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if scheme, token, ok := strings.Cut(auth, " "); ok && strings.EqualFold(scheme, "Bearer") {
		return strings.TrimSpace(token)
	}
	return r.URL.Query().Get(TokenQueryParam)
}
