package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/aerotrack/partledger/internal/config"
)

// originSet matches request origins case-insensitively; "*" admits any.
type originSet struct {
	any     bool
	origins map[string]struct{}
}

func newOriginSet(raw string) originSet {
	set := originSet{origins: make(map[string]struct{})}
	for _, o := range strings.Split(raw, ",") {
		switch o = strings.ToLower(strings.TrimSpace(o)); o {
		case "":
		case "*":
			set.any = true
		default:
			set.origins[o] = struct{}{}
		}
	}
	return set
}

func (s originSet) allows(origin string) bool {
	if s.any {
		return true
	}
	_, ok := s.origins[strings.ToLower(origin)]
	return ok
}

// CORS answers preflight requests from the operator UI and decorates
// responses for allowed origins. The request id and Retry-After headers are
// exposed so the UI can show them on errors.
func CORS(cfg config.CORSConfig) Middleware {
	allowed := newOriginSet(cfg.AllowedOrigins)
	maxAge := strconv.Itoa(cfg.MaxAge)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Add("Vary", "Origin")

			if origin := r.Header.Get("Origin"); origin != "" && allowed.allows(origin) {
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Expose-Headers", RequestIDHeader+", Retry-After")
				if cfg.AllowCredentials {
					h.Set("Access-Control-Allow-Credentials", "true")
				}
			}

			preflight := r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != ""
			if !preflight {
				next.ServeHTTP(w, r)
				return
			}
			h.Set("Access-Control-Allow-Methods", cfg.AllowedMethods)
			h.Set("Access-Control-Allow-Headers", cfg.AllowedHeaders)
			h.Set("Access-Control-Max-Age", maxAge)
			w.WriteHeader(http.StatusNoContent)
		})
	}
}
