package middleware

import (
	"net/http"
	"os"
	"strings"
)

// corsAllowlist resolves ALLOWED_ORIGINS into an origin set. An empty or
// unset variable falls back to the wildcard, which suits local development;
// deployments list their frontends explicitly.
func corsAllowlist() (map[string]struct{}, bool) {
	raw := os.Getenv("ALLOWED_ORIGINS")
	if raw == "" {
		return nil, true
	}

	allowlist := make(map[string]struct{})
	wildcard := false
	for _, origin := range strings.Split(raw, ",") {
		origin = strings.TrimSpace(origin)
		if origin == "*" {
			wildcard = true
			continue
		}
		if origin != "" {
			allowlist[origin] = struct{}{}
		}
	}
	return allowlist, wildcard
}

// CORSMiddleware answers preflight requests and reflects allowed origins.
func CORSMiddleware(next http.Handler) http.Handler {
	allowlist, wildcard := corsAllowlist()

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := r.Header.Get("Origin"); origin != "" {
			switch {
			case wildcard:
				w.Header().Set("Access-Control-Allow-Origin", "*")
			default:
				if _, ok := allowlist[origin]; ok {
					w.Header().Set("Access-Control-Allow-Origin", origin)
					w.Header().Add("Vary", "Origin")
				}
			}
		}

		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
