package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/kasamira/Pantryrecipediscoverydesign/backend/internal/infrastructure/observability"
)

// LoggingMiddleware logs HTTP requests with a per-request id. The id is
// echoed back in X-Request-ID so clients can quote it in reports.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", requestID)

		recorder := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(recorder, r)

		// The observability middleware wraps this one, so the request context
		// already carries the active span; the log line picks up its ids.
		observability.LoggerFromContext(r.Context()).Info().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.statusCode).
			Dur("duration", time.Since(start)).
			Str("remote_addr", r.RemoteAddr).
			Msg("request")
	})
}
