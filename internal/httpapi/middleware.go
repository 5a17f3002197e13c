package httpapi

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"giftsgiver/internal/common/logger"
	"giftsgiver/internal/common/observability"
)

const requestIDHeader = "X-Request-ID"

// RequestID assigns a request id when the caller did not send one and
// echoes it on the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
			r.Header.Set(requestIDHeader, id)
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

// CORS allows the browser-embedded form to call the API directly.
// The pack's only CORS middleware is gin-bound, hence the hand-rolled
// mux variant.
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

// Instrument logs every request with its duration and records metrics.
func Instrument(log logger.Logger, obs *observability.Observability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			duration := time.Since(start)
			log.Info("request handled", map[string]interface{}{
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     rec.status,
				"durationMs": duration.Milliseconds(),
				"requestId":  r.Header.Get(requestIDHeader),
			})

			if obs != nil {
				status := "ok"
				if rec.status >= 400 {
					status = "error"
				}
				obs.RecordRequest(r.Context(), r.URL.Path, status)
				obs.RecordDuration(r.Context(), r.URL.Path, duration)
			}
		})
	}
}
