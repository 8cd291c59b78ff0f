package middleware

import (
	"log"
	"net/http"
	"time"

	"github.com/rezoapp/rezo-backend/internal/services"
)

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// RequestMetrics logs each request and feeds the metrics recorder.
func RequestMetrics(recorder *services.Recorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(sw, r)

			duration := time.Since(start)
			recorder.Record(r.Method, sw.status, duration)
			if sw.status >= 500 {
				log.Printf("❌ %s %s -> %d (%s)", r.Method, r.URL.Path, sw.status, duration)
			}
		})
	}
}
