package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/teclegacy/marketplace-backend/pkg/metrics"
)

// Metrics records per-route request counts and latency. It runs inside the
// router so the chi route pattern is available as a bounded label.
func Metrics() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w}
			start := time.Now()

			next.ServeHTTP(rec, r)

			if rec.status == 0 {
				rec.status = http.StatusOK
			}

			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = "unmatched"
			}

			metrics.HTTPRequestsTotal.
				WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).
				Inc()
			metrics.HTTPRequestDuration.
				WithLabelValues(r.Method, route).
				Observe(time.Since(start).Seconds())
		})
	}
}
