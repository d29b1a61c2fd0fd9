package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequestsTotal counts finished requests by method, route and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "teclegacy",
			Name:      "http_requests_total",
			Help:      "Completed HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPRequestDuration observes request latency by route.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "teclegacy",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// ChatbotQueriesTotal counts chatbot resolutions by outcome
	// (greeting, help, results, empty, error).
	ChatbotQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "teclegacy",
			Name:      "chatbot_queries_total",
			Help:      "Chatbot query resolutions by outcome.",
		},
		[]string{"outcome"},
	)

	// OrdersSubmittedTotal counts checkout submissions that created an order.
	OrdersSubmittedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "teclegacy",
			Name:      "orders_submitted_total",
			Help:      "Orders created at checkout.",
		},
	)
)

// Handler exposes the prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
