package obs

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "http_in_flight_requests",
		Help: "In-flight HTTP requests.",
	})

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	signInsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_sign_ins_total",
			Help: "Sign-in attempts by provider and outcome.",
		},
		[]string{"provider", "outcome"},
	)

	signOutsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "auth_sign_outs_total",
		Help: "Sign-out requests.",
	})
)

// Init registers the metrics with the default registry. Call once at startup.
func Init() {
	prometheus.MustRegister(
		httpInFlight,
		httpRequestsTotal,
		httpRequestDuration,
		signInsTotal,
		signOutsTotal,
	)
}

// Handler serves the Prometheus scrape endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordSignIn counts a sign-in attempt. provider is one of email, admin,
// google; outcome is success or failure.
func RecordSignIn(provider string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	signInsTotal.WithLabelValues(provider, outcome).Inc()
}

// RecordSignOut counts a sign-out.
func RecordSignOut() {
	signOutsTotal.Inc()
}

// Instrument wraps a handler with request count, latency, and in-flight
// tracking. The path label is the matched ServeMux pattern, not the raw URL,
// so random 404 scans cannot blow up label cardinality; unmatched requests
// share one bucket.
func Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpInFlight.Inc()
		start := time.Now()

		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(sw, r)

		// ServeMux fills in r.Pattern once it has routed the request.
		pattern := r.Pattern
		if pattern == "" {
			pattern = "unmatched"
		}

		status := strconv.Itoa(sw.code)
		httpRequestDuration.WithLabelValues(r.Method, pattern, status).Observe(time.Since(start).Seconds())
		httpRequestsTotal.WithLabelValues(r.Method, pattern, status).Inc()
		httpInFlight.Dec()
	})
}

type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}
