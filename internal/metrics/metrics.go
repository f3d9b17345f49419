// Package metrics exposes Prometheus collectors for estimation requests.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	namespace = "estcalc"

	// CalculationsCollectorName counts engine runs by engine and outcome.
	CalculationsCollectorName = "calculations_total"
	// RequestsCollectorName counts HTTP requests by status code, method and path.
	RequestsCollectorName = "http_requests_total"
	// LatencyCollectorName observes HTTP request latency in milliseconds.
	LatencyCollectorName = "http_request_duration_milliseconds"

	engineLabel  = "engine"
	outcomeLabel = "outcome"
)

// Calculation outcomes.
const (
	OutcomeOK        = "ok"
	OutcomeInvalid   = "invalid"
	OutcomeDuplicate = "duplicate"
	OutcomeError     = "error"
)

var bucketsConfig = []float64{1, 5, 10, 50, 100, 500, 1000}

// Recorder holds the collectors for one server instance.
type Recorder struct {
	calculations *prometheus.CounterVec
	requests     *prometheus.CounterVec
	latency      *prometheus.HistogramVec
	// route maps a request path to a bounded label value.
	route func(path string) string
}

// New creates a Recorder and registers its collectors with reg.
// route normalizes request paths into label values; nil uses the raw path.
func New(reg prometheus.Registerer, route func(string) string) *Recorder {
	if route == nil {
		route = func(p string) string { return p }
	}
	m := &Recorder{route: route}
	m.calculations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      CalculationsCollectorName,
			Help:      "Number of estimation runs partitioned by engine and outcome.",
		}, []string{engineLabel, outcomeLabel})

	m.requests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      RequestsCollectorName,
			Help:      "Number of HTTP requests partitioned by status code, method and HTTP path.",
		}, []string{"code", "method", "path"})

	m.latency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      LatencyCollectorName,
		Help:      "Time spent on the request partitioned by status code, method and HTTP path.",
		Buckets:   bucketsConfig,
	}, []string{"code", "method", "path"})

	reg.MustRegister(m.Collectors()...)
	return m
}

// Calculation records one engine run.
func (m *Recorder) Calculation(engine, outcome string) {
	m.calculations.With(prometheus.Labels{
		engineLabel:  engine,
		outcomeLabel: outcome,
	}).Inc()
}

// Handler wraps next, recording request count and latency.
func (m *Recorder) Handler(next http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		path := m.route(r.URL.Path)
		since := float64(time.Since(start).Milliseconds())
		m.requests.WithLabelValues(strconv.Itoa(status), r.Method, path).Inc()
		m.latency.WithLabelValues(strconv.Itoa(status), r.Method, path).Observe(since)
	}
	return http.HandlerFunc(fn)
}

// Collectors returns the collectors held by m.
func (m *Recorder) Collectors() []prometheus.Collector {
	return []prometheus.Collector{m.calculations, m.requests, m.latency}
}
