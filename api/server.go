package api

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rescp17/ipLeak/pkg/concurrency"
	"github.com/rescp17/ipLeak/pkg/detector"
)

// Detector runs one discovery attempt.
type Detector interface {
	Detect(ctx context.Context) (detector.Result, error)
}

// Server is the manual-testing HTTP server. It serves the browser test page and
// module files, and exposes server-side detection and metrics.
type Server struct {
	root     string
	detector Detector
	guard    *concurrency.ConcurrencyGuard
	metrics  *metrics
	mux      *http.ServeMux
}

// NewServer creates a Server serving files from root. Files under /dist/ are
// served from root's parent, which is also the boundary no request may escape.
func NewServer(root string, d Detector, registry *prometheus.Registry) *Server {
	s := &Server{
		root:     root,
		detector: d,
		guard:    concurrency.NewConcurrencyGuard(),
		metrics:  newMetrics(registry),
		mux:      http.NewServeMux(),
	}
	s.registerRoutes(registry)
	return s
}

// ServeHTTP allows the Server to satisfy the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	corsMiddleware(s.mux).ServeHTTP(w, r)
}

func (s *Server) registerRoutes(registry *prometheus.Registry) {
	s.mux.HandleFunc("GET /api/ip", s.IPHandler)
	s.mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	s.mux.HandleFunc("/", s.StaticHandler)
}

// corsMiddleware allows any origin and answers preflight requests directly.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type metrics struct {
	detections *prometheus.CounterVec
	duration   prometheus.Histogram
}

func newMetrics(registry *prometheus.Registry) *metrics {
	m := &metrics{
		detections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ipleak",
			Name:      "detections_total",
			Help:      "Discovery attempts by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "ipleak",
			Name:      "detection_duration_seconds",
			Help:      "Time from session start to the terminal outcome.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		}),
	}
	registry.MustRegister(m.detections, m.duration)
	return m
}

func (m *metrics) observe(err error, elapsed time.Duration) {
	outcome := "resolved"
	if err != nil {
		outcome = detector.Reason(err)
	}
	m.detections.WithLabelValues(outcome).Inc()
	m.duration.Observe(elapsed.Seconds())
}
