// Package metrics records HTTP and document store activity for Prometheus.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"invoice-docstore/core"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	resultOK       = "ok"
	resultNotFound = "not_found"
	resultError    = "error"
)

type Metrics struct {
	requestCounter  *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	storeOperations *prometheus.CounterVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
			},
			[]string{"method", "route"},
		),
		storeOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "store_operations_total",
				Help: "Document store operations by outcome",
			},
			[]string{"op", "result"},
		),
	}
	reg.MustRegister(m.requestCounter, m.requestDuration, m.storeOperations)
	return m
}

// Middleware labels requests with the matched chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requestCounter.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.requestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

type instrumentedStore struct {
	next    core.DocumentStore
	metrics *Metrics
}

// InstrumentStore counts the outcome of every call made to store.
func (m *Metrics) InstrumentStore(store core.DocumentStore) core.DocumentStore {
	return &instrumentedStore{next: store, metrics: m}
}

func (s *instrumentedStore) FindID(ctx context.Context, id string) (*core.Document, error) {
	doc, err := s.next.FindID(ctx, id)
	s.metrics.storeOperations.WithLabelValues("find", result(err)).Inc()
	return doc, err
}

func (s *instrumentedStore) Create(ctx context.Context, document *core.Document) (string, error) {
	id, err := s.next.Create(ctx, document)
	s.metrics.storeOperations.WithLabelValues("create", result(err)).Inc()
	return id, err
}

func result(err error) string {
	switch {
	case err == nil:
		return resultOK
	case errors.Is(err, core.ErrNotFound):
		return resultNotFound
	default:
		return resultError
	}
}
