// Package metrics exposes prometheus instrumentation for the store adapter
// and the HTTP surface on a dedicated registry.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mealcore/internal/docstore"
)

// Registry owns the process metrics and their prometheus registry.
type Registry struct {
	reg *prometheus.Registry

	storeOps     *prometheus.CounterVec
	storeLatency *prometheus.HistogramVec
	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec
}

// New returns a registry with all collectors registered.
func New() *Registry {
	r := &Registry{reg: prometheus.NewRegistry()}
	r.storeOps = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mealcore_store_operations_total",
		Help: "Document store operations by collection, operation, and outcome.",
	}, []string{"collection", "op", "outcome"})
	r.storeLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mealcore_store_operation_seconds",
		Help:    "Document store operation latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"collection", "op"})
	r.httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mealcore_http_requests_total",
		Help: "HTTP requests by route and status class.",
	}, []string{"route", "method", "status"})
	r.httpLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mealcore_http_request_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})
	r.reg.MustRegister(r.storeOps, r.storeLatency, r.httpRequests, r.httpLatency)
	return r
}

// Handler serves the registry in the prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}

// InstrumentStore wraps a store so every operation records a counter and a
// latency observation.
func (r *Registry) InstrumentStore(s docstore.Store) docstore.Store {
	return &instrumentedStore{inner: s, reg: r}
}

type instrumentedStore struct {
	inner docstore.Store
	reg   *Registry
}

var _ docstore.Store = (*instrumentedStore)(nil)

func (s *instrumentedStore) observe(collection, op string, start time.Time, err error) {
	outcome := "ok"
	switch {
	case errors.Is(err, docstore.ErrNotFound):
		outcome = "not_found"
	case err != nil:
		outcome = "error"
	}
	s.reg.storeOps.WithLabelValues(collection, op, outcome).Inc()
	s.reg.storeLatency.WithLabelValues(collection, op).Observe(time.Since(start).Seconds())
}

func (s *instrumentedStore) FetchByField(ctx context.Context, collection, field, value string) ([]docstore.Document, error) {
	start := time.Now()
	docs, err := s.inner.FetchByField(ctx, collection, field, value)
	s.observe(collection, "fetch_by_field", start, err)
	return docs, err
}

func (s *instrumentedStore) FetchAll(ctx context.Context, collection string) ([]docstore.Document, error) {
	start := time.Now()
	docs, err := s.inner.FetchAll(ctx, collection)
	s.observe(collection, "fetch_all", start, err)
	return docs, err
}

func (s *instrumentedStore) Get(ctx context.Context, collection, id string) (docstore.Document, error) {
	start := time.Now()
	doc, err := s.inner.Get(ctx, collection, id)
	s.observe(collection, "get", start, err)
	return doc, err
}

func (s *instrumentedStore) Insert(ctx context.Context, collection string, doc docstore.Document) (string, error) {
	start := time.Now()
	id, err := s.inner.Insert(ctx, collection, doc)
	s.observe(collection, "insert", start, err)
	return id, err
}

func (s *instrumentedStore) Update(ctx context.Context, collection, id string, partial docstore.Document) error {
	start := time.Now()
	err := s.inner.Update(ctx, collection, id, partial)
	s.observe(collection, "update", start, err)
	return err
}

func (s *instrumentedStore) DeleteAll(ctx context.Context, collection string) error {
	start := time.Now()
	err := s.inner.DeleteAll(ctx, collection)
	s.observe(collection, "delete_all", start, err)
	return err
}

func (s *instrumentedStore) Close(ctx context.Context) error {
	return s.inner.Close(ctx)
}

// Middleware records request counts and latency per route pattern.
func (r *Registry) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, req)
		route := req.Pattern
		if route == "" {
			route = "unmatched"
		}
		r.httpRequests.WithLabelValues(route, req.Method, statusClass(rec.status)).Inc()
		r.httpLatency.WithLabelValues(route, req.Method).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func statusClass(code int) string {
	switch {
	case code >= 500:
		return "5xx"
	case code >= 400:
		return "4xx"
	case code >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
