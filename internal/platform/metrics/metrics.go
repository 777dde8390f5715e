// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package metrics exposes Prometheus collectors for the panel.
//
// All recording methods accept a nil receiver so packages can run without
// metrics in tests.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pms"

// Login outcomes.
const (
	LoginSucceeded   = "succeeded"
	LoginRejected    = "rejected"
	LoginUnavailable = "unavailable"
)

// Metrics owns a private registry and the panel's collectors.
type Metrics struct {
	registry *prometheus.Registry

	inFlight  prometheus.Gauge
	requests  *prometheus.CounterVec
	durations *prometheus.HistogramVec

	logins        *prometheus.CounterVec
	authRejected  *prometheus.CounterVec
	auditFailures prometheus.Counter
}

// New creates and registers every collector.
func New() *Metrics {
	metrics := &Metrics{
		registry: prometheus.NewRegistry(),

		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_in_flight_requests",
			Help:      "In-flight HTTP requests.",
		}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "route", "status"}),
		durations: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latencies in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),

		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "login_attempts_total",
			Help:      "Login attempts by outcome.",
		}, []string{"outcome"}),
		authRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "auth_rejected_total",
			Help:      "Protected requests rejected during token authentication, by cause.",
		}, []string{"cause"}),
		auditFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "activity_write_failures_total",
			Help:      "Activity log entries that could not be persisted.",
		}),
	}

	metrics.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		metrics.inFlight,
		metrics.requests,
		metrics.durations,
		metrics.logins,
		metrics.authRejected,
		metrics.auditFailures,
	)

	return metrics
}

// Registry exposes the underlying registry, mainly for tests.
func (metrics *Metrics) Registry() *prometheus.Registry { return metrics.registry }

// Handler serves the registry in the Prometheus text format.
func (metrics *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(metrics.registry, promhttp.HandlerOpts{Registry: metrics.registry})
}

// # HTTP

// Instrument records request counts and latencies labelled by route pattern,
// which keeps ids out of the label set.
func (metrics *Metrics) Instrument(next http.Handler) http.Handler {
	if metrics == nil {
		return next
	}

	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		metrics.inFlight.Inc()
		defer metrics.inFlight.Dec()

		start := time.Now()
		recorder := &statusWriter{ResponseWriter: writer, code: http.StatusOK}
		next.ServeHTTP(recorder, request)

		route := "unmatched"
		if routeContext := chi.RouteContext(request.Context()); routeContext != nil {
			if pattern := routeContext.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		status := strconv.Itoa(recorder.code)
		metrics.durations.WithLabelValues(request.Method, route, status).Observe(time.Since(start).Seconds())
		metrics.requests.WithLabelValues(request.Method, route, status).Inc()
	})
}

// # Domain Events

// LoginOutcome counts one login attempt.
func (metrics *Metrics) LoginOutcome(outcome string) {
	if metrics == nil {
		return
	}
	metrics.logins.WithLabelValues(outcome).Inc()
}

// AuthRejected counts one rejected protected request. The cause is visible
// here only; the user sees the same redirect for every cause.
func (metrics *Metrics) AuthRejected(cause string) {
	if metrics == nil {
		return
	}
	metrics.authRejected.WithLabelValues(cause).Inc()
}

// AuditWriteFailed counts one lost activity log entry.
func (metrics *Metrics) AuditWriteFailed() {
	if metrics == nil {
		return
	}
	metrics.auditFailures.Inc()
}

// statusWriter captures the response status.
type statusWriter struct {
	http.ResponseWriter
	code int
}

func (writer *statusWriter) WriteHeader(code int) {
	writer.code = code
	writer.ResponseWriter.WriteHeader(code)
}

func (writer *statusWriter) Unwrap() http.ResponseWriter {
	return writer.ResponseWriter
}
