// Reelsync - TMDB Catalog Synchronization Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelsync

// Package metrics exposes Prometheus instrumentation for the sync engine:
// run outcomes, per-entity reconciliation counts, TMDB client behavior,
// circuit breaker state, store latency and admin API traffic.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Sync run metrics
	SyncRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelsync_runs_total",
			Help: "Total number of sync runs by mode and outcome",
		},
		[]string{"mode", "status"}, // status: "success", "partial"
	)

	SyncRunDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reelsync_run_duration_seconds",
			Help:    "Duration of sync runs in seconds",
			Buckets: []float64{10, 30, 60, 300, 900, 1800, 3600, 7200, 14400}, // full runs take hours
		},
		[]string{"mode"},
	)

	SyncLastSuccess = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "reelsync_last_success_timestamp",
			Help: "Unix timestamp of the last sync run that finished without phase errors",
		},
		[]string{"mode"},
	)

	SyncRunning = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "reelsync_run_in_progress",
			Help: "1 while a sync run is executing",
		},
	)

	SyncPhaseErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelsync_phase_errors_total",
			Help: "Total number of failed orchestrator phases and chunks",
		},
		[]string{"phase"},
	)

	// Reconciliation metrics
	EntityOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelsync_entity_operations_total",
			Help: "Reconciliation outcomes per entity type",
		},
		[]string{"entity", "operation"}, // operation: fetched, invalid, created, updated, unchanged, deleted, update_failed, not_found
	)

	// TMDB client metrics
	TMDBRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelsync_tmdb_requests_total",
			Help: "Total number of TMDB API requests by endpoint and status code",
		},
		[]string{"endpoint", "status"},
	)

	TMDBRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reelsync_tmdb_request_duration_seconds",
			Help:    "TMDB API request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"endpoint"},
	)

	TMDBRateLimited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reelsync_tmdb_rate_limited_total",
			Help: "Total number of HTTP 429 responses from TMDB",
		},
	)

	TMDBCacheResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelsync_tmdb_response_cache_total",
			Help: "TMDB response cache lookups",
		},
		[]string{"result"}, // "hit", "miss"
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Store metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reelsync_db_query_duration_seconds",
			Help:    "Duration of store operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelsync_db_query_errors_total",
			Help: "Total number of failed store operations",
		},
		[]string{"operation", "table"},
	)

	// Event publishing
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelsync_events_published_total",
			Help: "Run events published to the message broker",
		},
		[]string{"status"}, // "success", "failure"
	)

	// Admin API
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reelsync_api_requests_total",
			Help: "Total number of admin API requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "reelsync_api_request_duration_seconds",
			Help:    "Admin API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"method", "route"},
	)
)

// RecordSyncRun records the outcome of a finished sync run.
func RecordSyncRun(mode string, duration time.Duration, phaseErrors int) {
	SyncRunDuration.WithLabelValues(mode).Observe(duration.Seconds())
	if phaseErrors > 0 {
		SyncRunsTotal.WithLabelValues(mode, "partial").Inc()
		return
	}
	SyncRunsTotal.WithLabelValues(mode, "success").Inc()
	SyncLastSuccess.WithLabelValues(mode).Set(float64(time.Now().Unix()))
}

// RecordEntityOperation adds n to the counter for entity/operation. Zero counts are skipped.
func RecordEntityOperation(entity, operation string, n int) {
	if n <= 0 {
		return
	}
	EntityOperations.WithLabelValues(entity, operation).Add(float64(n))
}

// RecordTMDBRequest records one TMDB HTTP round trip. status is 0 for transport errors.
func RecordTMDBRequest(endpoint string, status int, duration time.Duration) {
	code := "error"
	if status > 0 {
		code = strconv.Itoa(status)
	}
	TMDBRequestsTotal.WithLabelValues(endpoint, code).Inc()
	TMDBRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
	if status == 429 {
		TMDBRateLimited.Inc()
	}
}

// RecordDBQuery records a store operation.
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table).Inc()
	}
}

// RecordAPIRequest records an admin API request.
func RecordAPIRequest(method, route string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
