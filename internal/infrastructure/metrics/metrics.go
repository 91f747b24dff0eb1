// Package metrics exposes Prometheus collectors for HTTP traffic, route
// planning, external map calls, caches, scheduled jobs and realtime sockets.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "loro"

// Outcome labels
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeSkipped = "skipped"
)

// Metrics owns every collector of the service. Each instance registers on its
// own registry so tests can create fresh ones.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPActiveRequests  prometheus.Gauge
	RateLimitHits       *prometheus.CounterVec

	RoutePlansTotal     *prometheus.CounterVec
	RoutePlanDuration   prometheus.Histogram
	RouteSweepTasks     *prometheus.CounterVec
	ExternalCallsTotal  *prometheus.CounterVec
	ExternalCallLatency *prometheus.HistogramVec

	CacheLookupsTotal *prometheus.CounterVec

	JobRunsTotal   *prometheus.CounterVec
	JobRunDuration *prometheus.HistogramVec

	WSConnections     prometheus.Gauge
	WSMessagesTotal   *prometheus.CounterVec
	DomainEventsTotal *prometheus.CounterVec
}

// New creates and registers all collectors, plus Go runtime and process collectors
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,

		HTTPRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status_code"}),
		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"method", "route"}),
		HTTPActiveRequests: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "http_active_requests",
			Help:      "Current number of in-flight HTTP requests",
		}),
		RateLimitHits: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_rate_limit_hits_total",
			Help:      "Total number of requests rejected by the rate limiter",
		}, []string{"route"}),

		RoutePlansTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "route_plans_total",
			Help:      "Route computations per assignee by outcome",
		}, []string{"outcome"}),
		RoutePlanDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "route_plan_duration_seconds",
			Help:      "Time to plan all routes of a task",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		RouteSweepTasks: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "route_sweep_tasks_total",
			Help:      "Tasks visited by the daily route sweep by result",
		}, []string{"result"}),
		ExternalCallsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "external_calls_total",
			Help:      "Calls to external providers by operation and outcome",
		}, []string{"operation", "outcome"}),
		ExternalCallLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "external_call_duration_seconds",
			Help:      "Latency of external provider calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),

		CacheLookupsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Cache lookups by cache name and result",
		}, []string{"cache", "result"}),

		JobRunsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "job_runs_total",
			Help:      "Scheduled job runs by job and outcome",
		}, []string{"job", "outcome"}),
		JobRunDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "job_run_duration_seconds",
			Help:      "Scheduled job duration",
			Buckets:   []float64{0.1, 1, 5, 15, 30, 60, 300, 900},
		}, []string{"job"}),

		WSConnections: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "websocket_connections",
			Help:      "Currently connected websocket clients",
		}),
		WSMessagesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "websocket_messages_total",
			Help:      "Websocket messages by direction and event",
		}, []string{"direction", "event"}),
		DomainEventsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "domain_events_total",
			Help:      "Domain events published by type",
		}, []string{"type"}),
	}
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordHTTPRequest records one finished HTTP request
func (m *Metrics) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the in-flight gauge
func (m *Metrics) TrackActiveRequest(inc bool) {
	if inc {
		m.HTTPActiveRequests.Inc()
	} else {
		m.HTTPActiveRequests.Dec()
	}
}

// RecordRateLimited counts a rejected request
func (m *Metrics) RecordRateLimited(route string) {
	m.RateLimitHits.WithLabelValues(route).Inc()
}

// RoutePlanned records the outcome of planning one assignee's route
func (m *Metrics) RoutePlanned(outcome string) {
	m.RoutePlansTotal.WithLabelValues(outcome).Inc()
}

// ObserveRoutePlan records the time spent planning a whole task
func (m *Metrics) ObserveRoutePlan(duration time.Duration) {
	m.RoutePlanDuration.Observe(duration.Seconds())
}

// RouteSwept records one task visited by the daily sweep. result is
// cache_hit, planned or failed.
func (m *Metrics) RouteSwept(result string) {
	m.RouteSweepTasks.WithLabelValues(result).Inc()
}

// ExternalCall records one call to the maps provider
func (m *Metrics) ExternalCall(operation string, err error, duration time.Duration) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	m.ExternalCallsTotal.WithLabelValues(operation, outcome).Inc()
	m.ExternalCallLatency.WithLabelValues(operation).Observe(duration.Seconds())
}

// CacheLookup records a cache hit or miss
func (m *Metrics) CacheLookup(cache string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.CacheLookupsTotal.WithLabelValues(cache, result).Inc()
}

// JobRun records one scheduled job execution
func (m *Metrics) JobRun(job string, err error, duration time.Duration) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	m.JobRunsTotal.WithLabelValues(job, outcome).Inc()
	m.JobRunDuration.WithLabelValues(job).Observe(duration.Seconds())
}

// WSConnected adjusts the connected clients gauge
func (m *Metrics) WSConnected(delta int) {
	m.WSConnections.Add(float64(delta))
}

// WSMessage counts one websocket message; direction is in or out
func (m *Metrics) WSMessage(direction, event string) {
	m.WSMessagesTotal.WithLabelValues(direction, event).Inc()
}

// EventPublished counts one published domain event
func (m *Metrics) EventPublished(eventType string) {
	m.DomainEventsTotal.WithLabelValues(eventType).Inc()
}
