package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce           sync.Once
	dispatchQueueDepth     prometheus.Gauge
	dispatchActiveWorkers  prometheus.Gauge
	dispatchJobsTotal      *prometheus.CounterVec
	dispatchRetriesTotal   prometheus.Counter
	webhookResultsTotal    *prometheus.CounterVec
	sweepRedispatchedTotal prometheus.Counter
	httpRequestsTotal      *prometheus.CounterVec
	httpLatencySeconds     *prometheus.HistogramVec
)

// RegisterMetrics initialises the Prometheus collectors for the evaluation
// dispatch pipeline.
func RegisterMetrics() {
	registerOnce.Do(func() {
		dispatchQueueDepth = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dispatch_queue_depth",
			Help: "Number of evaluation jobs waiting in the dispatch queue.",
		})

		dispatchActiveWorkers = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "dispatch_active_workers",
			Help: "Number of evaluation jobs currently executing.",
		})

		dispatchJobsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dispatch_jobs_total",
			Help: "Total dispatch job executions by outcome.",
		}, []string{"outcome"})

		dispatchRetriesTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dispatch_retries_total",
			Help: "Total dispatch job retries scheduled after a failure.",
		})

		webhookResultsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "webhook_results_total",
			Help: "Total evaluation result webhooks received by outcome.",
		}, []string{"outcome"})

		sweepRedispatchedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sweep_redispatched_total",
			Help: "Total stuck submissions re-enqueued by the resend sweeper.",
		})

		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"})

		prometheus.MustRegister(
			dispatchQueueDepth,
			dispatchActiveWorkers,
			dispatchJobsTotal,
			dispatchRetriesTotal,
			webhookResultsTotal,
			sweepRedispatchedTotal,
			httpRequestsTotal,
			httpLatencySeconds,
		)
	})
}

// DispatchQueueDepth exposes the queue depth gauge.
func DispatchQueueDepth() prometheus.Gauge {
	RegisterMetrics()
	return dispatchQueueDepth
}

// DispatchActiveWorkers exposes the active worker gauge.
func DispatchActiveWorkers() prometheus.Gauge {
	RegisterMetrics()
	return dispatchActiveWorkers
}

// DispatchJobs exposes the per-outcome job counter.
func DispatchJobs() *prometheus.CounterVec {
	RegisterMetrics()
	return dispatchJobsTotal
}

// DispatchRetries exposes the retry counter.
func DispatchRetries() prometheus.Counter {
	RegisterMetrics()
	return dispatchRetriesTotal
}

// WebhookResults exposes the per-outcome webhook counter.
func WebhookResults() *prometheus.CounterVec {
	RegisterMetrics()
	return webhookResultsTotal
}

// SweepRedispatched exposes the sweeper re-dispatch counter.
func SweepRedispatched() prometheus.Counter {
	RegisterMetrics()
	return sweepRedispatchedTotal
}

// HTTPRequests exposes the per-route request counter.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the per-route latency histogram.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}
