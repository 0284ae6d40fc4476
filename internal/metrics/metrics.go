package metrics

import (
    "sync"
    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/collectors"
)

var (
    // Registry is the dedicated Prometheus registry for the API
    Registry = prometheus.NewRegistry()
    // HTTPRequests counts requests by method, path, and status
    HTTPRequests = prometheus.NewCounterVec(
        prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
        []string{"method", "path", "status"},
    )
    // HTTPDuration records request durations in seconds
    HTTPDuration = prometheus.NewHistogramVec(
        prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
        []string{"method", "path", "status"},
    )
    // HTTPRateLimited counts requests rejected by the rate limiter
    HTTPRateLimited = prometheus.NewCounter(
        prometheus.CounterOpts{Name: "http_rate_limited_total", Help: "Requests rejected with 429."},
    )

    // PlansTotal counts planning calls by mode (single, batch), estimator and outcome
    PlansTotal = prometheus.NewCounterVec(
        prometheus.CounterOpts{Name: "planner_plans_total", Help: "Planning calls by mode, estimator and outcome."},
        []string{"mode", "estimator", "outcome"},
    )
    PlanAssignments = prometheus.NewCounterVec(
        prometheus.CounterOpts{Name: "planner_assignments_total", Help: "Assignments produced."},
        []string{"mode"},
    )
    PlanUnassigned = prometheus.NewCounterVec(
        prometheus.CounterOpts{Name: "planner_unassigned_tasks_total", Help: "Tasks left without a worker."},
        []string{"mode"},
    )
    // PlanDuration is the wall time of the planner call alone, in seconds
    PlanDuration = prometheus.NewHistogramVec(
        prometheus.HistogramOpts{Name: "planner_duration_seconds", Help: "Planner run time in seconds.", Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1}},
        []string{"mode"},
    )

    // WebhookDeliveries counts webhook delivery outcomes by event type and status
    WebhookDeliveries = prometheus.NewCounterVec(
        prometheus.CounterOpts{Name: "webhook_deliveries_total", Help: "Webhook deliveries by event type and status."},
        []string{"event_type", "status"},
    )
    // WebhookLatency tracks webhook delivery latencies in milliseconds
    WebhookLatency = prometheus.NewHistogramVec(
        prometheus.HistogramOpts{Name: "webhook_delivery_latency_ms", Help: "Webhook delivery latency in ms.", Buckets: []float64{10, 50, 100, 200, 500, 1000, 2000, 5000}},
        []string{"event_type", "status"},
    )
)

// ObservePlan records one finished planning call.
func ObservePlan(mode, estimator string, assigned, unassigned int, seconds float64) {
    PlansTotal.WithLabelValues(mode, estimator, "ok").Inc()
    PlanAssignments.WithLabelValues(mode).Add(float64(assigned))
    PlanUnassigned.WithLabelValues(mode).Add(float64(unassigned))
    PlanDuration.WithLabelValues(mode).Observe(seconds)
}

// ObservePlanError records a planning call rejected by the planner.
func ObservePlanError(mode, estimator string) {
    PlansTotal.WithLabelValues(mode, estimator, "error").Inc()
}

// RegisterDefault registers collectors to the default registry.
func RegisterDefault() {
    regOnce.Do(func(){
        Registry.MustRegister(HTTPRequests)
        Registry.MustRegister(HTTPDuration)
        Registry.MustRegister(HTTPRateLimited)
        Registry.MustRegister(PlansTotal)
        Registry.MustRegister(PlanAssignments)
        Registry.MustRegister(PlanUnassigned)
        Registry.MustRegister(PlanDuration)
        Registry.MustRegister(WebhookDeliveries)
        Registry.MustRegister(WebhookLatency)
        // Go/process collectors on our registry
        Registry.MustRegister(collectors.NewGoCollector())
        Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
    })
}

var regOnce sync.Once
