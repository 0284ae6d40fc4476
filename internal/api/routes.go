package api

import (
    "net/http"

    "github.com/prometheus/client_golang/prometheus/promhttp"

    "wmsplan/internal/metrics"
)

// Routes registers every endpoint and wraps the mux in the middleware chain.
func (s *Server) Routes() http.Handler {
    mux := http.NewServeMux()

    // Planning
    mux.HandleFunc("/v1/plan", s.PlanHandler)
    mux.HandleFunc("/v1/plan/batch", s.PlanBatchHandler)
    mux.HandleFunc("/v1/plans", s.PlansHandler)
    mux.HandleFunc("/v1/plans/", s.PlanByIDHandler)
    mux.HandleFunc("/v1/planner/config", s.PlannerConfigHandler)
    mux.HandleFunc("/v1/tasks", s.TasksHandler)
    mux.HandleFunc("/v1/workers", s.WorkersHandler)

    // Orders and inventory
    mux.HandleFunc("/v1/orders", s.OrdersHandler)
    mux.HandleFunc("/v1/orders/", s.OrderByIDHandler)
    mux.HandleFunc("/v1/inventory", s.InventoryHandler)

    // Events and webhooks
    mux.HandleFunc("/v1/events/stream", s.EventsStreamHandler)
    mux.HandleFunc("/v1/events/ws", s.EventsWSHandler)
    mux.HandleFunc("/v1/subscriptions", s.SubscriptionsHandler)
    mux.HandleFunc("/v1/subscriptions/", s.SubscriptionByIDHandler)
    mux.HandleFunc("/v1/webhook-deliveries", s.WebhookDeliveriesHandler)
    mux.HandleFunc("/v1/webhook-deliveries/", s.WebhookDeliveriesHandler)

    // Health and ops
    mux.HandleFunc("/healthz", s.HealthHandler)
    mux.HandleFunc("/readyz", s.ReadyHandler)
    mux.HandleFunc("/debug/info", s.DebugJSON)
    mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

    var h http.Handler = mux
    h = rateLimitMiddleware(s.Cfg.RateRPS, s.Cfg.RateBurst, h)
    h = metricsMiddleware(h)
    return logMiddleware(h)
}
