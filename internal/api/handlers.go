package api

import (
    "context"
    "encoding/json"
    "fmt"
    "net/http"
    "net/url"
    "strings"
    "time"

    "wmsplan/internal/model"
    "wmsplan/internal/webhooks"
)

// PlanHandler handles POST /v1/plan (at most one task per worker).
func (s *Server) PlanHandler(w http.ResponseWriter, r *http.Request) {
    s.handlePlan(w, r, modeSingle)
}

// PlanBatchHandler handles POST /v1/plan/batch.
func (s *Server) PlanBatchHandler(w http.ResponseWriter, r *http.Request) {
    s.handlePlan(w, r, modeBatch)
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request, mode string) {
    if r.Method != http.MethodPost {
        w.WriteHeader(http.StatusMethodNotAllowed)
        return
    }
    var req model.PlanRequest
    if !decodeJSON(w, r, &req) { return }
    if err := validatePlanRequest(&req); err != nil {
        writeProblem(w, http.StatusBadRequest, "Invalid plan request", err.Error(), r.URL.Path)
        return
    }
    ctx, wh := s.withWarehouse(r)
    if req.WarehouseID != "" { wh = req.WarehouseID }
    plan, err := s.runPlan(ctx, wh, mode, req)
    if err != nil {
        writeError(w, r, "Planning failed", err)
        return
    }
    writeJSON(w, http.StatusOK, plan)
}

// PlansHandler handles GET /v1/plans
func (s *Server) PlansHandler(w http.ResponseWriter, r *http.Request) {
    if r.Method != http.MethodGet { w.WriteHeader(http.StatusMethodNotAllowed); return }
    _, wh := s.withWarehouse(r)
    limit, err := queryLimit(r)
    if err != nil { writeProblem(w, 400, "Invalid query", err.Error(), r.URL.Path); return }
    items, next, err := s.Store.ListPlans(r.Context(), wh, r.URL.Query().Get("cursor"), limit)
    if err != nil { writeError(w, r, "List plans failed", err); return }
    writeJSON(w, http.StatusOK, map[string]any{"items": items, "nextCursor": next})
}

// PlanByIDHandler handles GET /v1/plans/{id}
func (s *Server) PlanByIDHandler(w http.ResponseWriter, r *http.Request) {
    id := strings.TrimPrefix(r.URL.Path, "/v1/plans/")
    if id == "" || strings.Contains(id, "/") { writeProblem(w, 404, "Not Found", "missing id", r.URL.Path); return }
    if r.Method != http.MethodGet { w.WriteHeader(http.StatusMethodNotAllowed); return }
    _, wh := s.withWarehouse(r)
    plan, err := s.Store.GetPlan(r.Context(), wh, id)
    if err != nil { writeError(w, r, "Get plan failed", err); return }
    writeJSON(w, http.StatusOK, plan)
}

// PlannerConfigHandler returns the defaults applied to plan requests.
func (s *Server) PlannerConfigHandler(w http.ResponseWriter, r *http.Request) {
    if r.Method != http.MethodGet { w.WriteHeader(http.StatusMethodNotAllowed); return }
    p := s.Cfg.Planner
    writeJSON(w, http.StatusOK, map[string]any{"defaults": map[string]any{
        "estimator":         p.Estimator,
        "travelSpeed":       p.TravelSpeed,
        "maxTasksPerWorker": p.MaxTasksPerWorker,
        "loadStep":          p.LoadStep,
        "maxTasks":          maxPlanTasks,
        "maxWorkers":        maxPlanWorkers,
    }})
}

// TasksHandler handles POST/GET /v1/tasks
func (s *Server) TasksHandler(w http.ResponseWriter, r *http.Request) {
    _, wh := s.withWarehouse(r)
    switch r.Method {
    case http.MethodPost:
        var req struct {
            Tasks []model.TaskIn `json:"tasks"`
        }
        if !decodeJSON(w, r, &req) { return }
        if len(req.Tasks) > maxPlanTasks {
            writeProblem(w, 400, "Invalid tasks", fmt.Sprintf("at most %d tasks per request", maxPlanTasks), r.URL.Path)
            return
        }
        for _, t := range req.Tasks {
            if err := validateTaskIn(t); err != nil { writeProblem(w, 400, "Invalid tasks", err.Error(), r.URL.Path); return }
        }
        n, err := s.Store.UpsertTasks(r.Context(), wh, req.Tasks)
        if err != nil { writeError(w, r, "Store tasks failed", err); return }
        writeJSON(w, http.StatusAccepted, map[string]any{"upserted": n})
    case http.MethodGet:
        items, err := s.Store.ListTasks(r.Context(), wh, r.URL.Query().Get("status"))
        if err != nil { writeError(w, r, "List tasks failed", err); return }
        writeJSON(w, http.StatusOK, map[string]any{"items": items})
    default:
        w.WriteHeader(http.StatusMethodNotAllowed)
    }
}

// WorkersHandler handles POST/GET /v1/workers
func (s *Server) WorkersHandler(w http.ResponseWriter, r *http.Request) {
    _, wh := s.withWarehouse(r)
    switch r.Method {
    case http.MethodPost:
        var req struct {
            Workers []model.WorkerIn `json:"workers"`
        }
        if !decodeJSON(w, r, &req) { return }
        if len(req.Workers) > maxPlanWorkers {
            writeProblem(w, 400, "Invalid workers", fmt.Sprintf("at most %d workers per request", maxPlanWorkers), r.URL.Path)
            return
        }
        for _, wk := range req.Workers {
            if err := validateWorkerIn(wk); err != nil { writeProblem(w, 400, "Invalid workers", err.Error(), r.URL.Path); return }
        }
        n, err := s.Store.UpsertWorkers(r.Context(), wh, req.Workers)
        if err != nil { writeError(w, r, "Store workers failed", err); return }
        writeJSON(w, http.StatusAccepted, map[string]any{"upserted": n})
    case http.MethodGet:
        items, err := s.Store.ListWorkers(r.Context(), wh)
        if err != nil { writeError(w, r, "List workers failed", err); return }
        writeJSON(w, http.StatusOK, map[string]any{"items": items})
    default:
        w.WriteHeader(http.StatusMethodNotAllowed)
    }
}

// OrdersHandler handles POST/GET /v1/orders
func (s *Server) OrdersHandler(w http.ResponseWriter, r *http.Request) {
    ctx, wh := s.withWarehouse(r)
    switch r.Method {
    case http.MethodPost:
        var req model.OrderIn
        if !decodeJSON(w, r, &req) { return }
        item := strings.TrimSpace(req.ItemName)
        if item == "" { writeProblem(w, 400, "Invalid order", "itemName cannot be empty", r.URL.Path); return }
        if req.Quantity <= 0 { writeProblem(w, 400, "Invalid order", "quantity must be greater than 0", r.URL.Path); return }
        o, err := s.Store.CreateOrder(ctx, wh, item, req.Quantity)
        if err != nil { writeError(w, r, "Create order failed", err); return }
        data := map[string]any{"orderId": o.ID, "itemName": o.ItemName, "quantity": o.Quantity}
        s.Broker.Publish(wh, SSEEvent{Type: webhooks.EventOrderCreated, Data: data})
        s.Pub.Emit(ctx, wh, webhooks.EventOrderCreated, data)
        writeJSON(w, http.StatusCreated, o)
    case http.MethodGet:
        limit, err := queryLimit(r)
        if err != nil { writeProblem(w, 400, "Invalid query", err.Error(), r.URL.Path); return }
        q := r.URL.Query()
        items, next, err := s.Store.ListOrders(ctx, wh, q.Get("status"), q.Get("cursor"), limit)
        if err != nil { writeError(w, r, "List orders failed", err); return }
        writeJSON(w, http.StatusOK, map[string]any{"items": items, "nextCursor": next})
    default:
        w.WriteHeader(http.StatusMethodNotAllowed)
    }
}

// OrderByIDHandler handles GET /v1/orders/{id}
func (s *Server) OrderByIDHandler(w http.ResponseWriter, r *http.Request) {
    id := strings.TrimPrefix(r.URL.Path, "/v1/orders/")
    if id == "" || strings.Contains(id, "/") { writeProblem(w, 404, "Not Found", "missing id", r.URL.Path); return }
    if r.Method != http.MethodGet { w.WriteHeader(http.StatusMethodNotAllowed); return }
    _, wh := s.withWarehouse(r)
    o, err := s.Store.GetOrder(r.Context(), wh, id)
    if err != nil { writeError(w, r, "Get order failed", err); return }
    writeJSON(w, http.StatusOK, o)
}

// InventoryHandler handles GET /v1/inventory
func (s *Server) InventoryHandler(w http.ResponseWriter, r *http.Request) {
    if r.Method != http.MethodGet { w.WriteHeader(http.StatusMethodNotAllowed); return }
    _, wh := s.withWarehouse(r)
    items, err := s.Store.ListInventory(r.Context(), wh)
    if err != nil { writeError(w, r, "List inventory failed", err); return }
    writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

// SubscriptionsHandler handles POST/GET /v1/subscriptions
func (s *Server) SubscriptionsHandler(w http.ResponseWriter, r *http.Request) {
    _, wh := s.withWarehouse(r)
    switch r.Method {
    case http.MethodPost:
        var req model.SubscriptionRequest
        if !decodeJSON(w, r, &req) { return }
        if req.WarehouseID == "" { req.WarehouseID = wh }
        if err := validateSubscription(req); err != nil {
            writeProblem(w, http.StatusBadRequest, "Invalid subscription", err.Error(), r.URL.Path)
            return
        }
        sub, err := s.Store.CreateSubscription(r.Context(), req)
        if err != nil { writeError(w, r, "Create subscription failed", err); return }
        writeJSON(w, http.StatusCreated, sub)
    case http.MethodGet:
        limit, err := queryLimit(r)
        if err != nil { writeProblem(w, 400, "Invalid query", err.Error(), r.URL.Path); return }
        items, next, err := s.Store.ListSubscriptions(r.Context(), wh, r.URL.Query().Get("cursor"), limit)
        if err != nil { writeError(w, r, "List subscriptions failed", err); return }
        writeJSON(w, 200, map[string]any{"items": items, "nextCursor": next})
    default:
        w.WriteHeader(http.StatusMethodNotAllowed)
    }
}

func validateSubscription(req model.SubscriptionRequest) error {
    u, err := url.Parse(req.URL)
    if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
        return fmt.Errorf("url must be an absolute http(s) URL")
    }
    if len(req.Events) == 0 {
        return fmt.Errorf("events cannot be empty")
    }
    for _, e := range req.Events {
        if e != webhooks.EventPlanCompleted && e != webhooks.EventOrderCreated {
            return fmt.Errorf("unknown event %q", e)
        }
    }
    return nil
}

// SubscriptionByIDHandler handles DELETE /v1/subscriptions/{id}
func (s *Server) SubscriptionByIDHandler(w http.ResponseWriter, r *http.Request) {
    id := strings.TrimPrefix(r.URL.Path, "/v1/subscriptions/")
    if id == "" { writeProblem(w, 404, "Not Found", "", r.URL.Path); return }
    if r.Method != http.MethodDelete { w.WriteHeader(405); return }
    _, wh := s.withWarehouse(r)
    if err := s.Store.DeleteSubscription(r.Context(), wh, id); err != nil { writeError(w, r, "Delete subscription failed", err); return }
    w.WriteHeader(204)
}

// WebhookDeliveriesHandler handles GET /v1/webhook-deliveries and
// POST /v1/webhook-deliveries/{id}/retry
func (s *Server) WebhookDeliveriesHandler(w http.ResponseWriter, r *http.Request) {
    _, wh := s.withWarehouse(r)
    rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/webhook-deliveries"), "/")
    if rest == "" {
        if r.Method != http.MethodGet { w.WriteHeader(http.StatusMethodNotAllowed); return }
        limit, err := queryLimit(r)
        if err != nil { writeProblem(w, 400, "Invalid query", err.Error(), r.URL.Path); return }
        items, err := s.Store.ListWebhookDeliveries(r.Context(), wh, r.URL.Query().Get("status"), limit)
        if err != nil { writeError(w, r, "List deliveries failed", err); return }
        writeJSON(w, http.StatusOK, map[string]any{"items": items})
        return
    }
    parts := strings.Split(rest, "/")
    if len(parts) != 2 || parts[1] != "retry" { writeProblem(w, 404, "Not Found", "", r.URL.Path); return }
    if r.Method != http.MethodPost { w.WriteHeader(http.StatusMethodNotAllowed); return }
    if err := s.Store.RetryWebhookDelivery(r.Context(), wh, parts[0]); err != nil { writeError(w, r, "Retry delivery failed", err); return }
    writeJSON(w, http.StatusAccepted, map[string]any{"id": parts[0], "status": "pending"})
}

// EventsStreamHandler streams warehouse events as server-sent events.
func (s *Server) EventsStreamHandler(w http.ResponseWriter, r *http.Request) {
    if r.Method != http.MethodGet { w.WriteHeader(http.StatusMethodNotAllowed); return }
    flusher, ok := w.(http.Flusher)
    if !ok { writeProblem(w, 500, "Streaming unsupported", "", r.URL.Path); return }
    _, wh := s.withWarehouse(r)
    w.Header().Set("Content-Type", "text/event-stream")
    w.Header().Set("Cache-Control", "no-cache")
    w.Header().Set("Connection", "keep-alive")
    ch := s.Broker.Subscribe(wh)
    defer s.Broker.Unsubscribe(wh, ch)

    heartbeat := func() {
        b, _ := json.Marshal(map[string]string{"warehouseId": wh, "ts": time.Now().UTC().Format(time.RFC3339)})
        fmt.Fprintf(w, "event: heartbeat\ndata: %s\n\n", b)
        flusher.Flush()
    }
    heartbeat()
    ticker := time.NewTicker(15 * time.Second)
    defer ticker.Stop()
    for {
        select {
        case <-r.Context().Done():
            return
        case evt, ok := <-ch:
            if !ok { return }
            b, _ := json.Marshal(evt.Data)
            fmt.Fprintf(w, "event: %s\ndata: %s\n\n", evt.Type, b)
            flusher.Flush()
        case <-ticker.C:
            heartbeat()
        }
    }
}

// Health
func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
    writeJSON(w, 200, map[string]string{"status": "ok"})
}

func (s *Server) ReadyHandler(w http.ResponseWriter, r *http.Request) {
    // Check DB connectivity when using Postgres store
    type checker interface{ HealthCheck(ctx context.Context) error }
    if pg, ok := s.Store.(checker); ok {
        ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
        defer cancel()
        if err := pg.HealthCheck(ctx); err != nil { writeProblem(w, 503, "Not Ready", err.Error(), r.URL.Path); return }
    }
    writeJSON(w, 200, map[string]string{"status": "ready"})
}
