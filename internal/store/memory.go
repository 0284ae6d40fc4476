package store

import (
    "context"
    "sort"
    "sync"
    "time"

    "github.com/google/uuid"
    "wmsplan/internal/model"
)

// sampleInventory is what a fresh warehouse reports before any stock is loaded.
var sampleInventory = []model.InventoryItem{
    {SKU: "SKU-001", Name: "Widget A", Quantity: 150},
    {SKU: "SKU-002", Name: "Widget B", Quantity: 75},
    {SKU: "SKU-003", Name: "Gadget X", Quantity: 200},
}

// Memory is a simple in-memory store used when no DATABASE_URL is set.
type Memory struct {
    mu       sync.Mutex
    now      func() time.Time
    orders   map[string]model.Order                 // id -> order
    byWh     map[string][]string                    // warehouse -> order ids, oldest first
    tasks    map[string]map[uint32]model.TaskIn     // warehouse -> task id -> task
    workers  map[string]map[uint32]model.WorkerIn   // warehouse -> worker id -> worker
    plans    map[string]model.Plan                  // id -> plan
    plansWh  map[string][]string                    // warehouse -> plan ids, oldest first
    subs     map[string][]model.Subscription        // warehouse -> subscriptions
    // Webhooks queue state
    deliveries   map[string]*memDelivery            // id -> delivery state
    deliveryIDs  []string                           // enqueue order
    dlq          []memDelivery                      // dead-lettered deliveries
}

func NewMemory() *Memory {
    return &Memory{
        now: func() time.Time { return time.Now().UTC() },
        orders: map[string]model.Order{},
        byWh: map[string][]string{},
        tasks: map[string]map[uint32]model.TaskIn{},
        workers: map[string]map[uint32]model.WorkerIn{},
        plans: map[string]model.Plan{},
        plansWh: map[string][]string{},
        subs: map[string][]model.Subscription{},
        deliveries: map[string]*memDelivery{},
    }
}

// memDelivery augments WebhookDelivery with scheduling/metrics
type memDelivery struct {
    WebhookDelivery
    NextAttemptAt time.Time
    LastError     string
    ResponseCode  int
    LatencyMs     int
    DeliveredAt   *time.Time
}

func (m *Memory) CreateOrder(ctx context.Context, warehouseID, itemName string, quantity int) (model.Order, error) {
    m.mu.Lock(); defer m.mu.Unlock()
    id := NewOrderID()
    for _, taken := m.orders[id]; taken; _, taken = m.orders[id] { id = NewOrderID() }
    now := m.now()
    o := model.Order{ID: id, WarehouseID: warehouseID, ItemName: itemName, Quantity: quantity, Status: OrderPending, CreatedAt: now, UpdatedAt: now}
    m.orders[id] = o
    m.byWh[warehouseID] = append(m.byWh[warehouseID], id)
    return o, nil
}

func (m *Memory) GetOrder(ctx context.Context, warehouseID, id string) (model.Order, error) {
    m.mu.Lock(); defer m.mu.Unlock()
    o, ok := m.orders[id]
    if !ok || o.WarehouseID != warehouseID { return model.Order{}, ErrNotFound }
    return o, nil
}

// ListOrders returns newest first; the cursor is the last id of the previous page.
func (m *Memory) ListOrders(ctx context.Context, warehouseID, status, cursor string, limit int) ([]model.Order, string, error) {
    m.mu.Lock(); defer m.mu.Unlock()
    ids := m.byWh[warehouseID]
    start := len(ids) - 1
    if cursor != "" {
        for i := len(ids) - 1; i >= 0; i-- {
            if ids[i] == cursor { start = i - 1; break }
        }
    }
    limit = clampLimit(limit)
    out := []model.Order{}
    var next string
    for i := start; i >= 0 && len(out) < limit; i-- {
        o := m.orders[ids[i]]
        if status == "" || o.Status == status { out = append(out, o) }
        next = ids[i]
    }
    if len(out) < limit { next = "" }
    return out, next, nil
}

func (m *Memory) ListInventory(ctx context.Context, warehouseID string) ([]model.InventoryItem, error) {
    return append([]model.InventoryItem(nil), sampleInventory...), nil
}

func (m *Memory) UpsertTasks(ctx context.Context, warehouseID string, tasks []model.TaskIn) (int, error) {
    m.mu.Lock(); defer m.mu.Unlock()
    if m.tasks[warehouseID] == nil { m.tasks[warehouseID] = map[uint32]model.TaskIn{} }
    for _, t := range tasks {
        if t.Status == "" { t.Status = TaskPending }
        m.tasks[warehouseID][t.ID] = t
    }
    return len(tasks), nil
}

func (m *Memory) ListTasks(ctx context.Context, warehouseID, status string) ([]model.TaskIn, error) {
    m.mu.Lock(); defer m.mu.Unlock()
    out := []model.TaskIn{}
    for _, t := range m.tasks[warehouseID] {
        if status == "" || t.Status == status { out = append(out, t) }
    }
    sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
    return out, nil
}

func (m *Memory) UpsertWorkers(ctx context.Context, warehouseID string, workers []model.WorkerIn) (int, error) {
    m.mu.Lock(); defer m.mu.Unlock()
    if m.workers[warehouseID] == nil { m.workers[warehouseID] = map[uint32]model.WorkerIn{} }
    for _, w := range workers { m.workers[warehouseID][w.ID] = w }
    return len(workers), nil
}

func (m *Memory) ListWorkers(ctx context.Context, warehouseID string) ([]model.WorkerIn, error) {
    m.mu.Lock(); defer m.mu.Unlock()
    out := []model.WorkerIn{}
    for _, w := range m.workers[warehouseID] { out = append(out, w) }
    sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
    return out, nil
}

func (m *Memory) SavePlan(ctx context.Context, plan model.Plan) error {
    m.mu.Lock(); defer m.mu.Unlock()
    if _, ok := m.plans[plan.ID]; !ok {
        m.plansWh[plan.WarehouseID] = append(m.plansWh[plan.WarehouseID], plan.ID)
    }
    m.plans[plan.ID] = plan
    return nil
}

func (m *Memory) MarkTasksAssigned(ctx context.Context, warehouseID string, ids []uint32) error {
    m.mu.Lock(); defer m.mu.Unlock()
    ts := m.tasks[warehouseID]
    for _, id := range ids {
        if t, ok := ts[id]; ok {
            t.Status = TaskAssigned
            ts[id] = t
        }
    }
    return nil
}

func (m *Memory) GetPlan(ctx context.Context, warehouseID, id string) (model.Plan, error) {
    m.mu.Lock(); defer m.mu.Unlock()
    p, ok := m.plans[id]
    if !ok || p.WarehouseID != warehouseID { return model.Plan{}, ErrNotFound }
    return p, nil
}

func (m *Memory) ListPlans(ctx context.Context, warehouseID, cursor string, limit int) ([]model.Plan, string, error) {
    m.mu.Lock(); defer m.mu.Unlock()
    ids := m.plansWh[warehouseID]
    start := len(ids) - 1
    if cursor != "" {
        for i := len(ids) - 1; i >= 0; i-- {
            if ids[i] == cursor { start = i - 1; break }
        }
    }
    limit = clampLimit(limit)
    out := []model.Plan{}
    var next string
    for i := start; i >= 0 && len(out) < limit; i-- {
        out = append(out, m.plans[ids[i]])
        next = ids[i]
    }
    if len(out) < limit { next = "" }
    return out, next, nil
}

func (m *Memory) CreateSubscription(ctx context.Context, req model.SubscriptionRequest) (model.Subscription, error) {
    m.mu.Lock(); defer m.mu.Unlock()
    s := model.Subscription{ID: uuid.New().String(), WarehouseID: req.WarehouseID, URL: req.URL, Events: req.Events, Secret: req.Secret}
    m.subs[req.WarehouseID] = append(m.subs[req.WarehouseID], s)
    return s, nil
}

func (m *Memory) GetSubscriptionsForEvent(ctx context.Context, warehouseID, eventType string) ([]model.Subscription, error) {
    m.mu.Lock(); defer m.mu.Unlock()
    var out []model.Subscription
    for _, s := range m.subs[warehouseID] {
        for _, e := range s.Events { if e == eventType { out = append(out, s); break } }
    }
    return out, nil
}

func (m *Memory) ListSubscriptions(ctx context.Context, warehouseID, cursor string, limit int) ([]model.Subscription, string, error) {
    m.mu.Lock(); defer m.mu.Unlock()
    list := m.subs[warehouseID]
    start := 0
    if cursor != "" {
        for i := range list { if list[i].ID == cursor { start = i+1; break } }
    }
    limit = clampLimit(limit)
    end := start + limit
    if end > len(list) { end = len(list) }
    items := append([]model.Subscription{}, list[start:end]...)
    next := ""
    if end < len(list) { next = list[end-1].ID }
    return items, next, nil
}

func (m *Memory) DeleteSubscription(ctx context.Context, warehouseID, id string) error {
    m.mu.Lock(); defer m.mu.Unlock()
    arr := m.subs[warehouseID]
    out := make([]model.Subscription, 0, len(arr))
    for _, s := range arr { if s.ID != id { out = append(out, s) } }
    if len(out) == len(arr) { return ErrNotFound }
    m.subs[warehouseID] = out
    return nil
}

// Webhook deliveries
func (m *Memory) EnqueueWebhook(ctx context.Context, warehouseID, subscriptionID, eventType, url, secret string, payload []byte) (string, error) {
    m.mu.Lock(); defer m.mu.Unlock()
    id := uuid.New().String()
    d := &memDelivery{WebhookDelivery: WebhookDelivery{ID: id, WarehouseID: warehouseID, SubscriptionID: subscriptionID, EventType: eventType, URL: url, Secret: secret, Payload: payload, Status: "pending", Attempts: 0}, NextAttemptAt: m.now()}
    m.deliveries[id] = d
    m.deliveryIDs = append(m.deliveryIDs, id)
    return id, nil
}

func (m *Memory) FetchDueWebhookDeliveries(ctx context.Context, limit int) ([]WebhookDelivery, error) {
    m.mu.Lock(); defer m.mu.Unlock()
    now := m.now()
    out := []WebhookDelivery{}
    for _, id := range m.deliveryIDs {
        d := m.deliveries[id]
        if (d.Status == "pending" || d.Status == "retry") && !d.NextAttemptAt.After(now) {
            out = append(out, d.WebhookDelivery)
            if limit > 0 && len(out) >= limit { break }
        }
    }
    return out, nil
}

func (m *Memory) MarkWebhookDelivery(ctx context.Context, id string, success bool, nextAttemptAt *time.Time, lastError string, responseCode int, latencyMs int) error {
    m.mu.Lock(); defer m.mu.Unlock()
    d := m.deliveries[id]
    if d == nil { return ErrNotFound }
    d.Attempts++
    d.ResponseCode = responseCode
    d.LatencyMs = latencyMs
    if success {
        d.Status = "delivered"
        now := m.now()
        d.DeliveredAt = &now
    } else {
        d.Status = "retry"
        d.LastError = lastError
        if nextAttemptAt != nil { d.NextAttemptAt = *nextAttemptAt } else { d.NextAttemptAt = m.now().Add(1 * time.Minute) }
    }
    return nil
}

func (m *Memory) FailWebhookDelivery(ctx context.Context, id string, lastError string, responseCode int, latencyMs int) error {
    m.mu.Lock(); defer m.mu.Unlock()
    d := m.deliveries[id]
    if d == nil { return ErrNotFound }
    d.Attempts++
    d.Status = "failed"
    d.LastError = lastError
    d.ResponseCode = responseCode
    d.LatencyMs = latencyMs
    m.dlq = append(m.dlq, *d)
    return nil
}

func (m *Memory) ListWebhookDeliveries(ctx context.Context, warehouseID, status string, limit int) ([]DeliveryStatus, error) {
    m.mu.Lock(); defer m.mu.Unlock()
    limit = clampLimit(limit)
    out := []DeliveryStatus{}
    for _, id := range m.deliveryIDs {
        d := m.deliveries[id]
        if d.WarehouseID != warehouseID { continue }
        if status != "" && d.Status != status { continue }
        item := DeliveryStatus{ID: d.ID, EventType: d.EventType, URL: d.URL, Status: d.Status, Attempts: d.Attempts, LastError: d.LastError, ResponseCode: d.ResponseCode}
        if d.Status == "pending" || d.Status == "retry" { next := d.NextAttemptAt; item.NextAttemptAt = &next }
        out = append(out, item)
        if len(out) >= limit { break }
    }
    return out, nil
}

func (m *Memory) RetryWebhookDelivery(ctx context.Context, warehouseID, id string) error {
    m.mu.Lock(); defer m.mu.Unlock()
    d := m.deliveries[id]
    if d == nil || d.WarehouseID != warehouseID { return ErrNotFound }
    d.Status = "pending"
    d.NextAttemptAt = m.now()
    return nil
}

var _ Store = (*Memory)(nil)
