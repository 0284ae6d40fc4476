package store

import (
    "context"
    "database/sql"
    "encoding/json"
    "errors"
    "fmt"
    "io/fs"
    "sort"
    "strings"
    "time"

    "github.com/google/uuid"
    _ "github.com/jackc/pgx/v5/stdlib"

    "wmsplan/internal/config"
    "wmsplan/internal/model"
)

type Postgres struct {
    db *sql.DB
}

// NewPostgres opens a pool with the given limits and checks connectivity.
func NewPostgres(dsn string, pool config.Database) (*Postgres, error) {
    db, err := sql.Open("pgx", dsn)
    if err != nil {
        return nil, err
    }
    if pool.MaxConnections > 0 { db.SetMaxOpenConns(pool.MaxConnections) }
    if pool.MinConnections > 0 { db.SetMaxIdleConns(pool.MinConnections) }
    if pool.IdleTimeoutSecs > 0 { db.SetConnMaxIdleTime(pool.IdleTimeout()) }
    timeout := pool.ConnectionTimeout()
    if timeout <= 0 { timeout = 30 * time.Second }
    ctx, cancel := context.WithTimeout(context.Background(), timeout)
    defer cancel()
    if err := db.PingContext(ctx); err != nil {
        _ = db.Close()
        return nil, fmt.Errorf("connect to database: %w", err)
    }
    return &Postgres{db: db}, nil
}

func (p *Postgres) Close() error { return p.db.Close() }

func (p *Postgres) Ping(ctx context.Context) error { return p.db.PingContext(ctx) }

// HealthCheck runs a trivial query and verifies its result.
func (p *Postgres) HealthCheck(ctx context.Context) error {
    var one int
    if err := p.db.QueryRowContext(ctx, `SELECT 1`).Scan(&one); err != nil { return fmt.Errorf("health check: %w", err) }
    if one != 1 { return fmt.Errorf("health check: unexpected result %d", one) }
    return nil
}

// Migrate applies every *.sql file in fsys, in name order, that is not yet
// recorded in schema_migrations. Each file runs in its own transaction.
func (p *Postgres) Migrate(ctx context.Context, fsys fs.FS) error {
    if _, err := p.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (version text PRIMARY KEY, applied_at timestamptz NOT NULL DEFAULT now())`); err != nil {
        return err
    }
    names, err := fs.Glob(fsys, "*.sql")
    if err != nil { return err }
    sort.Strings(names)
    for _, name := range names {
        var exists bool
        if err := p.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version=$1)`, name).Scan(&exists); err != nil { return err }
        if exists { continue }
        body, err := fs.ReadFile(fsys, name)
        if err != nil { return err }
        tx, err := p.db.BeginTx(ctx, nil)
        if err != nil { return err }
        if _, err := tx.ExecContext(ctx, string(body)); err != nil {
            _ = tx.Rollback()
            return fmt.Errorf("migration %s: %w", name, err)
        }
        if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, name); err != nil {
            _ = tx.Rollback()
            return err
        }
        if err := tx.Commit(); err != nil { return err }
    }
    return nil
}

// Orders

func (p *Postgres) CreateOrder(ctx context.Context, warehouseID, itemName string, quantity int) (model.Order, error) {
    now := time.Now().UTC()
    o := model.Order{WarehouseID: warehouseID, ItemName: itemName, Quantity: quantity, Status: OrderPending, CreatedAt: now, UpdatedAt: now}
    // order numbers are short, so retry on the rare collision
    for attempt := 0; attempt < 5; attempt++ {
        o.ID = NewOrderID()
        res, err := p.db.ExecContext(ctx, `INSERT INTO orders (id, warehouse_id, item_name, quantity, status, created_at, updated_at) VALUES ($1,$2,$3,$4,$5,$6,$6)
            ON CONFLICT (id) DO NOTHING`, o.ID, warehouseID, itemName, quantity, o.Status, now)
        if err != nil { return model.Order{}, err }
        if n, _ := res.RowsAffected(); n == 1 { return o, nil }
    }
    return model.Order{}, errors.New("could not allocate a unique order id")
}

func (p *Postgres) GetOrder(ctx context.Context, warehouseID, id string) (model.Order, error) {
    var o model.Order
    err := p.db.QueryRowContext(ctx, `SELECT id, warehouse_id, item_name, quantity, status, created_at, updated_at FROM orders WHERE warehouse_id=$1 AND id=$2`, warehouseID, id).
        Scan(&o.ID, &o.WarehouseID, &o.ItemName, &o.Quantity, &o.Status, &o.CreatedAt, &o.UpdatedAt)
    if errors.Is(err, sql.ErrNoRows) { return o, ErrNotFound }
    return o, err
}

func (p *Postgres) ListOrders(ctx context.Context, warehouseID, status, cursor string, limit int) ([]model.Order, string, error) {
    limit = clampLimit(limit)
    q := `SELECT id, warehouse_id, item_name, quantity, status, created_at, updated_at FROM orders WHERE warehouse_id=$1`
    args := []any{warehouseID}
    if status != "" {
        args = append(args, status)
        q += fmt.Sprintf(` AND status=$%d`, len(args))
    }
    if cursor != "" {
        args = append(args, cursor)
        q += fmt.Sprintf(` AND (created_at, id) < (SELECT created_at, id FROM orders WHERE id=$%d)`, len(args))
    }
    args = append(args, limit)
    q += fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT $%d`, len(args))
    rows, err := p.db.QueryContext(ctx, q, args...)
    if err != nil { return nil, "", err }
    defer rows.Close()
    out := []model.Order{}
    for rows.Next() {
        var o model.Order
        if err := rows.Scan(&o.ID, &o.WarehouseID, &o.ItemName, &o.Quantity, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil { return nil, "", err }
        out = append(out, o)
    }
    if err := rows.Err(); err != nil { return nil, "", err }
    next := ""
    if len(out) == limit { next = out[len(out)-1].ID }
    return out, next, nil
}

func (p *Postgres) ListInventory(ctx context.Context, warehouseID string) ([]model.InventoryItem, error) {
    rows, err := p.db.QueryContext(ctx, `SELECT sku, name, quantity FROM inventory_items WHERE warehouse_id=$1 ORDER BY sku`, warehouseID)
    if err != nil { return nil, err }
    defer rows.Close()
    out := []model.InventoryItem{}
    for rows.Next() {
        var it model.InventoryItem
        if err := rows.Scan(&it.SKU, &it.Name, &it.Quantity); err != nil { return nil, err }
        out = append(out, it)
    }
    return out, rows.Err()
}

// Tasks and workers

func (p *Postgres) UpsertTasks(ctx context.Context, warehouseID string, tasks []model.TaskIn) (int, error) {
    if len(tasks) == 0 { return 0, nil }
    tx, err := p.db.BeginTx(ctx, nil)
    if err != nil { return 0, err }
    defer func(){ _ = tx.Rollback() }()
    for _, t := range tasks {
        st := t.Status
        if st == "" { st = TaskPending }
        _, err := tx.ExecContext(ctx, `INSERT INTO tasks (warehouse_id, id, x, y, priority, duration_min, status, updated_at) VALUES ($1,$2,$3,$4,$5,$6,$7,now())
            ON CONFLICT (warehouse_id, id) DO UPDATE SET x=EXCLUDED.x, y=EXCLUDED.y, priority=EXCLUDED.priority, duration_min=EXCLUDED.duration_min, status=EXCLUDED.status, updated_at=now()`,
            warehouseID, int64(t.ID), t.Location.X, t.Location.Y, t.Priority, nullFloat(t.DurationMin), st)
        if err != nil { return 0, err }
    }
    if err := tx.Commit(); err != nil { return 0, err }
    return len(tasks), nil
}

func (p *Postgres) ListTasks(ctx context.Context, warehouseID, status string) ([]model.TaskIn, error) {
    q := `SELECT id, x, y, priority, duration_min, status FROM tasks WHERE warehouse_id=$1`
    args := []any{warehouseID}
    if status != "" {
        q += ` AND status=$2`
        args = append(args, status)
    }
    rows, err := p.db.QueryContext(ctx, q+` ORDER BY id`, args...)
    if err != nil { return nil, err }
    defer rows.Close()
    out := []model.TaskIn{}
    for rows.Next() {
        var t model.TaskIn
        var id int64
        var dur sql.NullFloat64
        if err := rows.Scan(&id, &t.Location.X, &t.Location.Y, &t.Priority, &dur, &t.Status); err != nil { return nil, err }
        t.ID = uint32(id)
        if dur.Valid { d := dur.Float64; t.DurationMin = &d }
        out = append(out, t)
    }
    return out, rows.Err()
}

func (p *Postgres) UpsertWorkers(ctx context.Context, warehouseID string, workers []model.WorkerIn) (int, error) {
    if len(workers) == 0 { return 0, nil }
    tx, err := p.db.BeginTx(ctx, nil)
    if err != nil { return 0, err }
    defer func(){ _ = tx.Rollback() }()
    for _, w := range workers {
        avail := w.Available == nil || *w.Available
        _, err := tx.ExecContext(ctx, `INSERT INTO workers (warehouse_id, id, x, y, available, load, max_tasks, updated_at) VALUES ($1,$2,$3,$4,$5,$6,$7,now())
            ON CONFLICT (warehouse_id, id) DO UPDATE SET x=EXCLUDED.x, y=EXCLUDED.y, available=EXCLUDED.available, load=EXCLUDED.load, max_tasks=EXCLUDED.max_tasks, updated_at=now()`,
            warehouseID, int64(w.ID), w.Location.X, w.Location.Y, avail, w.Load, w.MaxTasks)
        if err != nil { return 0, err }
    }
    if err := tx.Commit(); err != nil { return 0, err }
    return len(workers), nil
}

func (p *Postgres) ListWorkers(ctx context.Context, warehouseID string) ([]model.WorkerIn, error) {
    rows, err := p.db.QueryContext(ctx, `SELECT id, x, y, available, load, max_tasks FROM workers WHERE warehouse_id=$1 ORDER BY id`, warehouseID)
    if err != nil { return nil, err }
    defer rows.Close()
    out := []model.WorkerIn{}
    for rows.Next() {
        var w model.WorkerIn
        var id int64
        var avail bool
        if err := rows.Scan(&id, &w.Location.X, &w.Location.Y, &avail, &w.Load, &w.MaxTasks); err != nil { return nil, err }
        w.ID = uint32(id)
        w.Available = &avail
        out = append(out, w)
    }
    return out, rows.Err()
}

// Plans

func (p *Postgres) SavePlan(ctx context.Context, plan model.Plan) error {
    unassigned, summary, err := planColumns(plan)
    if err != nil { return err }
    tx, err := p.db.BeginTx(ctx, nil)
    if err != nil { return err }
    defer func(){ _ = tx.Rollback() }()
    _, err = tx.ExecContext(ctx, `INSERT INTO plans (id, warehouse_id, mode, estimator, created_at, unassigned, summary) VALUES ($1,$2,$3,$4,$5,$6,$7)`,
        plan.ID, plan.WarehouseID, plan.Mode, plan.Estimator, plan.CreatedAt, string(unassigned), string(summary))
    if err != nil { return err }
    for i, a := range plan.Assignments {
        if _, err := tx.ExecContext(ctx, `INSERT INTO plan_assignments (plan_id, seq, task_id, worker_id, estimated_cost) VALUES ($1,$2,$3,$4,$5)`,
            plan.ID, i, int64(a.TaskID), int64(a.WorkerID), a.EstimatedCost); err != nil { return err }
    }
    return tx.Commit()
}

// planColumns encodes the jsonb columns of a plan row.
func planColumns(plan model.Plan) (unassigned, summary []byte, err error) {
    if unassigned, err = json.Marshal(plan.Unassigned); err != nil {
        return nil, nil, fmt.Errorf("encode unassigned: %w", err)
    }
    if summary, err = json.Marshal(plan.Summary); err != nil {
        return nil, nil, fmt.Errorf("encode summary: %w", err)
    }
    return unassigned, summary, nil
}

func (p *Postgres) MarkTasksAssigned(ctx context.Context, warehouseID string, ids []uint32) error {
    if len(ids) == 0 { return nil }
    tx, err := p.db.BeginTx(ctx, nil)
    if err != nil { return err }
    defer func(){ _ = tx.Rollback() }()
    for _, id := range ids {
        if _, err := tx.ExecContext(ctx, `UPDATE tasks SET status=$1, updated_at=now() WHERE warehouse_id=$2 AND id=$3`,
            TaskAssigned, warehouseID, int64(id)); err != nil { return err }
    }
    return tx.Commit()
}

func (p *Postgres) GetPlan(ctx context.Context, warehouseID, id string) (model.Plan, error) {
    if _, err := uuid.Parse(id); err != nil { return model.Plan{}, ErrNotFound }
    row := p.db.QueryRowContext(ctx, `SELECT id::text, warehouse_id, mode, estimator, created_at, unassigned, summary FROM plans WHERE warehouse_id=$1 AND id=$2`, warehouseID, id)
    pl, err := scanPlan(row)
    if errors.Is(err, sql.ErrNoRows) { return pl, ErrNotFound }
    if err != nil { return pl, err }
    pl.Assignments, err = p.planAssignments(ctx, pl.ID)
    return pl, err
}

func (p *Postgres) ListPlans(ctx context.Context, warehouseID, cursor string, limit int) ([]model.Plan, string, error) {
    limit = clampLimit(limit)
    var rows *sql.Rows
    var err error
    if _, perr := uuid.Parse(cursor); cursor != "" && perr == nil {
        rows, err = p.db.QueryContext(ctx, `SELECT id::text, warehouse_id, mode, estimator, created_at, unassigned, summary FROM plans
            WHERE warehouse_id=$1 AND (created_at, id) < (SELECT created_at, id FROM plans WHERE id=$2) ORDER BY created_at DESC, id DESC LIMIT $3`, warehouseID, cursor, limit)
    } else {
        rows, err = p.db.QueryContext(ctx, `SELECT id::text, warehouse_id, mode, estimator, created_at, unassigned, summary FROM plans
            WHERE warehouse_id=$1 ORDER BY created_at DESC, id DESC LIMIT $2`, warehouseID, limit)
    }
    if err != nil { return nil, "", err }
    out := []model.Plan{}
    for rows.Next() {
        pl, err := scanPlan(rows)
        if err != nil { _ = rows.Close(); return nil, "", err }
        out = append(out, pl)
    }
    _ = rows.Close()
    for i := range out {
        if out[i].Assignments, err = p.planAssignments(ctx, out[i].ID); err != nil { return nil, "", err }
    }
    next := ""
    if len(out) == limit { next = out[len(out)-1].ID }
    return out, next, nil
}

type rowScanner interface{ Scan(dest ...any) error }

func scanPlan(row rowScanner) (model.Plan, error) {
    var pl model.Plan
    var unassigned, summary []byte
    if err := row.Scan(&pl.ID, &pl.WarehouseID, &pl.Mode, &pl.Estimator, &pl.CreatedAt, &unassigned, &summary); err != nil { return pl, err }
    pl.Unassigned = []uint32{}
    if len(unassigned) > 0 { if err := json.Unmarshal(unassigned, &pl.Unassigned); err != nil { return pl, err } }
    if len(summary) > 0 { if err := json.Unmarshal(summary, &pl.Summary); err != nil { return pl, err } }
    pl.CreatedAt = pl.CreatedAt.UTC()
    return pl, nil
}

func (p *Postgres) planAssignments(ctx context.Context, planID string) ([]model.AssignmentOut, error) {
    rows, err := p.db.QueryContext(ctx, `SELECT task_id, worker_id, estimated_cost FROM plan_assignments WHERE plan_id=$1 ORDER BY seq`, planID)
    if err != nil { return nil, err }
    defer rows.Close()
    out := []model.AssignmentOut{}
    for rows.Next() {
        var tid, wid int64
        var a model.AssignmentOut
        if err := rows.Scan(&tid, &wid, &a.EstimatedCost); err != nil { return nil, err }
        a.TaskID, a.WorkerID = uint32(tid), uint32(wid)
        out = append(out, a)
    }
    return out, rows.Err()
}

// Subscriptions

func (p *Postgres) CreateSubscription(ctx context.Context, req model.SubscriptionRequest) (model.Subscription, error) {
    id := uuid.New().String()
    ev, _ := json.Marshal(req.Events)
    _, err := p.db.ExecContext(ctx, `INSERT INTO subscriptions (id, warehouse_id, url, events, secret) VALUES ($1,$2,$3,$4,$5)`, id, req.WarehouseID, req.URL, string(ev), req.Secret)
    if err != nil { return model.Subscription{}, err }
    return model.Subscription{ID: id, WarehouseID: req.WarehouseID, URL: req.URL, Events: req.Events, Secret: req.Secret}, nil
}

func (p *Postgres) GetSubscriptionsForEvent(ctx context.Context, warehouseID, eventType string) ([]model.Subscription, error) {
    match, _ := json.Marshal([]string{eventType})
    rows, err := p.db.QueryContext(ctx, `SELECT id::text, url, secret, events FROM subscriptions WHERE warehouse_id=$1 AND events @> $2::jsonb`, warehouseID, string(match))
    if err != nil { return nil, err }
    defer rows.Close()
    return scanSubscriptions(rows, warehouseID)
}

func (p *Postgres) ListSubscriptions(ctx context.Context, warehouseID, cursor string, limit int) ([]model.Subscription, string, error) {
    limit = clampLimit(limit)
    var rows *sql.Rows
    var err error
    if cursor != "" {
        rows, err = p.db.QueryContext(ctx, `SELECT id::text, url, secret, events FROM subscriptions WHERE warehouse_id=$1 AND id::text > $2 ORDER BY id LIMIT $3`, warehouseID, cursor, limit)
    } else {
        rows, err = p.db.QueryContext(ctx, `SELECT id::text, url, secret, events FROM subscriptions WHERE warehouse_id=$1 ORDER BY id LIMIT $2`, warehouseID, limit)
    }
    if err != nil { return nil, "", err }
    defer rows.Close()
    out, err := scanSubscriptions(rows, warehouseID)
    if err != nil { return nil, "", err }
    next := ""
    if len(out) == limit { next = out[len(out)-1].ID }
    return out, next, nil
}

func scanSubscriptions(rows *sql.Rows, warehouseID string) ([]model.Subscription, error) {
    out := []model.Subscription{}
    for rows.Next() {
        var s model.Subscription
        var ev []byte
        if err := rows.Scan(&s.ID, &s.URL, &s.Secret, &ev); err != nil { return nil, err }
        s.WarehouseID = warehouseID
        _ = json.Unmarshal(ev, &s.Events)
        out = append(out, s)
    }
    return out, rows.Err()
}

func (p *Postgres) DeleteSubscription(ctx context.Context, warehouseID, id string) error {
    if _, err := uuid.Parse(id); err != nil { return ErrNotFound }
    res, err := p.db.ExecContext(ctx, `DELETE FROM subscriptions WHERE warehouse_id=$1 AND id=$2`, warehouseID, id)
    if err != nil { return err }
    if n, _ := res.RowsAffected(); n == 0 { return ErrNotFound }
    return nil
}

// Webhook deliveries

func (p *Postgres) EnqueueWebhook(ctx context.Context, warehouseID, subscriptionID, eventType, url, secret string, payload []byte) (string, error) {
    id := uuid.New().String()
    dk := computeDedupKey(payload)
    _, err := p.db.ExecContext(ctx, `INSERT INTO webhook_deliveries (id, warehouse_id, subscription_id, event_type, url, secret, payload, status, attempts, next_attempt_at, dedup_key)
        VALUES ($1,$2,$3,$4,$5,$6,$7,'pending',0,now(),$8)
        ON CONFLICT (warehouse_id, event_type, url, dedup_key) DO NOTHING`, id, warehouseID, nullIfEmpty(subscriptionID), eventType, url, nullIfEmpty(secret), string(payload), dk)
    if err != nil { return "", err }
    return id, nil
}

func (p *Postgres) FetchDueWebhookDeliveries(ctx context.Context, limit int) ([]WebhookDelivery, error) {
    rows, err := p.db.QueryContext(ctx, `SELECT id::text, warehouse_id, COALESCE(subscription_id::text,''), event_type, url, COALESCE(secret,''), payload, status, attempts
        FROM webhook_deliveries WHERE status IN ('pending','retry') AND next_attempt_at <= now() ORDER BY next_attempt_at ASC LIMIT $1`, limit)
    if err != nil { return nil, err }
    defer rows.Close()
    out := []WebhookDelivery{}
    for rows.Next() {
        var d WebhookDelivery
        if err := rows.Scan(&d.ID, &d.WarehouseID, &d.SubscriptionID, &d.EventType, &d.URL, &d.Secret, &d.Payload, &d.Status, &d.Attempts); err != nil { return nil, err }
        out = append(out, d)
    }
    return out, rows.Err()
}

func (p *Postgres) MarkWebhookDelivery(ctx context.Context, id string, success bool, nextAttemptAt *time.Time, lastError string, responseCode int, latencyMs int) error {
    if !success {
        if nextAttemptAt == nil { t := time.Now().Add(1 * time.Minute); nextAttemptAt = &t }
        _, err := p.db.ExecContext(ctx, `UPDATE webhook_deliveries SET attempts=attempts+1, status='retry', last_error=$1, next_attempt_at=$2, updated_at=now(), response_code=$4, latency_ms=$5 WHERE id=$3`, nullIfEmpty(lastError), *nextAttemptAt, id, responseCode, latencyMs)
        return err
    }
    _, err := p.db.ExecContext(ctx, `UPDATE webhook_deliveries SET attempts=attempts+1, status='delivered', delivered_at=now(), updated_at=now(), response_code=$2, latency_ms=$3 WHERE id=$1`, id, responseCode, latencyMs)
    return err
}

// FailWebhookDelivery marks the delivery failed and copies it to the dead-letter table.
func (p *Postgres) FailWebhookDelivery(ctx context.Context, id string, lastError string, responseCode int, latencyMs int) error {
    tx, err := p.db.BeginTx(ctx, nil)
    if err != nil { return err }
    defer func(){ _ = tx.Rollback() }()
    if _, err := tx.ExecContext(ctx, `UPDATE webhook_deliveries SET attempts=attempts+1, status='failed', last_error=$2, updated_at=now(), response_code=$3, latency_ms=$4 WHERE id=$1`, id, nullIfEmpty(lastError), responseCode, latencyMs); err != nil { return err }
    if _, err := tx.ExecContext(ctx, `INSERT INTO webhook_dlq (id, warehouse_id, delivery_id, event_type, url, secret, payload, attempts, last_error, response_code)
        SELECT gen_random_uuid(), warehouse_id, id, event_type, url, secret, payload, attempts, $2, $3 FROM webhook_deliveries WHERE id=$1`, id, nullIfEmpty(lastError), responseCode); err != nil { return err }
    return tx.Commit()
}

func (p *Postgres) ListWebhookDeliveries(ctx context.Context, warehouseID, status string, limit int) ([]DeliveryStatus, error) {
    limit = clampLimit(limit)
    q := `SELECT id::text, event_type, url, status, attempts, next_attempt_at, COALESCE(last_error,''), COALESCE(response_code,0) FROM webhook_deliveries WHERE warehouse_id=$1`
    args := []any{warehouseID}
    if status != "" {
        q += ` AND status=$2`
        args = append(args, status)
    }
    args = append(args, limit)
    rows, err := p.db.QueryContext(ctx, q+fmt.Sprintf(` ORDER BY created_at LIMIT $%d`, len(args)), args...)
    if err != nil { return nil, err }
    defer rows.Close()
    out := []DeliveryStatus{}
    for rows.Next() {
        var d DeliveryStatus
        var nextAt sql.NullTime
        if err := rows.Scan(&d.ID, &d.EventType, &d.URL, &d.Status, &d.Attempts, &nextAt, &d.LastError, &d.ResponseCode); err != nil { return nil, err }
        if nextAt.Valid && (d.Status == "pending" || d.Status == "retry") { t := nextAt.Time; d.NextAttemptAt = &t }
        out = append(out, d)
    }
    return out, rows.Err()
}

func (p *Postgres) RetryWebhookDelivery(ctx context.Context, warehouseID, id string) error {
    if _, err := uuid.Parse(id); err != nil { return ErrNotFound }
    res, err := p.db.ExecContext(ctx, `UPDATE webhook_deliveries SET status='pending', next_attempt_at=now(), updated_at=now() WHERE warehouse_id=$1 AND id=$2`, warehouseID, id)
    if err != nil { return err }
    if n, _ := res.RowsAffected(); n == 0 { return ErrNotFound }
    return nil
}

// Helpers
func nullIfEmpty(s string) any { if strings.TrimSpace(s) == "" { return nil }; return s }
func nullFloat(f *float64) any { if f == nil { return nil }; return *f }

var _ Store = (*Postgres)(nil)
