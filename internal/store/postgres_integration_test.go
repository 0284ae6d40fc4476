//go:build postgres_integration

package store

import (
    "os"
    "testing"

    "wmsplan/db"
    "wmsplan/internal/config"
    "wmsplan/internal/model"
)

func TestPostgresConnectivityAndMigrate(t *testing.T) {
    dsn := os.Getenv("DATABASE_URL")
    if dsn == "" { t.Skip("DATABASE_URL not set; skipping integration test") }
    p, err := NewPostgres(dsn, config.Default().Database)
    if err != nil { t.Fatalf("NewPostgres: %v", err) }
    defer func() { _ = p.Close() }()
    ctx := t.Context()
    if err := p.HealthCheck(ctx); err != nil { t.Fatalf("HealthCheck: %v", err) }
    if err := p.Migrate(ctx, db.Migrations()); err != nil { t.Fatalf("Migrate: %v", err) }
    // second run is a no-op
    if err := p.Migrate(ctx, db.Migrations()); err != nil { t.Fatalf("Migrate again: %v", err) }

    inv, err := p.ListInventory(ctx, "wh_demo")
    if err != nil || len(inv) != 3 { t.Fatalf("ListInventory: %v %+v", err, inv) }

    o, err := p.CreateOrder(ctx, "wh_it", "Widget A", 3)
    if err != nil { t.Fatalf("CreateOrder: %v", err) }
    got, err := p.GetOrder(ctx, "wh_it", o.ID)
    if err != nil || got.ItemName != "Widget A" || got.Status != OrderPending { t.Fatalf("GetOrder: %v %+v", err, got) }

    if _, err := p.UpsertTasks(ctx, "wh_it", []model.TaskIn{{ID: 1, Priority: "high"}}); err != nil { t.Fatalf("UpsertTasks: %v", err) }
    if _, err := p.UpsertWorkers(ctx, "wh_it", []model.WorkerIn{{ID: 1}}); err != nil { t.Fatalf("UpsertWorkers: %v", err) }
    pending, err := p.ListTasks(ctx, "wh_it", TaskPending)
    if err != nil || len(pending) == 0 { t.Fatalf("ListTasks: %v %+v", err, pending) }
}
