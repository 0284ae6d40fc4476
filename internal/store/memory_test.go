package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"wmsplan/internal/model"
)

func TestMemoryOrders(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	var ids []string
	for i := 0; i < 3; i++ {
		o, err := m.CreateOrder(ctx, "wh1", "Widget A", i+1)
		if err != nil {
			t.Fatalf("CreateOrder: %v", err)
		}
		if o.Status != OrderPending || o.CreatedAt.IsZero() {
			t.Fatalf("unexpected order %+v", o)
		}
		ids = append(ids, o.ID)
	}
	if _, err := m.CreateOrder(ctx, "wh2", "Gadget X", 1); err != nil {
		t.Fatal(err)
	}

	page, next, err := m.ListOrders(ctx, "wh1", "", "", 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(page) != 2 || page[0].ID != ids[2] || page[1].ID != ids[1] {
		t.Fatalf("want newest first, got %+v", page)
	}
	if next != ids[1] {
		t.Fatalf("next cursor = %q", next)
	}
	rest, next, _ := m.ListOrders(ctx, "wh1", "", next, 2)
	if len(rest) != 1 || rest[0].ID != ids[0] || next != "" {
		t.Fatalf("second page %+v next=%q", rest, next)
	}

	if _, err := m.GetOrder(ctx, "wh2", ids[0]); !errors.Is(err, ErrNotFound) {
		t.Fatalf("cross-warehouse get should be not found, got %v", err)
	}
}

func TestMemoryInventorySamples(t *testing.T) {
	items, err := NewMemory().ListInventory(context.Background(), "any")
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 3 || items[0].SKU != "SKU-001" || items[2].Quantity != 200 {
		t.Fatalf("unexpected inventory %+v", items)
	}
	items[0].Quantity = 0
	again, _ := NewMemory().ListInventory(context.Background(), "any")
	if again[0].Quantity != 150 {
		t.Fatal("inventory samples must not be shared")
	}
}

func TestMemoryPlansAndTaskStatus(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	_, _ = m.UpsertTasks(ctx, "wh1", []model.TaskIn{{ID: 2, Priority: "low"}, {ID: 1, Priority: "high"}})
	_, _ = m.UpsertWorkers(ctx, "wh1", []model.WorkerIn{{ID: 9}, {ID: 3}})

	pending, _ := m.ListTasks(ctx, "wh1", TaskPending)
	if len(pending) != 2 || pending[0].ID != 1 {
		t.Fatalf("pending tasks %+v", pending)
	}
	workers, _ := m.ListWorkers(ctx, "wh1")
	if len(workers) != 2 || workers[0].ID != 3 {
		t.Fatalf("workers %+v", workers)
	}

	plan := model.Plan{ID: "p1", WarehouseID: "wh1", Mode: "single", CreatedAt: time.Now(),
		Assignments: []model.AssignmentOut{{TaskID: 1, WorkerID: 3, EstimatedCost: 1}}, Unassigned: []uint32{2}}
	if err := m.SavePlan(ctx, plan); err != nil {
		t.Fatal(err)
	}
	pending, _ = m.ListTasks(ctx, "wh1", TaskPending)
	if len(pending) != 2 {
		t.Fatalf("SavePlan must not touch task status, pending = %+v", pending)
	}
	if err := m.MarkTasksAssigned(ctx, "wh1", []uint32{1, 42}); err != nil {
		t.Fatal(err)
	}
	pending, _ = m.ListTasks(ctx, "wh1", TaskPending)
	if len(pending) != 1 || pending[0].ID != 2 {
		t.Fatalf("after plan pending = %+v", pending)
	}
	got, err := m.GetPlan(ctx, "wh1", "p1")
	if err != nil || len(got.Assignments) != 1 {
		t.Fatalf("GetPlan: %v %+v", err, got)
	}
	if _, err := m.GetPlan(ctx, "wh2", "p1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	plans, _, _ := m.ListPlans(ctx, "wh1", "", 10)
	if len(plans) != 1 {
		t.Fatalf("ListPlans %+v", plans)
	}
}

func TestMemorySubscriptions(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	s, _ := m.CreateSubscription(ctx, model.SubscriptionRequest{WarehouseID: "wh1", URL: "http://x", Events: []string{"plan.completed"}})
	_, _ = m.CreateSubscription(ctx, model.SubscriptionRequest{WarehouseID: "wh1", URL: "http://y", Events: []string{"order.created"}})

	subs, _ := m.GetSubscriptionsForEvent(ctx, "wh1", "plan.completed")
	if len(subs) != 1 || subs[0].ID != s.ID {
		t.Fatalf("subs for event %+v", subs)
	}
	if err := m.DeleteSubscription(ctx, "wh1", s.ID); err != nil {
		t.Fatal(err)
	}
	if err := m.DeleteSubscription(ctx, "wh1", s.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: %v", err)
	}
	list, _, _ := m.ListSubscriptions(ctx, "wh1", "", 10)
	if len(list) != 1 {
		t.Fatalf("list %+v", list)
	}
}

func TestMemoryWebhookQueue(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	id, _ := m.EnqueueWebhook(ctx, "wh1", "", "plan.completed", "http://x", "s", []byte(`{}`))

	due, _ := m.FetchDueWebhookDeliveries(ctx, 10)
	if len(due) != 1 || due[0].ID != id {
		t.Fatalf("due %+v", due)
	}
	later := time.Now().Add(time.Hour)
	if err := m.MarkWebhookDelivery(ctx, id, false, &later, "boom", 500, 3); err != nil {
		t.Fatal(err)
	}
	if due, _ = m.FetchDueWebhookDeliveries(ctx, 10); len(due) != 0 {
		t.Fatalf("retry scheduled later should not be due: %+v", due)
	}
	if err := m.RetryWebhookDelivery(ctx, "wh1", id); err != nil {
		t.Fatal(err)
	}
	if due, _ = m.FetchDueWebhookDeliveries(ctx, 10); len(due) != 1 {
		t.Fatal("manual retry should make the delivery due")
	}
	if err := m.FailWebhookDelivery(ctx, id, "gone", 410, 1); err != nil {
		t.Fatal(err)
	}
	list, _ := m.ListWebhookDeliveries(ctx, "wh1", "failed", 10)
	if len(list) != 1 || list[0].Attempts != 2 || list[0].ResponseCode != 410 {
		t.Fatalf("deliveries %+v", list)
	}
	if len(m.dlq) != 1 {
		t.Fatalf("dlq %+v", m.dlq)
	}
}
