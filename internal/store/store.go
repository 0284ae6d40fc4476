package store

import (
    "context"
    "errors"
    "time"

    "wmsplan/internal/model"
)

// Store is the persistence interface used by the API server and the CLI.
type Store interface {
    // Orders
    CreateOrder(ctx context.Context, warehouseID, itemName string, quantity int) (model.Order, error)
    GetOrder(ctx context.Context, warehouseID, id string) (model.Order, error)
    ListOrders(ctx context.Context, warehouseID, status, cursor string, limit int) (items []model.Order, nextCursor string, err error)

    // Inventory
    ListInventory(ctx context.Context, warehouseID string) ([]model.InventoryItem, error)

    // Planning inputs
    UpsertTasks(ctx context.Context, warehouseID string, tasks []model.TaskIn) (int, error)
    ListTasks(ctx context.Context, warehouseID, status string) ([]model.TaskIn, error)
    UpsertWorkers(ctx context.Context, warehouseID string, workers []model.WorkerIn) (int, error)
    ListWorkers(ctx context.Context, warehouseID string) ([]model.WorkerIn, error)

    // MarkTasksAssigned moves stored tasks out of the pending queue. Ids
    // with no stored task are ignored.
    MarkTasksAssigned(ctx context.Context, warehouseID string, ids []uint32) error

    // Plans
    SavePlan(ctx context.Context, plan model.Plan) error
    GetPlan(ctx context.Context, warehouseID, id string) (model.Plan, error)
    ListPlans(ctx context.Context, warehouseID, cursor string, limit int) ([]model.Plan, string, error)

    // Subscriptions
    CreateSubscription(ctx context.Context, req model.SubscriptionRequest) (model.Subscription, error)
    GetSubscriptionsForEvent(ctx context.Context, warehouseID, eventType string) ([]model.Subscription, error)
    ListSubscriptions(ctx context.Context, warehouseID, cursor string, limit int) ([]model.Subscription, string, error)
    DeleteSubscription(ctx context.Context, warehouseID, id string) error

    // Webhook deliveries
    EnqueueWebhook(ctx context.Context, warehouseID, subscriptionID, eventType, url, secret string, payload []byte) (string, error)
    FetchDueWebhookDeliveries(ctx context.Context, limit int) ([]WebhookDelivery, error)
    MarkWebhookDelivery(ctx context.Context, id string, success bool, nextAttemptAt *time.Time, lastError string, responseCode int, latencyMs int) error
    FailWebhookDelivery(ctx context.Context, id string, lastError string, responseCode int, latencyMs int) error
    ListWebhookDeliveries(ctx context.Context, warehouseID, status string, limit int) ([]DeliveryStatus, error)
    RetryWebhookDelivery(ctx context.Context, warehouseID, id string) error
}

var ErrNotFound = errors.New("not found")

const (
    TaskPending  = "pending"
    TaskAssigned = "assigned"

    OrderPending = "pending"
)
