package model

import "time"

// Wire and storage types shared by the API, CLI and stores.

type Point struct {
    X float64 `json:"x" yaml:"x"`
    Y float64 `json:"y" yaml:"y"`
}

type TaskIn struct {
    ID          uint32   `json:"id" yaml:"id"`
    Location    Point    `json:"location" yaml:"location"`
    Priority    string   `json:"priority" yaml:"priority"`
    DurationMin *float64 `json:"durationMin,omitempty" yaml:"durationMin,omitempty"`
    Status      string   `json:"status,omitempty" yaml:"status,omitempty"` // pending, assigned
}

type WorkerIn struct {
    ID        uint32  `json:"id" yaml:"id"`
    Location  Point   `json:"location" yaml:"location"`
    Available *bool   `json:"available,omitempty" yaml:"available,omitempty"` // nil means true
    Load      float64 `json:"load,omitempty" yaml:"load,omitempty"`
    MaxTasks  int     `json:"maxTasks,omitempty" yaml:"maxTasks,omitempty"`
}

// PlanRequest is the body of POST /v1/plan and /v1/plan/batch and the
// layout of CLI plan input files.
type PlanRequest struct {
    WarehouseID       string     `json:"warehouseId,omitempty" yaml:"warehouseId,omitempty"`
    Estimator         string     `json:"estimator,omitempty" yaml:"estimator,omitempty"`
    TravelSpeed       float64    `json:"travelSpeed,omitempty" yaml:"travelSpeed,omitempty"`
    MaxTasksPerWorker int        `json:"maxTasksPerWorker,omitempty" yaml:"maxTasksPerWorker,omitempty"`
    LoadStep          float64    `json:"loadStep,omitempty" yaml:"loadStep,omitempty"`
    Tasks             []TaskIn   `json:"tasks,omitempty" yaml:"tasks,omitempty"`
    Workers           []WorkerIn `json:"workers,omitempty" yaml:"workers,omitempty"`
}

type AssignmentOut struct {
    TaskID        uint32  `json:"taskId"`
    WorkerID      uint32  `json:"workerId"`
    EstimatedCost float64 `json:"estimatedCost"`
}

type PlanSummary struct {
    Tasks      int     `json:"tasks"`
    Assigned   int     `json:"assigned"`
    Unassigned int     `json:"unassigned"`
    TotalCost  float64 `json:"totalCost"`
    MaxCost    float64 `json:"maxCost"`
}

// Plan is a persisted planning result.
type Plan struct {
    ID          string          `json:"id"`
    WarehouseID string          `json:"warehouseId"`
    Mode        string          `json:"mode"` // single, batch
    Estimator   string          `json:"estimator"`
    CreatedAt   time.Time       `json:"createdAt"`
    Assignments []AssignmentOut `json:"assignments"`
    Unassigned  []uint32        `json:"unassigned"`
    Summary     PlanSummary     `json:"summary"`
}

type Order struct {
    ID          string    `json:"id"`
    WarehouseID string    `json:"warehouseId,omitempty"`
    ItemName    string    `json:"itemName"`
    Quantity    int       `json:"quantity"`
    Status      string    `json:"status"`
    CreatedAt   time.Time `json:"createdAt"`
    UpdatedAt   time.Time `json:"updatedAt"`
}

type OrderIn struct {
    ItemName string `json:"itemName"`
    Quantity int    `json:"quantity"`
}

type InventoryItem struct {
    SKU      string `json:"sku"`
    Name     string `json:"name"`
    Quantity int    `json:"quantity"`
}

type SubscriptionRequest struct {
    WarehouseID string   `json:"warehouseId"`
    URL         string   `json:"url"`
    Events      []string `json:"events"`
    Secret      string   `json:"secret"`
}

type Subscription struct {
    ID          string   `json:"id"`
    WarehouseID string   `json:"warehouseId"`
    URL         string   `json:"url"`
    Events      []string `json:"events"`
    Secret      string   `json:"secret,omitempty"`
}
