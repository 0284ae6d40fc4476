package api

import (
	"fmt"
	"math"

	"wmsplan/internal/model"
	"wmsplan/internal/planner"
)

// Input bounds for a single planning call; the planner itself is O(T·W).
const (
	maxPlanTasks   = 10000
	maxPlanWorkers = 2000
)

// validatePlanRequest checks what the planner cannot: request shape and size.
// Per-task and per-worker rules are left to the planner.
func validatePlanRequest(req *model.PlanRequest) error {
	if len(req.Tasks) > maxPlanTasks {
		return fmt.Errorf("too many tasks: %d (max %d)", len(req.Tasks), maxPlanTasks)
	}
	if len(req.Workers) > maxPlanWorkers {
		return fmt.Errorf("too many workers: %d (max %d)", len(req.Workers), maxPlanWorkers)
	}
	if req.TravelSpeed < 0 || math.IsNaN(req.TravelSpeed) {
		return fmt.Errorf("travelSpeed must be > 0")
	}
	if req.MaxTasksPerWorker < 0 {
		return fmt.Errorf("maxTasksPerWorker must be positive, got %d", req.MaxTasksPerWorker)
	}
	if req.LoadStep < 0 || math.IsNaN(req.LoadStep) {
		return fmt.Errorf("loadStep must be >= 0")
	}
	if _, err := planner.NewEstimator(req.Estimator, 1); err != nil {
		return err
	}
	return nil
}

func validateTaskIn(t model.TaskIn) error {
	if _, err := planner.ParsePriority(t.Priority); err != nil {
		return fmt.Errorf("task %d: %w", t.ID, err)
	}
	if t.Status != "" && t.Status != "pending" && t.Status != "assigned" {
		return fmt.Errorf("task %d: status must be pending or assigned", t.ID)
	}
	return nil
}

func validateWorkerIn(w model.WorkerIn) error {
	if !(w.Load >= 0 && w.Load <= 1) {
		return fmt.Errorf("worker %d: load must be in [0,1]", w.ID)
	}
	if w.MaxTasks < 0 {
		return fmt.Errorf("worker %d: maxTasks must be >= 0", w.ID)
	}
	return nil
}
