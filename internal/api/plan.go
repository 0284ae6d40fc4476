package api

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"wmsplan/internal/metrics"
	"wmsplan/internal/model"
	"wmsplan/internal/planner"
	"wmsplan/internal/webhooks"
)

const (
	modeSingle = "single"
	modeBatch  = "batch"
)

// planParams is a PlanRequest with server defaults filled in.
type planParams struct {
	estimatorName     string
	estimator         planner.CostEstimator
	maxTasksPerWorker int
	loadStep          float64
}

func (s *Server) resolvePlanParams(req model.PlanRequest) (planParams, error) {
	def := s.Cfg.Planner
	name := strings.ToLower(strings.TrimSpace(req.Estimator))
	if name == "" {
		name = def.Estimator
	}
	if name == "" {
		name = planner.EstimatorDistance
	}
	speed := req.TravelSpeed
	if speed == 0 {
		speed = def.TravelSpeed
	}
	est, err := planner.NewEstimator(name, speed)
	if err != nil {
		return planParams{}, err
	}
	p := planParams{estimatorName: name, estimator: est, maxTasksPerWorker: req.MaxTasksPerWorker, loadStep: req.LoadStep}
	if p.maxTasksPerWorker == 0 {
		p.maxTasksPerWorker = def.MaxTasksPerWorker
	}
	if p.loadStep == 0 {
		p.loadStep = def.LoadStep
	}
	return p, nil
}

// runPlan plans over the request's inline tasks and workers, or the
// warehouse's pending tasks and workers from the store when a list is
// omitted. The plan is persisted and announced before it is returned.
func (s *Server) runPlan(ctx context.Context, warehouseID, mode string, req model.PlanRequest) (model.Plan, error) {
	params, err := s.resolvePlanParams(req)
	if err != nil {
		metrics.ObservePlanError(mode, "invalid")
		return model.Plan{}, err
	}
	taskIn := req.Tasks
	storedTasks := taskIn == nil
	if storedTasks {
		if taskIn, err = s.Store.ListTasks(ctx, warehouseID, "pending"); err != nil {
			return model.Plan{}, fmt.Errorf("load tasks: %w", err)
		}
	}
	workerIn := req.Workers
	if workerIn == nil {
		if workerIn, err = s.Store.ListWorkers(ctx, warehouseID); err != nil {
			return model.Plan{}, fmt.Errorf("load workers: %w", err)
		}
	}
	tasks, err := model.Tasks(taskIn)
	if err != nil {
		metrics.ObservePlanError(mode, params.estimatorName)
		return model.Plan{}, err
	}
	workers := model.Workers(workerIn)

	start := time.Now()
	var as []planner.Assignment
	if mode == modeBatch {
		bp := planner.NewGreedyBatch(params.estimator)
		bp.LoadStep = params.loadStep
		as, err = bp.PlanBatch(tasks, workers, params.maxTasksPerWorker)
	} else {
		as, err = planner.NewGreedy(params.estimator).Plan(tasks, workers)
	}
	elapsed := time.Since(start)
	if err != nil {
		metrics.ObservePlanError(mode, params.estimatorName)
		return model.Plan{}, err
	}
	sum := planner.Summarize(tasks, as)
	metrics.ObservePlan(mode, params.estimatorName, sum.Assigned, sum.Unassigned, elapsed.Seconds())

	plan := model.Plan{
		ID:          uuid.NewString(),
		WarehouseID: warehouseID,
		Mode:        mode,
		Estimator:   params.estimatorName,
		CreatedAt:   time.Now().UTC(),
		Assignments: model.Assignments(as),
		Unassigned:  model.TaskIDs(planner.Unassigned(tasks, as)),
		Summary:     model.Summary(sum),
	}
	if err := s.Store.SavePlan(ctx, plan); err != nil {
		return model.Plan{}, fmt.Errorf("save plan: %w", err)
	}
	// only stored tasks leave the pending queue
	if storedTasks {
		if err := s.Store.MarkTasksAssigned(ctx, warehouseID, assignedTaskIDs(plan)); err != nil {
			return model.Plan{}, fmt.Errorf("mark tasks: %w", err)
		}
	}

	data := map[string]any{
		"planId":     plan.ID,
		"mode":       plan.Mode,
		"assigned":   plan.Summary.Assigned,
		"unassigned": plan.Summary.Unassigned,
		"totalCost":  plan.Summary.TotalCost,
	}
	s.Broker.Publish(warehouseID, SSEEvent{Type: webhooks.EventPlanCompleted, Data: data})
	s.Pub.Emit(ctx, warehouseID, webhooks.EventPlanCompleted, data)
	return plan, nil
}

func assignedTaskIDs(p model.Plan) []uint32 {
	ids := make([]uint32, len(p.Assignments))
	for i, a := range p.Assignments {
		ids[i] = a.TaskID
	}
	return ids
}
