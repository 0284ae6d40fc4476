package planner

import "math"

// GreedyBatch is the greedy planner with per-worker capacity.
//
// Costs come from each worker's static attributes unless LoadStep is set:
// with LoadStep > 0 the estimator sees the worker's load raised by LoadStep
// for every task already given to it in the current call (capped at 1).
type GreedyBatch struct {
	Estimator CostEstimator
	LoadStep  float64
}

func NewGreedyBatch(e CostEstimator) *GreedyBatch {
	if e == nil {
		e = DistanceCost{}
	}
	return &GreedyBatch{Estimator: e}
}

// PlanBatch gives each worker at most min(worker.Capacity(), maxTasksPerWorker)
// tasks.
func (g *GreedyBatch) PlanBatch(tasks []Task, workers []Worker, maxTasksPerWorker int) ([]Assignment, error) {
	if maxTasksPerWorker <= 0 {
		return nil, invalidf("max tasks per worker must be positive, got %d", maxTasksPerWorker)
	}
	if g != nil && (g.LoadStep < 0 || math.IsNaN(g.LoadStep)) {
		return nil, invalidf("load step must be >= 0, got %v", g.LoadStep)
	}
	if err := validate(tasks, workers); err != nil {
		return nil, err
	}
	var est CostEstimator = DistanceCost{}
	step := 0.0
	if g != nil {
		if g.Estimator != nil {
			est = g.Estimator
		}
		step = g.LoadStep
	}
	if err := checkEstimator(est); err != nil {
		return nil, err
	}

	pool := availableWorkers(workers)
	remaining := make(map[WorkerID]int, len(pool))
	taken := make(map[WorkerID]int, len(pool))
	for _, w := range pool {
		remaining[w.ID] = min(w.Capacity(), maxTasksPerWorker)
	}
	view := pool
	if step > 0 {
		view = append([]Worker(nil), pool...)
	}

	var out []Assignment
	for _, t := range byPriority(tasks) {
		best, cost, err := cheapest(est, t, view, func(w Worker) bool { return remaining[w.ID] > 0 })
		if err != nil {
			return nil, err
		}
		if best < 0 {
			continue
		}
		id := view[best].ID
		remaining[id]--
		taken[id]++
		if step > 0 {
			view[best] = pool[best].WithLoad(pool[best].Load + step*float64(taken[id]))
		}
		out = append(out, Assignment{TaskID: t.ID, WorkerID: id, EstimatedCost: cost})
	}
	if out == nil {
		out = []Assignment{}
	}
	return out, nil
}

// PlanBatch is a convenience wrapper around GreedyBatch with estimator e.
func PlanBatch(e CostEstimator, tasks []Task, workers []Worker, maxTasksPerWorker int) ([]Assignment, error) {
	return NewGreedyBatch(e).PlanBatch(tasks, workers, maxTasksPerWorker)
}

// Plan is a convenience wrapper around Greedy with estimator e.
func Plan(e CostEstimator, tasks []Task, workers []Worker) ([]Assignment, error) {
	return NewGreedy(e).Plan(tasks, workers)
}
