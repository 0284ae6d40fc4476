// Package planner assigns warehouse tasks to workers.
//
// Planning is a pure computation over the inputs of a single call: planners
// keep no state between calls and never modify the caller's slices, so one
// planner value can serve concurrent callers. Tasks that cannot be served
// are left out of the result; callers find them with Unassigned.
package planner

import (
	"math"
	"sort"
)

// Planner produces at most one assignment per worker.
type Planner interface {
	Plan(tasks []Task, workers []Worker) ([]Assignment, error)
}

// BatchPlanner allows several tasks per worker up to a capacity limit.
type BatchPlanner interface {
	PlanBatch(tasks []Task, workers []Worker, maxTasksPerWorker int) ([]Assignment, error)
}

// Greedy commits each task, highest priority first, to the cheapest free
// worker. It does not backtrack.
type Greedy struct {
	Estimator CostEstimator
}

// NewGreedy returns a greedy planner; a nil estimator means DistanceCost.
func NewGreedy(e CostEstimator) *Greedy {
	if e == nil {
		e = DistanceCost{}
	}
	return &Greedy{Estimator: e}
}

func (g *Greedy) estimator() CostEstimator {
	if g == nil || g.Estimator == nil {
		return DistanceCost{}
	}
	return g.Estimator
}

// Plan runs in O(T·W).
func (g *Greedy) Plan(tasks []Task, workers []Worker) ([]Assignment, error) {
	if err := validate(tasks, workers); err != nil {
		return nil, err
	}
	est := g.estimator()
	if err := checkEstimator(est); err != nil {
		return nil, err
	}
	pool := availableWorkers(workers)
	claimed := make(map[WorkerID]bool, len(pool))
	out := make([]Assignment, 0, min(len(tasks), len(pool)))
	for _, t := range byPriority(tasks) {
		best, cost, err := cheapest(est, t, pool, func(w Worker) bool { return !claimed[w.ID] })
		if err != nil {
			return nil, err
		}
		if best < 0 {
			continue
		}
		w := pool[best]
		claimed[w.ID] = true
		out = append(out, Assignment{TaskID: t.ID, WorkerID: w.ID, EstimatedCost: cost})
	}
	return out, nil
}

// byPriority returns a copy of tasks ordered by priority descending, then id
// ascending, so the result does not depend on input order.
func byPriority(tasks []Task) []Task {
	sorted := append([]Task(nil), tasks...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Priority != sorted[j].Priority {
			return sorted[i].Priority > sorted[j].Priority
		}
		return sorted[i].ID < sorted[j].ID
	})
	return sorted
}

func availableWorkers(workers []Worker) []Worker {
	out := make([]Worker, 0, len(workers))
	for _, w := range workers {
		if w.Available {
			out = append(out, w)
		}
	}
	return out
}

// cheapest returns the index in pool of the eligible worker with the lowest
// cost for t, ties going to the lower worker id. -1 means none is eligible.
func cheapest(est CostEstimator, t Task, pool []Worker, eligible func(Worker) bool) (int, float64, error) {
	bestIdx, bestCost := -1, math.Inf(1)
	for i, w := range pool {
		if !eligible(w) {
			continue
		}
		c, err := estimate(est, t, w)
		if err != nil {
			return -1, 0, err
		}
		if bestIdx < 0 || c < bestCost || (c == bestCost && w.ID < pool[bestIdx].ID) {
			bestIdx, bestCost = i, c
		}
	}
	return bestIdx, bestCost, nil
}
