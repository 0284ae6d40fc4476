package planner

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGreedyBasicAssignment(t *testing.T) {
	tasks := []Task{
		NewTask(1, NewLocation(0, 0), High),
		NewTask(2, NewLocation(10, 10), Medium),
	}
	workers := []Worker{
		NewWorker(1, NewLocation(1, 1), true),
		NewWorker(2, NewLocation(11, 11), true),
	}

	got, err := NewGreedy(nil).Plan(tasks, workers)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, TaskID(1), got[0].TaskID)
	assert.Equal(t, WorkerID(1), got[0].WorkerID)
	assert.InDelta(t, math.Sqrt2/3, got[0].EstimatedCost, 1e-9)
	assert.Equal(t, TaskID(2), got[1].TaskID)
	assert.Equal(t, WorkerID(2), got[1].WorkerID)
	assert.InDelta(t, math.Sqrt2/2, got[1].EstimatedCost, 1e-9)
}

func TestGreedyPriorityWinsScarceWorker(t *testing.T) {
	tasks := []Task{
		NewTask(1, NewLocation(0, 0), Low),
		NewTask(2, NewLocation(0, 0), Critical),
	}
	workers := []Worker{NewWorker(1, NewLocation(1, 1), true)}

	got, err := NewGreedy(nil).Plan(tasks, workers)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, TaskID(2), got[0].TaskID)
	assert.Equal(t, WorkerID(1), got[0].WorkerID)
}

func TestGreedyExhaustion(t *testing.T) {
	tasks := []Task{
		NewTask(3, NewLocation(5, 5), Medium),
		NewTask(1, NewLocation(1, 1), Low),
		NewTask(2, NewLocation(9, 9), High),
	}
	workers := []Worker{NewWorker(7, NewLocation(0, 0), true).WithMaxTasks(1)}

	got, err := NewGreedy(nil).Plan(tasks, workers)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, TaskID(2), got[0].TaskID)
	assert.Equal(t, []TaskID{3, 1}, Unassigned(tasks, got))
}

func TestGreedyNoAvailableWorkers(t *testing.T) {
	tasks := []Task{NewTask(1, NewLocation(0, 0), High)}
	workers := []Worker{NewWorker(1, NewLocation(1, 1), false)}

	got, err := NewGreedy(nil).Plan(tasks, workers)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGreedyLoadPenaltyPrefersIdleWorker(t *testing.T) {
	tasks := []Task{NewTask(1, NewLocation(0, 0), Medium)}
	workers := []Worker{
		NewWorker(2, NewLocation(1, 1), true).WithLoad(0.8),
		NewWorker(1, NewLocation(-1, -1), true).WithLoad(0),
	}

	got, err := NewGreedy(nil).Plan(tasks, workers)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, WorkerID(1), got[0].WorkerID)
}

func TestGreedyTieBreaksByWorkerID(t *testing.T) {
	tasks := []Task{NewTask(1, NewLocation(0, 0), Medium)}
	workers := []Worker{
		NewWorker(9, NewLocation(2, 0), true),
		NewWorker(4, NewLocation(0, 2), true),
		NewWorker(6, NewLocation(-2, 0), true),
	}
	got, err := NewGreedy(nil).Plan(tasks, workers)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, WorkerID(4), got[0].WorkerID)
}

func TestGreedyTieBreaksTasksByID(t *testing.T) {
	// Same priority: the lower task id is served first and takes the only worker.
	tasks := []Task{
		NewTask(8, NewLocation(0, 0), High),
		NewTask(5, NewLocation(50, 50), High),
	}
	workers := []Worker{NewWorker(1, NewLocation(0, 0), true)}
	got, err := NewGreedy(nil).Plan(tasks, workers)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, TaskID(5), got[0].TaskID)
}

func TestGreedyEmptyInputs(t *testing.T) {
	workers := []Worker{NewWorker(1, NewLocation(0, 0), true)}
	tasks := []Task{NewTask(1, NewLocation(0, 0), Low)}

	got, err := NewGreedy(nil).Plan(nil, workers)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)

	got, err = NewGreedy(nil).Plan(tasks, nil)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestGreedyDeterministicAcrossInputOrder(t *testing.T) {
	tasks, workers := randomInstance(42, 30, 12)
	want, err := NewGreedy(nil).Plan(tasks, workers)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 10; i++ {
		ts := append([]Task(nil), tasks...)
		ws := append([]Worker(nil), workers...)
		rng.Shuffle(len(ts), func(a, b int) { ts[a], ts[b] = ts[b], ts[a] })
		rng.Shuffle(len(ws), func(a, b int) { ws[a], ws[b] = ws[b], ws[a] })
		got, err := NewGreedy(nil).Plan(ts, ws)
		require.NoError(t, err)
		assert.Equal(t, want, got, "shuffle %d", i)
	}
}

func TestGreedyDoesNotModifyInputs(t *testing.T) {
	tasks, workers := randomInstance(3, 8, 4)
	tasksBefore := append([]Task(nil), tasks...)
	workersBefore := append([]Worker(nil), workers...)

	_, err := NewGreedy(nil).Plan(tasks, workers)
	require.NoError(t, err)
	assert.Equal(t, tasksBefore, tasks)
	assert.Equal(t, workersBefore, workers)
}

func TestGreedyInvariants(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		tasks, workers := randomInstance(seed, 25, 10)
		got, err := NewGreedy(nil).Plan(tasks, workers)
		require.NoError(t, err)

		available := map[WorkerID]bool{}
		for _, w := range workers {
			available[w.ID] = w.Available
		}
		seenTask := map[TaskID]bool{}
		seenWorker := map[WorkerID]bool{}
		for _, a := range got {
			assert.False(t, seenTask[a.TaskID], "task %d assigned twice", a.TaskID)
			assert.False(t, seenWorker[a.WorkerID], "worker %d assigned twice", a.WorkerID)
			assert.True(t, available[a.WorkerID], "worker %d was unavailable", a.WorkerID)
			assert.GreaterOrEqual(t, a.EstimatedCost, 0.0)
			seenTask[a.TaskID] = true
			seenWorker[a.WorkerID] = true
		}
	}
}

func TestGreedyPriorityPrecedence(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		tasks, workers := randomInstance(seed, 20, 8)
		got, err := NewGreedy(nil).Plan(tasks, workers)
		require.NoError(t, err)

		assigned := map[TaskID]bool{}
		for _, a := range got {
			assigned[a.TaskID] = true
		}
		for _, a := range tasks {
			for _, b := range tasks {
				if a.Priority > b.Priority && assigned[b.ID] {
					assert.True(t, assigned[a.ID], "seed %d: task %d (%v) starved by %d (%v)", seed, a.ID, a.Priority, b.ID, b.Priority)
				}
			}
		}
	}
}

func TestGreedyRejectsInvalidInput(t *testing.T) {
	loc := NewLocation(0, 0)
	tests := []struct {
		name    string
		tasks   []Task
		workers []Worker
	}{
		{"duplicate task", []Task{NewTask(1, loc, Low), NewTask(1, loc, High)}, nil},
		{"duplicate worker", nil, []Worker{NewWorker(2, loc, true), NewWorker(2, loc, false)}},
		{"negative duration", []Task{NewTask(1, loc, Low).WithDuration(-1)}, nil},
		{"bad priority", []Task{NewTask(1, loc, Priority(9))}, nil},
		{"load out of range", nil, []Worker{{ID: 1, Available: true, Load: 1.5}}},
		{"nan location", []Task{NewTask(1, NewLocation(math.NaN(), 0), Low)}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewGreedy(nil).Plan(tt.tasks, tt.workers)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput))
			var ie *InputError
			assert.True(t, errors.As(err, &ie))
			assert.Nil(t, got)
		})
	}
}

func TestGreedyDuplicateErrorNamesID(t *testing.T) {
	loc := NewLocation(0, 0)
	_, err := NewGreedy(nil).Plan([]Task{NewTask(17, loc, Low), NewTask(17, loc, Low)}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "17")
}

func TestGreedyMaxTasksBounds(t *testing.T) {
	loc := NewLocation(0, 0)
	tasks := []Task{NewTask(1, loc, Low)}

	_, err := NewGreedy(nil).Plan(tasks, []Worker{{ID: 5, Location: loc, Available: true, MaxTasks: -1}})
	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "worker 5: max tasks must be >= 0")

	got, err := NewGreedy(nil).Plan(tasks, []Worker{{ID: 5, Location: loc, Available: true}})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestGreedyNegativeCostIsRejected(t *testing.T) {
	bad := CostFunc(func(Task, Worker) float64 { return -1 })
	got, err := NewGreedy(bad).Plan(
		[]Task{NewTask(1, NewLocation(0, 0), Low)},
		[]Worker{NewWorker(1, NewLocation(0, 0), true)},
	)
	assert.ErrorIs(t, err, ErrInvalidCost)
	assert.Nil(t, got)
}

func TestGreedyInfiniteCostIsRejected(t *testing.T) {
	// Both coordinates are finite but the distance between them overflows.
	got, err := NewGreedy(nil).Plan(
		[]Task{NewTask(1, NewLocation(-1e308, 0), Low)},
		[]Worker{NewWorker(1, NewLocation(1e308, 0), true)},
	)
	assert.ErrorIs(t, err, ErrInvalidCost)
	assert.Nil(t, got)

	inf := CostFunc(func(Task, Worker) float64 { return math.Inf(1) })
	_, err = NewGreedy(inf).Plan(
		[]Task{NewTask(1, NewLocation(0, 0), Low)},
		[]Worker{NewWorker(1, NewLocation(0, 0), true)},
	)
	assert.ErrorIs(t, err, ErrInvalidCost)
}

func TestGreedyRejectsUnconfiguredTimeCost(t *testing.T) {
	tasks := []Task{NewTask(1, NewLocation(0, 0), Low)}
	workers := []Worker{NewWorker(1, NewLocation(3, 4), true)}
	for _, speed := range []float64{0, -2, math.NaN(), math.Inf(1)} {
		got, err := NewGreedy(TimeCost{TravelSpeed: speed}).Plan(tasks, workers)
		assert.ErrorIs(t, err, ErrInvalidInput, "speed %v", speed)
		assert.Nil(t, got)
	}
	got, err := NewGreedy(TimeCost{TravelSpeed: 1}).Plan(tasks, workers)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.InDelta(t, 5.0, got[0].EstimatedCost, 1e-9)
}

func TestGreedyCustomEstimator(t *testing.T) {
	// Prefer the worker with the highest id regardless of distance.
	byID := CostFunc(func(_ Task, w Worker) float64 { return 100 - float64(w.ID) })
	got, err := Plan(byID,
		[]Task{NewTask(1, NewLocation(0, 0), Low)},
		[]Worker{NewWorker(1, NewLocation(0, 0), true), NewWorker(5, NewLocation(99, 99), true)},
	)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, WorkerID(5), got[0].WorkerID)
	assert.Equal(t, 95.0, got[0].EstimatedCost)
}

func TestPlannerInterfaces(t *testing.T) {
	var _ Planner = NewGreedy(nil)
	var _ BatchPlanner = NewGreedyBatch(nil)
}

// randomInstance builds a reproducible instance with unique ids and a mix of
// priorities, loads, durations and availability.
func randomInstance(seed int64, nTasks, nWorkers int) ([]Task, []Worker) {
	rng := rand.New(rand.NewSource(seed))
	tasks := make([]Task, 0, nTasks)
	for i := 0; i < nTasks; i++ {
		t := NewTask(TaskID(i*3+1), NewLocation(rng.Float64()*100, rng.Float64()*100), Priority(1+rng.Intn(4)))
		if rng.Intn(2) == 0 {
			t = t.WithDuration(float64(rng.Intn(30)))
		}
		tasks = append(tasks, t)
	}
	workers := make([]Worker, 0, nWorkers)
	for i := 0; i < nWorkers; i++ {
		w := NewWorker(WorkerID(i*2+1), NewLocation(rng.Float64()*100, rng.Float64()*100), rng.Intn(5) != 0).
			WithLoad(float64(rng.Intn(10)) / 10).
			WithMaxTasks(1 + rng.Intn(4))
		workers = append(workers, w)
	}
	return tasks, workers
}
