package planner

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrInvalidInput = errors.New("invalid planner input")
	ErrInvalidCost  = errors.New("estimator returned invalid cost")
)

// InputError describes a rejected planning call.
type InputError struct {
	Msg string
}

func (e *InputError) Error() string {
	if e == nil {
		return ""
	}
	if e.Msg == "" {
		return ErrInvalidInput.Error()
	}
	return fmt.Sprintf("%s: %s", ErrInvalidInput.Error(), e.Msg)
}

func (e *InputError) Unwrap() error { return ErrInvalidInput }

func invalidf(format string, args ...any) error {
	return &InputError{Msg: fmt.Sprintf(format, args...)}
}

func validateTasks(tasks []Task) error {
	seen := make(map[TaskID]struct{}, len(tasks))
	for _, t := range tasks {
		if _, dup := seen[t.ID]; dup {
			return invalidf("duplicate task id %d", t.ID)
		}
		seen[t.ID] = struct{}{}
		if !t.Priority.Valid() {
			return invalidf("task %d: invalid priority %d", t.ID, int(t.Priority))
		}
		if !t.Location.valid() {
			return invalidf("task %d: location must be finite", t.ID)
		}
		if d, ok := t.Duration(); ok && (d < 0 || math.IsNaN(d) || math.IsInf(d, 0)) {
			return invalidf("task %d: duration must be a non-negative number of minutes, got %v", t.ID, d)
		}
	}
	return nil
}

func validateWorkers(workers []Worker) error {
	seen := make(map[WorkerID]struct{}, len(workers))
	for _, w := range workers {
		if _, dup := seen[w.ID]; dup {
			return invalidf("duplicate worker id %d", w.ID)
		}
		seen[w.ID] = struct{}{}
		if !w.Location.valid() {
			return invalidf("worker %d: location must be finite", w.ID)
		}
		if !(w.Load >= 0 && w.Load <= 1) {
			return invalidf("worker %d: load must be in [0,1], got %v", w.ID, w.Load)
		}
		if w.MaxTasks < 0 {
			return invalidf("worker %d: max tasks must be >= 0, got %d", w.ID, w.MaxTasks)
		}
	}
	return nil
}

func validate(tasks []Task, workers []Worker) error {
	if err := validateTasks(tasks); err != nil {
		return err
	}
	return validateWorkers(workers)
}
