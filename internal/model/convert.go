package model

import (
	"fmt"

	"wmsplan/internal/planner"
)

// Tasks converts wire tasks into planner values.
func Tasks(in []TaskIn) ([]planner.Task, error) {
	out := make([]planner.Task, 0, len(in))
	for _, t := range in {
		prio, err := planner.ParsePriority(t.Priority)
		if err != nil {
			return nil, fmt.Errorf("task %d: %w", t.ID, err)
		}
		pt := planner.NewTask(planner.TaskID(t.ID), planner.NewLocation(t.Location.X, t.Location.Y), prio)
		if t.DurationMin != nil {
			pt = pt.WithDuration(*t.DurationMin)
		}
		out = append(out, pt)
	}
	return out, nil
}

// Workers converts wire workers into planner values. Load is passed through
// unclamped so the planner can reject out-of-range values.
func Workers(in []WorkerIn) []planner.Worker {
	out := make([]planner.Worker, 0, len(in))
	for _, w := range in {
		avail := w.Available == nil || *w.Available
		pw := planner.NewWorker(planner.WorkerID(w.ID), planner.NewLocation(w.Location.X, w.Location.Y), avail)
		pw.Load = w.Load
		if w.MaxTasks != 0 {
			pw = pw.WithMaxTasks(w.MaxTasks)
		}
		out = append(out, pw)
	}
	return out
}

func Assignments(as []planner.Assignment) []AssignmentOut {
	out := make([]AssignmentOut, 0, len(as))
	for _, a := range as {
		out = append(out, AssignmentOut{TaskID: uint32(a.TaskID), WorkerID: uint32(a.WorkerID), EstimatedCost: a.EstimatedCost})
	}
	return out
}

func TaskIDs(ids []planner.TaskID) []uint32 {
	out := make([]uint32, 0, len(ids))
	for _, id := range ids {
		out = append(out, uint32(id))
	}
	return out
}

func Summary(s planner.Summary) PlanSummary {
	return PlanSummary{Tasks: s.Tasks, Assigned: s.Assigned, Unassigned: s.Unassigned, TotalCost: s.TotalCost, MaxCost: s.MaxCost}
}
