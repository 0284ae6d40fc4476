package planner

// Summary describes the outcome of one planning call.
type Summary struct {
	Tasks      int
	Assigned   int
	Unassigned int
	TotalCost  float64
	MaxCost    float64
	PerWorker  map[WorkerID]int
}

// Unassigned returns the ids of tasks that have no assignment, in input order.
func Unassigned(tasks []Task, assignments []Assignment) []TaskID {
	done := make(map[TaskID]struct{}, len(assignments))
	for _, a := range assignments {
		done[a.TaskID] = struct{}{}
	}
	out := []TaskID{}
	for _, t := range tasks {
		if _, ok := done[t.ID]; !ok {
			out = append(out, t.ID)
		}
	}
	return out
}

func Summarize(tasks []Task, assignments []Assignment) Summary {
	s := Summary{Tasks: len(tasks), Assigned: len(assignments), PerWorker: map[WorkerID]int{}}
	for _, a := range assignments {
		s.TotalCost += a.EstimatedCost
		if a.EstimatedCost > s.MaxCost {
			s.MaxCost = a.EstimatedCost
		}
		s.PerWorker[a.WorkerID]++
	}
	s.Unassigned = len(Unassigned(tasks, assignments))
	return s
}
