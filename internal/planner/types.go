package planner

import (
	"fmt"
	"math"
	"strings"
)

type TaskID uint32

type WorkerID uint32

// Location is a point on the warehouse floor plan.
type Location struct {
	X float64
	Y float64
}

func NewLocation(x, y float64) Location { return Location{X: x, Y: y} }

// DistanceTo returns the Euclidean distance to other.
func (l Location) DistanceTo(other Location) float64 {
	dx := l.X - other.X
	dy := l.Y - other.Y
	return math.Sqrt(dx*dx + dy*dy)
}

func (l Location) valid() bool {
	return !math.IsNaN(l.X) && !math.IsNaN(l.Y) && !math.IsInf(l.X, 0) && !math.IsInf(l.Y, 0)
}

// Priority orders tasks; the numeric value is also the cost weight.
type Priority int

const (
	Low      Priority = 1
	Medium   Priority = 2
	High     Priority = 3
	Critical Priority = 4
)

// Weight returns the canonical weight used by the cost formulas.
func (p Priority) Weight() float64 { return float64(p) }

func (p Priority) Valid() bool { return p >= Low && p <= Critical }

func (p Priority) String() string {
	switch p {
	case Low:
		return "low"
	case Medium:
		return "medium"
	case High:
		return "high"
	case Critical:
		return "critical"
	default:
		return fmt.Sprintf("priority(%d)", int(p))
	}
}

// ParsePriority accepts the names low, medium, high and critical (any case).
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return Low, nil
	case "medium":
		return Medium, nil
	case "high":
		return High, nil
	case "critical":
		return Critical, nil
	}
	return 0, invalidf("unknown priority %q (allowed: low,medium,high,critical)", s)
}

func (p Priority) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("invalid priority %d", int(p))
	}
	return []byte(p.String()), nil
}

func (p *Priority) UnmarshalText(b []byte) error {
	v, err := ParsePriority(string(b))
	if err != nil {
		return err
	}
	*p = v
	return nil
}

// Task is a unit of work. Values are immutable; builders return copies.
type Task struct {
	ID       TaskID
	Location Location
	Priority Priority

	duration    float64 // minutes
	hasDuration bool
}

func NewTask(id TaskID, loc Location, prio Priority) Task {
	return Task{ID: id, Location: loc, Priority: prio}
}

// WithDuration returns a copy of t with an estimated duration in minutes.
func (t Task) WithDuration(minutes float64) Task {
	t.duration = minutes
	t.hasDuration = true
	return t
}

// Duration reports the estimated duration in minutes, if one was set.
func (t Task) Duration() (float64, bool) { return t.duration, t.hasDuration }

// Worker is an agent that can be assigned tasks.
type Worker struct {
	ID        WorkerID
	Location  Location
	Available bool
	Load      float64 // existing workload fraction in [0,1]
	MaxTasks  int     // batch capacity; 0 means the default of 1
}

func NewWorker(id WorkerID, loc Location, available bool) Worker {
	return Worker{ID: id, Location: loc, Available: available, MaxTasks: 1}
}

// WithLoad returns a copy of w with its load clamped into [0,1].
func (w Worker) WithLoad(load float64) Worker {
	w.Load = math.Max(0, math.Min(1, load))
	return w
}

func (w Worker) WithMaxTasks(n int) Worker {
	w.MaxTasks = n
	return w
}

// Capacity is the number of tasks the worker may take in one batch call.
func (w Worker) Capacity() int {
	if w.MaxTasks == 0 {
		return 1
	}
	return w.MaxTasks
}

// Assignment pairs one task with one worker at the cost seen at decision time.
type Assignment struct {
	TaskID        TaskID
	WorkerID      WorkerID
	EstimatedCost float64
}
