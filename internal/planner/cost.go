package planner

import (
	"fmt"
	"math"
	"strings"
)

// CostEstimator computes the cost of giving a task to a worker. Lower is
// better. Implementations must be deterministic and must return finite,
// non-negative values.
type CostEstimator interface {
	Estimate(t Task, w Worker) float64
}

// CostFunc adapts a plain function to CostEstimator.
type CostFunc func(t Task, w Worker) float64

func (f CostFunc) Estimate(t Task, w Worker) float64 { return f(t, w) }

// LoadPenalty is 1 for an idle worker and 2 for a fully loaded one.
func LoadPenalty(w Worker) float64 { return 1 + w.Load }

// PriorityMultiplier makes higher priority tasks cheaper to serve.
func PriorityMultiplier(p Priority) float64 {
	if !p.Valid() {
		return 1
	}
	return 1 / p.Weight()
}

// DistanceCost is the default estimator: travel distance scaled by load and
// priority.
type DistanceCost struct{}

func (DistanceCost) Estimate(t Task, w Worker) float64 {
	d := w.Location.DistanceTo(t.Location)
	return d * LoadPenalty(w) * PriorityMultiplier(t.Priority)
}

// TimeCost estimates minutes to reach and finish a task.
type TimeCost struct {
	TravelSpeed float64 // distance units per minute
}

func NewTimeCost(speed float64) (TimeCost, error) {
	if !(speed > 0) || math.IsInf(speed, 0) {
		return TimeCost{}, invalidf("travel speed must be positive, got %v", speed)
	}
	return TimeCost{TravelSpeed: speed}, nil
}

func (c TimeCost) validate() error {
	if !(c.TravelSpeed > 0) || math.IsInf(c.TravelSpeed, 0) {
		return invalidf("travel speed must be positive, got %v", c.TravelSpeed)
	}
	return nil
}

func (c TimeCost) Estimate(t Task, w Worker) float64 {
	travel := w.Location.DistanceTo(t.Location) / c.TravelSpeed
	work, _ := t.Duration()
	return (travel + work) * LoadPenalty(w) * PriorityMultiplier(t.Priority)
}

const (
	EstimatorDistance = "distance"
	EstimatorTime     = "time"
)

// NewEstimator resolves an estimator by name. speed is only used by "time".
func NewEstimator(name string, speed float64) (CostEstimator, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", EstimatorDistance:
		return DistanceCost{}, nil
	case EstimatorTime:
		tc, err := NewTimeCost(speed)
		if err != nil {
			return nil, err
		}
		return tc, nil
	}
	return nil, invalidf("unknown estimator %q (allowed: %s,%s)", name, EstimatorDistance, EstimatorTime)
}

// checkEstimator rejects estimators whose settings cannot produce a cost,
// such as a TimeCost built without NewTimeCost.
func checkEstimator(e CostEstimator) error {
	if v, ok := e.(interface{ validate() error }); ok {
		return v.validate()
	}
	return nil
}

// estimate calls e and rejects values no estimator may produce.
func estimate(e CostEstimator, t Task, w Worker) (float64, error) {
	c := e.Estimate(t, w)
	if math.IsNaN(c) || math.IsInf(c, 0) || c < 0 {
		return 0, fmt.Errorf("%w: task %d worker %d cost %v", ErrInvalidCost, t.ID, w.ID, c)
	}
	return c, nil
}
