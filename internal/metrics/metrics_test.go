package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObservePlan(t *testing.T) {
	RegisterDefault()
	RegisterDefault() // idempotent

	before := testutil.ToFloat64(PlansTotal.WithLabelValues("batch", "time", "ok"))
	assignedBefore := testutil.ToFloat64(PlanAssignments.WithLabelValues("batch"))

	ObservePlan("batch", "time", 4, 1, 0.002)

	assert.Equal(t, before+1, testutil.ToFloat64(PlansTotal.WithLabelValues("batch", "time", "ok")))
	assert.Equal(t, assignedBefore+4, testutil.ToFloat64(PlanAssignments.WithLabelValues("batch")))

	ObservePlanError("single", "distance")
	assert.GreaterOrEqual(t, testutil.ToFloat64(PlansTotal.WithLabelValues("single", "distance", "error")), 1.0)
}

func TestRegistryGathers(t *testing.T) {
	RegisterDefault()
	ObservePlan("single", "distance", 1, 0, 0.0001)
	n, err := testutil.GatherAndCount(Registry, "planner_plans_total", "planner_duration_seconds")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 2)
}
