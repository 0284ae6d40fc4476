package main

import (
    "bytes"
    "context"
    "io"
    "os"
    "path/filepath"
    "strings"
    "testing"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "wmsplan/internal/config"
    "wmsplan/internal/model"
)

const sampleYAML = `
estimator: distance
tasks:
  - id: 1
    location: {x: 0, y: 0}
    priority: high
  - id: 2
    location: {x: 4, y: 0}
    priority: low
  - id: 3
    location: {x: 9, y: 9}
    priority: medium
workers:
  - id: 10
    location: {x: 0, y: 0}
    maxTasks: 2
  - id: 11
    location: {x: 5, y: 0}
    available: false
`

func isolateEnv(t *testing.T) {
    t.Helper()
    for _, k := range []string{"DATABASE_URL", "WMS_DATABASE_URL", "REDIS_URL", "WMS_CONFIG", "PLANNER_ESTIMATOR", "PLANNER_TRAVEL_SPEED", "PLANNER_MAX_TASKS_PER_WORKER", "PLANNER_LOAD_STEP"} {
        t.Setenv(k, "")
    }
}

func writeTemp(t *testing.T, name, body string) string {
    t.Helper()
    p := filepath.Join(t.TempDir(), name)
    require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
    return p
}

func TestParseGlobals(t *testing.T) {
    g, rest, err := parseGlobals([]string{"--api-url", "http://api:9000", "--database-url=postgres://u:p@h/db", "plan", "--input", "x.yaml"}, io.Discard)
    require.NoError(t, err)
    assert.Equal(t, "http://api:9000", g.apiURL)
    assert.Equal(t, "postgres://u:p@h/db", g.databaseURL)
    assert.Equal(t, []string{"plan", "--input", "x.yaml"}, rest)
}

func TestParseOrderArgs(t *testing.T) {
    o, err := parseOrderArgs([]string{"-i", "Widget A", "-q", "3"}, io.Discard)
    require.NoError(t, err)
    assert.Equal(t, orderArgs{item: "Widget A", quantity: 3}, o)

    o, err = parseOrderArgs([]string{"--item", "Gadget X", "--quantity", "1"}, io.Discard)
    require.NoError(t, err)
    assert.Equal(t, "Gadget X", o.item)

    _, err = parseOrderArgs([]string{"--item", "  ", "--quantity", "1"}, io.Discard)
    assert.ErrorContains(t, err, "item name cannot be empty")
    _, err = parseOrderArgs([]string{"--item", "x"}, io.Discard)
    assert.ErrorContains(t, err, "quantity must be greater than 0")
    _, err = parseOrderArgs([]string{"--item", "x", "--quantity", "abc"}, io.Discard)
    assert.Error(t, err)
}

func TestParsePlanArgs(t *testing.T) {
    p, err := parsePlanArgs([]string{"--input", "f.yaml", "--batch", "3", "--format", "json", "--save"}, io.Discard)
    require.NoError(t, err)
    assert.Equal(t, 3, p.batch)
    assert.True(t, p.save)
    assert.Equal(t, "json", p.format)

    _, err = parsePlanArgs(nil, io.Discard)
    assert.ErrorContains(t, err, "--input is required")
    _, err = parsePlanArgs([]string{"--input", "f", "--format", "xml"}, io.Discard)
    assert.ErrorContains(t, err, "--format")
    _, err = parsePlanArgs([]string{"--input", "f", "--batch", "-1"}, io.Discard)
    assert.Error(t, err)
}

func TestDecodePlanInput(t *testing.T) {
    var req model.PlanRequest
    require.NoError(t, decodePlanInput([]byte(sampleYAML), false, &req))
    require.Len(t, req.Tasks, 3)
    require.Len(t, req.Workers, 2)
    require.NotNil(t, req.Workers[1].Available)
    assert.False(t, *req.Workers[1].Available)
    assert.Nil(t, req.Workers[0].Available)

    var fromJSON model.PlanRequest
    js := `{"tasks":[{"id":1,"location":{"x":1,"y":2},"priority":"low","durationMin":3}],"workers":[]}`
    require.NoError(t, decodePlanInput([]byte(js), true, &fromJSON))
    require.NotNil(t, fromJSON.Tasks[0].DurationMin)
    assert.Equal(t, 3.0, *fromJSON.Tasks[0].DurationMin)

    assert.Error(t, decodePlanInput([]byte("taskz: []\n"), false, &model.PlanRequest{}))
    assert.Error(t, decodePlanInput([]byte(`{"taskz":[]}`), true, &model.PlanRequest{}))
}

func TestBuildPlan(t *testing.T) {
    var req model.PlanRequest
    require.NoError(t, decodePlanInput([]byte(sampleYAML), false, &req))
    cfg := config.Default()

    single, err := buildPlan(req, planArgs{}, cfg)
    require.NoError(t, err)
    assert.Equal(t, "single", single.Mode)
    require.Len(t, single.Assignments, 1)
    assert.Equal(t, uint32(1), single.Assignments[0].TaskID)
    assert.Equal(t, uint32(10), single.Assignments[0].WorkerID)
    assert.ElementsMatch(t, []uint32{2, 3}, single.Unassigned)
    assert.Equal(t, cfg.WarehouseID, single.WarehouseID)

    batch, err := buildPlan(req, planArgs{batch: 5, warehouse: "wh_cli"}, cfg)
    require.NoError(t, err)
    assert.Equal(t, "batch", batch.Mode)
    assert.Equal(t, "wh_cli", batch.WarehouseID)
    // worker 10 is capped at two tasks, worker 11 is unavailable
    assert.Len(t, batch.Assignments, 2)
    assert.Equal(t, 2, batch.Summary.Assigned)

    _, err = buildPlan(req, planArgs{estimator: "teleport"}, cfg)
    assert.Error(t, err)
}

func TestWritePlanTable(t *testing.T) {
    var buf bytes.Buffer
    p := model.Plan{Mode: "single", Estimator: "distance",
        Assignments: []model.AssignmentOut{{TaskID: 1, WorkerID: 10, EstimatedCost: 1.5}},
        Unassigned:  []uint32{2, 3},
        Summary:     model.PlanSummary{Tasks: 3, Assigned: 1, Unassigned: 2, TotalCost: 1.5, MaxCost: 1.5}}
    require.NoError(t, writePlanTable(&buf, p))
    out := buf.String()
    assert.Contains(t, out, "TASK")
    assert.Contains(t, out, "1.50")
    assert.Contains(t, out, "unassigned: 2, 3")
    assert.Contains(t, out, "1/3 tasks assigned")
}

func TestRunCommands(t *testing.T) {
    isolateEnv(t)
    ctx := context.Background()

    var out, errOut bytes.Buffer
    assert.Equal(t, 0, run(ctx, []string{"version"}, &out, &errOut))
    assert.True(t, strings.HasPrefix(out.String(), "wms "))

    out.Reset()
    assert.Equal(t, 0, run(ctx, []string{"inventory", "list"}, &out, &errOut))
    assert.Contains(t, out.String(), "SKU-002")
    assert.Contains(t, out.String(), "Widget B")

    out.Reset()
    assert.Equal(t, 0, run(ctx, []string{"order", "create", "-i", "Widget A", "-q", "2"}, &out, &errOut))
    assert.Contains(t, out.String(), "order created: ORD-")
    assert.Equal(t, 1, run(ctx, []string{"order", "create", "-i", "Widget A", "-q", "0"}, &out, &errOut))

    out.Reset()
    in := writeTemp(t, "plan.yaml", sampleYAML)
    assert.Equal(t, 0, run(ctx, []string{"plan", "--input", in, "--batch", "2", "--save"}, &out, &errOut))
    assert.Contains(t, out.String(), "batch plan (distance): 2/3 tasks assigned")

    assert.Equal(t, 2, run(ctx, []string{"bogus"}, &out, &errOut))
    assert.Equal(t, 2, run(ctx, nil, &out, &errOut))
}
