package main

import (
    "context"
    "encoding/json"
    "flag"
    "fmt"
    "io"
    "log"
    "net/http"
    "strings"
    "text/tabwriter"
    "time"

    "github.com/google/uuid"

    "wmsplan/db"
    "wmsplan/internal/buildinfo"
    "wmsplan/internal/config"
    "wmsplan/internal/model"
    "wmsplan/internal/planner"
    "wmsplan/internal/store"
)

type app struct {
    cfg    config.Config
    stdout io.Writer
    stderr io.Writer
}

// openStore returns the Postgres store when a database URL is configured,
// otherwise a fresh in-memory store.
func (a *app) openStore(ctx context.Context) (store.Store, func(), error) {
    if a.cfg.DatabaseURL == "" {
        return store.NewMemory(), func() {}, nil
    }
    log.Printf("connecting to %s", config.MaskDatabaseURL(a.cfg.DatabaseURL))
    pg, err := store.NewPostgres(a.cfg.DatabaseURL, a.cfg.Database)
    if err != nil {
        return nil, nil, err
    }
    if a.cfg.Migrate {
        if err := pg.Migrate(ctx, db.Migrations()); err != nil {
            _ = pg.Close()
            return nil, nil, fmt.Errorf("migrate: %w", err)
        }
    }
    return pg, func() { _ = pg.Close() }, nil
}

func (a *app) systemHealth(ctx context.Context) error {
    log.Printf("running system health check")
    if a.cfg.DatabaseURL == "" {
        fmt.Fprintln(a.stdout, "database: not configured (in-memory store)")
    } else {
        pg, err := store.NewPostgres(a.cfg.DatabaseURL, a.cfg.Database)
        if err != nil {
            return fmt.Errorf("database connection failed: %w", err)
        }
        defer func() { _ = pg.Close() }()
        hctx, cancel := context.WithTimeout(ctx, 5*time.Second)
        defer cancel()
        if err := pg.HealthCheck(hctx); err != nil {
            return fmt.Errorf("database health check failed: %w", err)
        }
        fmt.Fprintf(a.stdout, "database: ok (%s)\n", config.MaskDatabaseURL(a.cfg.DatabaseURL))
    }
    // an unreachable API does not fail the check
    fmt.Fprintf(a.stdout, "api: %s (%s)\n", checkAPI(ctx, a.cfg.APIURL), a.cfg.APIURL)
    fmt.Fprintln(a.stdout, "system health check passed")
    return nil
}

func checkAPI(ctx context.Context, base string) string {
    ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
    defer cancel()
    req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(base, "/")+"/healthz", nil)
    if err != nil {
        return "invalid url"
    }
    resp, err := http.DefaultClient.Do(req)
    if err != nil {
        return "unreachable"
    }
    defer func() { _ = resp.Body.Close() }()
    if resp.StatusCode != http.StatusOK {
        return fmt.Sprintf("unhealthy (HTTP %d)", resp.StatusCode)
    }
    return "ok"
}

func (a *app) inventoryList(ctx context.Context) error {
    s, closeFn, err := a.openStore(ctx)
    if err != nil {
        return err
    }
    defer closeFn()
    items, err := s.ListInventory(ctx, a.cfg.WarehouseID)
    if err != nil {
        return fmt.Errorf("list inventory: %w", err)
    }
    tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
    fmt.Fprintln(tw, "SKU\tNAME\tQUANTITY")
    for _, it := range items {
        fmt.Fprintf(tw, "%s\t%s\t%d\n", it.SKU, it.Name, it.Quantity)
    }
    return tw.Flush()
}

type orderArgs struct {
    item     string
    quantity int
}

func parseOrderArgs(args []string, stderr io.Writer) (orderArgs, error) {
    var o orderArgs
    fs := flag.NewFlagSet("order create", flag.ContinueOnError)
    fs.SetOutput(stderr)
    fs.StringVar(&o.item, "item", "", "name of the item to order")
    fs.StringVar(&o.item, "i", "", "shorthand for --item")
    fs.IntVar(&o.quantity, "quantity", 0, "quantity to order")
    fs.IntVar(&o.quantity, "q", 0, "shorthand for --quantity")
    if err := fs.Parse(args); err != nil {
        return o, err
    }
    o.item = strings.TrimSpace(o.item)
    if o.item == "" {
        return o, fmt.Errorf("item name cannot be empty")
    }
    if o.quantity <= 0 {
        return o, fmt.Errorf("quantity must be greater than 0")
    }
    return o, nil
}

func (a *app) orderCreate(ctx context.Context, args []string) error {
    oa, err := parseOrderArgs(args, a.stderr)
    if err != nil {
        return err
    }
    s, closeFn, err := a.openStore(ctx)
    if err != nil {
        return err
    }
    defer closeFn()
    o, err := s.CreateOrder(ctx, a.cfg.WarehouseID, oa.item, oa.quantity)
    if err != nil {
        return fmt.Errorf("create order: %w", err)
    }
    if a.cfg.DatabaseURL == "" {
        log.Printf("no database configured; the order was not persisted")
    }
    fmt.Fprintf(a.stdout, "order created: %s (%s x%d)\n", o.ID, o.ItemName, o.Quantity)
    return nil
}

type planArgs struct {
    input     string
    batch     int
    estimator string
    speed     float64
    loadStep  float64
    format    string
    save      bool
    warehouse string
}

func parsePlanArgs(args []string, stderr io.Writer) (planArgs, error) {
    var p planArgs
    fs := flag.NewFlagSet("plan", flag.ContinueOnError)
    fs.SetOutput(stderr)
    fs.StringVar(&p.input, "input", "", "YAML or JSON file with tasks and workers")
    fs.IntVar(&p.batch, "batch", 0, "max tasks per worker; 0 plans one task per worker")
    fs.StringVar(&p.estimator, "estimator", "", "cost estimator: distance or time")
    fs.Float64Var(&p.speed, "speed", 0, "travel speed for the time estimator")
    fs.Float64Var(&p.loadStep, "load-step", 0, "load added per task already given to a worker (batch only)")
    fs.StringVar(&p.format, "format", "table", "output format: table or json")
    fs.BoolVar(&p.save, "save", false, "persist the plan to the store")
    fs.StringVar(&p.warehouse, "warehouse", "", "warehouse id (defaults to the configured one)")
    if err := fs.Parse(args); err != nil {
        return p, err
    }
    if p.input == "" {
        return p, fmt.Errorf("--input is required")
    }
    if p.format != "table" && p.format != "json" {
        return p, fmt.Errorf("--format must be table or json, got %q", p.format)
    }
    if p.batch < 0 {
        return p, fmt.Errorf("--batch must be >= 0")
    }
    return p, nil
}

func (a *app) plan(ctx context.Context, args []string) error {
    pa, err := parsePlanArgs(args, a.stderr)
    if err != nil {
        return err
    }
    req, err := loadPlanInput(pa.input)
    if err != nil {
        return err
    }
    plan, err := buildPlan(req, pa, a.cfg)
    if err != nil {
        return err
    }
    if pa.save {
        s, closeFn, err := a.openStore(ctx)
        if err != nil {
            return err
        }
        defer closeFn()
        if _, err := s.UpsertTasks(ctx, plan.WarehouseID, req.Tasks); err != nil {
            return fmt.Errorf("save tasks: %w", err)
        }
        if _, err := s.UpsertWorkers(ctx, plan.WarehouseID, req.Workers); err != nil {
            return fmt.Errorf("save workers: %w", err)
        }
        if err := s.SavePlan(ctx, plan); err != nil {
            return fmt.Errorf("save plan: %w", err)
        }
        // the input tasks were just stored, so the plan covers them
        ids := make([]uint32, len(plan.Assignments))
        for i, a := range plan.Assignments { ids[i] = a.TaskID }
        if err := s.MarkTasksAssigned(ctx, plan.WarehouseID, ids); err != nil {
            return fmt.Errorf("mark tasks: %w", err)
        }
        log.Printf("saved plan %s", plan.ID)
    }
    if pa.format == "json" {
        enc := json.NewEncoder(a.stdout)
        enc.SetIndent("", "  ")
        return enc.Encode(plan)
    }
    return writePlanTable(a.stdout, plan)
}

// buildPlan resolves options as flag, then input file, then config default.
func buildPlan(req model.PlanRequest, pa planArgs, cfg config.Config) (model.Plan, error) {
    name := firstNonEmpty(pa.estimator, req.Estimator, cfg.Planner.Estimator)
    speed := firstPositive(pa.speed, req.TravelSpeed, cfg.Planner.TravelSpeed)
    est, err := planner.NewEstimator(name, speed)
    if err != nil {
        return model.Plan{}, err
    }
    tasks, err := model.Tasks(req.Tasks)
    if err != nil {
        return model.Plan{}, err
    }
    workers := model.Workers(req.Workers)

    mode := "single"
    var as []planner.Assignment
    if pa.batch > 0 {
        mode = "batch"
        bp := planner.NewGreedyBatch(est)
        bp.LoadStep = firstPositive(pa.loadStep, req.LoadStep, cfg.Planner.LoadStep)
        as, err = bp.PlanBatch(tasks, workers, pa.batch)
    } else {
        as, err = planner.NewGreedy(est).Plan(tasks, workers)
    }
    if err != nil {
        return model.Plan{}, err
    }
    return model.Plan{
        ID:          uuid.NewString(),
        WarehouseID: firstNonEmpty(pa.warehouse, req.WarehouseID, cfg.WarehouseID),
        Mode:        mode,
        Estimator:   strings.ToLower(firstNonEmpty(name, planner.EstimatorDistance)),
        CreatedAt:   time.Now().UTC(),
        Assignments: model.Assignments(as),
        Unassigned:  model.TaskIDs(planner.Unassigned(tasks, as)),
        Summary:     model.Summary(planner.Summarize(tasks, as)),
    }, nil
}

func writePlanTable(w io.Writer, p model.Plan) error {
    tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
    fmt.Fprintln(tw, "TASK\tWORKER\tCOST")
    for _, a := range p.Assignments {
        fmt.Fprintf(tw, "%d\t%d\t%.2f\n", a.TaskID, a.WorkerID, a.EstimatedCost)
    }
    if err := tw.Flush(); err != nil {
        return err
    }
    if len(p.Unassigned) > 0 {
        ids := make([]string, len(p.Unassigned))
        for i, id := range p.Unassigned { ids[i] = fmt.Sprint(id) }
        fmt.Fprintf(w, "unassigned: %s\n", strings.Join(ids, ", "))
    }
    s := p.Summary
    _, err := fmt.Fprintf(w, "%s plan (%s): %d/%d tasks assigned, total cost %.2f, max cost %.2f\n",
        p.Mode, p.Estimator, s.Assigned, s.Tasks, s.TotalCost, s.MaxCost)
    return err
}

func printVersion(w io.Writer) {
    fmt.Fprintf(w, "wms %s\n", buildinfo.String())
}

func firstNonEmpty(vals ...string) string {
    for _, v := range vals {
        if strings.TrimSpace(v) != "" { return v }
    }
    return ""
}

func firstPositive(vals ...float64) float64 {
    for _, v := range vals {
        if v > 0 { return v }
    }
    return 0
}
