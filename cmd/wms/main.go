// Command wms is the warehouse management command line tool.
//
//	wms [--config file] [--api-url url] [--database-url url] <command> [flags]
//
// Commands:
//
//	system health                 check database (and API) connectivity
//	inventory list                list inventory items
//	order create -i ITEM -q N     create an order
//	plan --input FILE [flags]     assign tasks to workers from a YAML/JSON file
//	version                       print build information
package main

import (
    "context"
    "errors"
    "flag"
    "fmt"
    "io"
    "log"
    "os"

    "wmsplan/internal/config"
)

const usage = `usage: wms [--config file] [--api-url url] [--database-url url] <command>

commands:
  system health
  inventory list
  order create --item NAME --quantity N
  plan --input FILE [--batch N] [--estimator distance|time] [--speed S] [--format table|json] [--save]
  version
`

// errUsage marks errors that should print the usage text.
var errUsage = errors.New("usage")

func main() {
    log.SetFlags(0)
    log.SetPrefix("wms: ")
    os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// globals are the flags accepted before the command name.
type globals struct {
    configPath  string
    apiURL      string
    databaseURL string
}

func parseGlobals(args []string, stderr io.Writer) (globals, []string, error) {
    var g globals
    fs := flag.NewFlagSet("wms", flag.ContinueOnError)
    fs.SetOutput(stderr)
    fs.Usage = func() { fmt.Fprint(stderr, usage) }
    fs.StringVar(&g.configPath, "config", os.Getenv("WMS_CONFIG"), "path to a YAML config file")
    fs.StringVar(&g.apiURL, "api-url", "", "API base URL")
    fs.StringVar(&g.databaseURL, "database-url", "", "Postgres URL")
    if err := fs.Parse(args); err != nil {
        return g, nil, err
    }
    return g, fs.Args(), nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
    g, rest, err := parseGlobals(args, stderr)
    if err != nil {
        if errors.Is(err, flag.ErrHelp) { return 0 }
        return 2
    }
    if len(rest) == 0 {
        fmt.Fprint(stderr, usage)
        return 2
    }
    if rest[0] == "version" {
        printVersion(stdout)
        return 0
    }
    cfg, err := config.Load(g.configPath, config.Overrides{APIURL: g.apiURL, DatabaseURL: g.databaseURL})
    if err == nil { err = cfg.Validate() }
    if err != nil {
        log.Printf("config: %v", err)
        return 1
    }
    app := &app{cfg: cfg, stdout: stdout, stderr: stderr}
    if err := app.dispatch(ctx, rest); err != nil {
        if errors.Is(err, errUsage) {
            fmt.Fprint(stderr, usage)
            return 2
        }
        if errors.Is(err, flag.ErrHelp) { return 0 }
        log.Printf("%v", err)
        return 1
    }
    return 0
}

func (a *app) dispatch(ctx context.Context, args []string) error {
    sub := ""
    if len(args) > 1 { sub = args[1] }
    switch {
    case args[0] == "system" && sub == "health":
        return a.systemHealth(ctx)
    case args[0] == "inventory" && sub == "list":
        return a.inventoryList(ctx)
    case args[0] == "order" && sub == "create":
        return a.orderCreate(ctx, args[2:])
    case args[0] == "plan":
        return a.plan(ctx, args[1:])
    }
    return fmt.Errorf("%w: unknown command %q", errUsage, args)
}
