package main

import (
    "context"
    "errors"
    "flag"
    "log"
    "net/http"
    "os"
    "os/signal"
    "syscall"
    "time"

    "wmsplan/internal/api"
    "wmsplan/internal/buildinfo"
    "wmsplan/internal/config"
    "wmsplan/internal/metrics"
)

func main() {
    cfgPath := flag.String("config", os.Getenv("WMS_CONFIG"), "path to a YAML config file")
    dbURL := flag.String("database-url", "", "Postgres URL (overrides DATABASE_URL)")
    addr := flag.String("addr", "", "listen address (overrides PORT)")
    flag.Parse()

    cfg, err := config.Load(*cfgPath, config.Overrides{DatabaseURL: *dbURL, ListenAddr: *addr})
    if err != nil {
        log.Fatalf("config: %v", err)
    }
    if err := cfg.Validate(); err != nil {
        log.Fatalf("invalid config: %v", err)
    }

    metrics.RegisterDefault()
    srvDeps, err := api.NewServer(cfg)
    if err != nil {
        log.Fatalf("failed to init server: %v", err)
    }
    defer func() { _ = srvDeps.Close() }()

    srv := &http.Server{
        Addr:              cfg.ListenAddr,
        Handler:           srvDeps.Routes(),
        ReadHeaderTimeout: 5 * time.Second,
    }

    ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
    defer stop()

    worker := srvDeps.NewWebhookWorker()
    worker.Start()
    defer close(worker.Stop)

    go func() {
        log.Printf("API %s listening on %s (warehouse %s)", buildinfo.String(), cfg.ListenAddr, cfg.WarehouseID)
        if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
            log.Fatalf("server error: %v", err)
        }
    }()

    <-ctx.Done()
    log.Printf("shutting down")
    shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
    defer cancel()
    if err := srv.Shutdown(shutdownCtx); err != nil {
        log.Printf("shutdown: %v", err)
    }
}
