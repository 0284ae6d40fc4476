package api

import (
    "context"
    "log"
    "net/http"
    "strings"

    "wmsplan/db"
    "wmsplan/internal/config"
    "wmsplan/internal/store"
    "wmsplan/internal/webhooks"
)

type Server struct {
    Store  store.Store
    Pub    *webhooks.Publisher
    Broker EventBroker
    Cfg    config.Config
}

// NewServer creates a Server. Without a database URL the in-memory store is
// used; without a Redis URL events fan out in-process only.
func NewServer(cfg config.Config) (*Server, error) {
    var s store.Store
    if strings.TrimSpace(cfg.DatabaseURL) == "" {
        s = store.NewMemory()
    } else {
        sp, err := store.NewPostgres(cfg.DatabaseURL, cfg.Database)
        if err != nil {
            return nil, err
        }
        log.Printf("connected to %s", config.MaskDatabaseURL(cfg.DatabaseURL))
        if cfg.Migrate {
            if err := sp.Migrate(context.Background(), db.Migrations()); err != nil {
                _ = sp.Close()
                return nil, err
            }
        }
        s = sp
    }
    var broker EventBroker = NewBroker()
    if cfg.RedisURL != "" {
        if rb, err := NewRedisBroker(cfg.RedisURL); err == nil {
            broker = rb
        } else {
            log.Printf("redis broker unavailable, using in-process broker: %v", err)
        }
    }
    return &Server{Store: s, Pub: webhooks.NewPublisher(s), Broker: broker, Cfg: cfg}, nil
}

// withWarehouse resolves the warehouse a request is scoped to.
func (s *Server) withWarehouse(r *http.Request) (context.Context, string) {
    wh := strings.TrimSpace(r.Header.Get("X-Warehouse-Id"))
    if wh == "" { wh = s.Cfg.WarehouseID }
    if wh == "" { wh = config.DefaultWarehouseID }
    ctx := context.WithValue(r.Context(), ctxKeyWarehouse{}, wh)
    return ctx, wh
}

type ctxKeyWarehouse struct{}

// NewWebhookWorker creates a background worker for webhook deliveries.
func (s *Server) NewWebhookWorker() *webhooks.Worker {
    return webhooks.NewWorker(s.Store, s.Cfg.WebhookMaxAttempts)
}

// Close releases the store connection pool, if any.
func (s *Server) Close() error {
    if c, ok := s.Store.(interface{ Close() error }); ok { return c.Close() }
    return nil
}
