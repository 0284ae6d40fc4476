package api

import (
    "net/http"
    "time"

    "wmsplan/internal/buildinfo"
    "wmsplan/internal/config"
)

// DebugJSON reports build info and the effective configuration. Secrets and
// credentials are masked.
func (s *Server) DebugJSON(w http.ResponseWriter, r *http.Request) {
    db := ""
    if s.Cfg.DatabaseURL != "" { db = config.MaskDatabaseURL(s.Cfg.DatabaseURL) }
    info := map[string]any{
        "build": buildinfo.Info(),
        "time":  time.Now().UTC().Format(time.RFC3339),
        "config": map[string]any{
            "LISTEN_ADDR":          s.Cfg.ListenAddr,
            "WAREHOUSE_ID":         s.Cfg.WarehouseID,
            "RATE_RPS":             s.Cfg.RateRPS,
            "RATE_BURST":           s.Cfg.RateBurst,
            "WEBHOOK_MAX_ATTEMPTS": s.Cfg.WebhookMaxAttempts,
            "DATABASE":             db,
            "HAS_REDIS_URL":        s.Cfg.RedisURL != "",
            "PLANNER":              s.Cfg.Planner,
        },
    }
    writeJSON(w, http.StatusOK, info)
}
