package api

import (
    "bufio"
    "errors"
    "log"
    "net"
    "net/http"
    "strconv"
    "strings"
    "time"

    "golang.org/x/time/rate"

    "wmsplan/internal/metrics"
)

// statusRecorder captures the response code for logging and metrics.
type statusRecorder struct {
    http.ResponseWriter
    status int
}

func (r *statusRecorder) WriteHeader(code int) {
    r.status = code
    r.ResponseWriter.WriteHeader(code)
}

// Flush keeps SSE streaming working through the middleware chain.
func (r *statusRecorder) Flush() {
    if f, ok := r.ResponseWriter.(http.Flusher); ok { f.Flush() }
}

// Hijack is needed for the WebSocket upgrade.
func (r *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
    if h, ok := r.ResponseWriter.(http.Hijacker); ok { return h.Hijack() }
    return nil, nil, errors.New("hijack not supported")
}

func logMiddleware(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        start := time.Now()
        rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
        next.ServeHTTP(rec, r)
        log.Printf("%s %s %s %d %v", r.RemoteAddr, r.Method, r.URL.Path, rec.status, time.Since(start))
    })
}

func metricsMiddleware(next http.Handler) http.Handler {
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        start := time.Now()
        rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
        next.ServeHTTP(rec, r)
        path := metricPath(r.URL.Path)
        code := strconv.Itoa(rec.status)
        metrics.HTTPRequests.WithLabelValues(r.Method, path, code).Inc()
        metrics.HTTPDuration.WithLabelValues(r.Method, path, code).Observe(time.Since(start).Seconds())
    })
}

// metricPath collapses id segments so label cardinality stays bounded.
func metricPath(p string) string {
    for _, prefix := range []string{"/v1/plans/", "/v1/orders/", "/v1/subscriptions/", "/v1/webhook-deliveries/"} {
        if strings.HasPrefix(p, prefix) && len(p) > len(prefix) {
            rest := p[len(prefix):]
            if i := strings.Index(rest, "/"); i >= 0 { return prefix + "{id}" + rest[i:] }
            return prefix + "{id}"
        }
    }
    return p
}

// rateLimitMiddleware applies one token bucket to the whole API. rps <= 0
// disables limiting. Health, readiness and metrics endpoints are exempt.
func rateLimitMiddleware(rps float64, burst int, next http.Handler) http.Handler {
    if rps <= 0 { return next }
    if burst <= 0 { burst = 1 }
    lim := rate.NewLimiter(rate.Limit(rps), burst)
    return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
        switch r.URL.Path {
        case "/healthz", "/readyz", "/metrics":
            next.ServeHTTP(w, r)
            return
        }
        if !lim.Allow() {
            metrics.HTTPRateLimited.Inc()
            w.Header().Set("Retry-After", "1")
            writeProblem(w, http.StatusTooManyRequests, "Too Many Requests", "rate limit exceeded", r.URL.Path)
            return
        }
        next.ServeHTTP(w, r)
    })
}
