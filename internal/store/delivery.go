package store

import (
    "crypto/sha256"
    "encoding/binary"
    "encoding/hex"
    "encoding/json"
    "fmt"
    "time"

    "github.com/google/uuid"
)

type WebhookDelivery struct {
    ID             string
    WarehouseID    string
    SubscriptionID string
    EventType      string
    URL            string
    Secret         string
    Payload        []byte
    Status         string
    Attempts       int
}

// DeliveryStatus is the listing view of a delivery.
type DeliveryStatus struct {
    ID            string     `json:"id"`
    EventType     string     `json:"eventType"`
    URL           string     `json:"url"`
    Status        string     `json:"status"`
    Attempts      int        `json:"attempts"`
    NextAttemptAt *time.Time `json:"nextAttemptAt,omitempty"`
    LastError     string     `json:"lastError,omitempty"`
    ResponseCode  int        `json:"responseCode,omitempty"`
}

// computeDedupKey uses the event id when the payload carries one, else a
// short content hash.
func computeDedupKey(payload []byte) string {
    var m map[string]any
    if json.Unmarshal(payload, &m) == nil {
        if v, ok := m["id"].(string); ok && v != "" {
            return v
        }
    }
    sum := sha256.Sum256(payload)
    return hex.EncodeToString(sum[:8])
}

// NewOrderID returns an order number of the form ORD-NNNNNN taken from a
// random UUID.
func NewOrderID() string {
    u := uuid.New()
    n := binary.BigEndian.Uint32(u[:4]) % 1_000_000
    return fmt.Sprintf("ORD-%06d", n)
}

func clampLimit(limit int) int {
    if limit <= 0 || limit > 500 {
        return 100
    }
    return limit
}
