package webhooks

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"

	"wmsplan/internal/store"
)

// Event types emitted by the service.
const (
	EventPlanCompleted = "plan.completed"
	EventOrderCreated  = "order.created"
)

type Publisher struct {
	Store store.Store
}

func NewPublisher(s store.Store) *Publisher {
	return &Publisher{Store: s}
}

// Envelope is the JSON body posted to subscribers.
type Envelope struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	WarehouseID string `json:"warehouseId"`
	TS          string `json:"ts"`
	Data        any    `json:"data"`
}

// Emit enqueues one delivery per subscription of the warehouse to eventType
// and returns how many were queued.
func (p *Publisher) Emit(ctx context.Context, warehouseID, eventType string, data any) int {
	subs, err := p.Store.GetSubscriptionsForEvent(ctx, warehouseID, eventType)
	if err != nil {
		log.Printf("webhooks: list subscriptions for %s: %v", eventType, err)
		return 0
	}
	if len(subs) == 0 {
		return 0
	}
	body, err := json.Marshal(Envelope{
		ID:          "evt_" + uuid.NewString(),
		Type:        eventType,
		WarehouseID: warehouseID,
		TS:          time.Now().UTC().Format(time.RFC3339),
		Data:        data,
	})
	if err != nil {
		log.Printf("webhooks: encode %s: %v", eventType, err)
		return 0
	}
	n := 0
	for _, s := range subs {
		if _, err := p.Store.EnqueueWebhook(ctx, warehouseID, s.ID, eventType, s.URL, s.Secret, body); err != nil {
			log.Printf("webhooks: enqueue %s for %s: %v", eventType, s.ID, err)
			continue
		}
		n++
	}
	return n
}
