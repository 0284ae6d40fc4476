package api

import (
    "sync"
)

// SSEEvent is a warehouse event fanned out to SSE and WebSocket clients.
type SSEEvent struct {
    Type string         `json:"type"`
    Data map[string]any `json:"data"`
}

// EventBroker fans events out per warehouse.
type EventBroker interface {
    Subscribe(warehouseID string) chan SSEEvent
    Unsubscribe(warehouseID string, ch chan SSEEvent)
    Publish(warehouseID string, evt SSEEvent)
}

type Broker struct {
    mu      sync.Mutex
    subs    map[string]map[chan SSEEvent]struct{} // warehouseId -> set of channels
}

func NewBroker() *Broker {
    return &Broker{subs: map[string]map[chan SSEEvent]struct{}{}}
}

func (b *Broker) Subscribe(warehouseID string) chan SSEEvent {
    ch := make(chan SSEEvent, 8)
    b.mu.Lock()
    if b.subs[warehouseID] == nil { b.subs[warehouseID] = map[chan SSEEvent]struct{}{} }
    b.subs[warehouseID][ch] = struct{}{}
    b.mu.Unlock()
    return ch
}

// Unsubscribe removes and closes ch. Unknown channels are ignored.
func (b *Broker) Unsubscribe(warehouseID string, ch chan SSEEvent) {
    b.mu.Lock()
    defer b.mu.Unlock()
    m := b.subs[warehouseID]
    if _, ok := m[ch]; !ok { return }
    delete(m, ch)
    if len(m) == 0 { delete(b.subs, warehouseID) }
    close(ch)
}

// Publish never blocks; slow subscribers miss events.
func (b *Broker) Publish(warehouseID string, evt SSEEvent) {
    b.mu.Lock()
    m := b.subs[warehouseID]
    for ch := range m {
        select { case ch <- evt: default: }
    }
    b.mu.Unlock()
}
