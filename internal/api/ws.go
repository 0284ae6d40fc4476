package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Event stream over WebSocket using a graphql-transport-ws like envelope:
// connection_init/connection_ack, ping/pong, subscribe/next/complete.

var upgrader = websocket.Upgrader{CheckOrigin: func(_ *http.Request) bool { return true }}

type wsMessage struct {
	Type    string          `json:"type"`
	ID      string          `json:"id,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// subscribePayload narrows a subscription to the listed event types.
// An empty list receives every warehouse event.
type subscribePayload struct {
	Events []string `json:"events"`
}

func (p subscribePayload) wants(eventType string) bool {
	if len(p.Events) == 0 {
		return true
	}
	for _, e := range p.Events {
		if e == eventType {
			return true
		}
	}
	return false
}

// EventsWSHandler handles /v1/events/ws
func (s *Server) EventsWSHandler(w http.ResponseWriter, r *http.Request) {
	_, wh := s.withWarehouse(r)
	if q := r.URL.Query().Get("warehouseId"); q != "" {
		wh = q
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer func() { _ = conn.Close() }()

	subs := map[string]chan SSEEvent{}
	initialized := false
	done := make(chan struct{})
	defer close(done)

	conn.SetReadLimit(1 << 20)
	_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error { _ = conn.SetReadDeadline(time.Now().Add(60 * time.Second)); return nil })

	// gorilla allows one concurrent writer
	var wmu sync.Mutex
	write := func(v any) error {
		wmu.Lock()
		defer wmu.Unlock()
		_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		return conn.WriteJSON(v)
	}
	writeErr := func(id, message string) {
		pl, _ := json.Marshal(map[string]string{"message": message})
		_ = write(wsMessage{Type: "error", ID: id, Payload: pl})
	}

	for {
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			break
		}
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		switch msg.Type {
		case "connection_init":
			if initialized {
				continue
			}
			initialized = true
			_ = write(wsMessage{Type: "connection_ack"})
			go func() {
				ticker := time.NewTicker(20 * time.Second)
				defer ticker.Stop()
				for {
					select {
					case <-done:
						return
					case <-ticker.C:
						if err := write(wsMessage{Type: "ping"}); err != nil {
							return
						}
					}
				}
			}()
		case "ping":
			_ = write(wsMessage{Type: "pong"})
		case "pong":
		case "subscribe":
			if !initialized {
				writeErr(msg.ID, "connection_init required")
				continue
			}
			if msg.ID == "" {
				writeErr("", "subscription id required")
				continue
			}
			if _, dup := subs[msg.ID]; dup {
				writeErr(msg.ID, "subscription id already in use")
				continue
			}
			var pl subscribePayload
			if len(msg.Payload) > 0 {
				if err := json.Unmarshal(msg.Payload, &pl); err != nil {
					writeErr(msg.ID, "invalid subscribe payload")
					_ = write(wsMessage{Type: "complete", ID: msg.ID})
					continue
				}
			}
			ch := s.Broker.Subscribe(wh)
			subs[msg.ID] = ch
			go func(id string, c chan SSEEvent, pl subscribePayload) {
				for evt := range c {
					if !pl.wants(evt.Type) {
						continue
					}
					payload, _ := json.Marshal(map[string]any{"data": evt})
					if err := write(wsMessage{Type: "next", ID: id, Payload: payload}); err != nil {
						return
					}
				}
				_ = write(wsMessage{Type: "complete", ID: id})
			}(msg.ID, ch, pl)
		case "complete":
			if ch, ok := subs[msg.ID]; ok {
				s.Broker.Unsubscribe(wh, ch)
				delete(subs, msg.ID)
			}
		default:
			// ignore
		}
	}
	for id, ch := range subs {
		s.Broker.Unsubscribe(wh, ch)
		delete(subs, id)
	}
}
