// Package main runs a demo WebSocket client for warehouse plan events.
//
//	go run ./scripts
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/gorilla/websocket"
)

type wsMessage struct {
	Type    string          `json:"type"`
	ID      string          `json:"id,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

const demoPlan = `{
  "tasks": [
    {"id": 1, "location": {"x": 0, "y": 0}, "priority": "high"},
    {"id": 2, "location": {"x": 12, "y": 3}, "priority": "low"},
    {"id": 3, "location": {"x": 4, "y": 8}, "priority": "critical"}
  ],
  "workers": [
    {"id": 100, "location": {"x": 1, "y": 1}},
    {"id": 101, "location": {"x": 10, "y": 4}}
  ]
}`

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	warehouse := os.Getenv("WMS_WAREHOUSE_ID")
	if warehouse == "" {
		warehouse = "wh_demo"
	}
	base := fmt.Sprintf("http://localhost:%s", port)

	// Connect WS
	u := url.URL{Scheme: "ws", Host: "localhost:" + port, Path: "/v1/events/ws"}
	hdr := http.Header{}
	hdr.Set("X-Warehouse-Id", warehouse)
	c, _, err := websocket.DefaultDialer.Dial(u.String(), hdr)
	if err != nil {
		log.Fatal("dial:", err)
	}
	defer func() { _ = c.Close() }()

	if err := c.WriteJSON(wsMessage{Type: "connection_init"}); err != nil {
		log.Fatal(err)
	}
	pl, _ := json.Marshal(map[string]any{"events": []string{"plan.completed"}})
	if err := c.WriteJSON(wsMessage{Type: "subscribe", ID: "1", Payload: pl}); err != nil {
		log.Fatal(err)
	}

	got := make(chan struct{})
	go func() {
		for {
			var m wsMessage
			if err := c.ReadJSON(&m); err != nil {
				log.Printf("read: %v", err)
				return
			}
			log.Printf("WS <- %s: %s", m.Type, string(m.Payload))
			if m.Type == "next" {
				close(got)
				return
			}
		}
	}()

	// Trigger a plan
	time.Sleep(300 * time.Millisecond)
	req, _ := http.NewRequest(http.MethodPost, base+"/v1/plan", bytes.NewReader([]byte(demoPlan)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Warehouse-Id", warehouse)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = resp.Body.Close() }()
	var plan struct {
		ID          string `json:"id"`
		Assignments []struct {
			TaskID   uint32 `json:"taskId"`
			WorkerID uint32 `json:"workerId"`
		} `json:"assignments"`
		Unassigned []uint32 `json:"unassigned"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&plan); err != nil {
		log.Fatal(err)
	}
	log.Printf("Plan %s: %d assignments, unassigned %v", plan.ID, len(plan.Assignments), plan.Unassigned)

	select {
	case <-time.After(3 * time.Second):
		log.Printf("no plan.completed event received")
	case <-got:
	}
}
