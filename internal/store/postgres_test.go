package store

import (
	"encoding/hex"
	"math"
	"regexp"
	"testing"

	"wmsplan/internal/model"
)

func TestComputeDedupKeyFromID(t *testing.T) {
	body := []byte(`{"id":"evt_123","type":"x"}`)
	got := computeDedupKey(body)
	if got != "evt_123" {
		t.Fatalf("want evt_123, got %s", got)
	}
}

func TestComputeDedupKeyFromHash(t *testing.T) {
	body := []byte(`{"notId":"x"}`)
	got := computeDedupKey(body)
	// hex-encoded first 8 bytes -> 16 hex chars
	b, err := hex.DecodeString(got)
	if err != nil {
		t.Fatalf("invalid hex: %v", err)
	}
	if len(b) != 8 {
		t.Fatalf("expected 8 bytes, got %d", len(b))
	}
	if again := computeDedupKey(body); again != got {
		t.Fatalf("hash not stable: %s vs %s", got, again)
	}
}

func TestNewOrderIDFormat(t *testing.T) {
	re := regexp.MustCompile(`^ORD-\d{6}$`)
	for i := 0; i < 50; i++ {
		if id := NewOrderID(); !re.MatchString(id) {
			t.Fatalf("bad order id %q", id)
		}
	}
}

func TestNullHelpers(t *testing.T) {
	if v := nullIfEmpty("  "); v != nil {
		t.Fatalf("blank -> nil expected, got %v", v)
	}
	if v := nullIfEmpty("a"); v != "a" {
		t.Fatalf("got %v", v)
	}
	if v := nullFloat(nil); v != nil {
		t.Fatalf("nil -> nil expected")
	}
	f := 2.5
	if v := nullFloat(&f); v != 2.5 {
		t.Fatalf("got %v", v)
	}
}

func TestClampLimit(t *testing.T) {
	for in, want := range map[int]int{0: 100, -3: 100, 25: 25, 500: 500, 501: 100} {
		if got := clampLimit(in); got != want {
			t.Fatalf("clampLimit(%d) = %d, want %d", in, got, want)
		}
	}
}

func TestPlanColumns(t *testing.T) {
	un, sum, err := planColumns(model.Plan{Unassigned: []uint32{4, 7}, Summary: model.PlanSummary{Tasks: 3, Assigned: 1, TotalCost: 2.5}})
	if err != nil {
		t.Fatal(err)
	}
	if string(un) != "[4,7]" {
		t.Fatalf("unassigned = %s", un)
	}
	if len(sum) == 0 {
		t.Fatal("empty summary")
	}
	if _, _, err := planColumns(model.Plan{Summary: model.PlanSummary{TotalCost: math.Inf(1)}}); err == nil {
		t.Fatal("want encode error for an infinite cost")
	}
}
