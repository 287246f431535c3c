package usecase

import (
	"context"
	"errors"
	"testing"

	"MarketPulse/internal/domain/models"
	dservice "MarketPulse/internal/domain/service"
)

func TestResolveLivePersistsSynchronously(t *testing.T) {
	store := newMemFlowStore(nil)
	r, err := NewTieredResolver(store, newTestLogger(t), noopMetrics{})
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}

	got := r.Resolve(context.Background(), "BTC", func(context.Context) (*dservice.FlowReading, error) {
		return &dservice.FlowReading{Flow: 125.5, Date: "2026-08-31"}, nil
	})

	if got.Status != models.ProvenanceLive {
		t.Fatalf("status = %q, want live", got.Status)
	}
	if got.Flow != 125.5 || got.Date != "2026-08-31" {
		t.Fatalf("unexpected resolved flow: %+v", got)
	}
	if store.saves != 1 {
		t.Fatalf("saves = %d, want 1", store.saves)
	}
	entries, _ := store.Load()
	if entries["BTC"].Flow != 125.5 {
		t.Fatalf("persisted flow = %v, want 125.5", entries["BTC"].Flow)
	}
}

func TestResolveCachedWhenLiveFails(t *testing.T) {
	store := newMemFlowStore(map[string]models.FlowEntry{
		"BTC": {Flow: 80.1, Date: "2026-08-30", UpdatedAt: "2026-08-30T12:00:00Z"},
	})
	r, err := NewTieredResolver(store, newTestLogger(t), noopMetrics{})
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}

	live := func(context.Context) (*dservice.FlowReading, error) {
		return nil, errSourceDown
	}

	// Repeated failing reads must keep returning the identical cached value.
	for i := 0; i < 3; i++ {
		got := r.Resolve(context.Background(), "BTC", live)
		if got.Status != models.ProvenanceCached {
			t.Fatalf("read %d: status = %q, want cached", i, got.Status)
		}
		if got.Flow != 80.1 || got.Date != "2026-08-30" {
			t.Fatalf("read %d: cached value changed: %+v", i, got)
		}
	}
	if store.saves != 0 {
		t.Fatalf("saves = %d, want 0 on cached reads", store.saves)
	}
}

func TestResolveNilReadingTreatedAsFailure(t *testing.T) {
	store := newMemFlowStore(map[string]models.FlowEntry{
		"ETH": {Flow: -12.4, Date: "2026-08-29"},
	})
	r, err := NewTieredResolver(store, newTestLogger(t), noopMetrics{})
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}

	got := r.Resolve(context.Background(), "ETH", func(context.Context) (*dservice.FlowReading, error) {
		return nil, nil
	})
	if got.Status != models.ProvenanceCached {
		t.Fatalf("status = %q, want cached for empty live payload", got.Status)
	}
}

func TestResolveEstimatedTier(t *testing.T) {
	store := newMemFlowStore(nil)
	r, err := NewTieredResolver(store, newTestLogger(t), noopMetrics{}, WithEstimate("GOLD", 80))
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}

	got := r.Resolve(context.Background(), "GOLD", nil)
	if got.Status != models.ProvenanceEstimated {
		t.Fatalf("status = %q, want estimated", got.Status)
	}
	if got.Flow != 80 {
		t.Fatalf("flow = %v, want 80", got.Flow)
	}
	if got.Date != "estimated" {
		t.Fatalf("date = %q, want estimated", got.Date)
	}
}

func TestResolveSaveFailureStaysLive(t *testing.T) {
	store := newMemFlowStore(nil)
	store.saveErr = errors.New("disk full")
	r, err := NewTieredResolver(store, newTestLogger(t), noopMetrics{})
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}

	got := r.Resolve(context.Background(), "BTC", func(context.Context) (*dservice.FlowReading, error) {
		return &dservice.FlowReading{Flow: 42, Date: "2026-09-01"}, nil
	})
	if got.Status != models.ProvenanceLive {
		t.Fatalf("status = %q, want live despite save failure", got.Status)
	}

	// The value still landed in the in-memory tier.
	cached := r.Resolve(context.Background(), "BTC", func(context.Context) (*dservice.FlowReading, error) {
		return nil, errSourceDown
	})
	if cached.Status != models.ProvenanceCached || cached.Flow != 42 {
		t.Fatalf("followup read = %+v, want cached 42", cached)
	}
}

func TestSortFlowsByAbsoluteMagnitude(t *testing.T) {
	flows := []models.ResolvedFlow{
		{Asset: "SILVER", Flow: 5},
		{Asset: "BTC", Flow: -200},
		{Asset: "ETH", Flow: 90},
	}
	SortFlows(flows)

	want := []string{"BTC", "ETH", "SILVER"}
	for i, asset := range want {
		if flows[i].Asset != asset {
			t.Fatalf("flows[%d] = %s, want %s", i, flows[i].Asset, asset)
		}
	}
}
