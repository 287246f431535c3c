package repository

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"MarketPulse/internal/domain/models"
)

func TestFlowFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "etf_cache.json")
	store := NewFlowFileStore(path, nil)

	want := map[string]models.FlowEntry{
		"BTC": {Flow: 125.4, Date: "2025-08-30", UpdatedAt: "2025-08-30T12:00:00Z"},
		"ETH": {Flow: -38.1, Date: "2025-08-30", UpdatedAt: "2025-08-30T12:00:00Z"},
	}
	if err := store.Save(want); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip mismatch: got %v want %v", got, want)
	}
}

func TestFlowFileStoreMissingFile(t *testing.T) {
	store := NewFlowFileStore(filepath.Join(t.TempDir(), "absent.json"), nil)

	got, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty map, got %v", got)
	}
}

func TestFlowFileStoreMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "etf_cache.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}
	store := NewFlowFileStore(path, nil)

	got, err := store.Load()
	if err != nil {
		t.Fatalf("load should not fail on malformed file: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty map, got %v", got)
	}
}

func TestFlowFileStoreCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "etf_cache.json")
	store := NewFlowFileStore(path, nil)

	if err := store.Save(map[string]models.FlowEntry{}); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("file not created: %v", err)
	}
}
