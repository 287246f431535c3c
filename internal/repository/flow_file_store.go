package repository

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"MarketPulse/internal/domain/models"
	domrepo "MarketPulse/internal/domain/repository"
	applogger "MarketPulse/pkg/logger"
)

// FlowFileStore persists ETF flow entries as a single JSON file,
// mapping asset key to {flow, date, updated_at}. The whole file is
// rewritten on every Save.
type FlowFileStore struct {
	path   string
	logger *applogger.Logger
}

var _ domrepo.FlowStore = (*FlowFileStore)(nil)

// NewFlowFileStore creates a store backed by the given file path.
func NewFlowFileStore(path string, logger *applogger.Logger) *FlowFileStore {
	return &FlowFileStore{path: path, logger: logger}
}

// Load reads the backing file. A missing file yields an empty map; a
// malformed file is logged and also yields an empty map. Startup never
// fails on cache state.
func (s *FlowFileStore) Load() (map[string]models.FlowEntry, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return make(map[string]models.FlowEntry), nil
		}
		if s.logger != nil {
			s.logger.Warn("flow cache unreadable, starting empty",
				applogger.String("path", s.path),
				applogger.Error(err),
			)
		}
		return make(map[string]models.FlowEntry), nil
	}

	var entries map[string]models.FlowEntry
	if err := json.Unmarshal(b, &entries); err != nil {
		if s.logger != nil {
			s.logger.Warn("flow cache malformed, starting empty",
				applogger.String("path", s.path),
				applogger.Error(err),
			)
		}
		return make(map[string]models.FlowEntry), nil
	}
	if entries == nil {
		entries = make(map[string]models.FlowEntry)
	}
	return entries, nil
}

// Save serializes all entries and overwrites the backing file.
func (s *FlowFileStore) Save(entries map[string]models.FlowEntry) error {
	b, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal flow cache: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("flow cache dir: %w", err)
		}
	}
	if err := os.WriteFile(s.path, b, 0o644); err != nil {
		return fmt.Errorf("write flow cache: %w", err)
	}
	return nil
}
