package repository

import (
	"context"

	"MarketPulse/internal/domain/models"
)

// FlowStore persists the last known-good ETF flow per asset. Load is
// called once at startup; Save rewrites the whole backing file.
type FlowStore interface {
	Load() (map[string]models.FlowEntry, error)
	Save(entries map[string]models.FlowEntry) error
}

// SignalArchive is a write-only sink for published signal sets, used for
// offline audit. Failures are logged by callers and never affect the scan.
type SignalArchive interface {
	Archive(ctx context.Context, set *models.SignalSet) error
	Close() error
}

// SignalEvents notifies external consumers that a scan cycle published.
type SignalEvents interface {
	ScanPublished(ctx context.Context, set *models.SignalSet) error
	Close() error
}

// Metrics records subsystem observability counters.
type Metrics interface {
	RecordFetch(source string)
	RecordFetchError(source string)
	RecordResolution(asset, status string)
	RecordConfidence(score float64)
	RecordSignals(crossType string, count int)
	RecordScanDuration(exchange string, seconds float64)
	RecordScanCycle()
}
