package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"MarketPulse/internal/domain/models"
	domrepo "MarketPulse/internal/domain/repository"
	dservice "MarketPulse/internal/domain/service"
	applogger "MarketPulse/pkg/logger"
)

// LiveFetchFn wraps one source-specific live fetch. Returning an error
// or a nil reading means the live tier failed for this cycle.
type LiveFetchFn func(ctx context.Context) (*dservice.FlowReading, error)

// ResolverOption configures TieredResolver.
type ResolverOption func(*TieredResolver)

// TieredResolver resolves a tracked value through the ordered fallback
// chain live -> cached -> estimated. It never reports absence: every
// key resolves to a numeric value and a provenance status.
type TieredResolver struct {
	mu        sync.Mutex
	store     domrepo.FlowStore
	entries   map[string]models.FlowEntry
	estimates map[string]float64
	logger    *applogger.Logger
	metrics   domrepo.Metrics
}

// NewTieredResolver creates a resolver seeded from the persistent store.
func NewTieredResolver(store domrepo.FlowStore, logger *applogger.Logger, metrics domrepo.Metrics, opts ...ResolverOption) (*TieredResolver, error) {
	entries, err := store.Load()
	if err != nil {
		return nil, err
	}

	r := &TieredResolver{
		store:     store,
		entries:   entries,
		estimates: make(map[string]float64),
		logger:    logger,
		metrics:   metrics,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// WithEstimate registers the estimated-tier fallback value for a key.
func WithEstimate(key string, flow float64) ResolverOption {
	return func(r *TieredResolver) {
		r.estimates[key] = flow
	}
}

// Resolve runs the fallback chain for one key. A successful live fetch
// is persisted synchronously before it is returned; persistence failure
// is logged and does not demote the result. Cache-tier reads return the
// stored value and date unchanged.
func (r *TieredResolver) Resolve(ctx context.Context, key string, live LiveFetchFn) models.ResolvedFlow {
	resolved := r.resolve(ctx, key, live)
	if r.metrics != nil {
		r.metrics.RecordResolution(key, string(resolved.Status))
	}
	return resolved
}

func (r *TieredResolver) resolve(ctx context.Context, key string, live LiveFetchFn) models.ResolvedFlow {
	// Tier 1: live fetch.
	if live != nil {
		reading, err := live(ctx)
		if err == nil && reading != nil {
			entry := models.FlowEntry{
				Flow:      reading.Flow,
				Date:      reading.Date,
				UpdatedAt: time.Now().UTC().Format(time.RFC3339),
			}

			r.mu.Lock()
			r.entries[key] = entry
			snapshot := make(map[string]models.FlowEntry, len(r.entries))
			for k, v := range r.entries {
				snapshot[k] = v
			}
			r.mu.Unlock()

			if err := r.store.Save(snapshot); err != nil && r.logger != nil {
				r.logger.Warn("flow cache save failed",
					applogger.String("key", key),
					applogger.Error(err),
				)
			}

			return models.ResolvedFlow{
				Asset:  key,
				Flow:   reading.Flow,
				Date:   reading.Date,
				Status: models.ProvenanceLive,
			}
		}
		if err != nil && r.logger != nil {
			r.logger.Warn("live fetch failed, falling back",
				applogger.String("key", key),
				applogger.Error(err),
			)
		}
	}

	// Tier 2: persisted last known-good value.
	r.mu.Lock()
	entry, ok := r.entries[key]
	r.mu.Unlock()
	if ok {
		return models.ResolvedFlow{
			Asset:  key,
			Flow:   entry.Flow,
			Date:   entry.Date,
			Status: models.ProvenanceCached,
		}
	}

	// Tier 3: registered estimate.
	return models.ResolvedFlow{
		Asset:  key,
		Flow:   r.estimates[key],
		Date:   "estimated",
		Status: models.ProvenanceEstimated,
	}
}

// SortFlows orders resolved flows by descending absolute magnitude, the
// display order consumers expect.
func SortFlows(flows []models.ResolvedFlow) {
	sort.SliceStable(flows, func(i, j int) bool {
		return abs(flows[i].Flow) > abs(flows[j].Flow)
	})
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
