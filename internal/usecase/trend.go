package usecase

import (
	"sync"

	"MarketPulse/internal/domain/models"
)

type previousMetrics struct {
	btcDominance float64
	ethBTCRatio  float64
	altDominance float64
}

// PreviousMetricsStore remembers the trend-relevant metric values of the
// last snapshot produced per consumer. It is only ever read by the trend
// calculation and updated unconditionally after every snapshot.
type PreviousMetricsStore struct {
	mu   sync.Mutex
	prev map[string]previousMetrics
}

func NewPreviousMetricsStore() *PreviousMetricsStore {
	return &PreviousMetricsStore{prev: make(map[string]previousMetrics)}
}

// TrendsFor computes direction-of-change for a consumer against its
// previous snapshot, then records the current values. The first snapshot
// for a consumer reports all trends as neutral.
func (s *PreviousMetricsStore) TrendsFor(consumerID string, snap *models.MarketSnapshot) models.SnapshotTrends {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, seen := s.prev[consumerID]
	s.prev[consumerID] = previousMetrics{
		btcDominance: snap.BTCDominance,
		ethBTCRatio:  snap.ETHBTCRatio,
		altDominance: snap.AltDominance,
	}

	if !seen {
		return models.SnapshotTrends{
			BTCDominance: models.TrendNeutral,
			ETHBTCRatio:  models.TrendNeutral,
			AltDominance: models.TrendNeutral,
		}
	}
	return models.SnapshotTrends{
		BTCDominance: detectTrend(snap.BTCDominance, prev.btcDominance),
		ETHBTCRatio:  detectTrend(snap.ETHBTCRatio, prev.ethBTCRatio),
		AltDominance: detectTrend(snap.AltDominance, prev.altDominance),
	}
}

func detectTrend(current, previous float64) models.TrendDirection {
	switch {
	case current > previous:
		return models.TrendUp
	case current < previous:
		return models.TrendDown
	default:
		return models.TrendNeutral
	}
}
