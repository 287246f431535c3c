package usecase

import (
	"testing"

	"MarketPulse/internal/domain/models"
)

func snapWithMetrics(btcDom, ethBTC, altDom float64) *models.MarketSnapshot {
	return &models.MarketSnapshot{
		BTCDominance: btcDom,
		ETHBTCRatio:  ethBTC,
		AltDominance: altDom,
	}
}

func TestTrendsFirstSnapshotNeutral(t *testing.T) {
	s := NewPreviousMetricsStore()

	trends := s.TrendsFor("default", snapWithMetrics(57, 0.033, 36))
	if trends.BTCDominance != models.TrendNeutral ||
		trends.ETHBTCRatio != models.TrendNeutral ||
		trends.AltDominance != models.TrendNeutral {
		t.Fatalf("first trends = %+v, want all neutral", trends)
	}
}

func TestTrendsDetectDirection(t *testing.T) {
	s := NewPreviousMetricsStore()
	s.TrendsFor("default", snapWithMetrics(57, 0.033, 36))

	trends := s.TrendsFor("default", snapWithMetrics(58, 0.031, 36))
	if trends.BTCDominance != models.TrendUp {
		t.Fatalf("btc trend = %q, want uptrend", trends.BTCDominance)
	}
	if trends.ETHBTCRatio != models.TrendDown {
		t.Fatalf("eth/btc trend = %q, want downtrend", trends.ETHBTCRatio)
	}
	if trends.AltDominance != models.TrendNeutral {
		t.Fatalf("alt trend = %q, want neutral on equal value", trends.AltDominance)
	}
}

func TestTrendsPerConsumerIsolation(t *testing.T) {
	s := NewPreviousMetricsStore()
	s.TrendsFor("alice", snapWithMetrics(57, 0.033, 36))

	trends := s.TrendsFor("bob", snapWithMetrics(58, 0.034, 37))
	if trends.BTCDominance != models.TrendNeutral {
		t.Fatalf("bob's first trends = %+v, want neutral", trends)
	}

	trends = s.TrendsFor("alice", snapWithMetrics(58, 0.034, 37))
	if trends.BTCDominance != models.TrendUp {
		t.Fatalf("alice's trends = %+v, want uptrend", trends)
	}
}
