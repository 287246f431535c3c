package usecase

import "MarketPulse/internal/domain/models"

// Per-status points for provenance confidence.
var statusPoints = map[models.Provenance]float64{
	models.ProvenanceLive:      100,
	models.ProvenanceCached:    92,
	models.ProvenanceEstimated: 80,
	models.ProvenanceUnknown:   70,
}

// ScoreStatuses converts a set of provenance statuses into a [0,100]
// confidence value: the arithmetic mean of the per-status points.
// Unrecognized statuses score as unknown.
func ScoreStatuses(statuses []models.Provenance) float64 {
	if len(statuses) == 0 {
		return 0
	}
	var sum float64
	for _, s := range statuses {
		pts, ok := statusPoints[s]
		if !ok {
			pts = statusPoints[models.ProvenanceUnknown]
		}
		sum += pts
	}
	return sum / float64(len(statuses))
}

// BlendConfidence combines core source health with ETF provenance
// confidence: 0.6*coreHealth + 0.4*etfConfidence, clamped to [0,100].
// coreHealth is the healthy fraction of core upstream calls times 100.
func BlendConfidence(healthySources, totalCoreSources int, etfConfidence float64) float64 {
	var coreHealth float64
	if totalCoreSources > 0 {
		coreHealth = float64(healthySources) / float64(totalCoreSources) * 100
	}
	return clamp(0.6*coreHealth+0.4*etfConfidence, 0, 100)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
