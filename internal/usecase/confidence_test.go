package usecase

import (
	"testing"

	"MarketPulse/internal/domain/models"
)

func TestScoreStatusesOrdering(t *testing.T) {
	live := ScoreStatuses([]models.Provenance{models.ProvenanceLive})
	cached := ScoreStatuses([]models.Provenance{models.ProvenanceCached})
	estimated := ScoreStatuses([]models.Provenance{models.ProvenanceEstimated})
	unknown := ScoreStatuses([]models.Provenance{"???"})

	if live != 100 || cached != 92 || estimated != 80 || unknown != 70 {
		t.Fatalf("points = %v/%v/%v/%v, want 100/92/80/70", live, cached, estimated, unknown)
	}
	if !(live > cached && cached > estimated && estimated > unknown) {
		t.Fatalf("confidence ordering violated")
	}
}

func TestScoreStatusesMean(t *testing.T) {
	got := ScoreStatuses([]models.Provenance{
		models.ProvenanceLive,
		models.ProvenanceLive,
		models.ProvenanceEstimated,
		models.ProvenanceEstimated,
	})
	if got != 90 {
		t.Fatalf("mean = %v, want 90", got)
	}
}

func TestScoreStatusesEmpty(t *testing.T) {
	if got := ScoreStatuses(nil); got != 0 {
		t.Fatalf("empty score = %v, want 0", got)
	}
}

func TestBlendConfidence(t *testing.T) {
	cases := []struct {
		name    string
		healthy int
		total   int
		etf     float64
		want    float64
	}{
		{"all healthy all live", 4, 4, 100, 100},
		{"full outage estimated flows", 0, 4, 80, 32},
		{"half healthy", 2, 4, 92, 66.8},
		{"zero total sources", 0, 0, 100, 40},
	}
	for _, tc := range cases {
		got := BlendConfidence(tc.healthy, tc.total, tc.etf)
		if got < tc.want-1e-9 || got > tc.want+1e-9 {
			t.Fatalf("%s: blend = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestBlendConfidenceClamped(t *testing.T) {
	if got := BlendConfidence(4, 4, 500); got != 100 {
		t.Fatalf("over-range blend = %v, want 100", got)
	}
	if got := BlendConfidence(0, 4, -50); got != 0 {
		t.Fatalf("under-range blend = %v, want 0", got)
	}
}
