package models

// Provenance tags how trustworthy/fresh a resolved value is.
// Ordering, most to least informative: live > cached > estimated > unknown.
type Provenance string

const (
	ProvenanceLive      Provenance = "live"
	ProvenanceCached    Provenance = "cached"
	ProvenanceEstimated Provenance = "estimated"
	ProvenanceUnknown   Provenance = "unknown"
)

// FlowEntry is the persisted last-known-good ETF flow for one asset,
// as stored in the on-disk cache file.
type FlowEntry struct {
	Flow      float64 `json:"flow"`
	Date      string  `json:"date"`
	UpdatedAt string  `json:"updated_at"`
}

// ResolvedFlow is one ETF flow after tiered resolution. Date is the
// source's effective date, or the literal "estimated" when no real-world
// date exists for the value.
type ResolvedFlow struct {
	Asset  string     `json:"asset"`
	Flow   float64    `json:"flow"`
	Date   string     `json:"date"`
	Status Provenance `json:"status"`
}
