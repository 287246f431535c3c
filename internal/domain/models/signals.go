package models

import "time"

// CrossType selects which moving-average crossover direction a scan
// looks for.
type CrossType string

const (
	CrossGolden CrossType = "golden"
	CrossDeath  CrossType = "death"
)

// MA pairings a detection can be computed on. MA20/50 is the degraded
// pairing used when a symbol has too little history for MA50/200.
const (
	PairingFull     = "MA50/200"
	PairingDegraded = "MA20/50"
)

// CrossSignal is one detected moving-average crossover. Immutable once
// created.
type CrossSignal struct {
	Symbol     string    `json:"symbol"`
	Exchange   string    `json:"exchange"`
	Pairing    string    `json:"pairing"`
	FastMA     float64   `json:"fast_ma"`
	SlowMA     float64   `json:"slow_ma"`
	DetectedAt time.Time `json:"detected_at"`
}

// SignalSet is the complete result of one scan cycle for one cross type.
// The signal slice is replaced wholesale at publish, never patched.
type SignalSet struct {
	Type      CrossType     `json:"type"`
	Signals   []CrossSignal `json:"signals"`
	ScannedAt time.Time     `json:"scanned_at"`
}
