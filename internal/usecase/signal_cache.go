package usecase

import (
	"sync"

	"MarketPulse/internal/domain/models"
	"MarketPulse/pkg/util"
)

// NotYetPopulated is returned as the staleness description before the
// first scan cycle for a cross type completes.
const NotYetPopulated = "not yet populated"

// SignalCache holds the scanner's latest published results per cross
// type. Publish swaps the whole set under a short-held lock so readers
// always see one complete cycle's results, never a mix. It performs no
// I/O.
type SignalCache struct {
	mu   sync.RWMutex
	sets map[models.CrossType]*models.SignalSet
}

func NewSignalCache() *SignalCache {
	return &SignalCache{sets: make(map[models.CrossType]*models.SignalSet)}
}

// Publish replaces the cached set for the cross type wholesale.
func (c *SignalCache) Publish(set *models.SignalSet) {
	if set == nil {
		return
	}
	c.mu.Lock()
	c.sets[set.Type] = set
	c.mu.Unlock()
}

// Read returns the last published signals for the cross type and an
// approximate staleness description. The staleness string is metadata
// only; it never invalidates the returned data.
func (c *SignalCache) Read(crossType models.CrossType) ([]models.CrossSignal, string) {
	c.mu.RLock()
	set := c.sets[crossType]
	c.mu.RUnlock()

	if set == nil {
		return nil, NotYetPopulated
	}
	return set.Signals, util.Ago(set.ScannedAt)
}
