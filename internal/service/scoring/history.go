package scoring

import "sync"

// HistoryStore holds the previous smoothed score per monitor, the only
// cross-pass state the scoring engine owns. Implementations must be safe for
// concurrent use across monitors; a single monitor is never scored
// concurrently within one process.
type HistoryStore interface {
	// Previous returns the last smoothed score for a monitor, ok=false on a
	// monitor's first-ever pass
	Previous(monitorID string) (float64, bool)

	// Update records the smoothed score produced by a pass
	Update(monitorID string, smoothed float64)
}

// MemoryHistory is the in-process HistoryStore, a concurrent-safe map keyed by
// monitor id with no eviction.
type MemoryHistory struct {
	mu     sync.RWMutex
	scores map[string]float64
}

// NewMemoryHistory creates an empty history store.
func NewMemoryHistory() *MemoryHistory {
	return &MemoryHistory{scores: make(map[string]float64)}
}

// Warm seeds the store from externally persisted scores, typically on boot.
func (h *MemoryHistory) Warm(scores map[string]float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, score := range scores {
		h.scores[id] = score
	}
}

func (h *MemoryHistory) Previous(monitorID string) (float64, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	score, ok := h.scores[monitorID]
	return score, ok
}

func (h *MemoryHistory) Update(monitorID string, smoothed float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.scores[monitorID] = smoothed
}
