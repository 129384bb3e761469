// Package state holds the two pieces of mutable shared state the polling
// tasks coordinate through: per-symbol indicator history and the alert
// deduplication records. Both live in memory only and restart empty.
package state

import (
	"sync"

	"stock-signal-alerts/internal/signal"
)

// HistoryStore keeps the last observed MACD and EMA pairs per symbol so
// crossovers can be detected across polling cycles. Entries are written
// whole pairs at a time and never expire; the store is bounded by the
// watchlist size.
type HistoryStore struct {
	mu   sync.RWMutex
	macd map[string]signal.MACDPair
	ema  map[string]signal.EMAPair
}

// NewHistoryStore constructs an empty history store.
func NewHistoryStore() *HistoryStore {
	return &HistoryStore{
		macd: make(map[string]signal.MACDPair),
		ema:  make(map[string]signal.EMAPair),
	}
}

// MACD returns the last observed MACD pair for a symbol, if any.
func (h *HistoryStore) MACD(symbol string) (signal.MACDPair, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	pair, ok := h.macd[symbol]
	return pair, ok
}

// SetMACD overwrites the stored MACD pair for a symbol.
func (h *HistoryStore) SetMACD(symbol string, pair signal.MACDPair) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.macd[symbol] = pair
}

// EMA returns the last observed EMA pair for a symbol, if any.
func (h *HistoryStore) EMA(symbol string) (signal.EMAPair, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	pair, ok := h.ema[symbol]
	return pair, ok
}

// SetEMA overwrites the stored EMA pair for a symbol.
func (h *HistoryStore) SetEMA(symbol string, pair signal.EMAPair) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.ema[symbol] = pair
}

// Symbols reports how many symbols have at least one stored pair.
func (h *HistoryStore) Symbols() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	seen := make(map[string]struct{}, len(h.macd)+len(h.ema))
	for sym := range h.macd {
		seen[sym] = struct{}{}
	}
	for sym := range h.ema {
		seen[sym] = struct{}{}
	}
	return len(seen)
}
