package state

import (
	"fmt"
	"sync"
	"time"

	"stock-signal-alerts/internal/signal"
)

// DedupStore records which (symbol, kind, calendar day) alerts have
// already fired so repeats within the same day are suppressed. The day is
// taken in the store's location, not UTC. Check-and-create is serialized
// under one mutex so two tasks firing the same key concurrently produce
// exactly one winner.
//
// The clock is injectable so day rollover can be simulated in tests; a nil
// clock means time.Now.
type DedupStore struct {
	mu   sync.Mutex
	seen map[string]time.Time
	loc  *time.Location
	now  func() time.Time
}

// NewDedupStore constructs an empty dedup store for the given location.
func NewDedupStore(loc *time.Location, now func() time.Time) *DedupStore {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return &DedupStore{
		seen: make(map[string]time.Time),
		loc:  loc,
		now:  now,
	}
}

// MarkIfNew records the (symbol, kind, today) alert if it has not fired
// yet and reports whether the caller won the record. A false return means
// an identical alert already fired today and must be suppressed.
func (d *DedupStore) MarkIfNew(symbol string, kind signal.Kind) bool {
	now := d.now()
	key := d.key(symbol, kind, now)

	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.seen[key]; exists {
		return false
	}
	d.seen[key] = now
	return true
}

// PruneOlderThan deletes records created more than maxAge before now and
// returns how many were removed.
func (d *DedupStore) PruneOlderThan(maxAge time.Duration) int {
	cutoff := d.now().Add(-maxAge)

	d.mu.Lock()
	defer d.mu.Unlock()
	removed := 0
	for key, createdAt := range d.seen {
		if createdAt.Before(cutoff) {
			delete(d.seen, key)
			removed++
		}
	}
	return removed
}

// Len reports the number of live records.
func (d *DedupStore) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}

func (d *DedupStore) key(symbol string, kind signal.Kind, t time.Time) string {
	return fmt.Sprintf("%s_%s_%s", symbol, kind, t.In(d.loc).Format("2006-01-02"))
}
