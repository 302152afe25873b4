package tracing

import "sync"

// A StatsTracer counts op records by kind and outcome.
type StatsTracer struct {
	lock sync.Mutex

	keys   []string
	counts map[string]uint64
}

// NewStatsTracer creates a new StatsTracer.
func NewStatsTracer() *StatsTracer {
	t := &StatsTracer{
		counts: make(map[string]uint64),
	}

	return t
}

// RecordOp counts the op under its kind/outcome pair.
func (t *StatsTracer) RecordOp(op Op) {
	t.lock.Lock()
	defer t.lock.Unlock()

	key := op.Kind + "/" + op.Outcome
	_, ok := t.counts[key]
	if !ok {
		t.keys = append(t.keys, key)
	}

	t.counts[key]++
}

// Keys returns the kind/outcome pairs recorded so far, in first-seen order.
func (t *StatsTracer) Keys() []string {
	t.lock.Lock()
	defer t.lock.Unlock()

	keys := make([]string, len(t.keys))
	copy(keys, t.keys)

	return keys
}

// Count returns the number of ops recorded with the given kind and outcome.
func (t *StatsTracer) Count(kind, outcome string) uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.counts[kind+"/"+outcome]
}

// CountKey returns the number of ops recorded under a key reported by Keys.
func (t *StatsTracer) CountKey(key string) uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	return t.counts[key]
}

// KindCount returns the number of ops recorded with the given kind, summed
// over all outcomes.
func (t *StatsTracer) KindCount(kind string) uint64 {
	t.lock.Lock()
	defer t.lock.Unlock()

	total := uint64(0)
	for key, count := range t.counts {
		if len(key) > len(kind) && key[:len(kind)] == kind && key[len(kind)] == '/' {
			total += count
		}
	}

	return total
}
