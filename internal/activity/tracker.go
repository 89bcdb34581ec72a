// Package activity reference-counts logical identifiers held active by
// any number of physical inputs.
package activity

// Tracker counts holders per id. An id whose count drops to zero is removed,
// so "absent" and "count 0" are the same state.
//
// A Tracker is not safe for concurrent use; callers serialize input events.
type Tracker[K comparable] struct {
	counts map[K]int
}

// New returns an empty tracker
func New[K comparable]() *Tracker[K] {
	return &Tracker[K]{counts: make(map[K]int)}
}

// Increment adds one holder to id
func (t *Tracker[K]) Increment(id K) {
	if t.counts == nil {
		t.counts = make(map[K]int)
	}
	t.counts[id]++
}

// Decrement removes one holder from id. Decrementing an absent id is a no-op.
func (t *Tracker[K]) Decrement(id K) {
	c, ok := t.counts[id]
	if !ok {
		return
	}
	if c <= 1 {
		delete(t.counts, id)
		return
	}
	t.counts[id] = c - 1
}

// IsActive reports whether at least one holder keeps id active
func (t *Tracker[K]) IsActive(id K) bool {
	return t.counts[id] > 0
}

// IsLastHolder reports whether the next Decrement of id deactivates it
func (t *Tracker[K]) IsLastHolder(id K) bool {
	return t.counts[id] == 1
}

// Count returns the number of holders of id
func (t *Tracker[K]) Count(id K) int {
	return t.counts[id]
}

// Len returns the number of active ids
func (t *Tracker[K]) Len() int {
	return len(t.counts)
}

// Active returns the active ids in no particular order
func (t *Tracker[K]) Active() []K {
	ids := make([]K, 0, len(t.counts))
	for id := range t.counts {
		ids = append(ids, id)
	}
	return ids
}

// DrainAll removes every entry and returns the ids that were active
func (t *Tracker[K]) DrainAll() []K {
	ids := t.Active()
	clear(t.counts)
	return ids
}
