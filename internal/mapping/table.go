package mapping

import (
	"maps"
	"slices"

	"github.com/PixPMusic/gopher-pads/internal/sax"
)

// Table associates pads with entries. A Table is an immutable value: every
// edit returns a new Table and leaves the receiver untouched, so a holder of
// an old table never sees it change. The zero value is an empty table.
type Table struct {
	entries map[Key]Entry
}

// NewTable builds a table from a copy of entries. Entries without a
// mapping are left out.
func NewTable(entries map[Key]Entry) Table {
	next := maps.Clone(entries)
	maps.DeleteFunc(next, func(_ Key, e Entry) bool { return e.Mapping == nil })
	return Table{entries: next}
}

// Get returns the entry for k
func (t Table) Get(k Key) (Entry, bool) {
	e, ok := t.entries[k]
	return e, ok
}

// Len returns the number of mapped pads
func (t Table) Len() int {
	return len(t.entries)
}

// Keys returns the mapped pads in ascending order
func (t Table) Keys() []Key {
	return slices.Sorted(maps.Keys(t.entries))
}

// Each calls fn for every entry in ascending key order
func (t Table) Each(fn func(Key, Entry)) {
	for _, k := range t.Keys() {
		fn(k, t.entries[k])
	}
}

// Entries returns a copy of the underlying map
func (t Table) Entries() map[Key]Entry {
	return maps.Clone(t.entries)
}

// Set returns a table with k mapped to e. An entry without a mapping
// unmaps k.
func (t Table) Set(k Key, e Entry) Table {
	if e.Mapping == nil {
		return t.Delete(k)
	}
	next := make(map[Key]Entry, len(t.entries)+1)
	maps.Copy(next, t.entries)
	next[k] = e
	return Table{entries: next}
}

// SetMapping returns a table with k's mapping replaced and its colors kept.
// A pad that had no entry gets DefaultPair.
func (t Table) SetMapping(k Key, m Mapping) Table {
	e, ok := t.entries[k]
	if !ok {
		e.Color = DefaultPair
	}
	e.Mapping = m
	return t.Set(k, e)
}

// SetColor returns a table with k's colors replaced. Pads without a mapping
// have nothing to color, so the table is returned as is.
func (t Table) SetColor(k Key, c ColorPair) Table {
	e, ok := t.entries[k]
	if !ok {
		return t
	}
	e.Color = c
	return t.Set(k, e)
}

// Delete returns a table without k
func (t Table) Delete(k Key) Table {
	if _, ok := t.entries[k]; !ok {
		return t
	}
	next := maps.Clone(t.entries)
	delete(next, k)
	return Table{entries: next}
}

// Equal reports whether both tables hold the same entries
func (t Table) Equal(o Table) bool {
	return maps.Equal(t.entries, o.entries)
}

// HasFingering reports whether any pad is mapped to the given sax key
func (t Table) HasFingering(k sax.Key) bool {
	for _, e := range t.entries {
		if f, ok := e.Mapping.(Fingering); ok && f.Key == k {
			return true
		}
	}
	return false
}
