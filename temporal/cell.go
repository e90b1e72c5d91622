// Package temporal provides the append-only temporal data structures
// underlying the graph store: per-value history cells, per-entity property
// slots, per-vertex adjacency sets and the shard-level time index.
//
// None of the types in this package synchronize internally. The owning
// shard serializes writers and allows concurrent readers; history is only
// ever appended, never rewritten, so a reader always observes a prefix
// consistent with some valid point in time.
package temporal

import (
	"sort"

	"github.com/hupe1980/tempograph/core"
	"github.com/hupe1980/tempograph/prop"
)

// TimeValue is a single observation in a value's history.
type TimeValue struct {
	Time  int64
	Value prop.Value
}

// Cell stores a single mutable value's history as an append-ordered
// sequence of (time, value) pairs. Entries are never removed.
type Cell struct {
	entries []TimeValue
	// unsorted is set once an append goes backwards in time; lookups then
	// fall back from binary search to a linear scan.
	unsorted bool
}

// Set appends (t, v) to the history. Appending at a time not later than a
// previous entry still succeeds; for lookups at a given query time the
// most recently inserted entry among those at the greatest time wins.
func (c *Cell) Set(t int64, v prop.Value) {
	if n := len(c.entries); n > 0 && t < c.entries[n-1].Time {
		c.unsorted = true
	}
	c.entries = append(c.entries, TimeValue{Time: t, Value: v})
}

// Len returns the number of recorded observations.
func (c *Cell) Len() int { return len(c.entries) }

// ValueAt returns the value attached to the greatest recorded time <= t,
// or false if the cell is empty or every entry is after t.
func (c *Cell) ValueAt(t int64) (prop.Value, bool) {
	if len(c.entries) == 0 {
		return prop.Value{}, false
	}

	if !c.unsorted {
		// Rightmost entry with Time <= t. Equal-time appends land to the
		// right, so this picks the latest insertion automatically.
		i := sort.Search(len(c.entries), func(i int) bool {
			return c.entries[i].Time > t
		})
		if i == 0 {
			return prop.Value{}, false
		}
		return c.entries[i-1].Value, true
	}

	best := -1
	for i, e := range c.entries {
		if e.Time > t {
			continue
		}
		if best < 0 || e.Time >= c.entries[best].Time {
			best = i
		}
	}
	if best < 0 {
		return prop.Value{}, false
	}
	return c.entries[best].Value, true
}

// Range returns the observations with time inside w, ordered by time
// ascending (insertion order preserved among equal times). The result is
// a snapshot taken at call time.
func (c *Cell) Range(w core.Window) []TimeValue {
	if w.IsEmpty() || len(c.entries) == 0 {
		return nil
	}

	var out []TimeValue
	for _, e := range c.entries {
		if w.Contains(e.Time) {
			out = append(out, e)
		}
	}
	if c.unsorted {
		sort.SliceStable(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	}
	return out
}

// ActiveIn reports whether any observation falls inside w.
func (c *Cell) ActiveIn(w core.Window) bool {
	if w.IsEmpty() {
		return false
	}
	if !c.unsorted {
		i := sort.Search(len(c.entries), func(i int) bool {
			return c.entries[i].Time >= w.Start
		})
		return i < len(c.entries) && c.entries[i].Time < w.End
	}
	for _, e := range c.entries {
		if w.Contains(e.Time) {
			return true
		}
	}
	return false
}
