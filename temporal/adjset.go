package temporal

import (
	"cmp"
	"sort"

	"github.com/tidwall/btree"

	"github.com/hupe1980/tempograph/core"
)

// TimeList is a sorted set of event timestamps for one (vertex, neighbor)
// pair. Repeated interactions add timestamps; they never create a new edge
// identity.
type TimeList struct {
	ts []int64
}

// Insert adds t, keeping the list sorted. Exact duplicates are ignored.
func (l *TimeList) Insert(t int64) {
	i := sort.Search(len(l.ts), func(i int) bool { return l.ts[i] >= t })
	if i < len(l.ts) && l.ts[i] == t {
		return
	}
	l.ts = append(l.ts, 0)
	copy(l.ts[i+1:], l.ts[i:])
	l.ts[i] = t
}

// Len returns the number of distinct timestamps.
func (l *TimeList) Len() int { return len(l.ts) }

// AnyIn reports whether any timestamp falls inside w. Logarithmic in the
// history size, not linear.
func (l *TimeList) AnyIn(w core.Window) bool {
	if w.IsEmpty() {
		return false
	}
	i := sort.Search(len(l.ts), func(i int) bool { return l.ts[i] >= w.Start })
	return i < len(l.ts) && l.ts[i] < w.End
}

// In returns the timestamps inside w, ascending.
func (l *TimeList) In(w core.Window) []int64 {
	if w.IsEmpty() {
		return nil
	}
	lo := sort.Search(len(l.ts), func(i int) bool { return l.ts[i] >= w.Start })
	hi := sort.Search(len(l.ts), func(i int) bool { return l.ts[i] >= w.End })
	if lo >= hi {
		return nil
	}
	out := make([]int64, hi-lo)
	copy(out, l.ts[lo:hi])
	return out
}

// First returns the earliest timestamp.
func (l *TimeList) First() (int64, bool) {
	if len(l.ts) == 0 {
		return 0, false
	}
	return l.ts[0], true
}

type adjEntry[K cmp.Ordered] struct {
	key   K
	times *TimeList
}

// AdjSet maps neighbor keys to their interaction timestamps for a single
// vertex and direction. Keys are kept in a B-tree so enumeration is
// deterministic (key ascending) and window probes are logarithmic.
//
// The key type is core.LocalID for neighbors on the same shard and
// core.GlobalID for remote endpoints, mirroring the local/remote split of
// the shard's adjacency lists.
type AdjSet[K cmp.Ordered] struct {
	tree *btree.BTreeG[adjEntry[K]]
}

func adjLess[K cmp.Ordered](a, b adjEntry[K]) bool { return a.key < b.key }

// Add records an edge event with neighbor k at time t.
func (s *AdjSet[K]) Add(k K, t int64) {
	if s.tree == nil {
		s.tree = btree.NewBTreeG(adjLess[K])
	}
	if e, ok := s.tree.Get(adjEntry[K]{key: k}); ok {
		e.times.Insert(t)
		return
	}
	tl := &TimeList{}
	tl.Insert(t)
	s.tree.Set(adjEntry[K]{key: k, times: tl})
}

// Len returns the number of distinct neighbors over the full history.
func (s *AdjSet[K]) Len() int {
	if s.tree == nil {
		return 0
	}
	return s.tree.Len()
}

// LenWindow returns the number of distinct neighbors with at least one
// event inside w.
func (s *AdjSet[K]) LenWindow(w core.Window) int {
	if s.tree == nil || w.IsEmpty() {
		return 0
	}
	n := 0
	s.tree.Scan(func(e adjEntry[K]) bool {
		if e.times.AnyIn(w) {
			n++
		}
		return true
	})
	return n
}

// Find reports whether k is a neighbor at any point in history.
func (s *AdjSet[K]) Find(k K) bool {
	if s.tree == nil {
		return false
	}
	_, ok := s.tree.Get(adjEntry[K]{key: k})
	return ok
}

// FindWindow reports whether k is a neighbor with an event inside w.
func (s *AdjSet[K]) FindWindow(k K, w core.Window) bool {
	if s.tree == nil || w.IsEmpty() {
		return false
	}
	e, ok := s.tree.Get(adjEntry[K]{key: k})
	return ok && e.times.AnyIn(w)
}

// Keys returns all neighbor keys, ascending. The slice is a snapshot taken
// at call time.
func (s *AdjSet[K]) Keys() []K {
	if s.tree == nil {
		return nil
	}
	out := make([]K, 0, s.tree.Len())
	s.tree.Scan(func(e adjEntry[K]) bool {
		out = append(out, e.key)
		return true
	})
	return out
}

// KeysWindow returns the neighbor keys with at least one event inside w,
// ascending, deduplicated. The slice is a snapshot taken at call time.
func (s *AdjSet[K]) KeysWindow(w core.Window) []K {
	if s.tree == nil || w.IsEmpty() {
		return nil
	}
	var out []K
	s.tree.Scan(func(e adjEntry[K]) bool {
		if e.times.AnyIn(w) {
			out = append(out, e.key)
		}
		return true
	})
	return out
}

// Each visits every (key, timestamps) pair in key order until fn returns
// false.
func (s *AdjSet[K]) Each(fn func(k K, times *TimeList) bool) {
	if s.tree == nil {
		return
	}
	s.tree.Scan(func(e adjEntry[K]) bool {
		return fn(e.key, e.times)
	})
}

// Adjacency bundles the four per-vertex adjacency sets: one per direction,
// split into same-shard and remote endpoints. BOTH is never stored; it is
// the union of OUT and IN at query time.
type Adjacency struct {
	Out       AdjSet[core.LocalID]
	In        AdjSet[core.LocalID]
	RemoteOut AdjSet[core.GlobalID]
	RemoteIn  AdjSet[core.GlobalID]
}

// OutLen returns the number of distinct out-neighbors over the full
// history.
func (a *Adjacency) OutLen() int { return a.Out.Len() + a.RemoteOut.Len() }

// InLen returns the number of distinct in-neighbors over the full history.
func (a *Adjacency) InLen() int { return a.In.Len() + a.RemoteIn.Len() }

// OutLenWindow returns the number of distinct out-neighbors inside w.
func (a *Adjacency) OutLenWindow(w core.Window) int {
	return a.Out.LenWindow(w) + a.RemoteOut.LenWindow(w)
}

// InLenWindow returns the number of distinct in-neighbors inside w.
func (a *Adjacency) InLenWindow(w core.Window) int {
	return a.In.LenWindow(w) + a.RemoteIn.LenWindow(w)
}
