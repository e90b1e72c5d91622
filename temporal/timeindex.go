package temporal

import (
	"github.com/RoaringBitmap/roaring/v2"
	"github.com/tidwall/btree"

	"github.com/hupe1980/tempograph/core"
)

type timeSlot struct {
	t    int64
	bits *roaring.Bitmap
}

func timeSlotLess(a, b timeSlot) bool { return a.t < b.t }

// TimeIndex records, per event time, the set of local vertex positions
// that saw an event at that time. Times are kept in a B-tree and position
// sets in roaring bitmaps, so "which vertices were active inside [a,b)"
// is a range scan plus a bitmap union rather than a history walk.
type TimeIndex struct {
	tree *btree.BTreeG[timeSlot]
}

// Add records an event for pos at time t.
func (ti *TimeIndex) Add(t int64, pos core.LocalID) {
	if ti.tree == nil {
		ti.tree = btree.NewBTreeG(timeSlotLess)
	}
	if slot, ok := ti.tree.Get(timeSlot{t: t}); ok {
		slot.bits.Add(uint32(pos))
		return
	}
	bits := roaring.New()
	bits.Add(uint32(pos))
	ti.tree.Set(timeSlot{t: t, bits: bits})
}

// ActiveIn returns the positions with at least one event inside w.
// The returned bitmap is freshly built and owned by the caller.
func (ti *TimeIndex) ActiveIn(w core.Window) *roaring.Bitmap {
	if ti.tree == nil || w.IsEmpty() {
		return roaring.New()
	}
	var parts []*roaring.Bitmap
	ti.tree.Ascend(timeSlot{t: w.Start}, func(slot timeSlot) bool {
		if slot.t >= w.End {
			return false
		}
		parts = append(parts, slot.bits)
		return true
	})
	if len(parts) == 0 {
		return roaring.New()
	}
	return roaring.FastOr(parts...)
}

// Contains reports whether pos has at least one event inside w.
func (ti *TimeIndex) Contains(w core.Window, pos core.LocalID) bool {
	if ti.tree == nil || w.IsEmpty() {
		return false
	}
	found := false
	ti.tree.Ascend(timeSlot{t: w.Start}, func(slot timeSlot) bool {
		if slot.t >= w.End {
			return false
		}
		if slot.bits.Contains(uint32(pos)) {
			found = true
			return false
		}
		return true
	})
	return found
}

// CountActive returns the number of distinct positions with at least one
// event inside w.
func (ti *TimeIndex) CountActive(w core.Window) int {
	return int(ti.ActiveIn(w).GetCardinality())
}

// Each visits every (time, positions) slot in time order until fn returns
// false. The bitmap must not be mutated by fn.
func (ti *TimeIndex) Each(fn func(t int64, bits *roaring.Bitmap) bool) {
	if ti.tree == nil {
		return
	}
	ti.tree.Scan(func(slot timeSlot) bool {
		return fn(slot.t, slot.bits)
	})
}
