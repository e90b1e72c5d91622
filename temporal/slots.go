package temporal

import (
	"errors"

	"github.com/hupe1980/tempograph/prop"
)

// ErrAlreadySet is returned when a set-once property slot is written a
// second time through the non-append path. Properties are append-only
// timelines; the only legal way to change a value over time is a temporal
// update.
var ErrAlreadySet = errors.New("temporal: property slot already set")

// Slots maps property ids to temporal Cells for one entity.
//
// Most entities carry zero or one property, so the zero value stores a
// single (id, cell) pair inline. Writing a second distinct id promotes the
// entity to a dense slice indexed by property id; writing the same id
// again is an ordinary temporal update, not a promotion.
type Slots struct {
	single   *Cell
	singleID int
	multi    []*Cell
}

// Upsert returns the cell for id, creating it (and promoting the encoding
// if needed) on first sight.
func (s *Slots) Upsert(id int) *Cell {
	switch {
	case s.multi != nil:
		if id >= len(s.multi) {
			grown := make([]*Cell, id+1)
			copy(grown, s.multi)
			s.multi = grown
		}
		if s.multi[id] == nil {
			s.multi[id] = &Cell{}
		}
		return s.multi[id]
	case s.single != nil:
		if s.singleID == id {
			return s.single
		}
		// Second distinct id: promote to the dense encoding.
		size := max(id, s.singleID) + 1
		s.multi = make([]*Cell, size)
		s.multi[s.singleID] = s.single
		s.multi[id] = &Cell{}
		s.single = nil
		return s.multi[id]
	default:
		s.single = &Cell{}
		s.singleID = id
		return s.single
	}
}

// Get returns the cell for id if it exists.
func (s *Slots) Get(id int) (*Cell, bool) {
	switch {
	case s.multi != nil:
		if id < 0 || id >= len(s.multi) || s.multi[id] == nil {
			return nil, false
		}
		return s.multi[id], true
	case s.single != nil && s.singleID == id:
		return s.single, true
	default:
		return nil, false
	}
}

// IDs returns the property ids holding at least one observation,
// ascending.
func (s *Slots) IDs() []int {
	switch {
	case s.multi != nil:
		var ids []int
		for id, c := range s.multi {
			if c != nil {
				ids = append(ids, id)
			}
		}
		return ids
	case s.single != nil:
		return []int{s.singleID}
	default:
		return nil
	}
}

// StaticSlots maps property ids to set-once values for one entity, using
// the same single-slot/dense encoding as Slots.
type StaticSlots struct {
	single    prop.Value
	singleID  int
	hasSingle bool
	multi     []prop.Value
}

// Set writes the value for id. Writing an id that already holds a value
// returns ErrAlreadySet and leaves the slots untouched.
func (s *StaticSlots) Set(id int, v prop.Value) error {
	switch {
	case s.multi != nil:
		if id < len(s.multi) && s.multi[id].IsValid() {
			return ErrAlreadySet
		}
		if id >= len(s.multi) {
			grown := make([]prop.Value, id+1)
			copy(grown, s.multi)
			s.multi = grown
		}
		s.multi[id] = v
		return nil
	case s.hasSingle:
		if s.singleID == id {
			return ErrAlreadySet
		}
		size := max(id, s.singleID) + 1
		s.multi = make([]prop.Value, size)
		s.multi[s.singleID] = s.single
		s.multi[id] = v
		s.hasSingle = false
		return nil
	default:
		s.single = v
		s.singleID = id
		s.hasSingle = true
		return nil
	}
}

// Get returns the value for id if set.
func (s *StaticSlots) Get(id int) (prop.Value, bool) {
	switch {
	case s.multi != nil:
		if id < 0 || id >= len(s.multi) || !s.multi[id].IsValid() {
			return prop.Value{}, false
		}
		return s.multi[id], true
	case s.hasSingle && s.singleID == id:
		return s.single, true
	default:
		return prop.Value{}, false
	}
}

// IDs returns the property ids holding a value, ascending.
func (s *StaticSlots) IDs() []int {
	switch {
	case s.multi != nil:
		var ids []int
		for id, v := range s.multi {
			if v.IsValid() {
				ids = append(ids, id)
			}
		}
		return ids
	case s.hasSingle:
		return []int{s.singleID}
	default:
		return nil
	}
}
