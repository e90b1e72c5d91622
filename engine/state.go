package engine

// StateVector is a dense, position-indexed array of per-vertex working
// values for iterative algorithms. Access is O(1) by position, never by
// global id; callers resolve positions once and reuse them across rounds.
//
// Iterative algorithms replace the whole vector between rounds rather than
// mutating it in place, so convergence checks compare two fully
// materialized rounds.
type StateVector[T comparable] struct {
	values []T
}

// FullState creates a state vector of n positions, every one holding v.
func FullState[T comparable](v T, n int) *StateVector[T] {
	values := make([]T, n)
	for i := range values {
		values[i] = v
	}
	return &StateVector[T]{values: values}
}

// EmptyState creates a state vector of n zero-valued positions.
func EmptyState[T comparable](n int) *StateVector[T] {
	return &StateVector[T]{values: make([]T, n)}
}

// Get returns the value at pos.
func (s *StateVector[T]) Get(pos int) T { return s.values[pos] }

// Set stores v at pos.
func (s *StateVector[T]) Set(pos int, v T) { s.values[pos] = v }

// Len returns the number of positions.
func (s *StateVector[T]) Len() int { return len(s.values) }

// Equal reports whether both vectors hold identical values at every
// position. A round that leaves the state Equal to the previous round is
// a fixpoint.
func (s *StateVector[T]) Equal(o *StateVector[T]) bool {
	if s.Len() != o.Len() {
		return false
	}
	for i, v := range s.values {
		if o.values[i] != v {
			return false
		}
	}
	return true
}

// Clone returns an independent copy.
func (s *StateVector[T]) Clone() *StateVector[T] {
	values := make([]T, len(s.values))
	copy(values, s.values)
	return &StateVector[T]{values: values}
}
