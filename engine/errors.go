package engine

import (
	"errors"
	"fmt"

	"github.com/hupe1980/tempograph/core"
)

var (
	// ErrNotFound is returned when an entity has no recorded history.
	// Absence is a normal outcome of temporal queries, not a failure.
	ErrNotFound = errors.New("engine: not found")

	// ErrClosed is returned when an operation reaches a closed graph.
	ErrClosed = errors.New("engine: graph closed")
)

// IllegalMutationError reports an attempt to overwrite an already-set
// property through the non-append path. The failing call is rejected;
// no other entity is affected.
type IllegalMutationError struct {
	Entity   string // "vertex" or "edge"
	ID       core.GlobalID
	Property string
	cause    error
}

func (e *IllegalMutationError) Error() string {
	return fmt.Sprintf("illegal mutation: %s %d property %q already set", e.Entity, e.ID, e.Property)
}

func (e *IllegalMutationError) Unwrap() error { return e.cause }

// InvariantViolationError reports a shard-boundary violation: an internal
// operation reached a shard that does not own the involved vertex. This is
// a programming error in the coordinator and must never be reachable
// through the public API.
type InvariantViolationError struct {
	Op     string
	Shard  int
	Vertex core.GlobalID
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("invariant violation: %s routed vertex %d to shard %d, which does not own it", e.Op, e.Vertex, e.Shard)
}

// PartialEdgeWriteError reports that the second half of a cross-shard edge
// write failed after the first half succeeded. The source shard holds the
// OUT event while the destination shard lacks the IN event; the caller may
// retry the whole AddEdge, which is idempotent for the half already
// applied.
type PartialEdgeWriteError struct {
	Src, Dst core.GlobalID
	Time     int64
	cause    error
}

func (e *PartialEdgeWriteError) Error() string {
	return fmt.Sprintf("partial edge write: %d -> %d at t=%d applied on source shard only", e.Src, e.Dst, e.Time)
}

func (e *PartialEdgeWriteError) Unwrap() error { return e.cause }

// Retryable marks the error as safe to retry.
func (e *PartialEdgeWriteError) Retryable() bool { return true }
