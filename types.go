package tempograph

import (
	"github.com/hupe1980/tempograph/core"
	"github.com/hupe1980/tempograph/engine"
	"github.com/hupe1980/tempograph/prop"
	"github.com/hupe1980/tempograph/temporal"
)

type (
	// GlobalID identifies a vertex across the whole graph.
	GlobalID = core.GlobalID

	// Direction selects which adjacency of a vertex a query walks.
	Direction = core.Direction

	// Props carries named property values for a single event.
	Props = prop.Map

	// Value is a typed property value.
	Value = prop.Value

	// TimeValue is one (time, value) observation of a temporal property.
	TimeValue = temporal.TimeValue
)

const (
	OUT  = core.OUT
	IN   = core.IN
	BOTH = core.BOTH
)

// Property value constructors.
var (
	Str  = prop.Str
	I32  = prop.I32
	I64  = prop.I64
	U32  = prop.U32
	U64  = prop.U64
	F32  = prop.F32
	F64  = prop.F64
	Bool = prop.Bool
)

// Sentinel errors of the public API.
var (
	ErrNotFound        = engine.ErrNotFound
	ErrClosed          = engine.ErrClosed
	ErrInvalidSnapshot = engine.ErrInvalidSnapshot
)

type (
	// IllegalMutationError reports a rejected rewrite of a set-once
	// property.
	IllegalMutationError = engine.IllegalMutationError

	// PartialEdgeWriteError reports a cross-shard edge write that applied
	// only its source half; retrying the AddEdge is safe.
	PartialEdgeWriteError = engine.PartialEdgeWriteError
)
