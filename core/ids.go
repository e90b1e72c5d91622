package core

// GlobalID is the stable external identity of a vertex. It is either
// caller-supplied or hashed from a caller key before it reaches the store.
type GlobalID uint64

// LocalID is a dense, internal position for a vertex within a single shard.
// It is assigned on first insertion, never reused while the vertex exists,
// and never exposed outside the shard boundary.
// Used for all hot-path structures (adjacency, bitmaps, state vectors).
type LocalID uint32

// MaxLocalID is the maximum possible value for a LocalID.
const MaxLocalID = ^LocalID(0)

// Direction selects which incident edges of a vertex are considered.
type Direction uint8

const (
	// OUT considers edges leaving the vertex.
	OUT Direction = iota
	// IN considers edges arriving at the vertex.
	IN
	// BOTH is the union of OUT and IN. It is never stored; it is derived
	// at query time.
	BOTH
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case OUT:
		return "out"
	case IN:
		return "in"
	case BOTH:
		return "both"
	default:
		return "invalid"
	}
}

const (
	fnvOffset64 = 14695981039346656037
	fnvPrime64  = 1099511628211
)

// ShardFor returns the index of the shard owning id.
//
// The assignment is a pure function of the id (FNV-1a over its bytes,
// modulo the shard count), so a vertex's owning shard is always
// re-derivable without a directory lookup. A seeded hash (hash/maphash)
// would break this: assignments must be identical across runs so that
// snapshots reload onto the same shards.
func ShardFor(id GlobalID, nShards int) int {
	if nShards <= 1 {
		return 0
	}
	h := uint64(fnvOffset64)
	v := uint64(id)
	for i := 0; i < 8; i++ {
		h ^= v & 0xff
		h *= fnvPrime64
		v >>= 8
	}
	return int(h % uint64(nShards))
}
