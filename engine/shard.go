package engine

import (
	"errors"
	"math"
	"slices"
	"sort"
	"sync"

	"github.com/hupe1980/tempograph/core"
	"github.com/hupe1980/tempograph/prop"
	"github.com/hupe1980/tempograph/temporal"
)

// entityProps bundles the two property timelines of a vertex or edge:
// append-only temporal properties and set-once static properties.
type entityProps struct {
	temporal temporal.Slots
	static   temporal.StaticSlots
}

type vertexEntry struct {
	global core.GlobalID
	adj    temporal.Adjacency
	props  entityProps
}

type edgeKey struct {
	src, dst core.GlobalID
}

// Shard owns a disjoint subset of vertices (selected by hashing the global
// id) plus all edges whose source vertex belongs to it. It holds the
// adjacency sets, property slots and the id-to-position mapping for its
// vertices, and a time index answering windowed existence queries.
//
// One writer at a time per shard; readers run concurrently with each other
// and with the writer because every structure is append-only.
type Shard struct {
	mu sync.RWMutex

	idx     int
	nShards int

	registry *prop.Registry

	lookup    map[core.GlobalID]core.LocalID
	vertices  []*vertexEntry
	edgeProps map[edgeKey]*entityProps
	timeIndex temporal.TimeIndex

	earliest int64
	latest   int64
}

// NewShard creates an empty shard. The registry is shared across every
// shard of one graph; the shard never registers names outside a write.
func NewShard(idx, nShards int, registry *prop.Registry) *Shard {
	return &Shard{
		idx:       idx,
		nShards:   nShards,
		registry:  registry,
		lookup:    make(map[core.GlobalID]core.LocalID),
		edgeProps: make(map[edgeKey]*entityProps),
		earliest:  math.MaxInt64,
		latest:    math.MinInt64,
	}
}

// Index returns the shard's position within its graph.
func (s *Shard) Index() int { return s.idx }

func (s *Shard) observe(t int64) {
	if t < s.earliest {
		s.earliest = t
	}
	if t > s.latest {
		s.latest = t
	}
}

// ensureVertex creates the local position for id on first sight and
// registers an event at t. Repeated calls for an existing id only append
// history; they never create a duplicate position.
func (s *Shard) ensureVertex(t int64, id core.GlobalID) core.LocalID {
	pos, ok := s.lookup[id]
	if !ok {
		pos = core.LocalID(len(s.vertices))
		s.vertices = append(s.vertices, &vertexEntry{global: id})
		s.lookup[id] = pos
	}
	s.timeIndex.Add(t, pos)
	s.observe(t)
	return pos
}

func (s *Shard) applyProps(ep *entityProps, t int64, props prop.Map) {
	if len(props) == 0 {
		return
	}
	// Stable name order keeps registry id assignment independent of map
	// iteration, so identical event sets produce identical snapshots.
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		ep.temporal.Upsert(s.registry.ID(name)).Set(t, props[name])
	}
}

// AddVertex records a vertex event at t with optional temporal properties.
func (s *Shard) AddVertex(t int64, id core.GlobalID, props prop.Map) error {
	if core.ShardFor(id, s.nShards) != s.idx {
		return &InvariantViolationError{Op: "add vertex", Shard: s.idx, Vertex: id}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	pos := s.ensureVertex(t, id)
	s.applyProps(&s.vertices[pos].props, t, props)
	return nil
}

// AddEdge records an edge event src -> dst at t; both endpoints live on
// this shard. Both endpoints are registered as vertices at t as well.
func (s *Shard) AddEdge(t int64, src, dst core.GlobalID, props prop.Map) error {
	if core.ShardFor(src, s.nShards) != s.idx {
		return &InvariantViolationError{Op: "add edge", Shard: s.idx, Vertex: src}
	}
	if core.ShardFor(dst, s.nShards) != s.idx {
		return &InvariantViolationError{Op: "add edge", Shard: s.idx, Vertex: dst}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	srcPos := s.ensureVertex(t, src)
	dstPos := s.ensureVertex(t, dst)

	s.vertices[srcPos].adj.Out.Add(dstPos, t)
	s.vertices[dstPos].adj.In.Add(srcPos, t)

	s.applyProps(s.edgeEntry(src, dst), t, props)
	return nil
}

// AddEdgeOut records the source half of a cross-shard edge: src lives
// here, dst is remote. The destination shard receives the matching IN
// event separately.
func (s *Shard) AddEdgeOut(t int64, src, dst core.GlobalID, props prop.Map) error {
	if core.ShardFor(src, s.nShards) != s.idx {
		return &InvariantViolationError{Op: "add edge (out half)", Shard: s.idx, Vertex: src}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	srcPos := s.ensureVertex(t, src)
	s.vertices[srcPos].adj.RemoteOut.Add(dst, t)
	s.applyProps(s.edgeEntry(src, dst), t, props)
	return nil
}

// AddEdgeIn records the destination half of a cross-shard edge: dst lives
// here, src is remote. Time and properties match the source half.
func (s *Shard) AddEdgeIn(t int64, src, dst core.GlobalID, props prop.Map) error {
	if core.ShardFor(dst, s.nShards) != s.idx {
		return &InvariantViolationError{Op: "add edge (in half)", Shard: s.idx, Vertex: dst}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dstPos := s.ensureVertex(t, dst)
	s.vertices[dstPos].adj.RemoteIn.Add(src, t)
	s.applyProps(s.edgeEntry(src, dst), t, props)
	return nil
}

func (s *Shard) edgeEntry(src, dst core.GlobalID) *entityProps {
	key := edgeKey{src: src, dst: dst}
	ep, ok := s.edgeProps[key]
	if !ok {
		ep = &entityProps{}
		s.edgeProps[key] = ep
	}
	return ep
}

// SetStaticVertexProps writes set-once properties on an existing vertex.
func (s *Shard) SetStaticVertexProps(id core.GlobalID, props prop.Map) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pos, ok := s.lookup[id]
	if !ok {
		return ErrNotFound
	}
	return s.setStatic(&s.vertices[pos].props.static, "vertex", id, props)
}

// SetStaticEdgeProps writes set-once properties on an existing edge.
func (s *Shard) SetStaticEdgeProps(src, dst core.GlobalID, props prop.Map) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ep, ok := s.edgeProps[edgeKey{src: src, dst: dst}]
	if !ok {
		return ErrNotFound
	}
	return s.setStatic(&ep.static, "edge", src, props)
}

func (s *Shard) setStatic(slots *temporal.StaticSlots, entity string, id core.GlobalID, props prop.Map) error {
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := slots.Set(s.registry.ID(name), props[name]); err != nil {
			if errors.Is(err, temporal.ErrAlreadySet) {
				return &IllegalMutationError{Entity: entity, ID: id, Property: name, cause: err}
			}
			return err
		}
	}
	return nil
}

// HasVertex reports whether id has at least one event inside w.
func (s *Shard) HasVertex(id core.GlobalID, w core.Window) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pos, ok := s.lookup[id]
	if !ok {
		return false
	}
	if w == core.MaxWindow {
		return true
	}
	return s.timeIndex.Contains(w, pos)
}

// NumVertices returns the number of local vertices with an event inside w.
func (s *Shard) NumVertices(w core.Window) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if w == core.MaxWindow {
		return len(s.vertices)
	}
	return s.timeIndex.CountActive(w)
}

// NumEdges returns the number of distinct source-owned edges with an
// event inside w.
func (s *Shard) NumEdges(w core.Window) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := 0
	for _, v := range s.vertices {
		if w == core.MaxWindow {
			n += v.adj.OutLen()
		} else {
			n += v.adj.OutLenWindow(w)
		}
	}
	return n
}

// HasEdge reports whether the edge src -> dst (owned by this shard) has an
// event inside w.
func (s *Shard) HasEdge(src, dst core.GlobalID, w core.Window) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	srcPos, ok := s.lookup[src]
	if !ok {
		return false
	}
	adj := &s.vertices[srcPos].adj
	if core.ShardFor(dst, s.nShards) == s.idx {
		dstPos, ok := s.lookup[dst]
		if !ok {
			return false
		}
		return adj.Out.FindWindow(dstPos, w)
	}
	return adj.RemoteOut.FindWindow(dst, w)
}

// Degree returns the number of distinct neighbors of id inside w. The
// second result is false when the vertex has no history on this shard.
func (s *Shard) Degree(id core.GlobalID, d core.Direction, w core.Window) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pos, ok := s.lookup[id]
	if !ok {
		return 0, false
	}
	adj := &s.vertices[pos].adj
	switch d {
	case core.OUT:
		return adj.OutLenWindow(w), true
	case core.IN:
		return adj.InLenWindow(w), true
	default:
		return len(s.neighboursLocked(adj, core.BOTH, w)), true
	}
}

// Neighbours returns the distinct neighbor ids of id inside w, ascending.
// The slice is a snapshot taken at call time.
func (s *Shard) Neighbours(id core.GlobalID, d core.Direction, w core.Window) ([]core.GlobalID, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pos, ok := s.lookup[id]
	if !ok {
		return nil, false
	}
	return s.neighboursLocked(&s.vertices[pos].adj, d, w), true
}

func (s *Shard) neighboursLocked(adj *temporal.Adjacency, d core.Direction, w core.Window) []core.GlobalID {
	var out []core.GlobalID

	collect := func(local *temporal.AdjSet[core.LocalID], remote *temporal.AdjSet[core.GlobalID]) {
		for _, pos := range local.KeysWindow(w) {
			out = append(out, s.vertices[pos].global)
		}
		out = append(out, remote.KeysWindow(w)...)
	}

	switch d {
	case core.OUT:
		collect(&adj.Out, &adj.RemoteOut)
	case core.IN:
		collect(&adj.In, &adj.RemoteIn)
	default:
		collect(&adj.Out, &adj.RemoteOut)
		collect(&adj.In, &adj.RemoteIn)
	}

	slices.Sort(out)
	return slices.Compact(out)
}

// VertexIDs returns the global ids of the local vertices with an event
// inside w. The slice is a snapshot taken at call time.
func (s *Shard) VertexIDs(w core.Window) []core.GlobalID {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if w == core.MaxWindow {
		out := make([]core.GlobalID, len(s.vertices))
		for i, v := range s.vertices {
			out[i] = v.global
		}
		return out
	}

	active := s.timeIndex.ActiveIn(w)
	out := make([]core.GlobalID, 0, active.GetCardinality())
	it := active.Iterator()
	for it.HasNext() {
		out = append(out, s.vertices[it.Next()].global)
	}
	return out
}

// Earliest returns the earliest event time seen by this shard.
func (s *Shard) Earliest() (int64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.earliest == math.MaxInt64 {
		return 0, false
	}
	return s.earliest, true
}

// Latest returns the latest event time seen by this shard.
func (s *Shard) Latest() (int64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latest == math.MinInt64 {
		return 0, false
	}
	return s.latest, true
}

// TemporalVertexProp returns the value of the vertex property at time t
// (most recent observation at or before t).
func (s *Shard) TemporalVertexProp(id core.GlobalID, name string, t int64) (prop.Value, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pos, ok := s.lookup[id]
	if !ok {
		return prop.Value{}, false
	}
	return s.temporalProp(&s.vertices[pos].props, name, t)
}

// VertexPropHistory returns the vertex property observations inside w.
func (s *Shard) VertexPropHistory(id core.GlobalID, name string, w core.Window) []temporal.TimeValue {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pos, ok := s.lookup[id]
	if !ok {
		return nil
	}
	return s.propHistory(&s.vertices[pos].props, name, w)
}

// StaticVertexProp returns the set-once vertex property value.
func (s *Shard) StaticVertexProp(id core.GlobalID, name string) (prop.Value, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pos, ok := s.lookup[id]
	if !ok {
		return prop.Value{}, false
	}
	return s.staticProp(&s.vertices[pos].props, name)
}

// TemporalEdgeProp returns the value of the edge property at time t.
func (s *Shard) TemporalEdgeProp(src, dst core.GlobalID, name string, t int64) (prop.Value, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ep, ok := s.edgeProps[edgeKey{src: src, dst: dst}]
	if !ok {
		return prop.Value{}, false
	}
	return s.temporalProp(ep, name, t)
}

// EdgePropHistory returns the edge property observations inside w.
func (s *Shard) EdgePropHistory(src, dst core.GlobalID, name string, w core.Window) []temporal.TimeValue {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ep, ok := s.edgeProps[edgeKey{src: src, dst: dst}]
	if !ok {
		return nil
	}
	return s.propHistory(ep, name, w)
}

// StaticEdgeProp returns the set-once edge property value.
func (s *Shard) StaticEdgeProp(src, dst core.GlobalID, name string) (prop.Value, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ep, ok := s.edgeProps[edgeKey{src: src, dst: dst}]
	if !ok {
		return prop.Value{}, false
	}
	return s.staticProp(ep, name)
}

func (s *Shard) temporalProp(ep *entityProps, name string, t int64) (prop.Value, bool) {
	id, ok := s.registry.Lookup(name)
	if !ok {
		return prop.Value{}, false
	}
	cell, ok := ep.temporal.Get(id)
	if !ok {
		return prop.Value{}, false
	}
	return cell.ValueAt(t)
}

func (s *Shard) propHistory(ep *entityProps, name string, w core.Window) []temporal.TimeValue {
	id, ok := s.registry.Lookup(name)
	if !ok {
		return nil
	}
	cell, ok := ep.temporal.Get(id)
	if !ok {
		return nil
	}
	return cell.Range(w)
}

func (s *Shard) staticProp(ep *entityProps, name string) (prop.Value, bool) {
	id, ok := s.registry.Lookup(name)
	if !ok {
		return prop.Value{}, false
	}
	return ep.static.Get(id)
}

// RemoteEventTotals returns the total number of recorded cross-shard OUT
// and IN event timestamps on this shard. A consistent graph has equal
// totals across all shards combined; see AuditDegrees.
func (s *Shard) RemoteEventTotals() (out, in uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, v := range s.vertices {
		v.adj.RemoteOut.Each(func(_ core.GlobalID, times *temporal.TimeList) bool {
			out += uint64(times.Len())
			return true
		})
		v.adj.RemoteIn.Each(func(_ core.GlobalID, times *temporal.TimeList) bool {
			in += uint64(times.Len())
			return true
		})
	}
	return out, in
}
