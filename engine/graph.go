package engine

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/tempograph/core"
	"github.com/hupe1980/tempograph/prop"
	"github.com/hupe1980/tempograph/temporal"
)

// Options configures a Graph.
type Options struct {
	// NumWorkers is the size of the fan-out worker pool. Zero means
	// GOMAXPROCS.
	NumWorkers int

	// Logger receives structured engine logs. Nil disables logging.
	Logger *slog.Logger
}

// Option modifies Options.
type Option func(*Options)

// WithNumWorkers sets the fan-out pool size.
func WithNumWorkers(n int) Option {
	return func(o *Options) { o.NumWorkers = n }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) { o.Logger = l }
}

// Graph is the coordinator over a fixed set of shards. It routes mutations
// to the owning shard, fans read queries out across all shards through a
// shared worker pool, and merges the partial results.
//
// The shard for a vertex is a pure function of its global id and the shard
// count, so routing needs no directory and two graphs ingesting the same
// events agree on placement. Shards never reference the Graph back; all
// cross-shard coordination happens here.
type Graph struct {
	shards   []*Shard
	registry *prop.Registry
	pool     *WorkerPool
	logger   *slog.Logger

	closed    atomic.Bool
	closeOnce sync.Once
}

// NewGraph creates a graph with nShards shards. nShards must be at least 1
// and is fixed for the lifetime of the graph.
func NewGraph(nShards int, optFns ...Option) *Graph {
	if nShards < 1 {
		nShards = 1
	}

	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}

	registry := prop.NewRegistry()
	shards := make([]*Shard, nShards)
	for i := range shards {
		shards[i] = NewShard(i, nShards, registry)
	}

	return &Graph{
		shards:   shards,
		registry: registry,
		pool:     NewWorkerPool(opts.NumWorkers),
		logger:   opts.Logger,
	}
}

// NumShards returns the fixed shard count.
func (g *Graph) NumShards() int { return len(g.shards) }

// Registry returns the graph-scoped property name registry.
func (g *Graph) Registry() *prop.Registry { return g.registry }

// Shard returns the shard at index i. Intended for algorithms and tests
// that iterate shard-local state directly.
func (g *Graph) Shard(i int) *Shard { return g.shards[i] }

func (g *Graph) shardFor(id core.GlobalID) *Shard {
	return g.shards[core.ShardFor(id, len(g.shards))]
}

// AddVertex records a vertex event at t. Adding the same vertex again
// appends history; it never fails or duplicates.
func (g *Graph) AddVertex(t int64, id core.GlobalID, props prop.Map) error {
	if g.closed.Load() {
		return ErrClosed
	}
	return g.shardFor(id).AddVertex(t, id, props)
}

// AddEdge records an edge event src -> dst at t. Both endpoints are
// created as vertices at t if unseen. When the endpoints hash to different
// shards the edge is written as two local halves: the OUT half on the
// source shard first, then the IN half on the destination shard. A failure
// between the halves surfaces as a retryable PartialEdgeWriteError.
func (g *Graph) AddEdge(t int64, src, dst core.GlobalID, props prop.Map) error {
	if g.closed.Load() {
		return ErrClosed
	}

	srcShard := g.shardFor(src)
	dstShard := g.shardFor(dst)

	if srcShard == dstShard {
		return srcShard.AddEdge(t, src, dst, props)
	}

	if err := srcShard.AddEdgeOut(t, src, dst, props); err != nil {
		return err
	}
	if g.closed.Load() {
		err := &PartialEdgeWriteError{Src: src, Dst: dst, Time: t, cause: ErrClosed}
		g.logger.Warn("cross-shard edge write interrupted",
			slog.Uint64("src", uint64(src)),
			slog.Uint64("dst", uint64(dst)),
			slog.Int64("t", t),
		)
		return err
	}
	if err := dstShard.AddEdgeIn(t, src, dst, props); err != nil {
		return &PartialEdgeWriteError{Src: src, Dst: dst, Time: t, cause: err}
	}
	return nil
}

// SetStaticVertexProps writes set-once properties on an existing vertex.
// An attempt to rewrite a name fails with IllegalMutationError.
func (g *Graph) SetStaticVertexProps(id core.GlobalID, props prop.Map) error {
	if g.closed.Load() {
		return ErrClosed
	}
	return g.shardFor(id).SetStaticVertexProps(id, props)
}

// SetStaticEdgeProps writes set-once properties on an existing edge,
// addressed by its source and destination ids.
func (g *Graph) SetStaticEdgeProps(src, dst core.GlobalID, props prop.Map) error {
	if g.closed.Load() {
		return ErrClosed
	}
	return g.shardFor(src).SetStaticEdgeProps(src, dst, props)
}

// HasVertex reports whether id has at least one event inside w.
func (g *Graph) HasVertex(id core.GlobalID, w core.Window) bool {
	return g.shardFor(id).HasVertex(id, w)
}

// HasEdge reports whether the edge src -> dst has an event inside w.
func (g *Graph) HasEdge(src, dst core.GlobalID, w core.Window) bool {
	return g.shardFor(src).HasEdge(src, dst, w)
}

// Degree returns the number of distinct neighbors of id in direction d
// inside w, and whether the vertex exists at all.
func (g *Graph) Degree(id core.GlobalID, d core.Direction, w core.Window) (int, bool) {
	return g.shardFor(id).Degree(id, d, w)
}

// Neighbours returns the distinct neighbor ids of id inside w, ascending.
func (g *Graph) Neighbours(id core.GlobalID, d core.Direction, w core.Window) ([]core.GlobalID, bool) {
	return g.shardFor(id).Neighbours(id, d, w)
}

// fanOutInts runs fn on every shard through the worker pool and sums the
// results. Falls back to inline execution if the pool rejects a task.
func (g *Graph) fanOutInts(fn func(s *Shard) int) int {
	results := make([]int, len(g.shards))

	var wg sync.WaitGroup
	for i, s := range g.shards {
		i, s := i, s
		wg.Add(1)
		task := func() {
			defer wg.Done()
			results[i] = fn(s)
		}
		if err := g.pool.Submit(context.Background(), task); err != nil {
			task()
		}
	}
	wg.Wait()

	total := 0
	for _, n := range results {
		total += n
	}
	return total
}

// NumVertices returns the number of vertices with at least one event
// inside w, summed across shards.
func (g *Graph) NumVertices(w core.Window) int {
	return g.fanOutInts(func(s *Shard) int { return s.NumVertices(w) })
}

// NumEdges returns the number of distinct edges with at least one event
// inside w. Each edge is counted once, on its source shard.
func (g *Graph) NumEdges(w core.Window) int {
	return g.fanOutInts(func(s *Shard) int { return s.NumEdges(w) })
}

// VertexIDs returns the global ids of every vertex with at least one event
// inside w, ascending.
func (g *Graph) VertexIDs(ctx context.Context, w core.Window) ([]core.GlobalID, error) {
	parts := make([][]core.GlobalID, len(g.shards))

	grp, _ := errgroup.WithContext(ctx)
	for i, s := range g.shards {
		i, s := i, s
		grp.Go(func() error {
			parts[i] = s.VertexIDs(w)
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, p := range parts {
		total += len(p)
	}
	out := make([]core.GlobalID, 0, total)
	for _, p := range parts {
		out = append(out, p...)
	}
	slices.Sort(out)
	return out, nil
}

// Earliest returns the earliest event time across all shards.
func (g *Graph) Earliest() (int64, bool) {
	var (
		best  int64
		found bool
	)
	for _, s := range g.shards {
		if t, ok := s.Earliest(); ok && (!found || t < best) {
			best, found = t, true
		}
	}
	return best, found
}

// Latest returns the latest event time across all shards.
func (g *Graph) Latest() (int64, bool) {
	var (
		best  int64
		found bool
	)
	for _, s := range g.shards {
		if t, ok := s.Latest(); ok && (!found || t > best) {
			best, found = t, true
		}
	}
	return best, found
}

// TemporalVertexProp returns the value of a vertex property at time t.
func (g *Graph) TemporalVertexProp(id core.GlobalID, name string, t int64) (prop.Value, bool) {
	return g.shardFor(id).TemporalVertexProp(id, name, t)
}

// VertexPropHistory returns the (time, value) observations of a vertex
// property inside w, time ascending.
func (g *Graph) VertexPropHistory(id core.GlobalID, name string, w core.Window) []temporal.TimeValue {
	return g.shardFor(id).VertexPropHistory(id, name, w)
}

// StaticVertexProp returns the set-once value of a vertex property.
func (g *Graph) StaticVertexProp(id core.GlobalID, name string) (prop.Value, bool) {
	return g.shardFor(id).StaticVertexProp(id, name)
}

// TemporalEdgeProp returns the value of an edge property at time t.
func (g *Graph) TemporalEdgeProp(src, dst core.GlobalID, name string, t int64) (prop.Value, bool) {
	return g.shardFor(src).TemporalEdgeProp(src, dst, name, t)
}

// EdgePropHistory returns the (time, value) observations of an edge
// property inside w, time ascending.
func (g *Graph) EdgePropHistory(src, dst core.GlobalID, name string, w core.Window) []temporal.TimeValue {
	return g.shardFor(src).EdgePropHistory(src, dst, name, w)
}

// StaticEdgeProp returns the set-once value of an edge property.
func (g *Graph) StaticEdgeProp(src, dst core.GlobalID, name string) (prop.Value, bool) {
	return g.shardFor(src).StaticEdgeProp(src, dst, name)
}

// Close shuts the graph down. In-flight fan-out work finishes; further
// mutations fail with ErrClosed. Close is idempotent.
func (g *Graph) Close() error {
	g.closeOnce.Do(func() {
		g.closed.Store(true)
		g.pool.Close()
	})
	return nil
}
