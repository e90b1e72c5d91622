package tempograph

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/hupe1980/tempograph/core"
	"github.com/hupe1980/tempograph/engine"
)

// Options configures a Graph.
type Options struct {
	// NumWorkers sizes the query fan-out pool. Zero means GOMAXPROCS.
	NumWorkers int

	// Logger receives structured logs. Nil disables logging.
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

// Graph is a sharded temporal property graph. Mutations append events;
// reads see the full history unless narrowed through Window.
type Graph struct {
	eng *engine.Graph
}

// New creates a graph partitioned into nShards shards. The shard count is
// fixed for the graph's lifetime and is part of any snapshot it writes.
func New(nShards int, optFns ...Option) *Graph {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}

	engOpts := []engine.Option{engine.WithNumWorkers(opts.NumWorkers)}
	if opts.Logger != nil {
		engOpts = append(engOpts, engine.WithLogger(opts.Logger))
	}

	return &Graph{eng: engine.NewGraph(nShards, engOpts...)}
}

// AddVertex records a vertex event at time t. Re-adding an existing vertex
// appends history and never fails.
func (g *Graph) AddVertex(t int64, id GlobalID, props Props) error {
	return g.eng.AddVertex(t, id, props)
}

// AddEdge records a directed edge event src -> dst at time t, creating
// unseen endpoints as vertices at t.
func (g *Graph) AddEdge(t int64, src, dst GlobalID, props Props) error {
	return g.eng.AddEdge(t, src, dst, props)
}

// SetStaticVertexProps attaches set-once properties to an existing vertex.
// Rewriting a name fails with IllegalMutationError; a missing vertex fails
// with ErrNotFound.
func (g *Graph) SetStaticVertexProps(id GlobalID, props Props) error {
	return g.eng.SetStaticVertexProps(id, props)
}

// SetStaticEdgeProps attaches set-once properties to an existing edge.
func (g *Graph) SetStaticEdgeProps(src, dst GlobalID, props Props) error {
	return g.eng.SetStaticEdgeProps(src, dst, props)
}

// Window returns a read view restricted to events in [start, end).
func (g *Graph) Window(start, end int64) *WindowedGraph {
	return &WindowedGraph{eng: g.eng, w: core.NewWindow(start, end)}
}

// View returns the unrestricted read view over the full history.
func (g *Graph) View() *WindowedGraph {
	return &WindowedGraph{eng: g.eng, w: core.MaxWindow}
}

// HasVertex reports whether id appears anywhere in the history.
func (g *Graph) HasVertex(id GlobalID) bool {
	return g.eng.HasVertex(id, core.MaxWindow)
}

// HasEdge reports whether the edge src -> dst appears anywhere in the
// history.
func (g *Graph) HasEdge(src, dst GlobalID) bool {
	return g.eng.HasEdge(src, dst, core.MaxWindow)
}

// NumVertices returns the number of distinct vertices.
func (g *Graph) NumVertices() int {
	return g.eng.NumVertices(core.MaxWindow)
}

// NumEdges returns the number of distinct directed edges.
func (g *Graph) NumEdges() int {
	return g.eng.NumEdges(core.MaxWindow)
}

// Earliest returns the earliest event time in the graph.
func (g *Graph) Earliest() (int64, bool) {
	return g.eng.Earliest()
}

// Latest returns the latest event time in the graph.
func (g *Graph) Latest() (int64, bool) {
	return g.eng.Latest()
}

// VertexIDs returns every vertex id, ascending.
func (g *Graph) VertexIDs(ctx context.Context) ([]GlobalID, error) {
	return g.eng.VertexIDs(ctx, core.MaxWindow)
}

// Save writes a compressed snapshot of the graph to w.
func (g *Graph) Save(w io.Writer) error {
	return g.eng.SaveToWriter(w)
}

// SaveFile writes a snapshot to path, replacing any existing file.
func (g *Graph) SaveFile(path string) error {
	return g.eng.SaveToFile(path)
}

// Load reconstructs a graph from a snapshot stream written by Save.
func Load(r io.Reader, optFns ...Option) (*Graph, error) {
	opts := Options{}
	for _, fn := range optFns {
		fn(&opts)
	}

	engOpts := []engine.Option{engine.WithNumWorkers(opts.NumWorkers)}
	if opts.Logger != nil {
		engOpts = append(engOpts, engine.WithLogger(opts.Logger))
	}

	eng, err := engine.LoadFromReader(r, engOpts...)
	if err != nil {
		return nil, err
	}
	return &Graph{eng: eng}, nil
}

// LoadFile reconstructs a graph from a snapshot file written by SaveFile.
func LoadFile(path string, optFns ...Option) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f, optFns...)
}

// Engine exposes the underlying coordinator for algorithm packages and
// advanced callers.
func (g *Graph) Engine() *engine.Graph { return g.eng }

// Close releases the graph's worker pool. Mutations after Close fail with
// ErrClosed; reads of already-ingested data remain valid.
func (g *Graph) Close() error {
	return g.eng.Close()
}
