package tempograph

import (
	"context"

	"github.com/hupe1980/tempograph/core"
	"github.com/hupe1980/tempograph/engine"
)

// WindowedGraph is a GraphView restricted to events inside a half-open
// window [start, end). It holds no copied state; every query reads the
// live graph and filters by time, so a view stays valid as the graph
// grows.
type WindowedGraph struct {
	eng *engine.Graph
	w   core.Window
}

var _ GraphView = (*WindowedGraph)(nil)

// Start returns the window's inclusive lower bound.
func (v *WindowedGraph) Start() int64 { return v.w.Start }

// End returns the window's exclusive upper bound.
func (v *WindowedGraph) End() int64 { return v.w.End }

// NumVertices returns the number of vertices with an event in the window.
func (v *WindowedGraph) NumVertices() int {
	return v.eng.NumVertices(v.w)
}

// NumEdges returns the number of distinct edges with an event in the
// window.
func (v *WindowedGraph) NumEdges() int {
	return v.eng.NumEdges(v.w)
}

// HasVertex reports whether id has an event in the window.
func (v *WindowedGraph) HasVertex(id GlobalID) bool {
	return v.eng.HasVertex(id, v.w)
}

// HasEdge reports whether the edge src -> dst has an event in the window.
func (v *WindowedGraph) HasEdge(src, dst GlobalID) bool {
	return v.eng.HasEdge(src, dst, v.w)
}

// Vertex returns a view of one vertex if it is visible in the window.
func (v *WindowedGraph) Vertex(id GlobalID) (VertexView, bool) {
	if !v.eng.HasVertex(id, v.w) {
		return nil, false
	}
	return &vertexView{eng: v.eng, w: v.w, id: id}, true
}

// VertexIDs returns the ids of the vertices with an event in the window,
// ascending.
func (v *WindowedGraph) VertexIDs(ctx context.Context) ([]GlobalID, error) {
	return v.eng.VertexIDs(ctx, v.w)
}

// Earliest returns the earliest event time visible in the window.
func (v *WindowedGraph) Earliest() (int64, bool) {
	if v.w.IsEmpty() || v.NumVertices() == 0 {
		return 0, false
	}
	t, ok := v.eng.Earliest()
	if !ok {
		return 0, false
	}
	if t < v.w.Start {
		t = v.w.Start
	}
	return t, true
}

// Latest returns the latest event time visible in the window.
func (v *WindowedGraph) Latest() (int64, bool) {
	if v.w.IsEmpty() || v.NumVertices() == 0 {
		return 0, false
	}
	t, ok := v.eng.Latest()
	if !ok {
		return 0, false
	}
	if t >= v.w.End {
		t = v.w.End - 1
	}
	return t, true
}

// Window narrows the view to the intersection of the current window and
// [start, end). Nesting never widens visibility.
func (v *WindowedGraph) Window(start, end int64) GraphView {
	return &WindowedGraph{eng: v.eng, w: v.w.Clamp(core.NewWindow(start, end))}
}

type vertexView struct {
	eng *engine.Graph
	w   core.Window
	id  GlobalID
}

var _ VertexView = (*vertexView)(nil)

func (v *vertexView) ID() GlobalID { return v.id }

func (v *vertexView) Degree(d Direction) int {
	n, _ := v.eng.Degree(v.id, d, v.w)
	return n
}

func (v *vertexView) Neighbours(d Direction) []GlobalID {
	ids, _ := v.eng.Neighbours(v.id, d, v.w)
	return ids
}

func (v *vertexView) Prop(name string, t int64) (Value, bool) {
	if !v.w.Contains(t) {
		return Value{}, false
	}
	// Observations before the window are invisible, so the lookup is the
	// last visible observation at or before t.
	return lastBefore(v.eng.VertexPropHistory(v.id, name, core.NewWindow(v.w.Start, t+1)))
}

func (v *vertexView) PropHistory(name string) []TimeValue {
	return v.eng.VertexPropHistory(v.id, name, v.w)
}

func (v *vertexView) StaticProp(name string) (Value, bool) {
	return v.eng.StaticVertexProp(v.id, name)
}

func (v *vertexView) Edge(dst GlobalID) (EdgeView, bool) {
	if !v.eng.HasEdge(v.id, dst, v.w) {
		return nil, false
	}
	return &edgeView{eng: v.eng, w: v.w, src: v.id, dst: dst}, true
}

type edgeView struct {
	eng      *engine.Graph
	w        core.Window
	src, dst GlobalID
}

var _ EdgeView = (*edgeView)(nil)

func (e *edgeView) Src() GlobalID { return e.src }

func (e *edgeView) Dst() GlobalID { return e.dst }

func (e *edgeView) Prop(name string, t int64) (Value, bool) {
	if !e.w.Contains(t) {
		return Value{}, false
	}
	return lastBefore(e.eng.EdgePropHistory(e.src, e.dst, name, core.NewWindow(e.w.Start, t+1)))
}

func (e *edgeView) PropHistory(name string) []TimeValue {
	return e.eng.EdgePropHistory(e.src, e.dst, name, e.w)
}

func (e *edgeView) StaticProp(name string) (Value, bool) {
	return e.eng.StaticEdgeProp(e.src, e.dst, name)
}

func lastBefore(history []TimeValue) (Value, bool) {
	if len(history) == 0 {
		return Value{}, false
	}
	return history[len(history)-1].Value, true
}
