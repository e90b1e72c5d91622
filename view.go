package tempograph

import "context"

// GraphView is a read-only perspective on a graph, possibly restricted to
// a time window. Every implementation answers the same query surface, so
// algorithms written against GraphView run unchanged over the full history
// or any window of it.
type GraphView interface {
	// NumVertices returns the number of vertices visible in the view.
	NumVertices() int

	// NumEdges returns the number of distinct directed edges visible in
	// the view.
	NumEdges() int

	// HasVertex reports whether id is visible in the view.
	HasVertex(id GlobalID) bool

	// HasEdge reports whether the edge src -> dst is visible in the view.
	HasEdge(src, dst GlobalID) bool

	// Vertex returns a view of one vertex. The second result is false when
	// the vertex is not visible.
	Vertex(id GlobalID) (VertexView, bool)

	// VertexIDs returns the visible vertex ids, ascending.
	VertexIDs(ctx context.Context) ([]GlobalID, error)

	// Earliest returns the earliest visible event time.
	Earliest() (int64, bool)

	// Latest returns the latest visible event time.
	Latest() (int64, bool)

	// Window narrows the view further to [start, end). Windows nest: the
	// result never sees events the receiver cannot see.
	Window(start, end int64) GraphView
}

// VertexView is a read-only perspective on one vertex inside a GraphView.
type VertexView interface {
	// ID returns the vertex's global id.
	ID() GlobalID

	// Degree returns the number of distinct visible neighbors in
	// direction d.
	Degree(d Direction) int

	// Neighbours returns the distinct visible neighbor ids in direction d,
	// ascending.
	Neighbours(d Direction) []GlobalID

	// Prop returns the value of a temporal property as of time t.
	Prop(name string, t int64) (Value, bool)

	// PropHistory returns the visible (time, value) observations of a
	// temporal property, time ascending.
	PropHistory(name string) []TimeValue

	// StaticProp returns the value of a set-once property. Static
	// properties are not windowed.
	StaticProp(name string) (Value, bool)

	// Edge returns a view of the out-edge to dst. The second result is
	// false when no such edge is visible.
	Edge(dst GlobalID) (EdgeView, bool)
}

// EdgeView is a read-only perspective on one directed edge inside a
// GraphView.
type EdgeView interface {
	// Src returns the source vertex id.
	Src() GlobalID

	// Dst returns the destination vertex id.
	Dst() GlobalID

	// Prop returns the value of a temporal property as of time t.
	Prop(name string, t int64) (Value, bool)

	// PropHistory returns the visible (time, value) observations of a
	// temporal property, time ascending.
	PropHistory(name string) []TimeValue

	// StaticProp returns the value of a set-once property.
	StaticProp(name string) (Value, bool)
}
