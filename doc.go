// Package tempograph is an embedded temporal property graph store.
//
// A graph is an append-only log of timestamped vertex and edge events.
// Entities are never deleted or overwritten; their existence at a point in
// time is derived from the event history, so any past state of the graph
// can be queried by restricting reads to a half-open time window
// [start, end).
//
// Storage is horizontally partitioned into shards. A vertex belongs to
// exactly one shard, selected by hashing its global id, and an edge lives
// on the shard of its source vertex. Edges whose endpoints hash to
// different shards are stored as two shard-local halves. The shard count
// is fixed at construction time.
//
//	g := tempograph.New(4)
//	defer g.Close()
//
//	_ = g.AddEdge(1, 100, 200, tempograph.Props{"weight": tempograph.F64(1.5)})
//	_ = g.AddEdge(3, 200, 300, nil)
//
//	view := g.Window(0, 2)
//	view.HasEdge(100, 200) // true
//	view.HasEdge(200, 300) // false, event is at t=3
package tempograph
