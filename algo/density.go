package algo

import "github.com/hupe1980/tempograph"

// DirectedGraphDensity returns the ratio of edges present in the view to
// the maximum possible number of directed edges, E / (V * (V - 1)).
// Views with fewer than two vertices have density zero.
func DirectedGraphDensity(g tempograph.GraphView) float64 {
	v := g.NumVertices()
	if v < 2 {
		return 0
	}
	return float64(g.NumEdges()) / float64(v*(v-1))
}
