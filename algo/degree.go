package algo

import (
	"context"

	"github.com/hupe1980/tempograph"
)

// MaxDegree returns the largest degree in direction d across the view.
// An empty view returns zero.
func MaxDegree(ctx context.Context, g tempograph.GraphView, d tempograph.Direction) (int, error) {
	ids, err := g.VertexIDs(ctx)
	if err != nil {
		return 0, err
	}

	maxDeg := 0
	for _, id := range ids {
		v, ok := g.Vertex(id)
		if !ok {
			continue
		}
		if deg := v.Degree(d); deg > maxDeg {
			maxDeg = deg
		}
	}
	return maxDeg, nil
}

// MinDegree returns the smallest degree in direction d across the view.
// An empty view returns zero.
func MinDegree(ctx context.Context, g tempograph.GraphView, d tempograph.Direction) (int, error) {
	ids, err := g.VertexIDs(ctx)
	if err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}

	minDeg := -1
	for _, id := range ids {
		v, ok := g.Vertex(id)
		if !ok {
			continue
		}
		if deg := v.Degree(d); minDeg < 0 || deg < minDeg {
			minDeg = deg
		}
	}
	if minDeg < 0 {
		return 0, nil
	}
	return minDeg, nil
}
