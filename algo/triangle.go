package algo

import (
	"context"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/tempograph"
)

// LocalTriangleCount returns the number of triangles through id: pairs of
// distinct neighbors (either direction, self excluded) connected by an
// edge in either direction. A missing vertex counts zero triangles.
func LocalTriangleCount(g tempograph.GraphView, id tempograph.GlobalID) int {
	v, ok := g.Vertex(id)
	if !ok {
		return 0
	}

	neighbours := v.Neighbours(tempograph.BOTH)
	count := 0
	for i, u := range neighbours {
		if u == id {
			continue
		}
		for _, w := range neighbours[i+1:] {
			if w == id {
				continue
			}
			if g.HasEdge(u, w) || g.HasEdge(w, u) {
				count++
			}
		}
	}
	return count
}

// GlobalTriangleCount returns the number of distinct triangles in the
// view. Each triangle is seen once through each of its three corners, so
// the per-vertex sum is divided by three.
func GlobalTriangleCount(ctx context.Context, g tempograph.GraphView) (int, error) {
	ids, err := g.VertexIDs(ctx)
	if err != nil {
		return 0, err
	}

	var total atomic.Int64

	grp, ctx := errgroup.WithContext(ctx)
	grp.SetLimit(runtime.GOMAXPROCS(0))

	for _, id := range ids {
		id := id
		grp.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			total.Add(int64(LocalTriangleCount(g, id)))
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return 0, err
	}
	return int(total.Load()) / 3, nil
}
