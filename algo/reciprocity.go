package algo

import (
	"context"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/tempograph"
)

// vertexReciprocity returns the number of reciprocated out-edges and the
// total number of out-edges of id, self-loops excluded.
func vertexReciprocity(g tempograph.GraphView, id tempograph.GlobalID) (reciprocal, out int) {
	v, ok := g.Vertex(id)
	if !ok {
		return 0, 0
	}

	in := make(map[tempograph.GlobalID]struct{})
	for _, n := range v.Neighbours(tempograph.IN) {
		if n != id {
			in[n] = struct{}{}
		}
	}
	for _, n := range v.Neighbours(tempograph.OUT) {
		if n == id {
			continue
		}
		out++
		if _, ok := in[n]; ok {
			reciprocal++
		}
	}
	return reciprocal, out
}

// LocalReciprocity returns the fraction of id's out-edges that are
// answered by an edge in the opposite direction, self-loops excluded.
// A vertex without out-edges has reciprocity zero.
func LocalReciprocity(g tempograph.GraphView, id tempograph.GlobalID) float64 {
	reciprocal, out := vertexReciprocity(g, id)
	if out == 0 {
		return 0
	}
	return float64(reciprocal) / float64(out)
}

// AllLocalReciprocity computes LocalReciprocity for every vertex in the
// view.
func AllLocalReciprocity(ctx context.Context, g tempograph.GraphView) (map[tempograph.GlobalID]float64, error) {
	ids, err := g.VertexIDs(ctx)
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	result := make(map[tempograph.GlobalID]float64, len(ids))

	grp, ctx := errgroup.WithContext(ctx)
	grp.SetLimit(runtime.GOMAXPROCS(0))

	for _, id := range ids {
		id := id
		grp.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r := LocalReciprocity(g, id)
			mu.Lock()
			result[id] = r
			mu.Unlock()
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

// GlobalReciprocity returns the fraction of all edges in the view that are
// reciprocated, self-loops excluded: total reciprocated out-edges over
// total out-edges. An edgeless view has reciprocity zero.
func GlobalReciprocity(ctx context.Context, g tempograph.GraphView) (float64, error) {
	ids, err := g.VertexIDs(ctx)
	if err != nil {
		return 0, err
	}

	var (
		mu              sync.Mutex
		reciprocal, out int
	)

	grp, ctx := errgroup.WithContext(ctx)
	grp.SetLimit(runtime.GOMAXPROCS(0))

	for _, id := range ids {
		id := id
		grp.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, o := vertexReciprocity(g, id)
			mu.Lock()
			reciprocal += r
			out += o
			mu.Unlock()
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return 0, err
	}

	if out == 0 {
		return 0, nil
	}
	return float64(reciprocal) / float64(out), nil
}
