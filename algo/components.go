package algo

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/tempograph"
	"github.com/hupe1980/tempograph/engine"
)

// ConnectedComponents labels every vertex in the view with the smallest
// global id reachable from it over undirected paths. Two vertices carry
// the same label exactly when they are weakly connected.
//
// Labels converge by synchronous min-label propagation: each round every
// vertex takes the minimum of its own label and its neighbors' labels from
// the previous round, and the rounds stop at a fixpoint. maxRounds bounds
// the work on pathological inputs; zero or negative means no bound beyond
// the vertex count, which always suffices.
func ConnectedComponents(ctx context.Context, g tempograph.GraphView, maxRounds int) (map[tempograph.GlobalID]tempograph.GlobalID, error) {
	ids, err := g.VertexIDs(ctx)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return map[tempograph.GlobalID]tempograph.GlobalID{}, nil
	}
	if maxRounds <= 0 || maxRounds > len(ids) {
		maxRounds = len(ids)
	}

	index := make(map[tempograph.GlobalID]int, len(ids))
	for i, id := range ids {
		index[id] = i
	}

	// Resolve neighborhoods once; they do not change between rounds.
	neighbours := make([][]int, len(ids))
	grp, gctx := errgroup.WithContext(ctx)
	grp.SetLimit(runtime.GOMAXPROCS(0))
	for i, id := range ids {
		i, id := i, id
		grp.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			v, ok := g.Vertex(id)
			if !ok {
				return nil
			}
			for _, n := range v.Neighbours(tempograph.BOTH) {
				if pos, ok := index[n]; ok && pos != i {
					neighbours[i] = append(neighbours[i], pos)
				}
			}
			return nil
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}

	state := engine.EmptyState[tempograph.GlobalID](len(ids))
	for i, id := range ids {
		state.Set(i, id)
	}

	for round := 0; round < maxRounds; round++ {
		next := state.Clone()

		grp, gctx := errgroup.WithContext(ctx)
		grp.SetLimit(runtime.GOMAXPROCS(0))
		for i := range ids {
			i := i
			grp.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				label := state.Get(i)
				for _, pos := range neighbours[i] {
					if l := state.Get(pos); l < label {
						label = l
					}
				}
				next.Set(i, label)
				return nil
			})
		}
		if err := grp.Wait(); err != nil {
			return nil, err
		}

		if next.Equal(state) {
			break
		}
		state = next
	}

	result := make(map[tempograph.GlobalID]tempograph.GlobalID, len(ids))
	for i, id := range ids {
		result[id] = state.Get(i)
	}
	return result, nil
}
