package algo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/tempograph"
)

func buildGraph(t *testing.T, nShards int, edges [][3]int64) *tempograph.Graph {
	t.Helper()
	g := tempograph.New(nShards)
	t.Cleanup(func() { g.Close() })
	for _, e := range edges {
		require.NoError(t, g.AddEdge(e[0], tempograph.GlobalID(e[1]), tempograph.GlobalID(e[2]), nil))
	}
	return g
}

func TestLocalTriangleCount(t *testing.T) {
	g := buildGraph(t, 2, [][3]int64{
		{1, 1, 2},
		{2, 1, 3},
		{3, 2, 1},
		{4, 3, 2},
	})

	view := g.Window(0, 5)
	assert.Equal(t, 1, LocalTriangleCount(view, 1))
	assert.Equal(t, 1, LocalTriangleCount(view, 2))
	assert.Equal(t, 1, LocalTriangleCount(view, 3))

	t.Run("missing vertex", func(t *testing.T) {
		assert.Equal(t, 0, LocalTriangleCount(view, 99))
	})

	t.Run("window hides the closing edge", func(t *testing.T) {
		assert.Equal(t, 0, LocalTriangleCount(g.Window(0, 4), 1),
			"edge 3->2 at t=4 not visible")
	})
}

func TestGlobalTriangleCount(t *testing.T) {
	t.Run("single triangle", func(t *testing.T) {
		g := buildGraph(t, 3, [][3]int64{
			{1, 1, 2},
			{2, 1, 3},
			{3, 2, 1},
			{4, 3, 2},
		})

		n, err := GlobalTriangleCount(context.Background(), g.Window(0, 5))
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("complete graph on four vertices", func(t *testing.T) {
		g := buildGraph(t, 2, [][3]int64{
			{1, 1, 2}, {1, 1, 3}, {1, 1, 4},
			{1, 2, 3}, {1, 2, 4},
			{1, 3, 4},
		})

		n, err := GlobalTriangleCount(context.Background(), g.View())
		require.NoError(t, err)
		assert.Equal(t, 4, n)
	})

	t.Run("no triangles", func(t *testing.T) {
		g := buildGraph(t, 2, [][3]int64{
			{1, 1, 2},
			{2, 2, 3},
			{3, 3, 4},
		})

		n, err := GlobalTriangleCount(context.Background(), g.View())
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	})

	t.Run("cancelled context", func(t *testing.T) {
		g := buildGraph(t, 2, [][3]int64{{1, 1, 2}})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := GlobalTriangleCount(ctx, g.View())
		assert.Error(t, err)
	})
}
