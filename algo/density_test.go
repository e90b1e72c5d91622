package algo

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/tempograph"
)

func TestDirectedGraphDensity(t *testing.T) {
	t.Run("six of twenty possible edges", func(t *testing.T) {
		g := buildGraph(t, 2, [][3]int64{
			{1, 1, 2},
			{1, 2, 3},
			{1, 3, 4},
			{1, 4, 5},
			{1, 5, 1},
			{1, 1, 3},
		})

		assert.Equal(t, 0.3, DirectedGraphDensity(g.View()))
	})

	t.Run("mutual pair is fully dense", func(t *testing.T) {
		g := buildGraph(t, 2, [][3]int64{
			{1, 1, 2},
			{2, 2, 1},
		})

		assert.Equal(t, 1.0, DirectedGraphDensity(g.View()))
	})

	t.Run("windowed density", func(t *testing.T) {
		g := buildGraph(t, 2, [][3]int64{
			{1, 1, 2},
			{5, 2, 1},
		})

		assert.Equal(t, 0.5, DirectedGraphDensity(g.Window(0, 3)))
	})

	t.Run("degenerate views", func(t *testing.T) {
		g := tempograph.New(2)
		defer g.Close()

		assert.Equal(t, 0.0, DirectedGraphDensity(g.View()), "empty graph")

		assert.NoError(t, g.AddVertex(1, 1, nil))
		assert.Equal(t, 0.0, DirectedGraphDensity(g.View()), "single vertex")
	})
}
