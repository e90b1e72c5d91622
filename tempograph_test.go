package tempograph_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/tempograph"
)

func TestGraphBasics(t *testing.T) {
	g := tempograph.New(2)
	defer g.Close()

	require.NoError(t, g.AddVertex(1, 10, nil))
	require.NoError(t, g.AddEdge(2, 10, 20, tempograph.Props{"weight": tempograph.F64(1.5)}))

	assert.True(t, g.HasVertex(10))
	assert.True(t, g.HasVertex(20), "edge insert creates endpoints")
	assert.True(t, g.HasEdge(10, 20))
	assert.False(t, g.HasEdge(20, 10))
	assert.Equal(t, 2, g.NumVertices())
	assert.Equal(t, 1, g.NumEdges())

	earliest, ok := g.Earliest()
	require.True(t, ok)
	assert.Equal(t, int64(1), earliest)

	latest, ok := g.Latest()
	require.True(t, ok)
	assert.Equal(t, int64(2), latest)
}

// Vertices become visible in a window through any event touching them,
// whether a vertex add or an incident edge.
func TestWindowedVertexVisibility(t *testing.T) {
	g := tempograph.New(4)
	defer g.Close()

	edges := []struct {
		t        int64
		src, dst tempograph.GlobalID
	}{
		{1, 1, 2},
		{2, 1, 3},
		{-1, 2, 1},
		{0, 1, 1},
		{7, 3, 2},
		{1, 1, 1},
	}
	for _, e := range edges {
		require.NoError(t, g.AddEdge(e.t, e.src, e.dst, nil))
	}

	ids, err := g.Window(0, 7).VertexIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []tempograph.GlobalID{1, 2, 3}, ids)

	ids, err = g.Window(-1, 1).VertexIDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []tempograph.GlobalID{1, 2}, ids)
}

func TestWindowedView(t *testing.T) {
	g := tempograph.New(3)
	defer g.Close()

	require.NoError(t, g.AddEdge(1, 1, 2, nil))
	require.NoError(t, g.AddEdge(5, 2, 3, nil))

	t.Run("edges respect the window", func(t *testing.T) {
		view := g.Window(0, 2)
		assert.True(t, view.HasEdge(1, 2))
		assert.False(t, view.HasEdge(2, 3))
		assert.Equal(t, 1, view.NumEdges())
	})

	t.Run("growing the window is monotone", func(t *testing.T) {
		prev := 0
		for end := int64(0); end <= 6; end++ {
			n := g.Window(0, end).NumVertices()
			assert.GreaterOrEqual(t, n, prev, "end=%d", end)
			prev = n
		}
		assert.Equal(t, 3, prev)
	})

	t.Run("nested windows never widen", func(t *testing.T) {
		narrow := g.Window(0, 2).Window(-100, 100)
		assert.False(t, narrow.HasEdge(2, 3), "nesting clamps to the intersection")
		assert.Equal(t, 1, narrow.NumEdges())
	})

	t.Run("empty window sees nothing", func(t *testing.T) {
		view := g.Window(3, 3)
		assert.Equal(t, 0, view.NumVertices())
		assert.Equal(t, 0, view.NumEdges())
		assert.False(t, view.HasVertex(1))

		ids, err := view.VertexIDs(context.Background())
		require.NoError(t, err)
		assert.Empty(t, ids)
	})

	t.Run("view stays live", func(t *testing.T) {
		view := g.Window(0, 10)
		before := view.NumEdges()
		require.NoError(t, g.AddEdge(7, 3, 1, nil))
		assert.Equal(t, before+1, view.NumEdges())
	})
}

func TestVertexView(t *testing.T) {
	g := tempograph.New(2)
	defer g.Close()

	require.NoError(t, g.AddEdge(1, 1, 2, nil))
	require.NoError(t, g.AddEdge(3, 3, 1, nil))
	require.NoError(t, g.AddVertex(2, 1, tempograph.Props{"score": tempograph.I64(10)}))
	require.NoError(t, g.AddVertex(4, 1, tempograph.Props{"score": tempograph.I64(20)}))
	require.NoError(t, g.SetStaticVertexProps(1, tempograph.Props{"name": tempograph.Str("one")}))

	view := g.View()
	v, ok := view.Vertex(1)
	require.True(t, ok)

	assert.Equal(t, tempograph.GlobalID(1), v.ID())
	assert.Equal(t, 1, v.Degree(tempograph.OUT))
	assert.Equal(t, 1, v.Degree(tempograph.IN))
	assert.Equal(t, 2, v.Degree(tempograph.BOTH))
	assert.Equal(t, []tempograph.GlobalID{2, 3}, v.Neighbours(tempograph.BOTH))

	t.Run("temporal prop lookup", func(t *testing.T) {
		val, ok := v.Prop("score", 3)
		require.True(t, ok)
		got, _ := val.AsI64()
		assert.Equal(t, int64(10), got)

		_, ok = v.Prop("score", 1)
		assert.False(t, ok)
	})

	t.Run("prop history", func(t *testing.T) {
		hist := v.PropHistory("score")
		require.Len(t, hist, 2)
		assert.Equal(t, int64(2), hist[0].Time)
		assert.Equal(t, int64(4), hist[1].Time)
	})

	t.Run("static prop", func(t *testing.T) {
		val, ok := v.StaticProp("name")
		require.True(t, ok)
		got, _ := val.AsStr()
		assert.Equal(t, "one", got)
	})

	t.Run("windowed vertex view", func(t *testing.T) {
		wv, ok := g.Window(0, 2).Vertex(1)
		require.True(t, ok)
		assert.Equal(t, 1, wv.Degree(tempograph.BOTH), "edge at t=3 invisible")

		// Prop observations before the window are invisible too.
		_, ok = wv.Prop("score", 1)
		assert.False(t, ok)

		_, ok = g.Window(5, 9).Vertex(2)
		assert.False(t, ok, "vertex with no events in window")
	})

	t.Run("missing vertex", func(t *testing.T) {
		_, ok := view.Vertex(99)
		assert.False(t, ok)
	})
}

func TestEdgeView(t *testing.T) {
	g := tempograph.New(2)
	defer g.Close()

	require.NoError(t, g.AddEdge(1, 1, 2, tempograph.Props{"weight": tempograph.F64(0.5)}))
	require.NoError(t, g.AddEdge(4, 1, 2, tempograph.Props{"weight": tempograph.F64(0.9)}))
	require.NoError(t, g.SetStaticEdgeProps(1, 2, tempograph.Props{"kind": tempograph.Str("follows")}))

	v, ok := g.View().Vertex(1)
	require.True(t, ok)
	e, ok := v.Edge(2)
	require.True(t, ok)

	assert.Equal(t, tempograph.GlobalID(1), e.Src())
	assert.Equal(t, tempograph.GlobalID(2), e.Dst())

	val, ok := e.Prop("weight", 2)
	require.True(t, ok)
	f, _ := val.AsF64()
	assert.Equal(t, 0.5, f)

	hist := e.PropHistory("weight")
	assert.Len(t, hist, 2)

	val, ok = e.StaticProp("kind")
	require.True(t, ok)
	s, _ := val.AsStr()
	assert.Equal(t, "follows", s)

	_, ok = v.Edge(9)
	assert.False(t, ok)
}

func TestIllegalMutation(t *testing.T) {
	g := tempograph.New(2)
	defer g.Close()

	require.NoError(t, g.AddVertex(1, 1, nil))
	require.NoError(t, g.SetStaticVertexProps(1, tempograph.Props{"name": tempograph.Str("a")}))

	err := g.SetStaticVertexProps(1, tempograph.Props{"name": tempograph.Str("b")})
	var ime *tempograph.IllegalMutationError
	require.ErrorAs(t, err, &ime)
	assert.Equal(t, "name", ime.Property)

	assert.ErrorIs(t, g.SetStaticVertexProps(99, tempograph.Props{"x": tempograph.Bool(true)}), tempograph.ErrNotFound)
}

func TestSnapshotFacade(t *testing.T) {
	g := tempograph.New(3)
	defer g.Close()

	require.NoError(t, g.AddEdge(1, 1, 2, nil))
	require.NoError(t, g.AddEdge(2, 2, 3, nil))

	var buf bytes.Buffer
	require.NoError(t, g.Save(&buf))

	loaded, err := tempograph.Load(&buf)
	require.NoError(t, err)
	defer loaded.Close()

	assert.Equal(t, g.NumVertices(), loaded.NumVertices())
	assert.Equal(t, g.NumEdges(), loaded.NumEdges())
	assert.True(t, loaded.Window(0, 2).HasEdge(1, 2))
}
