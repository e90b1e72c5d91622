package temporal

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/tempograph/core"
)

func TestTimeList(t *testing.T) {
	t.Run("sorted insert with dedup", func(t *testing.T) {
		var l TimeList
		for _, ts := range []int64{5, 1, 3, 5, 1} {
			l.Insert(ts)
		}
		assert.Equal(t, 3, l.Len())
		assert.Equal(t, []int64{1, 3, 5}, l.In(core.MaxWindow))
	})

	t.Run("window probes", func(t *testing.T) {
		var l TimeList
		l.Insert(2)
		l.Insert(7)

		assert.True(t, l.AnyIn(core.NewWindow(0, 3)))
		assert.True(t, l.AnyIn(core.NewWindow(7, 8)))
		assert.False(t, l.AnyIn(core.NewWindow(3, 7)), "end exclusive")
		assert.False(t, l.AnyIn(core.NewWindow(4, 4)))

		assert.Equal(t, []int64{2}, l.In(core.NewWindow(0, 7)))
	})

	t.Run("first", func(t *testing.T) {
		var l TimeList
		_, ok := l.First()
		assert.False(t, ok)

		l.Insert(9)
		l.Insert(4)
		first, ok := l.First()
		assert.True(t, ok)
		assert.Equal(t, int64(4), first)
	})
}

func TestAdjSet(t *testing.T) {
	t.Run("repeated add is one neighbor", func(t *testing.T) {
		var s AdjSet[core.LocalID]
		s.Add(7, 1)
		s.Add(7, 5)
		s.Add(2, 3)

		assert.Equal(t, 2, s.Len())
		assert.True(t, s.Find(7))
		assert.False(t, s.Find(9))
	})

	t.Run("keys ascending", func(t *testing.T) {
		var s AdjSet[core.LocalID]
		s.Add(9, 1)
		s.Add(2, 1)
		s.Add(5, 1)

		assert.Equal(t, []core.LocalID{2, 5, 9}, s.Keys())
	})

	t.Run("windowed views", func(t *testing.T) {
		var s AdjSet[core.GlobalID]
		s.Add(10, 1)
		s.Add(20, 5)
		s.Add(30, 9)

		w := core.NewWindow(0, 6)
		assert.Equal(t, 2, s.LenWindow(w))
		assert.Equal(t, []core.GlobalID{10, 20}, s.KeysWindow(w))
		assert.True(t, s.FindWindow(20, w))
		assert.False(t, s.FindWindow(30, w))
		assert.Equal(t, 0, s.LenWindow(core.NewWindow(2, 2)))
	})

	t.Run("zero value is usable", func(t *testing.T) {
		var s AdjSet[core.LocalID]
		assert.Equal(t, 0, s.Len())
		assert.Empty(t, s.Keys())
		assert.False(t, s.FindWindow(1, core.MaxWindow))
	})
}

func TestAdjacencyDegrees(t *testing.T) {
	var a Adjacency
	a.Out.Add(1, 1)
	a.Out.Add(2, 4)
	a.RemoteOut.Add(100, 2)
	a.In.Add(3, 1)
	a.RemoteIn.Add(200, 8)

	assert.Equal(t, 3, a.OutLen())
	assert.Equal(t, 2, a.InLen())

	w := core.NewWindow(0, 3)
	assert.Equal(t, 2, a.OutLenWindow(w), "local at t=1 plus remote at t=2")
	assert.Equal(t, 1, a.InLenWindow(w))
}
