package temporal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/tempograph/core"
	"github.com/hupe1980/tempograph/prop"
)

func TestCellValueAt(t *testing.T) {
	t.Run("empty cell", func(t *testing.T) {
		var c Cell
		_, ok := c.ValueAt(10)
		assert.False(t, ok)
	})

	t.Run("sorted appends", func(t *testing.T) {
		var c Cell
		c.Set(1, prop.I64(10))
		c.Set(3, prop.I64(30))
		c.Set(5, prop.I64(50))

		tests := []struct {
			at   int64
			want int64
			ok   bool
		}{
			{at: 0, ok: false},
			{at: 1, want: 10, ok: true},
			{at: 2, want: 10, ok: true},
			{at: 3, want: 30, ok: true},
			{at: 4, want: 30, ok: true},
			{at: 100, want: 50, ok: true},
		}
		for _, tt := range tests {
			v, ok := c.ValueAt(tt.at)
			require.Equal(t, tt.ok, ok, "at=%d", tt.at)
			if ok {
				got, _ := v.AsI64()
				assert.Equal(t, tt.want, got, "at=%d", tt.at)
			}
		}
	})

	t.Run("out of order appends", func(t *testing.T) {
		var c Cell
		c.Set(5, prop.Str("e"))
		c.Set(1, prop.Str("a"))
		c.Set(3, prop.Str("c"))

		v, ok := c.ValueAt(4)
		require.True(t, ok)
		s, _ := v.AsStr()
		assert.Equal(t, "c", s)

		v, ok = c.ValueAt(1)
		require.True(t, ok)
		s, _ = v.AsStr()
		assert.Equal(t, "a", s)

		_, ok = c.ValueAt(0)
		assert.False(t, ok)
	})

	t.Run("equal time last insertion wins", func(t *testing.T) {
		var c Cell
		c.Set(2, prop.Str("first"))
		c.Set(2, prop.Str("second"))

		v, ok := c.ValueAt(2)
		require.True(t, ok)
		s, _ := v.AsStr()
		assert.Equal(t, "second", s)
	})

	t.Run("equal time last insertion wins after unsorted", func(t *testing.T) {
		var c Cell
		c.Set(5, prop.Str("later"))
		c.Set(2, prop.Str("first"))
		c.Set(2, prop.Str("second"))

		v, ok := c.ValueAt(3)
		require.True(t, ok)
		s, _ := v.AsStr()
		assert.Equal(t, "second", s)
	})
}

func TestCellRange(t *testing.T) {
	var c Cell
	c.Set(4, prop.I64(40))
	c.Set(1, prop.I64(10))
	c.Set(2, prop.I64(20))

	t.Run("window filters and sorts", func(t *testing.T) {
		got := c.Range(core.NewWindow(1, 4))
		require.Len(t, got, 2)
		assert.Equal(t, int64(1), got[0].Time)
		assert.Equal(t, int64(2), got[1].Time)
	})

	t.Run("end is exclusive", func(t *testing.T) {
		got := c.Range(core.NewWindow(1, 5))
		require.Len(t, got, 3)
		assert.Equal(t, int64(4), got[2].Time)
	})

	t.Run("empty window", func(t *testing.T) {
		assert.Empty(t, c.Range(core.NewWindow(3, 3)))
	})
}

func TestCellActiveIn(t *testing.T) {
	var c Cell
	c.Set(2, prop.Bool(true))
	c.Set(8, prop.Bool(false))

	assert.True(t, c.ActiveIn(core.NewWindow(0, 3)))
	assert.True(t, c.ActiveIn(core.NewWindow(8, 9)))
	assert.False(t, c.ActiveIn(core.NewWindow(3, 8)), "end exclusive")
	assert.False(t, c.ActiveIn(core.NewWindow(5, 5)))
}
