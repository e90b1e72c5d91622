package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWindow(t *testing.T) {
	t.Run("contains half open", func(t *testing.T) {
		w := NewWindow(1, 5)
		assert.True(t, w.Contains(1))
		assert.True(t, w.Contains(4))
		assert.False(t, w.Contains(5))
		assert.False(t, w.Contains(0))
	})

	t.Run("empty", func(t *testing.T) {
		assert.True(t, NewWindow(3, 3).IsEmpty())
		assert.True(t, NewWindow(5, 2).IsEmpty())
		assert.False(t, NewWindow(2, 3).IsEmpty())
		assert.False(t, MaxWindow.IsEmpty())
	})

	t.Run("clamp intersects", func(t *testing.T) {
		outer := NewWindow(0, 10)
		inner := outer.Clamp(NewWindow(3, 20))
		assert.Equal(t, NewWindow(3, 10), inner)

		assert.Equal(t, NewWindow(0, 10), outer.Clamp(MaxWindow))
		assert.True(t, outer.Clamp(NewWindow(15, 20)).IsEmpty())
	})
}

func TestShardFor(t *testing.T) {
	t.Run("stable and in range", func(t *testing.T) {
		for n := 1; n <= 8; n++ {
			for id := GlobalID(0); id < 1000; id++ {
				s := ShardFor(id, n)
				assert.GreaterOrEqual(t, s, 0)
				assert.Less(t, s, n)
				assert.Equal(t, s, ShardFor(id, n), "assignment is a pure function")
			}
		}
	})

	t.Run("spreads ids", func(t *testing.T) {
		const n = 4
		var counts [n]int
		for id := GlobalID(0); id < 4000; id++ {
			counts[ShardFor(id, n)]++
		}
		for s, c := range counts {
			assert.Greater(t, c, 0, "shard %d never assigned", s)
		}
	})
}

func TestDirectionString(t *testing.T) {
	assert.Equal(t, "out", OUT.String())
	assert.Equal(t, "in", IN.String())
	assert.Equal(t, "both", BOTH.String())
}
