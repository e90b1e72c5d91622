package temporal

import (
	"testing"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/stretchr/testify/assert"

	"github.com/hupe1980/tempograph/core"
)

func TestTimeIndex(t *testing.T) {
	var ti TimeIndex
	ti.Add(1, 0)
	ti.Add(1, 1)
	ti.Add(3, 1)
	ti.Add(7, 2)

	t.Run("active in window", func(t *testing.T) {
		got := ti.ActiveIn(core.NewWindow(0, 4))
		assert.Equal(t, []uint32{0, 1}, got.ToArray())

		got = ti.ActiveIn(core.NewWindow(3, 8))
		assert.Equal(t, []uint32{1, 2}, got.ToArray())
	})

	t.Run("end exclusive", func(t *testing.T) {
		got := ti.ActiveIn(core.NewWindow(0, 7))
		assert.Equal(t, []uint32{0, 1}, got.ToArray())
	})

	t.Run("contains", func(t *testing.T) {
		assert.True(t, ti.Contains(core.NewWindow(0, 2), 0))
		assert.False(t, ti.Contains(core.NewWindow(2, 7), 0))
		assert.True(t, ti.Contains(core.NewWindow(7, 8), 2))
	})

	t.Run("count active deduplicates", func(t *testing.T) {
		// Position 1 has events at t=1 and t=3 but counts once.
		assert.Equal(t, 2, ti.CountActive(core.NewWindow(0, 4)))
	})

	t.Run("empty cases", func(t *testing.T) {
		var empty TimeIndex
		assert.Equal(t, 0, empty.CountActive(core.MaxWindow))
		assert.False(t, empty.Contains(core.MaxWindow, 0))

		assert.Equal(t, 0, ti.CountActive(core.NewWindow(4, 4)))
	})

	t.Run("each visits times ascending", func(t *testing.T) {
		var times []int64
		ti.Each(func(tm int64, _ *roaring.Bitmap) bool {
			times = append(times, tm)
			return true
		})
		assert.Equal(t, []int64{1, 3, 7}, times)
	})
}
