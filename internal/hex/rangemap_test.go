package hex

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRangeMapFullRangeAccess(t *testing.T) {
	centre := Coord{10, -5}
	const rng = 3
	m := NewRangeMap(centre, rng, -42)

	counter := 0
	for x := int(centre.X) - rng; x <= int(centre.X)+rng; x++ {
		for y := int(centre.Y) - rng; y <= int(centre.Y)+rng; y++ {
			c := Coord{int16(x), int16(y)}
			if DistanceL1(c, centre) > rng {
				continue
			}

			assert.Equal(t, -42, m.Get(c))
			entry := m.Access(c)
			require.Equal(t, -42, *entry)
			counter++
			*entry = counter
			assert.Equal(t, counter, m.Get(c))
		}
	}

	// Expected number of tiles within a 3-range.
	assert.Equal(t, 37, counter)
}

func TestRangeMapZeroRange(t *testing.T) {
	centre := Coord{10, -5}
	m := NewRangeMap(centre, 0, -42)

	assert.Equal(t, -42, m.Get(Coord{100, 100}))

	val := m.Access(centre)
	require.Equal(t, -42, *val)
	*val = 5
	assert.Equal(t, 5, m.Get(centre))
}

func TestRangeMapBoolValues(t *testing.T) {
	m := NewRangeMap(Coord{0, 0}, 10, false)

	assert.False(t, m.Get(Coord{2, 2}))
	val := m.Access(Coord{2, 2})
	require.False(t, *val)
	*val = true
	assert.True(t, m.Get(Coord{2, 2}))
}

func TestRangeMapOutOfRangeGet(t *testing.T) {
	m := NewRangeMap(Coord{0, 0}, 10, -42)
	assert.Equal(t, -42, m.Get(Coord{100, 100}))
}

func TestRangeMapOutOfRangeAccess(t *testing.T) {
	m := NewRangeMap(Coord{0, 0}, 1, -42)
	assert.Equal(t, -42, *m.Access(Coord{1, 0}))
	assert.Panics(t, func() {
		m.Access(Coord{2, 0})
	})
}
