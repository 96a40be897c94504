package mapdata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hexfall/server/internal/hex"
)

// newTestRegionMaps builds all three back ends over the same synthetic
// region assignment.
func newTestRegionMaps(t *testing.T) (*TileData, []*RegionMap) {
	t.Helper()

	td := newTestTileData(t)
	full, offsets, xcoords, ids := buildRegionBlobs(t, td, testRegionID)

	compact, err := NewCompactRegionMap(td, offsets, xcoords, ids)
	require.NoError(t, err)

	inMemory, err := NewInMemoryRegionMap(td, full)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), FullRegionMapFile)
	require.NoError(t, os.WriteFile(path, full, 0o644))
	streamed, err := NewStreamRegionMap(td, path)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, streamed.Close())
	})

	return td, []*RegionMap{compact, inMemory, streamed}
}

func TestRegionMapLookup(t *testing.T) {
	td, maps := newTestRegionMaps(t)

	for _, rm := range maps {
		forEachTile(td, func(c hex.Coord) {
			require.Equal(t, testRegionID(c), rm.GetRegionId(c), "tile %v", c)
		})
	}
}

func TestRegionMapOutOfMap(t *testing.T) {
	_, maps := newTestRegionMaps(t)

	for _, rm := range maps {
		assert.NotEqual(t, OutOfMap, rm.GetRegionId(hex.Coord{0, 4}))
		assert.Equal(t, OutOfMap, rm.GetRegionId(hex.Coord{0, 5}))
		assert.Equal(t, OutOfMap, rm.GetRegionId(hex.Coord{100, 100}))
	}
}

func TestRegionMapGetRegionShape(t *testing.T) {
	td, maps := newTestRegionMaps(t)
	rm := maps[0]

	for _, c := range []hex.Coord{{0, 0}, {-6, 0}, {6, 0}, {-10, 4}, {0, -4}} {
		shape, id := rm.GetRegionShape(c)
		assert.Equal(t, rm.GetRegionId(c), id)
		assert.Contains(t, shape, c)

		// Every tile of the shape has the region's ID, and every
		// neighbour outside the shape has a different one.
		for tile := range shape {
			require.Equal(t, id, rm.GetRegionId(tile))
			for _, n := range tile.Neighbours() {
				if _, in := shape[n]; in {
					continue
				}
				require.NotEqual(t, id, rm.GetRegionId(n))
			}
		}

		// The shape is exhaustive: it contains every map tile with
		// this ID that is connected to c, which for the band layout is
		// every tile with the ID.
		count := 0
		forEachTile(td, func(tile hex.Coord) {
			if rm.GetRegionId(tile) == id {
				count++
			}
		})
		assert.Len(t, shape, count)
	}

	assert.Panics(t, func() {
		rm.GetRegionShape(hex.Coord{0, 100})
	})
}

func TestCompactRegionMapValidation(t *testing.T) {
	td := newTestTileData(t)
	_, offsets, xcoords, ids := buildRegionBlobs(t, td, testRegionID)

	_, err := NewCompactRegionMap(td, offsets[1:], xcoords, ids)
	assert.Error(t, err)

	_, err = NewCompactRegionMap(td, offsets, xcoords, ids[:len(ids)-1])
	assert.Error(t, err)

	// First entry of a row must equal the row's minimum x.
	broken := append([]int16(nil), xcoords...)
	broken[0]++
	_, err = NewCompactRegionMap(td, offsets, broken, ids)
	assert.Error(t, err)
}

func TestInMemoryRegionMapValidation(t *testing.T) {
	td := newTestTileData(t)
	full, _, _, _ := buildRegionBlobs(t, td, testRegionID)

	_, err := NewInMemoryRegionMap(td, full[:len(full)-1])
	assert.Error(t, err)
}

func TestStreamRegionMapValidation(t *testing.T) {
	td := newTestTileData(t)
	full, _, _, _ := buildRegionBlobs(t, td, testRegionID)

	path := filepath.Join(t.TempDir(), "truncated.bin")
	require.NoError(t, os.WriteFile(path, full[:len(full)-1], 0o644))
	_, err := NewStreamRegionMap(td, path)
	assert.Error(t, err)

	_, err = NewStreamRegionMap(td, filepath.Join(t.TempDir(), "missing.bin"))
	assert.Error(t, err)
}
