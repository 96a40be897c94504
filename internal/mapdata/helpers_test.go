package mapdata

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hexfall/server/internal/hex"
)

// buildObstacleBlob packs the passable predicate into the per-row bit
// vector format of the baked data.
func buildObstacleBlob(minY int16, extents []RowExtent, passable func(hex.Coord) bool) []byte {
	var blob []byte
	for i, e := range extents {
		y := minY + int16(i)
		width := int(e.MaxX) - int(e.MinX) + 1
		row := make([]byte, (width+bitsPerByte-1)/bitsPerByte)
		for xInd := 0; xInd < width; xInd++ {
			c := hex.Coord{X: e.MinX + int16(xInd), Y: y}
			if passable(c) {
				row[xInd/bitsPerByte] |= 1 << (xInd % bitsPerByte)
			}
		}
		blob = append(blob, row...)
	}
	return blob
}

// newTestTileData builds a small diamond-shaped map with rows
// y in [-4, 4] and per-row x extent [-6-y, 6], where every tile with
// x == 3 is an obstacle.
func newTestTileData(t *testing.T) *TileData {
	t.Helper()

	const minY, maxY = -4, 4
	var extents []RowExtent
	for y := minY; y <= maxY; y++ {
		extents = append(extents, RowExtent{MinX: int16(-6 - y), MaxX: 6})
	}

	td, err := NewTileData(minY, extents, buildObstacleBlob(minY, extents, func(c hex.Coord) bool {
		return c.X != 3
	}))
	require.NoError(t, err)
	return td
}

// forEachTile runs the callback for every coordinate on the map.
func forEachTile(td *TileData, cb func(c hex.Coord)) {
	for y := td.MinY(); y <= td.MaxY(); y++ {
		ext, _ := td.RowExtent(y)
		for x := ext.MinX; x <= ext.MaxX; x++ {
			cb(hex.Coord{X: x, Y: y})
		}
	}
}

// testRegionID is the synthetic region assignment used by the region
// map tests: vertical bands of four columns each.
func testRegionID(c hex.Coord) RegionID {
	return RegionID(int(c.X)+128) / 4
}

// buildRegionBlobs derives the full and compact region blobs for the
// given assignment.
func buildRegionBlobs(t *testing.T, td *TileData, region func(hex.Coord) RegionID) (full []byte, offsets []int, xcoords []int16, ids []byte) {
	t.Helper()

	for y := td.MinY(); y <= td.MaxY(); y++ {
		ext, _ := td.RowExtent(y)
		offsets = append(offsets, len(xcoords))

		var err error
		var last RegionID
		for x := ext.MinX; x <= ext.MaxX; x++ {
			id := region(hex.Coord{X: x, Y: y})
			full, err = AppendID24(full, id)
			require.NoError(t, err)

			if x == ext.MinX || id != last {
				xcoords = append(xcoords, x)
				ids, err = AppendID24(ids, id)
				require.NoError(t, err)
				last = id
			}
		}
	}
	return full, offsets, xcoords, ids
}
