package mapdata

import (
	"fmt"

	"github.com/hexfall/server/internal/hex"
)

// bitsPerByte is the packing density of the obstacle bit vector.
const bitsPerByte = 8

// RowExtent is the inclusive column extent of one map row.
type RowExtent struct {
	MinX, MaxX int16
}

type rowInfo struct {
	minX, maxX int16

	// tileOffset is the index of this row's first tile in any flat
	// per-tile array (DynTiles ordinals, safe-zone entries, region
	// blobs).
	tileOffset int

	// bitOffset is the byte offset of this row in the obstacle blob.
	// Each row starts on a fresh byte.
	bitOffset int
}

// TileData describes the extent of the game map together with the
// bit-packed obstacle layer. It is immutable and derived from the
// baked data files produced by the map preprocessor.
type TileData struct {
	minY, maxY int16
	rows       []rowInfo
	numTiles   int
	bitSize    int
	obstacles  []byte
}

// NewTileData builds the static tile tables from the per-row extents
// and the packed obstacle bit vector. extents[0] is the row at minY.
// The obstacle blob holds one little-endian bit vector per row, each
// starting on a byte boundary, bit set meaning passable.
func NewTileData(minY int16, extents []RowExtent, obstacles []byte) (*TileData, error) {
	if len(extents) == 0 {
		return nil, fmt.Errorf("tile data has no rows")
	}
	maxY := minY + int16(len(extents)) - 1
	if maxY < minY {
		return nil, fmt.Errorf("row count %d overflows the coordinate range", len(extents))
	}

	td := &TileData{
		minY: minY,
		maxY: maxY,
		rows: make([]rowInfo, len(extents)),
	}

	for i, e := range extents {
		if e.MaxX < e.MinX {
			return nil, fmt.Errorf("row %d has empty extent [%d, %d]", int(minY)+i, e.MinX, e.MaxX)
		}
		width := int(e.MaxX) - int(e.MinX) + 1
		td.rows[i] = rowInfo{
			minX:       e.MinX,
			maxX:       e.MaxX,
			tileOffset: td.numTiles,
			bitOffset:  td.bitSize,
		}
		td.numTiles += width
		td.bitSize += (width + bitsPerByte - 1) / bitsPerByte
	}

	if len(obstacles) != td.bitSize {
		return nil, fmt.Errorf("obstacle blob has %d bytes, tile extents require %d", len(obstacles), td.bitSize)
	}
	td.obstacles = obstacles

	return td, nil
}

// MinY returns the smallest row coordinate on the map.
func (td *TileData) MinY() int16 { return td.minY }

// MaxY returns the largest row coordinate on the map.
func (td *TileData) MaxY() int16 { return td.maxY }

// NumTiles returns the total number of tiles on the map.
func (td *TileData) NumTiles() int { return td.numTiles }

// RowExtent returns the column extent of the given row, if the row is
// on the map.
func (td *TileData) RowExtent(y int16) (RowExtent, bool) {
	if y < td.minY || y > td.maxY {
		return RowExtent{}, false
	}
	r := td.rows[y-td.minY]
	return RowExtent{r.minX, r.maxX}, true
}

// OnMap checks whether the coordinate is within the map extent.
func (td *TileData) OnMap(c hex.Coord) bool {
	if c.Y < td.minY || c.Y > td.maxY {
		return false
	}
	r := &td.rows[c.Y-td.minY]
	return c.X >= r.minX && c.X <= r.maxX
}

// Passable checks the obstacle layer. Off-map tiles are not passable.
func (td *TileData) Passable(c hex.Coord) bool {
	if !td.OnMap(c) {
		return false
	}
	r := &td.rows[c.Y-td.minY]
	xInd := int(c.X) - int(r.minX)
	b := td.obstacles[r.bitOffset+xInd/bitsPerByte]
	return b&(1<<(xInd%bitsPerByte)) != 0
}

// TileIndex maps an on-map coordinate to its ordinal in row-by-row,
// ascending-x order. Off-map coordinates are a programming error.
func (td *TileData) TileIndex(c hex.Coord) int {
	if !td.OnMap(c) {
		panic(fmt.Sprintf("mapdata: tile index of off-map coordinate %v", c))
	}
	r := &td.rows[c.Y-td.minY]
	return r.tileOffset + int(c.X) - int(r.minX)
}

// regionOffset returns the byte offset of an on-map coordinate in the
// full region-map blob.
func (td *TileData) regionOffset(c hex.Coord) int {
	return BytesPerID * td.TileIndex(c)
}
