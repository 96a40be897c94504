package mapdata

import (
	"github.com/hexfall/server/internal/hex"
)

// SparseTileMap associates values with rarely-populated tiles. A
// per-tile presence bitmap rejects "not present" lookups without
// touching the hash map, which keeps the common case cheap.
type SparseTileMap[T comparable] struct {
	def     T
	present *BitTiles
	values  map[hex.Coord]T
}

// NewSparseTileMap constructs the map with all tiles set to def.
func NewSparseTileMap[T comparable](td *TileData, def T) *SparseTileMap[T] {
	return &SparseTileMap[T]{
		def:     def,
		present: NewBitTiles(td, false),
		values:  make(map[hex.Coord]T),
	}
}

// Get returns the value for c, or the default if none is set. c must
// be on the map.
func (m *SparseTileMap[T]) Get(c hex.Coord) T {
	if !m.present.Get(c) {
		return m.def
	}
	return m.values[c]
}

// Set writes the value for c. Setting the default value removes the
// entry entirely. c must be on the map.
func (m *SparseTileMap[T]) Set(c hex.Coord, val T) {
	if val == m.def {
		if m.present.Get(c) {
			m.present.Set(c, false)
			delete(m.values, c)
		}
		return
	}
	m.present.Set(c, true)
	m.values[c] = val
}

// Len returns the number of non-default entries. Exposed for testing.
func (m *SparseTileMap[T]) Len() int {
	return len(m.values)
}
