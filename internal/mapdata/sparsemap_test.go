package mapdata

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hexfall/server/internal/hex"
)

var sparseCoords = [2]hex.Coord{{5, -2}, {-4, 0}}

func TestSparseMapBasicAccess(t *testing.T) {
	m := NewSparseTileMap(newTestTileData(t), 0)

	assert.Equal(t, 0, m.Get(sparseCoords[0]))
	m.Set(sparseCoords[0], 42)
	assert.Equal(t, 42, m.Get(sparseCoords[0]))
	assert.Equal(t, 0, m.Get(sparseCoords[1]))
	m.Set(sparseCoords[1], 10)
	assert.Equal(t, 42, m.Get(sparseCoords[0]))
	assert.Equal(t, 10, m.Get(sparseCoords[1]))
	m.Set(sparseCoords[0], 0)
	assert.Equal(t, 0, m.Get(sparseCoords[0]))
	assert.Equal(t, 10, m.Get(sparseCoords[1]))
}

func TestSparseMapEntriesClearedAgain(t *testing.T) {
	m := NewSparseTileMap(newTestTileData(t), 0)

	m.Set(sparseCoords[0], 42)
	assert.Equal(t, 42, m.Get(sparseCoords[0]))
	assert.Equal(t, 1, m.Len())

	m.Set(sparseCoords[0], 0)
	assert.Equal(t, 0, m.Get(sparseCoords[0]))
	assert.Equal(t, 0, m.Len())

	// Clearing an entry that was never set is a no-op.
	m.Set(sparseCoords[1], 0)
	assert.Equal(t, 0, m.Len())
}

func TestSparseMapNonZeroDefault(t *testing.T) {
	m := NewSparseTileMap(newTestTileData(t), -1)

	assert.Equal(t, -1, m.Get(sparseCoords[0]))
	m.Set(sparseCoords[0], 0)
	assert.Equal(t, 0, m.Get(sparseCoords[0]))
	assert.Equal(t, 1, m.Len())
	m.Set(sparseCoords[0], -1)
	assert.Equal(t, -1, m.Get(sparseCoords[0]))
	assert.Equal(t, 0, m.Len())
}
