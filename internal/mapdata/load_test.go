package mapdata

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gopkg.in/yaml.v3"

	"github.com/hexfall/server/internal/hex"
)

// writeTestBakedData writes a consistent baked data set to dir and
// returns the tile data it describes.
func writeTestBakedData(t *testing.T, dir string) *TileData {
	t.Helper()

	td := newTestTileData(t)
	full, offsets, xcoords, ids := buildRegionBlobs(t, td, testRegionID)

	meta := Meta{
		MinY:           td.MinY(),
		MaxY:           td.MaxY(),
		NumTiles:       td.NumTiles(),
		BitDataSize:    len(td.obstacles),
		RegionMapSize:  len(full),
		CompactEntries: len(xcoords),
	}
	for i, r := range td.rows {
		meta.Rows = append(meta.Rows, MetaRow{
			MinX:          r.minX,
			MaxX:          r.maxX,
			CompactOffset: offsets[i],
		})
	}

	raw, err := yaml.Marshal(&meta)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, MetaFile), raw, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ObstacleFile), td.obstacles, 0o644))

	var rawX []byte
	for _, x := range xcoords {
		rawX = AppendUint16(rawX, uint16(x))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, RegionXCoordFile), rawX, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, RegionIDsFile), ids, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, FullRegionMapFile), full, 0o644))

	return td
}

func TestLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	want := writeTestBakedData(t, dir)

	td, rm, err := Load(dir, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.Equal(t, want.MinY(), td.MinY())
	assert.Equal(t, want.MaxY(), td.MaxY())
	assert.Equal(t, want.NumTiles(), td.NumTiles())

	forEachTile(td, func(c hex.Coord) {
		require.Equal(t, want.Passable(c), td.Passable(c), "tile %v", c)
		require.Equal(t, testRegionID(c), rm.GetRegionId(c), "tile %v", c)
	})
}

func TestLoadMissingFiles(t *testing.T) {
	_, _, err := Load(t.TempDir(), zaptest.NewLogger(t))
	assert.Error(t, err)
}

func TestLoadSizeMismatch(t *testing.T) {
	dir := t.TempDir()
	writeTestBakedData(t, dir)

	// Truncate the obstacle blob; the declared size no longer matches.
	raw, err := os.ReadFile(filepath.Join(dir, ObstacleFile))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ObstacleFile), raw[:len(raw)-1], 0o644))

	_, _, err = Load(dir, zaptest.NewLogger(t))
	assert.Error(t, err)
}

func TestLoadRowCountMismatch(t *testing.T) {
	dir := t.TempDir()
	writeTestBakedData(t, dir)

	meta, err := LoadMeta(filepath.Join(dir, MetaFile))
	require.NoError(t, err)
	meta.MaxY++

	raw, err := yaml.Marshal(meta)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, MetaFile), raw, 0o644))

	_, _, err = Load(dir, zaptest.NewLogger(t))
	assert.Error(t, err)
}
