package mapdata

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Baked data file names inside the map data directory, as written by
// the mapproc tool.
const (
	MetaFile          = "tiledata.yaml"
	ObstacleFile      = "obstacles.bin"
	RegionXCoordFile  = "region_xcoord.bin"
	RegionIDsFile     = "region_ids.bin"
	FullRegionMapFile = "region_map.bin"
)

// Meta is the metadata document accompanying the baked blobs. It
// carries the map extent and the sizes the blobs must match; any
// mismatch means the data set is corrupt or mixed from different
// preprocessor runs.
type Meta struct {
	MinY           int16     `yaml:"min_y"`
	MaxY           int16     `yaml:"max_y"`
	NumTiles       int       `yaml:"num_tiles"`
	BitDataSize    int       `yaml:"bit_data_size"`
	RegionMapSize  int       `yaml:"region_map_size"`
	CompactEntries int       `yaml:"compact_entries"`
	Rows           []MetaRow `yaml:"rows"`
}

// MetaRow describes one map row: its column extent and where its
// entries start in the compact region data.
type MetaRow struct {
	MinX          int16 `yaml:"min_x"`
	MaxX          int16 `yaml:"max_x"`
	CompactOffset int   `yaml:"compact_offset"`
}

// LoadMeta reads and parses the metadata document.
func LoadMeta(path string) (*Meta, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read map metadata: %w", err)
	}
	var meta Meta
	if err := yaml.Unmarshal(raw, &meta); err != nil {
		return nil, fmt.Errorf("parse map metadata %s: %w", path, err)
	}
	if int(meta.MaxY)-int(meta.MinY)+1 != len(meta.Rows) {
		return nil, fmt.Errorf("map metadata declares rows %d..%d but lists %d extents",
			meta.MinY, meta.MaxY, len(meta.Rows))
	}
	return &meta, nil
}

// Load reads the baked map data from dir and assembles the tile tables
// and the compact region map.
func Load(dir string, log *zap.Logger) (*TileData, *RegionMap, error) {
	meta, err := LoadMeta(filepath.Join(dir, MetaFile))
	if err != nil {
		return nil, nil, err
	}

	obstacles, err := os.ReadFile(filepath.Join(dir, ObstacleFile))
	if err != nil {
		return nil, nil, fmt.Errorf("read obstacle blob: %w", err)
	}
	if len(obstacles) != meta.BitDataSize {
		return nil, nil, fmt.Errorf("obstacle blob has %d bytes, metadata declares %d",
			len(obstacles), meta.BitDataSize)
	}

	extents := make([]RowExtent, len(meta.Rows))
	offsets := make([]int, len(meta.Rows))
	for i, r := range meta.Rows {
		extents[i] = RowExtent{r.MinX, r.MaxX}
		offsets[i] = r.CompactOffset
	}

	td, err := NewTileData(meta.MinY, extents, obstacles)
	if err != nil {
		return nil, nil, err
	}
	if td.NumTiles() != meta.NumTiles {
		return nil, nil, fmt.Errorf("tile extents yield %d tiles, metadata declares %d",
			td.NumTiles(), meta.NumTiles)
	}

	rawX, err := os.ReadFile(filepath.Join(dir, RegionXCoordFile))
	if err != nil {
		return nil, nil, fmt.Errorf("read compact region x-coordinates: %w", err)
	}
	if len(rawX) != 2*meta.CompactEntries {
		return nil, nil, fmt.Errorf("compact x-coordinate blob has %d bytes, metadata declares %d entries",
			len(rawX), meta.CompactEntries)
	}
	xcoords := make([]int16, meta.CompactEntries)
	for i := range xcoords {
		xcoords[i] = int16(uint16(rawX[2*i]) | uint16(rawX[2*i+1])<<8)
	}

	ids, err := os.ReadFile(filepath.Join(dir, RegionIDsFile))
	if err != nil {
		return nil, nil, fmt.Errorf("read compact region IDs: %w", err)
	}

	rm, err := NewCompactRegionMap(td, offsets, xcoords, ids)
	if err != nil {
		return nil, nil, err
	}

	log.Info("map data loaded",
		zap.Int("tiles", td.NumTiles()),
		zap.Int16("min_y", td.MinY()),
		zap.Int16("max_y", td.MaxY()),
		zap.Int("region_entries", meta.CompactEntries))

	return td, rm, nil
}
