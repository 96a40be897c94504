package mapdata

import (
	"fmt"
	"os"
	"sort"

	"github.com/hexfall/server/internal/hex"
)

// RegionID identifies one of the precomputed map regions. The baked
// data encodes IDs in 24 bits.
type RegionID uint32

// OutOfMap is the region ID reported for off-map coordinates.
const OutOfMap RegionID = ^RegionID(0)

// regionBackend resolves the region ID of an on-map coordinate. The
// three implementations trade memory for lookup cost; the compact one
// is canonical.
type regionBackend interface {
	regionAt(c hex.Coord) RegionID
	close() error
}

// RegionMap looks up region IDs and region shapes for map tiles. The
// backing data representation is chosen by the constructor used.
type RegionMap struct {
	td      *TileData
	backend regionBackend
}

// GetRegionId returns the region ID of the given coordinate, or
// OutOfMap if it is not on the map.
func (m *RegionMap) GetRegionId(c hex.Coord) RegionID {
	if !m.td.OnMap(c) {
		return OutOfMap
	}
	return m.backend.regionAt(c)
}

// GetRegionShape returns the region ID of c together with the set of
// all tiles in that region, found by flood fill over the hex neighbour
// graph. c must be on the map.
func (m *RegionMap) GetRegionShape(c hex.Coord) (map[hex.Coord]struct{}, RegionID) {
	if !m.td.OnMap(c) {
		panic(fmt.Sprintf("mapdata: region shape of off-map coordinate %v", c))
	}

	id := m.backend.regionAt(c)
	shape := map[hex.Coord]struct{}{c: {}}
	queue := []hex.Coord{c}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, n := range cur.Neighbours() {
			if _, seen := shape[n]; seen {
				continue
			}
			if m.GetRegionId(n) != id {
				continue
			}
			shape[n] = struct{}{}
			queue = append(queue, n)
		}
	}

	return shape, id
}

// Close releases backing resources. Only the streamed back end holds
// any; for the others this is a no-op.
func (m *RegionMap) Close() error {
	return m.backend.close()
}

// compactBackend looks region IDs up in the run-length representation:
// per row a sorted list of run-start x coordinates, with one ID per
// run.
type compactBackend struct {
	td *TileData

	// offsets[i] is the first entry of row i; a final element holds the
	// total entry count so that every row has an end bound.
	offsets []int
	xcoords []int16
	ids     []byte
}

// NewCompactRegionMap constructs the canonical region map from the
// compact baked data. offsets holds the per-row start entry for each
// row of the map.
func NewCompactRegionMap(td *TileData, offsets []int, xcoords []int16, ids []byte) (*RegionMap, error) {
	rows := int(td.MaxY()) - int(td.MinY()) + 1
	if len(offsets) != rows {
		return nil, fmt.Errorf("compact region data has %d row offsets, map has %d rows", len(offsets), rows)
	}
	if len(ids) != BytesPerID*len(xcoords) {
		return nil, fmt.Errorf("compact region data has %d x-coordinates but %d ID bytes", len(xcoords), len(ids))
	}

	bounded := make([]int, rows+1)
	copy(bounded, offsets)
	bounded[rows] = len(xcoords)

	for i := 0; i < rows; i++ {
		if bounded[i] >= bounded[i+1] {
			return nil, fmt.Errorf("compact region row %d is empty or out of order", i)
		}
		ext, _ := td.RowExtent(td.MinY() + int16(i))
		if xcoords[bounded[i]] != ext.MinX {
			return nil, fmt.Errorf("compact region row %d starts at x=%d, extent starts at %d",
				i, xcoords[bounded[i]], ext.MinX)
		}
	}

	return &RegionMap{
		td: td,
		backend: &compactBackend{
			td:      td,
			offsets: bounded,
			xcoords: xcoords,
			ids:     ids,
		},
	}, nil
}

func (b *compactBackend) regionAt(c hex.Coord) RegionID {
	yInd := int(c.Y) - int(b.td.MinY())
	begin := b.offsets[yInd]
	end := b.offsets[yInd+1]
	row := b.xcoords[begin:end]

	// The first element larger than x; the entry before it is the run
	// containing x. The first run starts at the row's minimum x, so the
	// search can never come out at the row start.
	upper := sort.Search(len(row), func(i int) bool {
		return row[i] > c.X
	})
	entry := begin + upper - 1

	return ID24(b.ids[BytesPerID*entry:])
}

func (b *compactBackend) close() error { return nil }

// arrayBackend reads IDs from the full region-map blob held in memory.
type arrayBackend struct {
	td   *TileData
	data []byte
}

// NewInMemoryRegionMap constructs a region map over the full baked
// blob, loaded entirely into memory.
func NewInMemoryRegionMap(td *TileData, data []byte) (*RegionMap, error) {
	if want := BytesPerID * td.NumTiles(); len(data) != want {
		return nil, fmt.Errorf("region map blob has %d bytes, map has %d tiles (%d bytes)",
			len(data), td.NumTiles(), want)
	}
	return &RegionMap{td: td, backend: &arrayBackend{td: td, data: data}}, nil
}

func (b *arrayBackend) regionAt(c hex.Coord) RegionID {
	return ID24(b.data[b.td.regionOffset(c):])
}

func (b *arrayBackend) close() error { return nil }

// streamBackend reads each ID from the blob file on demand. Slower
// than the in-memory variants but does not hold the blob resident;
// kept as an optional fallback for memory-constrained deployments.
type streamBackend struct {
	td *TileData
	f  *os.File
}

// NewStreamRegionMap constructs a region map that seeks in the given
// blob file for every lookup.
func NewStreamRegionMap(td *TileData, path string) (*RegionMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open region map %s: %w", path, err)
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("stat region map %s: %w", path, err)
	}
	if want := int64(BytesPerID * td.NumTiles()); st.Size() != want {
		f.Close()
		return nil, fmt.Errorf("region map %s has %d bytes, expected %d", path, st.Size(), want)
	}
	return &RegionMap{td: td, backend: &streamBackend{td: td, f: f}}, nil
}

func (b *streamBackend) regionAt(c hex.Coord) RegionID {
	var buf [BytesPerID]byte
	if _, err := b.f.ReadAt(buf[:], int64(b.td.regionOffset(c))); err != nil {
		panic(fmt.Sprintf("mapdata: reading region map blob: %v", err))
	}
	return ID24(buf[:])
}

func (b *streamBackend) close() error { return b.f.Close() }
