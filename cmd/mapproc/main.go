// mapproc converts the raw map survey files into the compact baked
// format consumed at runtime: the obstacle bit blob, the full and
// compact region blobs and the metadata document.
//
// Usage:
//
//	go run ./cmd/mapproc -obstacle-input obstacles.dat -region-input regions.dat -out-dir data/map
//
// Both inputs list every tile of the map once, as little-endian
// records {int16 x, int16 y, int16 passable} and {int16 x, int16 y,
// int32 region_id} respectively, preceded by two int16 dimension
// counts. The coordinate ranges of the two files must agree exactly.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/hexfall/server/internal/hex"
	"github.com/hexfall/server/internal/mapdata"
)

// tileRecord is one record of either input file.
type tileRecord struct {
	coord    hex.Coord
	passable bool
	region   mapdata.RegionID
}

// rawInput is the fully parsed content of one input file.
type rawInput struct {
	records []tileRecord

	minY, maxY int16
	// Per row, keyed by y: the seen column extent.
	rows map[int16]*mapdata.RowExtent
}

func readInput(path string, withRegion bool) (*rawInput, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r := bufio.NewReader(f)

	n, err := mapdata.ReadInt16(r)
	if err != nil {
		return nil, fmt.Errorf("reading dimensions: %w", err)
	}
	m, err := mapdata.ReadInt16(r)
	if err != nil {
		return nil, fmt.Errorf("reading dimensions: %w", err)
	}
	if n <= 0 || m <= 0 {
		return nil, fmt.Errorf("invalid dimensions %d x %d", n, m)
	}

	in := &rawInput{
		records: make([]tileRecord, 0, int(n)*int(m)),
		rows:    make(map[int16]*mapdata.RowExtent),
	}

	for i := 0; i < int(n)*int(m); i++ {
		var rec tileRecord

		x, err := mapdata.ReadInt16(r)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		y, err := mapdata.ReadInt16(r)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		rec.coord = hex.Coord{X: x, Y: y}

		if withRegion {
			id, err := mapdata.ReadInt32(r)
			if err != nil {
				return nil, fmt.Errorf("record %d: %w", i, err)
			}
			if id < 0 || id >= 1<<24 {
				return nil, fmt.Errorf("record %d: region ID %d out of 24-bit range", i, id)
			}
			rec.region = mapdata.RegionID(id)
		} else {
			passable, err := mapdata.ReadInt16(r)
			if err != nil {
				return nil, fmt.Errorf("record %d: %w", i, err)
			}
			rec.passable = passable != 0
		}

		if len(in.records) == 0 || y < in.minY {
			in.minY = y
		}
		if len(in.records) == 0 || y > in.maxY {
			in.maxY = y
		}
		ext := in.rows[y]
		if ext == nil {
			in.rows[y] = &mapdata.RowExtent{MinX: x, MaxX: x}
		} else {
			if x < ext.MinX {
				ext.MinX = x
			}
			if x > ext.MaxX {
				ext.MaxX = x
			}
		}

		in.records = append(in.records, rec)
	}

	// The record count promised by the header has to be exact.
	if _, err := r.ReadByte(); err == nil {
		return nil, fmt.Errorf("trailing data after %d records", int(n)*int(m))
	}

	return in, nil
}

// extents returns the per-row extents in ascending row order, checking
// that every row in the range is present.
func (in *rawInput) extents() ([]mapdata.RowExtent, error) {
	var res []mapdata.RowExtent
	for y := in.minY; ; y++ {
		ext := in.rows[y]
		if ext == nil {
			return nil, fmt.Errorf("row %d has no tiles", y)
		}
		res = append(res, *ext)
		if y == in.maxY {
			break
		}
	}
	return res, nil
}

func sameExtents(a, b []mapdata.RowExtent) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// process builds all baked outputs from the two parsed inputs.
func process(obstacles, regions *rawInput, log *zap.Logger) (*mapdata.Meta, map[string][]byte, error) {
	if obstacles.minY != regions.minY || obstacles.maxY != regions.maxY {
		return nil, nil, fmt.Errorf("row ranges differ: obstacles %d..%d, regions %d..%d",
			obstacles.minY, obstacles.maxY, regions.minY, regions.maxY)
	}

	extents, err := obstacles.extents()
	if err != nil {
		return nil, nil, err
	}
	regionExtents, err := regions.extents()
	if err != nil {
		return nil, nil, err
	}
	if !sameExtents(extents, regionExtents) {
		return nil, nil, fmt.Errorf("column extents of the two inputs differ")
	}

	td, err := mapdata.NewTileData(obstacles.minY, extents, make([]byte, obstacleBlobSize(extents)))
	if err != nil {
		return nil, nil, err
	}

	// Per-tile values, checking that every tile appears exactly once.
	passable := make([]bool, td.NumTiles())
	regionIDs := make([]mapdata.RegionID, td.NumTiles())
	seen := make([]bool, td.NumTiles())
	for _, rec := range obstacles.records {
		ind := td.TileIndex(rec.coord)
		if seen[ind] {
			return nil, nil, fmt.Errorf("duplicate obstacle record for %v", rec.coord)
		}
		seen[ind] = true
		passable[ind] = rec.passable
	}
	for i := range seen {
		if !seen[i] {
			return nil, nil, fmt.Errorf("obstacle input does not cover every tile")
		}
		seen[i] = false
	}
	for _, rec := range regions.records {
		ind := td.TileIndex(rec.coord)
		if seen[ind] {
			return nil, nil, fmt.Errorf("duplicate region record for %v", rec.coord)
		}
		seen[ind] = true
		regionIDs[ind] = rec.region
	}
	for i := range seen {
		if !seen[i] {
			return nil, nil, fmt.Errorf("region input does not cover every tile")
		}
	}

	// Pack the outputs row by row.
	var obstacleBlob []byte
	var fullRegion []byte
	var xcoordBlob []byte
	var idBlob []byte
	var rows []mapdata.MetaRow
	entries := 0

	for y := td.MinY(); y <= td.MaxY(); y++ {
		ext, _ := td.RowExtent(y)
		width := int(ext.MaxX) - int(ext.MinX) + 1

		rowBits := make([]byte, (width+7)/8)
		rows = append(rows, mapdata.MetaRow{
			MinX:          ext.MinX,
			MaxX:          ext.MaxX,
			CompactOffset: entries,
		})

		var last mapdata.RegionID
		for i := 0; i < width; i++ {
			c := hex.Coord{X: ext.MinX + int16(i), Y: y}
			ind := td.TileIndex(c)

			if passable[ind] {
				rowBits[i/8] |= 1 << (i % 8)
			}

			id := regionIDs[ind]
			if fullRegion, err = mapdata.AppendID24(fullRegion, id); err != nil {
				return nil, nil, err
			}

			if i == 0 || id != last {
				xcoordBlob = mapdata.AppendUint16(xcoordBlob, uint16(c.X))
				if idBlob, err = mapdata.AppendID24(idBlob, id); err != nil {
					return nil, nil, err
				}
				last = id
				entries++
			}
		}

		obstacleBlob = append(obstacleBlob, rowBits...)
	}

	meta := &mapdata.Meta{
		MinY:           td.MinY(),
		MaxY:           td.MaxY(),
		NumTiles:       td.NumTiles(),
		BitDataSize:    len(obstacleBlob),
		RegionMapSize:  len(fullRegion),
		CompactEntries: entries,
		Rows:           rows,
	}

	log.Info("map processed",
		zap.Int("tiles", td.NumTiles()),
		zap.Int("obstacle_bytes", len(obstacleBlob)),
		zap.Int("region_bytes", len(fullRegion)),
		zap.Int("compact_entries", entries))

	return meta, map[string][]byte{
		mapdata.ObstacleFile:      obstacleBlob,
		mapdata.FullRegionMapFile: fullRegion,
		mapdata.RegionXCoordFile:  xcoordBlob,
		mapdata.RegionIDsFile:     idBlob,
	}, nil
}

func obstacleBlobSize(extents []mapdata.RowExtent) int {
	size := 0
	for _, e := range extents {
		width := int(e.MaxX) - int(e.MinX) + 1
		size += (width + 7) / 8
	}
	return size
}

func run() error {
	obstacleInput := flag.String("obstacle-input", "", "file with the raw obstacle data")
	regionInput := flag.String("region-input", "", "file with the raw region data")
	outDir := flag.String("out-dir", "", "output directory for the baked data")
	flag.Parse()

	if *obstacleInput == "" || *regionInput == "" || *outDir == "" {
		return fmt.Errorf("-obstacle-input, -region-input and -out-dir are required")
	}

	log, err := zap.NewDevelopment()
	if err != nil {
		return err
	}
	defer log.Sync()

	// The two inputs are independent until validation, so they are
	// parsed concurrently. This is offline tooling; the runtime engine
	// itself stays single-threaded.
	var obstacles, regions *rawInput
	var g errgroup.Group
	g.Go(func() error {
		var err error
		if obstacles, err = readInput(*obstacleInput, false); err != nil {
			return fmt.Errorf("obstacle input %s: %w", *obstacleInput, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if regions, err = readInput(*regionInput, true); err != nil {
			return fmt.Errorf("region input %s: %w", *regionInput, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	meta, blobs, err := process(obstacles, regions, log)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return err
	}
	for name, blob := range blobs {
		if err := os.WriteFile(filepath.Join(*outDir, name), blob, 0o644); err != nil {
			return err
		}
	}
	rawMeta, err := yaml.Marshal(meta)
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(*outDir, mapdata.MetaFile), rawMeta, 0o644)
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "mapproc: %v\n", err)
		os.Exit(1)
	}
}
