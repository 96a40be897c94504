package mapdata

import (
	"github.com/hexfall/server/internal/hex"
)

// bucketSize is the number of tiles covered by one lazily allocated
// bucket. Mostly-default maps (e.g. dynamic obstacles from vehicles)
// only ever materialise a handful of buckets.
const bucketSize = 1 << 16

func numBuckets(td *TileData) int {
	return (td.NumTiles() + bucketSize - 1) / bucketSize
}

// DynTiles is a map from every tile of the world to a value. Storage
// is bucketed: a bucket is only allocated once a tile in it is first
// mutated, and unmaterialised buckets read as the default value.
type DynTiles[T any] struct {
	td      *TileData
	def     T
	buckets [][]T
}

// NewDynTiles constructs the map with all tiles set to def.
func NewDynTiles[T any](td *TileData, def T) *DynTiles[T] {
	return &DynTiles[T]{
		td:      td,
		def:     def,
		buckets: make([][]T, numBuckets(td)),
	}
}

// Access returns a mutable reference to the tile's value, materialising
// its bucket if necessary. c must be on the map.
func (d *DynTiles[T]) Access(c hex.Coord) *T {
	ind := d.td.TileIndex(c)
	b := ind / bucketSize
	if d.buckets[b] == nil {
		bucket := make([]T, bucketSize)
		for i := range bucket {
			bucket[i] = d.def
		}
		d.buckets[b] = bucket
	}
	return &d.buckets[b][ind%bucketSize]
}

// Get reads the tile's value without allocating. c must be on the map.
func (d *DynTiles[T]) Get(c hex.Coord) T {
	ind := d.td.TileIndex(c)
	b := ind / bucketSize
	if d.buckets[b] == nil {
		return d.def
	}
	return d.buckets[b][ind%bucketSize]
}

// Set writes the tile's value. c must be on the map.
func (d *DynTiles[T]) Set(c hex.Coord, val T) {
	*d.Access(c) = val
}

// BitTiles is the boolean variant of DynTiles. It keeps the same lazy
// bucket behaviour but stores one bit per tile.
type BitTiles struct {
	td      *TileData
	def     bool
	buckets [][]uint64
}

const wordsPerBucket = bucketSize / 64

// NewBitTiles constructs the bitmap with all tiles set to def.
func NewBitTiles(td *TileData, def bool) *BitTiles {
	return &BitTiles{
		td:      td,
		def:     def,
		buckets: make([][]uint64, numBuckets(td)),
	}
}

func (d *BitTiles) bucket(b int) []uint64 {
	if d.buckets[b] == nil {
		bucket := make([]uint64, wordsPerBucket)
		if d.def {
			for i := range bucket {
				bucket[i] = ^uint64(0)
			}
		}
		d.buckets[b] = bucket
	}
	return d.buckets[b]
}

// Get reads the tile's bit without allocating. c must be on the map.
func (d *BitTiles) Get(c hex.Coord) bool {
	ind := d.td.TileIndex(c)
	b := ind / bucketSize
	if d.buckets[b] == nil {
		return d.def
	}
	i := ind % bucketSize
	return d.buckets[b][i/64]&(1<<(i%64)) != 0
}

// Set writes the tile's bit, materialising its bucket if necessary.
// c must be on the map.
func (d *BitTiles) Set(c hex.Coord, val bool) {
	ind := d.td.TileIndex(c)
	bucket := d.bucket(ind / bucketSize)
	i := ind % bucketSize
	if val {
		bucket[i/64] |= 1 << (i % 64)
	} else {
		bucket[i/64] &^= 1 << (i % 64)
	}
}
