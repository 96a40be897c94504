package mapdata

import (
	"github.com/hexfall/server/internal/hex"
)

// zoneEntry is the per-tile classification stored in the safe-zone
// map. It fits four bits, so two entries share one byte. The faction
// entries use the numeric faction values.
type zoneEntry uint8

const (
	zoneNone    = zoneEntry(FactionInvalid)
	zoneRed     = zoneEntry(FactionRed)
	zoneGreen   = zoneEntry(FactionGreen)
	zoneBlue    = zoneEntry(FactionBlue)
	zoneNeutral zoneEntry = 4
)

// SafeZone is one declared no-combat circle from the configuration.
// Faction tags the circle as a starter zone; FactionInvalid marks a
// neutral safe zone.
type SafeZone struct {
	Centre  hex.Coord
	Radius  int
	Faction Faction
}

// SafeZones holds the precomputed safe- and starter-zone classification
// of every map tile for quick access during path finding and combat
// checks.
type SafeZones struct {
	td   *TileData
	data []byte
}

// NewSafeZones paints the declared zone circles into the per-tile map.
func NewSafeZones(td *TileData, zones []SafeZone) *SafeZones {
	sz := &SafeZones{
		td:   td,
		data: make([]byte, (td.NumTiles()+1)/2),
	}

	for _, z := range zones {
		entry := zoneNeutral
		if z.Faction != FactionInvalid {
			entry = zoneEntry(z.Faction)
		}

		for dy := -z.Radius; dy <= z.Radius; dy++ {
			for dx := -z.Radius; dx <= z.Radius; dx++ {
				c := hex.Coord{
					X: z.Centre.X + int16(dx),
					Y: z.Centre.Y + int16(dy),
				}
				if hex.DistanceL1(c, z.Centre) > z.Radius {
					continue
				}
				if !td.OnMap(c) {
					continue
				}
				sz.setEntry(c, entry)
			}
		}
	}

	return sz
}

func (sz *SafeZones) position(c hex.Coord) (int, uint) {
	ind := sz.td.TileIndex(c)
	return ind / 2, uint(ind%2) * 4
}

func (sz *SafeZones) entry(c hex.Coord) zoneEntry {
	if !sz.td.OnMap(c) {
		return zoneNone
	}
	ind, shift := sz.position(c)
	return zoneEntry(sz.data[ind]>>shift) & 0x0F
}

func (sz *SafeZones) setEntry(c hex.Coord, e zoneEntry) {
	ind, shift := sz.position(c)
	sz.data[ind] &^= 0x0F << shift
	sz.data[ind] |= byte(e) << shift
}

// IsNoCombat reports whether combat is forbidden on the tile. This is
// the case inside every starter zone as well as the neutral safe
// zones.
func (sz *SafeZones) IsNoCombat(c hex.Coord) bool {
	return sz.entry(c) != zoneNone
}

// StarterFor returns the faction whose starter zone covers the tile,
// or FactionInvalid if it is not a starter zone.
func (sz *SafeZones) StarterFor(c hex.Coord) Faction {
	switch e := sz.entry(c); e {
	case zoneRed, zoneGreen, zoneBlue:
		return Faction(e)
	}
	return FactionInvalid
}
