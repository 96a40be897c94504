package mapdata

import (
	"github.com/hexfall/server/internal/hex"
)

// BaseEdgeWeight is the travel cost of one step between two passable
// tiles on the base map. Movement speeds are expressed in the same
// milli-tile unit.
const BaseEdgeWeight hex.Distance = 1000

// BaseMap bundles the static map tables: tile extent and obstacles,
// the region map and the safe zones. It is built once per process and
// immutable afterwards.
type BaseMap struct {
	tiles   *TileData
	regions *RegionMap
	zones   *SafeZones
}

// NewBaseMap wraps the given static tables.
func NewBaseMap(tiles *TileData, regions *RegionMap, zones *SafeZones) *BaseMap {
	return &BaseMap{tiles: tiles, regions: regions, zones: zones}
}

// Tiles returns the underlying tile tables.
func (m *BaseMap) Tiles() *TileData { return m.tiles }

// Regions returns the region map.
func (m *BaseMap) Regions() *RegionMap { return m.regions }

// SafeZones returns the safe-zone layer.
func (m *BaseMap) SafeZones() *SafeZones { return m.zones }

// IsOnMap checks whether the coordinate is within the map extent.
func (m *BaseMap) IsOnMap(c hex.Coord) bool {
	return m.tiles.OnMap(c)
}

// IsPassable checks the obstacle layer. Off-map tiles are not
// passable.
func (m *BaseMap) IsPassable(c hex.Coord) bool {
	return m.tiles.Passable(c)
}

// GetRegionId returns the region ID of the coordinate, or OutOfMap if
// it is not on the map.
func (m *BaseMap) GetRegionId(c hex.Coord) RegionID {
	return m.regions.GetRegionId(c)
}

// GetEdgeWeight returns the base-map cost for stepping between two
// neighbouring tiles, or NoConnection if either side is impassable.
func (m *BaseMap) GetEdgeWeight(from, to hex.Coord) hex.Distance {
	if m.IsPassable(from) && m.IsPassable(to) {
		return BaseEdgeWeight
	}
	return hex.NoConnection
}
