package world

import (
	"fmt"

	"github.com/hexfall/server/internal/config"
	"github.com/hexfall/server/internal/hex"
	"github.com/hexfall/server/internal/mapdata"
)

// FootprintTemplates maps building type names to their footprint tile
// offsets, as declared in the configuration.
type FootprintTemplates map[string][]hex.Difference

// TemplatesFromConfig converts the configured building types into
// footprint templates.
func TemplatesFromConfig(types []config.BuildingType) FootprintTemplates {
	tpl := make(FootprintTemplates, len(types))
	for _, bt := range types {
		offsets := make([]hex.Difference, 0, len(bt.Tiles))
		for _, tile := range bt.Tiles {
			offsets = append(offsets, hex.Difference{X: tile[0], Y: tile[1]})
		}
		tpl[bt.Name] = offsets
	}
	return tpl
}

// BuildingShape computes the tiles covered by a building footprint,
// rotated clockwise by the given number of 60 degree steps and
// translated to the centre.
func BuildingShape(template []hex.Difference, rotation int, centre hex.Coord) []hex.Coord {
	shape := make([]hex.Coord, 0, len(template))
	for _, off := range template {
		shape = append(shape, centre.Add(off.RotateCW(rotation)))
	}
	return shape
}

// DynObstacles is the in-memory overlay of vehicles and building
// footprints on the map. It is rebuilt from the store at the start of
// every tick and kept up to date while units move.
type DynObstacles struct {
	templates FootprintTemplates

	// vehicles counts vehicles per tile, so that stacked vehicles on
	// one tile still answer "any vehicle here" correctly.
	vehicles *mapdata.SparseTileMap[uint32]

	// buildings marks every tile covered by a building footprint.
	buildings *mapdata.BitTiles
}

// NewDynObstacles constructs an empty overlay, as used for offline
// path queries.
func NewDynObstacles(td *mapdata.TileData, templates FootprintTemplates) *DynObstacles {
	return &DynObstacles{
		templates: templates,
		vehicles:  mapdata.NewSparseTileMap[uint32](td, 0),
		buildings: mapdata.NewBitTiles(td, false),
	}
}

// NewDynObstaclesFromWorld constructs an overlay populated with all
// the given units and buildings.
func NewDynObstaclesFromWorld(td *mapdata.TileData, templates FootprintTemplates,
	units []*Unit, buildings []*Building) *DynObstacles {

	dyn := NewDynObstacles(td, templates)
	for _, u := range units {
		dyn.AddVehicle(u.Pos)
	}
	for _, b := range buildings {
		if _, ok := dyn.AddBuilding(b.Type, b.Rotation, b.Centre); !ok {
			panic(fmt.Sprintf("world: stored buildings overlap at %v", b.Centre))
		}
	}
	return dyn
}

// AddVehicle records a vehicle on the tile.
func (d *DynObstacles) AddVehicle(c hex.Coord) {
	d.vehicles.Set(c, d.vehicles.Get(c)+1)
}

// RemoveVehicle removes one vehicle from the tile. Removing from an
// empty tile is a programming error.
func (d *DynObstacles) RemoveVehicle(c hex.Coord) {
	cnt := d.vehicles.Get(c)
	if cnt == 0 {
		panic(fmt.Sprintf("world: removing vehicle from empty tile %v", c))
	}
	d.vehicles.Set(c, cnt-1)
}

// HasVehicle checks whether any vehicle is on the tile.
func (d *DynObstacles) HasVehicle(c hex.Coord) bool {
	return d.vehicles.Get(c) > 0
}

// IsBuilding checks whether the tile is covered by a building.
func (d *DynObstacles) IsBuilding(c hex.Coord) bool {
	return d.buildings.Get(c)
}

// IsFree checks whether the tile has neither a vehicle nor a building.
func (d *DynObstacles) IsFree(c hex.Coord) bool {
	return !d.HasVehicle(c) && !d.IsBuilding(c)
}

// AddBuilding marks the footprint of a building of the given type,
// rotated and placed at centre, and returns the covered tiles.
// Buildings may not overlap each other: if any footprint tile is
// already a building, nothing is changed and ok is false. Overlap
// with vehicles is permitted.
func (d *DynObstacles) AddBuilding(buildingType string, rotation int, centre hex.Coord) (shape []hex.Coord, ok bool) {
	template, found := d.templates[buildingType]
	if !found {
		panic(fmt.Sprintf("world: unknown building type %q", buildingType))
	}

	shape = BuildingShape(template, rotation, centre)
	for _, c := range shape {
		if d.buildings.Get(c) {
			return nil, false
		}
	}
	for _, c := range shape {
		d.buildings.Set(c, true)
	}
	return shape, true
}

// RemoveBuilding clears the footprint of a building previously added
// with the same type, rotation and centre.
func (d *DynObstacles) RemoveBuilding(buildingType string, rotation int, centre hex.Coord) {
	template, found := d.templates[buildingType]
	if !found {
		panic(fmt.Sprintf("world: unknown building type %q", buildingType))
	}

	for _, c := range BuildingShape(template, rotation, centre) {
		if !d.buildings.Get(c) {
			panic(fmt.Sprintf("world: removing building tile %v that is not set", c))
		}
		d.buildings.Set(c, false)
	}
}
