// Package world holds the mutable per-tick game state on top of the
// static map tables: the units and buildings, the dynamic-obstacle
// overlay derived from them, and the movement pipeline that advances
// units along their waypoints. Everything here runs single-threaded
// inside the tick; processing order is part of consensus.
package world

import (
	"github.com/hexfall/server/internal/hex"
	"github.com/hexfall/server/internal/mapdata"
)

// Unit is one movable vehicle on the map. The movement pipeline
// mutates Pos, Waypoints and the volatile movement fields; everything
// else is owned by other subsystems.
type Unit struct {
	ID      uint64
	Owner   string
	Faction mapdata.Faction
	Pos     hex.Coord

	// Speed is the base movement speed in tiles per tick.
	Speed uint32

	// ChosenSpeed optionally lowers the speed below the base value;
	// zero means no override. Values above the base speed have no
	// effect.
	ChosenSpeed uint32

	// SpeedPercent is the combat-effect modifier in percent. It may
	// push the effective speed to zero or below, in which case the
	// unit makes no progress but keeps its movement state.
	SpeedPercent int32

	// PartialStep accumulates movement points towards the next tile,
	// in the milli-tile unit of the base edge weight.
	PartialStep hex.Distance

	// BlockedTurns counts consecutive ticks in which the unit could
	// not progress towards its next waypoint.
	BlockedTurns uint32

	// Waypoints is the remaining route; the unit always moves towards
	// the first entry.
	Waypoints []hex.Coord

	// Dirty marks units whose state changed this tick and has to be
	// written back to the store.
	Dirty bool
}

// IsMoving reports whether the unit still has waypoints to follow.
func (u *Unit) IsMoving() bool {
	return len(u.Waypoints) > 0
}

// Building is one placed building. Its footprint is derived from the
// per-type template, rotated and translated to the centre.
type Building struct {
	ID      uint64
	Type    string
	Owner   string
	Faction mapdata.Faction
	Centre  hex.Coord

	// Rotation is the clockwise rotation of the footprint template in
	// 60 degree steps.
	Rotation int
}
