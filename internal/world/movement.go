package world

import (
	"sort"

	"go.uber.org/zap"

	"github.com/hexfall/server/internal/config"
	"github.com/hexfall/server/internal/hex"
	"github.com/hexfall/server/internal/mapdata"
)

// FactionEdgeWeight returns the movement edge weight for a unit of the
// given faction on the base map, without dynamic obstacles. Entering
// the faction's own starter zone costs a third of the base weight;
// entering another faction's starter zone is forbidden; leaving a zone
// costs the plain base weight.
func FactionEdgeWeight(m *mapdata.BaseMap, f mapdata.Faction) hex.EdgeWeightFunc {
	return func(from, to hex.Coord) hex.Distance {
		w := m.GetEdgeWeight(from, to)
		if w == hex.NoConnection {
			return hex.NoConnection
		}

		starter := m.SafeZones().StarterFor(to)
		switch starter {
		case mapdata.FactionInvalid:
			return w
		case f:
			return w / 3
		}
		return hex.NoConnection
	}
}

// UnitEdgeWeight layers the dynamic obstacles for one unit on top of a
// base edge weight. Buildings block; tiles with a vehicle block unless
// they are the unit's own current tile. The closure reads the unit's
// position live, so it stays correct while the unit moves.
func UnitEdgeWeight(base hex.EdgeWeightFunc, dyn *DynObstacles, u *Unit) hex.EdgeWeightFunc {
	return func(from, to hex.Coord) hex.Distance {
		w := base(from, to)
		if w == hex.NoConnection {
			return hex.NoConnection
		}
		if dyn.IsBuilding(to) {
			return hex.NoConnection
		}
		if to != u.Pos && dyn.HasVehicle(to) {
			return hex.NoConnection
		}
		return w
	}
}

// StopUnit cancels the unit's movement entirely, clearing the
// waypoints and all volatile movement state.
func StopUnit(u *Unit) {
	u.Waypoints = nil
	u.PartialStep = 0
	u.BlockedTurns = 0
	u.ChosenSpeed = 0
	u.Dirty = true
}

// effectiveSpeed computes the unit's speed for this tick: the base
// speed, lowered by a chosen speed if set, then scaled by the combat
// effect percentage. The result may be zero or negative.
func effectiveSpeed(u *Unit) int64 {
	sp := int64(u.Speed)
	if u.ChosenSpeed > 0 && int64(u.ChosenSpeed) < sp {
		sp = int64(u.ChosenSpeed)
	}
	return sp * (100 + int64(u.SpeedPercent)) / 100
}

// ProcessUnitMovement advances one unit along its waypoints using the
// given edge weights. The movement points granted for this tick are
// the effective speed times the milli-tile base unit; each step
// consumes its edge weight from the accumulated points.
func ProcessUnitMovement(u *Unit, edges hex.EdgeWeightFunc, mv config.MovementConfig) {
	if !u.IsMoving() {
		return
	}

	sp := effectiveSpeed(u)
	if sp <= 0 {
		// Slowed to a halt; the unit stays moving and retries next
		// tick.
		return
	}
	u.PartialStep += hex.Distance(sp) * 1000
	u.Dirty = true

	for u.IsMoving() {
		wp := u.Waypoints[0]
		if wp == u.Pos {
			u.Waypoints = u.Waypoints[1:]
			continue
		}

		finder := hex.NewPathFinder(wp)
		if finder.Compute(edges, u.Pos, mv.PathL1Range) == hex.NoConnection {
			// Blocked. Any partial progress into the unreachable tile
			// is lost, and too many blocked turns in a row cancel the
			// movement entirely.
			u.PartialStep = 0
			u.BlockedTurns++
			if u.BlockedTurns > mv.BlockedStepRetries {
				StopUnit(u)
			}
			return
		}

		// The way ahead is free again, even if we cannot afford a
		// full step this tick.
		u.BlockedTurns = 0

		stepper := finder.StepPath(u.Pos)
		for stepper.HasMore() {
			next, cost := stepper.Next()
			if cost > u.PartialStep {
				return
			}
			u.PartialStep -= cost
			u.Pos = next
		}
		u.Waypoints = u.Waypoints[1:]
	}

	// Final waypoint reached.
	StopUnit(u)
}

// ProcessAllMovement runs the movement pipeline for one tick. Units
// are processed in ascending ID order, which is the consensus-defined
// tie-break: when two units contest a destination tile, the lower ID
// claims it and the other one is blocked.
//
// Each unit is lifted out of the dynamic obstacles while it moves and
// reinserted at its final position afterwards, also when the movement
// logic panics.
func ProcessAllMovement(units []*Unit, dyn *DynObstacles, m *mapdata.BaseMap,
	mv config.MovementConfig, log *zap.Logger) {

	sort.Slice(units, func(i, j int) bool {
		return units[i].ID < units[j].ID
	})

	for _, u := range units {
		if !u.IsMoving() {
			continue
		}
		moveUnit(u, dyn, m, mv)
		if !u.IsMoving() && u.Dirty {
			log.Debug("unit finished or cancelled movement",
				zap.Uint64("unit", u.ID),
				zap.String("pos", u.Pos.String()))
		}
	}
}

func moveUnit(u *Unit, dyn *DynObstacles, m *mapdata.BaseMap, mv config.MovementConfig) {
	dyn.RemoveVehicle(u.Pos)
	defer func() {
		dyn.AddVehicle(u.Pos)
	}()

	edges := UnitEdgeWeight(FactionEdgeWeight(m, u.Faction), dyn, u)
	ProcessUnitMovement(u, edges, mv)
}
