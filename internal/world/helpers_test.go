package world

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hexfall/server/internal/config"
	"github.com/hexfall/server/internal/hex"
	"github.com/hexfall/server/internal/mapdata"
)

var testMovement = config.MovementConfig{
	PathL1Range:        30,
	BlockedStepRetries: 3,
}

// newTestMap builds a fully passable square map spanning [-10, 10] in
// both axes, one region per row, with the given safe zones.
func newTestMap(t *testing.T, zones []mapdata.SafeZone) (*mapdata.TileData, *mapdata.BaseMap) {
	t.Helper()

	const minY, maxY, minX, maxX = -10, 10, -10, 10
	width := maxX - minX + 1
	rowBytes := (width + 7) / 8

	var extents []mapdata.RowExtent
	var obstacles []byte
	var offsets []int
	var xcoords []int16
	var ids []byte
	for y := minY; y <= maxY; y++ {
		extents = append(extents, mapdata.RowExtent{MinX: minX, MaxX: maxX})

		row := make([]byte, rowBytes)
		for i := 0; i < width; i++ {
			row[i/8] |= 1 << (i % 8)
		}
		obstacles = append(obstacles, row...)

		offsets = append(offsets, len(xcoords))
		xcoords = append(xcoords, minX)
		var err error
		ids, err = mapdata.AppendID24(ids, mapdata.RegionID(y-minY))
		require.NoError(t, err)
	}

	td, err := mapdata.NewTileData(minY, extents, obstacles)
	require.NoError(t, err)

	rm, err := mapdata.NewCompactRegionMap(td, offsets, xcoords, ids)
	require.NoError(t, err)

	return td, mapdata.NewBaseMap(td, rm, mapdata.NewSafeZones(td, zones))
}

// edgeWeights returns a uniform edge-weight function without
// obstacles.
func edgeWeights(dist hex.Distance) hex.EdgeWeightFunc {
	return func(from, to hex.Coord) hex.Distance {
		return dist
	}
}

// edgesWithObstacle returns a uniform edge-weight function that also
// marks every tile with x == -1 as an obstacle.
func edgesWithObstacle(dist hex.Distance) hex.EdgeWeightFunc {
	return func(from, to hex.Coord) hex.Distance {
		if from.X == -1 || to.X == -1 {
			return hex.NoConnection
		}
		return dist
	}
}

// newMovingUnit creates a test unit at the origin with the given speed
// and waypoints.
func newMovingUnit(id uint64, speed uint32, waypoints ...hex.Coord) *Unit {
	return &Unit{
		ID:        id,
		Owner:     "domob",
		Faction:   mapdata.FactionRed,
		Speed:     speed,
		Waypoints: waypoints,
	}
}

// stepUnit processes n movement ticks for the unit, requiring it to
// still be moving before each one.
func stepUnit(t *testing.T, u *Unit, edges hex.EdgeWeightFunc, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.True(t, u.IsMoving(), "unit stopped early at tick %d", i)
		ProcessUnitMovement(u, edges, testMovement)
	}
}

type milestone struct {
	ticks int
	pos   hex.Coord
}

// expectSteps advances the unit through the milestones: after the
// given number of ticks, the unit must stand at the given position.
// After the last milestone the unit must have stopped.
func expectSteps(t *testing.T, u *Unit, edges hex.EdgeWeightFunc, milestones []milestone) {
	t.Helper()
	for _, m := range milestones {
		stepUnit(t, u, edges, m.ticks)
		require.Equal(t, m.pos, u.Pos)
	}
	require.False(t, u.IsMoving())
}
