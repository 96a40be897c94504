package persist

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/hexfall/server/internal/hex"
	"github.com/hexfall/server/internal/mapdata"
	"github.com/hexfall/server/internal/world"
)

type UnitRepo struct {
	db *DB
}

func NewUnitRepo(db *DB) *UnitRepo {
	return &UnitRepo{db: db}
}

const unitColumns = `id, owner, faction, x, y, speed, chosen_speed,
	speed_percent, partial_step, blocked_turns, wp_x, wp_y`

func scanUnit(row pgx.Row) (*world.Unit, error) {
	var (
		u                  world.Unit
		faction            int16
		x, y               int16
		speed, chosenSpeed int32
		partialStep        int64
		blockedTurns       int32
		wpX, wpY           []int16
	)
	if err := row.Scan(&u.ID, &u.Owner, &faction, &x, &y, &speed,
		&chosenSpeed, &u.SpeedPercent, &partialStep, &blockedTurns,
		&wpX, &wpY); err != nil {
		return nil, err
	}

	if len(wpX) != len(wpY) {
		return nil, fmt.Errorf("unit %d has mismatched waypoint arrays (%d vs %d)",
			u.ID, len(wpX), len(wpY))
	}

	u.Faction = mapdata.Faction(faction)
	u.Pos = hex.Coord{X: x, Y: y}
	u.Speed = uint32(speed)
	u.ChosenSpeed = uint32(chosenSpeed)
	u.PartialStep = hex.Distance(partialStep)
	u.BlockedTurns = uint32(blockedTurns)
	for i := range wpX {
		u.Waypoints = append(u.Waypoints, hex.Coord{X: wpX[i], Y: wpY[i]})
	}
	return &u, nil
}

// ListAll loads every unit in ascending ID order. The order is part of
// consensus: it decides which unit wins a contested tile.
func (r *UnitRepo) ListAll(ctx context.Context) ([]*world.Unit, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+unitColumns+` FROM units ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list units: %w", err)
	}
	defer rows.Close()

	var units []*world.Unit
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan unit: %w", err)
		}
		units = append(units, u)
	}
	return units, rows.Err()
}

// ListInRange loads the units within the given L1 range of a centre,
// in ascending ID order, using a temporary range table to make the
// (x, y) index usable.
func (r *UnitRepo) ListInRange(ctx context.Context, centre hex.Coord, l1Range int16) ([]*world.Unit, error) {
	rq, err := NewL1RangeQuery(ctx, r.db, centre, l1Range)
	if err != nil {
		return nil, err
	}
	defer rq.Close(ctx)

	rows, err := r.db.Pool.Query(ctx,
		`SELECT `+unitColumns+` FROM units`+rq.JoinClause()+` ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list units in range: %w", err)
	}
	defer rows.Close()

	var units []*world.Unit
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan unit: %w", err)
		}
		if hex.DistanceL1(u.Pos, centre) > int(l1Range) {
			// The temp table covers the L-infinity superset; filter
			// the corners out here.
			continue
		}
		units = append(units, u)
	}
	return units, rows.Err()
}

// Save writes a unit's mutable movement state back.
func (r *UnitRepo) Save(ctx context.Context, u *world.Unit) error {
	wpX := make([]int16, 0, len(u.Waypoints))
	wpY := make([]int16, 0, len(u.Waypoints))
	for _, wp := range u.Waypoints {
		wpX = append(wpX, wp.X)
		wpY = append(wpY, wp.Y)
	}

	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE units SET x = $2, y = $3, chosen_speed = $4,
		        partial_step = $5, blocked_turns = $6, wp_x = $7, wp_y = $8
		 WHERE id = $1`,
		u.ID, u.Pos.X, u.Pos.Y, int32(u.ChosenSpeed),
		int64(u.PartialStep), int32(u.BlockedTurns), wpX, wpY)
	if err != nil {
		return fmt.Errorf("save unit %d: %w", u.ID, err)
	}
	if tag.RowsAffected() != 1 {
		return fmt.Errorf("save unit %d: not found", u.ID)
	}
	u.Dirty = false
	return nil
}

// Create inserts a new unit and fills in its assigned ID.
func (r *UnitRepo) Create(ctx context.Context, u *world.Unit) error {
	err := r.db.Pool.QueryRow(ctx,
		`INSERT INTO units (owner, faction, x, y, speed)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		u.Owner, int16(u.Faction), u.Pos.X, u.Pos.Y, int32(u.Speed)).Scan(&u.ID)
	if err != nil {
		return fmt.Errorf("create unit: %w", err)
	}
	return nil
}
