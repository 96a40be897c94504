package persist

import (
	"context"
	"fmt"

	"github.com/hexfall/server/internal/hex"
	"github.com/hexfall/server/internal/mapdata"
	"github.com/hexfall/server/internal/world"
)

type BuildingRepo struct {
	db *DB
}

func NewBuildingRepo(db *DB) *BuildingRepo {
	return &BuildingRepo{db: db}
}

// ListAll loads every building in ascending ID order.
func (r *BuildingRepo) ListAll(ctx context.Context) ([]*world.Building, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT id, type, owner, faction, x, y, rotation
		 FROM buildings ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list buildings: %w", err)
	}
	defer rows.Close()

	var buildings []*world.Building
	for rows.Next() {
		var (
			b        world.Building
			faction  int16
			x, y     int16
			rotation int16
		)
		if err := rows.Scan(&b.ID, &b.Type, &b.Owner, &faction, &x, &y, &rotation); err != nil {
			return nil, fmt.Errorf("scan building: %w", err)
		}
		b.Faction = mapdata.Faction(faction)
		b.Centre = hex.Coord{X: x, Y: y}
		b.Rotation = int(rotation)
		buildings = append(buildings, &b)
	}
	return buildings, rows.Err()
}

// Create inserts a new building and fills in its assigned ID.
func (r *BuildingRepo) Create(ctx context.Context, b *world.Building) error {
	err := r.db.Pool.QueryRow(ctx,
		`INSERT INTO buildings (type, owner, faction, x, y, rotation)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		b.Type, b.Owner, int16(b.Faction), b.Centre.X, b.Centre.Y,
		int16(b.Rotation)).Scan(&b.ID)
	if err != nil {
		return fmt.Errorf("create building: %w", err)
	}
	return nil
}
