package persist

import (
	"context"
	"fmt"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/hexfall/server/internal/hex"
)

// rangeQueryCounter names the temporary range tables. It is
// process-wide, monotonic and never recycled, so that overlapping
// queries can never collide on a table name.
var rangeQueryCounter atomic.Uint64

// L1RangeQuery is a scoped temporary table plus a matching JOIN clause
// for querying tables with an index on (x, y) within an L1 range of a
// centre. The temporary table has rows (rqx, rqminy, rqmaxy), so that
// "x = rqx AND y BETWEEN rqminy AND rqmaxy" covers the range while
// keeping the index usable for both coordinates.
//
// The table rows actually cover the L-infinity square around the
// centre, which contains the L1 range; callers filter the remainder.
// The table is created by NewL1RangeQuery and dropped by Close, which
// must run before the query scope ends.
type L1RangeQuery struct {
	db        *DB
	tableName string
}

// NewL1RangeQuery creates the temporary range table for the given
// centre and range.
func NewL1RangeQuery(ctx context.Context, db *DB, centre hex.Coord, l1Range int16) (*L1RangeQuery, error) {
	rq := &L1RangeQuery{
		db:        db,
		tableName: fmt.Sprintf("l1rangequery%d", rangeQueryCounter.Add(1)),
	}

	db.log.Debug("creating temporary range table",
		zap.String("table", rq.tableName),
		zap.String("centre", centre.String()),
		zap.Int16("range", l1Range))

	_, err := db.Pool.Exec(ctx, fmt.Sprintf(
		`CREATE TEMPORARY TABLE %s (
			rqx SMALLINT NOT NULL,
			rqminy SMALLINT NOT NULL,
			rqmaxy SMALLINT NOT NULL
		)`, rq.tableName))
	if err != nil {
		return nil, fmt.Errorf("create range table %s: %w", rq.tableName, err)
	}

	for x := int(centre.X) - int(l1Range); x <= int(centre.X)+int(l1Range); x++ {
		_, err := db.Pool.Exec(ctx, fmt.Sprintf(
			`INSERT INTO %s (rqx, rqminy, rqmaxy) VALUES ($1, $2, $3)`, rq.tableName),
			int16(x), int(centre.Y)-int(l1Range), int(centre.Y)+int(l1Range))
		if err != nil {
			return nil, fmt.Errorf("fill range table %s: %w", rq.tableName, err)
		}
	}

	return rq, nil
}

// JoinClause returns the SQL JOIN clause filtering on the range.
func (rq *L1RangeQuery) JoinClause() string {
	return fmt.Sprintf(
		" INNER JOIN %s ON x = rqx AND (y BETWEEN rqminy AND rqmaxy)",
		rq.tableName)
}

// Close drops the temporary table.
func (rq *L1RangeQuery) Close(ctx context.Context) {
	rq.db.log.Debug("dropping temporary range table",
		zap.String("table", rq.tableName))
	if _, err := rq.db.Pool.Exec(ctx,
		fmt.Sprintf(`DROP TABLE IF EXISTS pg_temp.%s`, rq.tableName)); err != nil {
		rq.db.log.Warn("dropping range table failed",
			zap.String("table", rq.tableName), zap.Error(err))
	}
}
