package persist

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRangeQueryNamesAreUnique(t *testing.T) {
	first := rangeQueryCounter.Add(1)
	second := rangeQueryCounter.Add(1)
	assert.Greater(t, second, first)
}

func TestRangeQueryJoinClause(t *testing.T) {
	rq := &L1RangeQuery{tableName: fmt.Sprintf("l1rangequery%d", rangeQueryCounter.Add(1))}

	clause := rq.JoinClause()
	assert.Contains(t, clause, "INNER JOIN "+rq.tableName)
	assert.Contains(t, clause, "x = rqx")
	assert.Contains(t, clause, "y BETWEEN rqminy AND rqmaxy")
}
