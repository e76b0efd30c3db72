package firearms

import (
	"testing"

	"github.com/doug-martin/goqu/v9"
	"github.com/stretchr/testify/assert"
)

// The usage-row guard must be part of the DELETE, otherwise a concurrently
// committed trip_firearms row would be cascaded away with the firearm.
func TestDeleteFirearmGuardsUsageInOneStatement(t *testing.T) {
	db := goqu.New("postgres", nil)

	sql, _, err := deleteFirearmQuery(db, 3).ToSQL()

	assert.NoError(t, err)
	assert.Contains(t, sql, `DELETE FROM "firearms"`)
	assert.Contains(t, sql, `"id" = 3`)
	assert.Contains(t, sql, "NOT EXISTS (SELECT 1 FROM trip_firearms WHERE firearm_id = 3)")
}
