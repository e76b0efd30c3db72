package stocks

import (
	"testing"

	"github.com/doug-martin/goqu/v9"
	"github.com/stretchr/testify/assert"
)

// The line-item reference guard must live inside the DELETE itself. A
// separate count would let a checkout commit a reference between the count
// and the delete, and the SET NULL FK would then orphan the fresh line.
func TestDeleteStockItemGuardsReferencesInOneStatement(t *testing.T) {
	db := goqu.New("postgres", nil)

	sql, _, err := deleteStockItemQuery(db, 5).ToSQL()

	assert.NoError(t, err)
	assert.Contains(t, sql, `DELETE FROM "stock_items"`)
	assert.Contains(t, sql, `"id" = 5`)
	assert.Contains(t, sql, "NOT EXISTS (SELECT 1 FROM trip_line_items WHERE stock_item_id = 5)")
}
