package stocks

import (
	"errors"
	"fmt"

	"github.com/lance0/RubyRidge/internal/repository"
	"github.com/lance0/RubyRidge/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

var (
	ErrStockItemNotFound = errors.New("stock item not found")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrSkuInUse          = errors.New("stock item is referenced by trip line items")
)

type StockRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *StockRepository {
	return &StockRepository{repository: r}
}

func (r *StockRepository) PersistStockItem(req StockItemRequest, userID *int) (*models.StockItem, error) {
	stockItem := models.StockItem{
		Name:          req.Name,
		UPC:           req.UPC,
		Caliber:       req.Caliber,
		RoundsPerBox:  req.RoundsPerBox,
		BoxesOnHand:   req.BoxesOnHand,
		Notes:         req.Notes,
		PurchasePrice: req.PurchasePrice,
		UserID:        userID,
	}

	query := r.repository.GoquDBWrapper.Insert("stock_items").
		Rows(goqu.Record{
			"name":           req.Name,
			"upc":            req.UPC,
			"caliber":        req.Caliber,
			"rounds_per_box": req.RoundsPerBox,
			"boxes_on_hand":  req.BoxesOnHand,
			"notes":          req.Notes,
			"purchase_price": req.PurchasePrice,
			"user_id":        userID,
		}).
		Returning("id")

	if _, err := query.Executor().ScanVal(&stockItem.ID); err != nil {
		return nil, fmt.Errorf("failed to insert stock item record: %w", err)
	}

	stockItem.ComputeTotalRounds()
	return &stockItem, nil
}

func (r *StockRepository) GetStockItem(id int) (*models.StockItem, error) {
	var item models.StockItem

	query := r.repository.GoquDBWrapper.
		Select("id", "name", "upc", "caliber", "rounds_per_box", "boxes_on_hand", "notes", "purchase_price", "user_id").
		From("stock_items").
		Where(goqu.Ex{"id": id})

	found, err := query.Executor().ScanStruct(&item)
	if err != nil {
		return nil, fmt.Errorf("error executing SQL statement for stock item: %w", err)
	}
	if !found {
		return nil, ErrStockItemNotFound
	}

	item.ComputeTotalRounds()
	return &item, nil
}

// GetStockItemTx reads a stock item inside the caller's transaction, used
// when the catalog snapshot must be consistent with the stock decrement.
func (r *StockRepository) GetStockItemTx(tx *goqu.TxDatabase, id int) (*models.StockItem, error) {
	var item models.StockItem

	query := tx.
		Select("id", "name", "upc", "caliber", "rounds_per_box", "boxes_on_hand", "notes", "purchase_price", "user_id").
		From("stock_items").
		Where(goqu.Ex{"id": id})

	found, err := query.Executor().ScanStruct(&item)
	if err != nil {
		return nil, fmt.Errorf("error executing SQL statement for stock item: %w", err)
	}
	if !found {
		return nil, ErrStockItemNotFound
	}

	item.ComputeTotalRounds()
	return &item, nil
}

func (r *StockRepository) GetStockItems() ([]models.StockItem, error) {
	var items []models.StockItem

	query := r.repository.GoquDBWrapper.
		Select("id", "name", "upc", "caliber", "rounds_per_box", "boxes_on_hand", "notes", "purchase_price", "user_id").
		From("stock_items").
		Order(goqu.I("caliber").Asc(), goqu.I("name").Asc())

	if err := query.Executor().ScanStructs(&items); err != nil {
		return nil, fmt.Errorf("error executing SQL statement for stock items: %w", err)
	}

	for i := range items {
		items[i].ComputeTotalRounds()
	}

	return items, nil
}

func (r *StockRepository) GetCaliberTotals() ([]models.CaliberTotal, error) {
	var totals []models.CaliberTotal

	query := r.repository.GoquDBWrapper.
		Select(
			goqu.I("caliber"),
			goqu.L("SUM(rounds_per_box * boxes_on_hand)").As("total_rounds"),
		).
		From("stock_items").
		GroupBy("caliber").
		Order(goqu.I("caliber").Asc())

	if err := query.Executor().ScanStructs(&totals); err != nil {
		return nil, fmt.Errorf("error executing SQL statement for caliber totals: %w", err)
	}

	return totals, nil
}

func (r *StockRepository) UpdateStockItem(id int, req UpdateStockItemRequest) error {
	record := goqu.Record{}
	if req.Name != nil {
		record["name"] = *req.Name
	}
	if req.UPC != nil {
		record["upc"] = *req.UPC
	}
	if req.Caliber != nil {
		record["caliber"] = *req.Caliber
	}
	if req.RoundsPerBox != nil {
		record["rounds_per_box"] = *req.RoundsPerBox
	}
	if req.BoxesOnHand != nil {
		record["boxes_on_hand"] = *req.BoxesOnHand
	}
	if req.Notes != nil {
		record["notes"] = *req.Notes
	}
	if req.PurchasePrice != nil {
		record["purchase_price"] = *req.PurchasePrice
	}

	result, err := r.repository.GoquDBWrapper.Update("stock_items").
		Set(record).
		Where(goqu.Ex{"id": id}).
		Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to update stock item %d: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected for stock item %d: %w", id, err)
	}
	if rowsAffected == 0 {
		return ErrStockItemNotFound
	}

	return nil
}

// AdjustStockTx applies a signed box delta inside the caller's transaction.
// The WHERE clause keeps boxes_on_hand from going negative; a concurrent
// checkout of the last box loses the race here and gets
// ErrInsufficientStock instead of a partial write.
func (r *StockRepository) AdjustStockTx(tx *goqu.TxDatabase, id int, deltaBoxes int) error {
	result, err := tx.Update("stock_items").
		Set(goqu.Record{
			"boxes_on_hand": goqu.L("boxes_on_hand + ?", deltaBoxes),
		}).
		Where(goqu.C("id").Eq(id)).
		Where(goqu.L("boxes_on_hand + ? >= 0", deltaBoxes)).
		Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to adjust stock for item %d: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected for item %d: %w", id, err)
	}

	if rowsAffected == 0 {
		var exists bool
		found, err := tx.Select(goqu.L("TRUE")).
			From("stock_items").
			Where(goqu.Ex{"id": id}).
			Executor().ScanVal(&exists)
		if err != nil {
			return fmt.Errorf("failed to look up stock item %d: %w", id, err)
		}
		if !found {
			return ErrStockItemNotFound
		}
		return ErrInsufficientStock
	}

	return nil
}

// AdjustStock is the direct-edit path used outside checkout/check-in.
func (r *StockRepository) AdjustStock(id int, deltaBoxes int) error {
	return repository.WithTransaction(r.repository.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		return r.AdjustStockTx(tx, id, deltaBoxes)
	})
}

func (r *StockRepository) CountLineItemReferences(id int) (int64, error) {
	count, err := r.repository.GoquDBWrapper.
		From("trip_line_items").
		Where(goqu.Ex{"stock_item_id": id}).
		Count()
	if err != nil {
		return 0, fmt.Errorf("failed to count line item references for item %d: %w", id, err)
	}

	return count, nil
}

// DeleteStockItem removes a SKU. Deletion is rejected while any trip line
// item, even on a completed trip, still references it. The reference guard
// is part of the DELETE itself; a checkout committing a line item between a
// separate count and the delete would otherwise let the FK null out a live
// reference.
func (r *StockRepository) DeleteStockItem(id int) error {
	result, err := deleteStockItemQuery(r.repository.GoquDBWrapper, id).
		Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to delete stock item %d: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected for stock item %d: %w", id, err)
	}
	if rowsAffected == 0 {
		references, err := r.CountLineItemReferences(id)
		if err != nil {
			return err
		}
		if references > 0 {
			return ErrSkuInUse
		}
		return ErrStockItemNotFound
	}

	return nil
}

func deleteStockItemQuery(db *goqu.Database, id int) *goqu.DeleteDataset {
	return db.Delete("stock_items").
		Where(goqu.C("id").Eq(id)).
		Where(goqu.L("NOT EXISTS (SELECT 1 FROM trip_line_items WHERE stock_item_id = ?)", id))
}
