package models

// StockItem is one distinct ammunition product in inventory. TotalRounds is
// always derived from RoundsPerBox and BoxesOnHand, never stored.
type StockItem struct {
	ID            int      `json:"id" db:"id"`
	Name          string   `json:"name" db:"name"`
	UPC           string   `json:"upc" db:"upc"`
	Caliber       string   `json:"caliber" db:"caliber"`
	RoundsPerBox  int      `json:"rounds_per_box" db:"rounds_per_box"`
	BoxesOnHand   int      `json:"boxes_on_hand" db:"boxes_on_hand"`
	TotalRounds   int      `json:"total_rounds" db:"-"`
	Notes         string   `json:"notes" db:"notes"`
	PurchasePrice *float64 `json:"purchase_price,omitempty" db:"purchase_price"`
	UserID        *int     `json:"user_id,omitempty" db:"user_id"`
}

func (s *StockItem) ComputeTotalRounds() {
	s.TotalRounds = s.RoundsPerBox * s.BoxesOnHand
}

func (s *StockItem) CreateLogView() AuditLog {
	return AuditLog{
		ResourceID:   s.ID,
		ResourceType: "stock_item",
	}
}

// CaliberTotal is the aggregate round count for one caliber across inventory.
type CaliberTotal struct {
	Caliber     string `json:"caliber" db:"caliber"`
	TotalRounds int    `json:"total_rounds" db:"total_rounds"`
}

// InventoryOverview is the list view: every item plus per-caliber totals.
type InventoryOverview struct {
	Items         []StockItem    `json:"items"`
	CaliberTotals []CaliberTotal `json:"caliber_totals"`
	TotalRounds   int            `json:"total_rounds"`
}
