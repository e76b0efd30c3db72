package stocks

type StockItemRequest struct {
	Name          string   `json:"name" binding:"required"`
	UPC           string   `json:"upc"`
	Caliber       string   `json:"caliber" binding:"required"`
	RoundsPerBox  int      `json:"rounds_per_box" binding:"required"`
	BoxesOnHand   int      `json:"boxes_on_hand"`
	Notes         string   `json:"notes"`
	PurchasePrice *float64 `json:"purchase_price"`
}

type UpdateStockItemRequest struct {
	Name          *string  `json:"name"`
	UPC           *string  `json:"upc"`
	Caliber       *string  `json:"caliber"`
	RoundsPerBox  *int     `json:"rounds_per_box"`
	BoxesOnHand   *int     `json:"boxes_on_hand"`
	Notes         *string  `json:"notes"`
	PurchasePrice *float64 `json:"purchase_price"`
}

func (r *UpdateStockItemRequest) HasChanges() bool {
	return r.Name != nil || r.UPC != nil || r.Caliber != nil ||
		r.RoundsPerBox != nil || r.BoxesOnHand != nil || r.Notes != nil ||
		r.PurchasePrice != nil
}

type AdjustStockRequest struct {
	DeltaBoxes int `json:"delta_boxes" binding:"required"`
}
