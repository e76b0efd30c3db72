package models

// UpcData is the catalog metadata resolved for a scanned code. It is a
// pre-fill convenience for creating new stock items, never a source of
// truth for existing ones.
type UpcData struct {
	UPC          string `json:"upc" db:"upc"`
	Name         string `json:"name" db:"name"`
	Caliber      string `json:"caliber" db:"caliber"`
	RoundsPerBox int    `json:"rounds_per_box" db:"rounds_per_box"`
}
