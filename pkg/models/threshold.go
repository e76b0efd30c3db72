package models

// Threshold holds the per-caliber alert levels for stock reporting.
type Threshold struct {
	Caliber  string `json:"caliber" db:"caliber"`
	Critical int    `json:"critical" db:"critical"`
	Low      int    `json:"low" db:"low"`
	Target   int    `json:"target" db:"target"`
}

const (
	StockLevelCritical = "critical"
	StockLevelLow      = "low"
	StockLevelOK       = "ok"
)

// CaliberStatus is one row of the stock status report.
type CaliberStatus struct {
	Caliber     string `json:"caliber"`
	TotalRounds int    `json:"total_rounds"`
	Level       string `json:"level"`
	Target      int    `json:"target"`
	TargetGap   int    `json:"target_gap"`
}
