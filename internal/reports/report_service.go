package reports

import (
	"errors"

	"github.com/lance0/RubyRidge/pkg/models"
)

var ErrInvalidThreshold = errors.New("threshold levels must satisfy 0 <= critical <= low <= target")

// defaultThresholds mirror the levels the app shipped with before any were
// customized.
var defaultThresholds = map[string]models.Threshold{
	"9mm Luger":      {Caliber: "9mm Luger", Critical: 100, Low: 200, Target: 500},
	".223 Remington": {Caliber: ".223 Remington", Critical: 60, Low: 150, Target: 400},
	"5.56 NATO":      {Caliber: "5.56 NATO", Critical: 60, Low: 150, Target: 400},
	".45 ACP":        {Caliber: ".45 ACP", Critical: 50, Low: 100, Target: 300},
	".22 LR":         {Caliber: ".22 LR", Critical: 150, Low: 300, Target: 1000},
	"12 Gauge":       {Caliber: "12 Gauge", Critical: 25, Low: 50, Target: 200},
}

var fallbackThreshold = models.Threshold{Critical: 50, Low: 100, Target: 500}

// ThresholdStore is the keyed threshold configuration.
type ThresholdStore interface {
	GetThreshold(caliber string) (*models.Threshold, error)
	GetThresholds() ([]models.Threshold, error)
	PersistThreshold(threshold models.Threshold) error
}

// InventoryReader is the read-only snapshot the report consumes. There is no
// mutation path from reporting back into the ledger.
type InventoryReader interface {
	GetCaliberTotals() ([]models.CaliberTotal, error)
}

type ReportService struct {
	store     ThresholdStore
	inventory InventoryReader
}

func NewService(store ThresholdStore, inventory InventoryReader) *ReportService {
	return &ReportService{store: store, inventory: inventory}
}

func (s *ReportService) SetThreshold(threshold models.Threshold) error {
	if threshold.Critical < 0 || threshold.Critical > threshold.Low || threshold.Low > threshold.Target {
		return ErrInvalidThreshold
	}

	return s.store.PersistThreshold(threshold)
}

// ListThresholds returns every explicitly configured threshold. Calibers
// running on defaults are not listed.
func (s *ReportService) ListThresholds() ([]models.Threshold, error) {
	return s.store.GetThresholds()
}

// GetThreshold returns the configured levels for a caliber, falling back to
// the built-in defaults.
func (s *ReportService) GetThreshold(caliber string) (models.Threshold, error) {
	stored, err := s.store.GetThreshold(caliber)
	if err != nil {
		return models.Threshold{}, err
	}
	if stored != nil {
		return *stored, nil
	}

	if def, ok := defaultThresholds[caliber]; ok {
		return def, nil
	}

	fallback := fallbackThreshold
	fallback.Caliber = caliber
	return fallback, nil
}

// StockStatusReport labels every caliber in inventory against its threshold
// levels.
func (s *ReportService) StockStatusReport() ([]models.CaliberStatus, error) {
	totals, err := s.inventory.GetCaliberTotals()
	if err != nil {
		return nil, err
	}

	statuses := make([]models.CaliberStatus, 0, len(totals))
	for _, total := range totals {
		threshold, err := s.GetThreshold(total.Caliber)
		if err != nil {
			return nil, err
		}

		status := models.CaliberStatus{
			Caliber:     total.Caliber,
			TotalRounds: total.TotalRounds,
			Target:      threshold.Target,
		}

		switch {
		case total.TotalRounds <= threshold.Critical:
			status.Level = models.StockLevelCritical
		case total.TotalRounds <= threshold.Low:
			status.Level = models.StockLevelLow
		default:
			status.Level = models.StockLevelOK
		}

		if gap := threshold.Target - total.TotalRounds; gap > 0 {
			status.TargetGap = gap
		}

		statuses = append(statuses, status)
	}

	return statuses, nil
}
