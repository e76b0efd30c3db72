package reports

import (
	"fmt"

	"github.com/lance0/RubyRidge/internal/repository"
	"github.com/lance0/RubyRidge/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type ThresholdRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *ThresholdRepository {
	return &ThresholdRepository{repository: r}
}

func (r *ThresholdRepository) GetThreshold(caliber string) (*models.Threshold, error) {
	var threshold models.Threshold

	query := r.repository.GoquDBWrapper.
		Select("caliber", "critical", "low", "target").
		From("thresholds").
		Where(goqu.Ex{"caliber": caliber})

	found, err := query.Executor().ScanStruct(&threshold)
	if err != nil {
		return nil, fmt.Errorf("error executing SQL statement for threshold: %w", err)
	}
	if !found {
		return nil, nil
	}

	return &threshold, nil
}

func (r *ThresholdRepository) GetThresholds() ([]models.Threshold, error) {
	var thresholds []models.Threshold

	query := r.repository.GoquDBWrapper.
		Select("caliber", "critical", "low", "target").
		From("thresholds").
		Order(goqu.I("caliber").Asc())

	if err := query.Executor().ScanStructs(&thresholds); err != nil {
		return nil, fmt.Errorf("error executing SQL statement for thresholds: %w", err)
	}

	return thresholds, nil
}

func (r *ThresholdRepository) PersistThreshold(threshold models.Threshold) error {
	query := r.repository.GoquDBWrapper.Insert("thresholds").
		Rows(goqu.Record{
			"caliber":  threshold.Caliber,
			"critical": threshold.Critical,
			"low":      threshold.Low,
			"target":   threshold.Target,
		}).
		OnConflict(
			goqu.DoUpdate(
				"caliber",
				goqu.Record{
					"critical": threshold.Critical,
					"low":      threshold.Low,
					"target":   threshold.Target,
				},
			),
		)

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to upsert threshold for %s: %w", threshold.Caliber, err)
	}

	return nil
}
