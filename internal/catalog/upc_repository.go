package catalog

import (
	"fmt"

	"github.com/lance0/RubyRidge/internal/repository"
	"github.com/lance0/RubyRidge/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type UpcRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *UpcRepository {
	return &UpcRepository{repository: r}
}

func (r *UpcRepository) GetUpcData(upc string) (*models.UpcData, error) {
	var data models.UpcData

	query := r.repository.GoquDBWrapper.
		Select("upc", "name", "caliber", "rounds_per_box").
		From("upc_data").
		Where(goqu.Ex{"upc": upc})

	found, err := query.Executor().ScanStruct(&data)
	if err != nil {
		return nil, fmt.Errorf("error executing SQL statement for UPC data: %w", err)
	}
	if !found {
		return nil, nil
	}

	return &data, nil
}

// PersistUpcData caches a resolved code so the next scan skips the network.
func (r *UpcRepository) PersistUpcData(data models.UpcData) error {
	query := r.repository.GoquDBWrapper.Insert("upc_data").
		Rows(goqu.Record{
			"upc":            data.UPC,
			"name":           data.Name,
			"caliber":        data.Caliber,
			"rounds_per_box": data.RoundsPerBox,
		}).
		OnConflict(
			goqu.DoUpdate(
				"upc",
				goqu.Record{
					"name":           data.Name,
					"caliber":        data.Caliber,
					"rounds_per_box": data.RoundsPerBox,
				},
			),
		)

	if _, err := query.Executor().Exec(); err != nil {
		return fmt.Errorf("failed to upsert UPC data for %s: %w", data.UPC, err)
	}

	return nil
}
