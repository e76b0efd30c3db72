package firearms

import (
	"errors"
	"fmt"

	"github.com/lance0/RubyRidge/internal/repository"
	"github.com/lance0/RubyRidge/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

var (
	ErrFirearmNotFound = errors.New("firearm not found")
	ErrFirearmInUse    = errors.New("firearm is referenced by range trip records")
)

type FirearmRepository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *FirearmRepository {
	return &FirearmRepository{repository: r}
}

var firearmColumns = []interface{}{
	"id", "user_id", "name", "make", "model", "caliber", "firearm_type",
	"serial_number", "purchase_date", "purchase_price", "notes", "status",
	"image_url", "created_at", "updated_at",
}

func (r *FirearmRepository) PersistFirearm(req FirearmRequest, userID *int) (*models.Firearm, error) {
	firearm := models.Firearm{
		UserID:        userID,
		Name:          req.Name,
		Make:          req.Make,
		Model:         req.Model,
		Caliber:       req.Caliber,
		Type:          req.Type,
		SerialNumber:  req.SerialNumber,
		PurchaseDate:  req.PurchaseDate,
		PurchasePrice: req.PurchasePrice,
		Notes:         req.Notes,
		Status:        "active",
		ImageURL:      req.ImageURL,
	}

	query := r.repository.GoquDBWrapper.Insert("firearms").
		Rows(goqu.Record{
			"user_id":        userID,
			"name":           req.Name,
			"make":           req.Make,
			"model":          req.Model,
			"caliber":        req.Caliber,
			"firearm_type":   req.Type,
			"serial_number":  req.SerialNumber,
			"purchase_date":  req.PurchaseDate,
			"purchase_price": req.PurchasePrice,
			"notes":          req.Notes,
			"image_url":      req.ImageURL,
		}).
		Returning("id")

	if _, err := query.Executor().ScanVal(&firearm.ID); err != nil {
		return nil, fmt.Errorf("failed to insert firearm record: %w", err)
	}

	return &firearm, nil
}

func (r *FirearmRepository) GetFirearm(id int) (*models.Firearm, error) {
	var firearm models.Firearm

	query := r.repository.GoquDBWrapper.
		Select(firearmColumns...).
		From("firearms").
		Where(goqu.Ex{"id": id})

	found, err := query.Executor().ScanStruct(&firearm)
	if err != nil {
		return nil, fmt.Errorf("error executing SQL statement for firearm: %w", err)
	}
	if !found {
		return nil, ErrFirearmNotFound
	}

	return &firearm, nil
}

func (r *FirearmRepository) GetFirearms(userID *int) ([]models.Firearm, error) {
	query := r.repository.GoquDBWrapper.
		Select(firearmColumns...).
		From("firearms").
		Order(goqu.I("make").Asc(), goqu.I("model").Asc())

	if userID != nil {
		query = query.Where(goqu.Ex{"user_id": *userID})
	}

	var firearms []models.Firearm
	if err := query.Executor().ScanStructs(&firearms); err != nil {
		return nil, fmt.Errorf("error executing SQL statement for firearms: %w", err)
	}

	return firearms, nil
}

// GetFilterValues returns the distinct values of a column, used by the
// collection view filters (caliber, make).
func (r *FirearmRepository) GetFilterValues(column string, userID *int) ([]string, error) {
	query := r.repository.GoquDBWrapper.
		Select(goqu.I(column)).
		From("firearms").
		Order(goqu.I(column).Asc()).
		Distinct()

	if userID != nil {
		query = query.Where(goqu.Ex{"user_id": *userID})
	}

	var values []string
	if err := query.Executor().ScanVals(&values); err != nil {
		return nil, fmt.Errorf("error executing SQL statement for firearm filters: %w", err)
	}

	return values, nil
}

func (r *FirearmRepository) UpdateFirearm(id int, req UpdateFirearmRequest) error {
	record := goqu.Record{"updated_at": goqu.L("NOW()")}
	if req.Name != nil {
		record["name"] = *req.Name
	}
	if req.Make != nil {
		record["make"] = *req.Make
	}
	if req.Model != nil {
		record["model"] = *req.Model
	}
	if req.Caliber != nil {
		record["caliber"] = *req.Caliber
	}
	if req.Type != nil {
		record["firearm_type"] = *req.Type
	}
	if req.SerialNumber != nil {
		record["serial_number"] = *req.SerialNumber
	}
	if req.PurchaseDate != nil {
		record["purchase_date"] = *req.PurchaseDate
	}
	if req.PurchasePrice != nil {
		record["purchase_price"] = *req.PurchasePrice
	}
	if req.Notes != nil {
		record["notes"] = *req.Notes
	}
	if req.Status != nil {
		record["status"] = *req.Status
	}
	if req.ImageURL != nil {
		record["image_url"] = *req.ImageURL
	}

	result, err := r.repository.GoquDBWrapper.Update("firearms").
		Set(record).
		Where(goqu.Ex{"id": id}).
		Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to update firearm %d: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected for firearm %d: %w", id, err)
	}
	if rowsAffected == 0 {
		return ErrFirearmNotFound
	}

	return nil
}

// DeleteFirearm removes a firearm unless trip usage rows still reference it,
// mirroring the SKU referential guard. The guard is part of the DELETE so a
// usage row committed concurrently cannot be cascaded away.
func (r *FirearmRepository) DeleteFirearm(id int) error {
	result, err := deleteFirearmQuery(r.repository.GoquDBWrapper, id).
		Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to delete firearm %d: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected for firearm %d: %w", id, err)
	}
	if rowsAffected == 0 {
		references, err := r.repository.GoquDBWrapper.
			From("trip_firearms").
			Where(goqu.Ex{"firearm_id": id}).
			Count()
		if err != nil {
			return fmt.Errorf("failed to count trip references for firearm %d: %w", id, err)
		}
		if references > 0 {
			return ErrFirearmInUse
		}
		return ErrFirearmNotFound
	}

	return nil
}

func deleteFirearmQuery(db *goqu.Database, id int) *goqu.DeleteDataset {
	return db.Delete("firearms").
		Where(goqu.C("id").Eq(id)).
		Where(goqu.L("NOT EXISTS (SELECT 1 FROM trip_firearms WHERE firearm_id = ?)", id))
}
