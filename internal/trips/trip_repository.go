package trips

import (
	"errors"
	"fmt"
	"time"

	"github.com/lance0/RubyRidge/internal/repository"
	"github.com/lance0/RubyRidge/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
)

var (
	ErrTripNotFound     = errors.New("trip not found")
	ErrLineItemNotFound = errors.New("trip line item not found")
	ErrTripClosed       = errors.New("trip is completed")
	ErrOverReturn       = errors.New("boxes returned exceed boxes checked out")
	ErrInvalidBoxes     = errors.New("box count must be positive")
)

// TripRepository is the persistence surface of the trip ledger. Methods with
// a Tx suffix run inside the caller's transaction.
type TripRepository interface {
	InsertTrip(req CreateTripRequest, userID *int) (int, error)
	GetTripRow(id int) (*models.Trip, error)
	GetTripForUpdateTx(tx *goqu.TxDatabase, id int) (*models.Trip, error)
	ListTrips(userID *int) ([]models.Trip, error)
	SetTripStatusTx(tx *goqu.TxDatabase, id int, status string) error
	UpdateTripNotes(id int, req UpdateTripNotesRequest) error
	InsertLineItemTx(tx *goqu.TxDatabase, line models.TripLineItem) (int, error)
	GetLineItemTx(tx *goqu.TxDatabase, tripID, lineID int) (*models.TripLineItem, error)
	SetLineCheckedInTx(tx *goqu.TxDatabase, lineID, boxesReturned int) error
	GetLineItems(tripID int) ([]models.TripLineItem, error)
	InsertFirearmUsage(usage models.TripFirearm) (int, error)
	GetFirearmUsage(tripID int) ([]models.TripFirearm, error)
}

type tripRepositoryImpl struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) TripRepository {
	return &tripRepositoryImpl{repository: r}
}

func (r *tripRepositoryImpl) InsertTrip(req CreateTripRequest, userID *int) (int, error) {
	tripDate := req.TripDate
	if tripDate.IsZero() {
		tripDate = time.Now()
	}

	var tripID int
	query := r.repository.GoquDBWrapper.Insert("trips").
		Rows(goqu.Record{
			"user_id":           userID,
			"name":              req.Name,
			"trip_date":         tripDate,
			"location":          req.Location,
			"notes":             req.Notes,
			"status":            models.TripStatusActive,
			"temperature":       req.Temperature,
			"weather_condition": req.WeatherCondition,
			"wind_speed":        req.WindSpeed,
			"humidity":          req.Humidity,
		}).
		Returning("id")

	if _, err := query.Executor().ScanVal(&tripID); err != nil {
		return 0, fmt.Errorf("failed to insert trip record: %w", err)
	}

	return tripID, nil
}

var tripColumns = []interface{}{
	"id", "user_id", "name", "trip_date", "location", "notes", "status",
	"temperature", "weather_condition", "wind_speed", "humidity", "created_at",
}

func (r *tripRepositoryImpl) GetTripRow(id int) (*models.Trip, error) {
	var trip models.Trip

	query := r.repository.GoquDBWrapper.
		Select(tripColumns...).
		From("trips").
		Where(goqu.Ex{"id": id})

	found, err := query.Executor().ScanStruct(&trip)
	if err != nil {
		return nil, fmt.Errorf("error executing SQL statement for trip: %w", err)
	}
	if !found {
		return nil, ErrTripNotFound
	}

	return &trip, nil
}

// GetTripForUpdateTx locks the trip row so concurrent checkout/check-in and
// completion serialize per trip.
func (r *tripRepositoryImpl) GetTripForUpdateTx(tx *goqu.TxDatabase, id int) (*models.Trip, error) {
	var trip models.Trip

	query := tx.
		Select(tripColumns...).
		From("trips").
		Where(goqu.Ex{"id": id}).
		ForUpdate(exp.Wait)

	found, err := query.Executor().ScanStruct(&trip)
	if err != nil {
		return nil, fmt.Errorf("error locking trip row: %w", err)
	}
	if !found {
		return nil, ErrTripNotFound
	}

	return &trip, nil
}

func (r *tripRepositoryImpl) ListTrips(userID *int) ([]models.Trip, error) {
	query := r.repository.GoquDBWrapper.
		Select(tripColumns...).
		From("trips").
		Order(goqu.I("trip_date").Desc(), goqu.I("id").Desc())

	if userID != nil {
		query = query.Where(goqu.Ex{"user_id": *userID})
	}

	var trips []models.Trip
	if err := query.Executor().ScanStructs(&trips); err != nil {
		return nil, fmt.Errorf("error executing SQL statement for trips: %w", err)
	}

	return trips, nil
}

func (r *tripRepositoryImpl) SetTripStatusTx(tx *goqu.TxDatabase, id int, status string) error {
	result, err := tx.Update("trips").
		Set(goqu.Record{"status": status}).
		Where(goqu.Ex{"id": id}).
		Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to update trip status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected for trip %d: %w", id, err)
	}
	if rowsAffected == 0 {
		return ErrTripNotFound
	}

	return nil
}

func (r *tripRepositoryImpl) UpdateTripNotes(id int, req UpdateTripNotesRequest) error {
	record := goqu.Record{}
	if req.Notes != nil {
		record["notes"] = *req.Notes
	}
	if req.Temperature != nil {
		record["temperature"] = *req.Temperature
	}
	if req.WeatherCondition != nil {
		record["weather_condition"] = *req.WeatherCondition
	}
	if req.WindSpeed != nil {
		record["wind_speed"] = *req.WindSpeed
	}
	if req.Humidity != nil {
		record["humidity"] = *req.Humidity
	}

	result, err := r.repository.GoquDBWrapper.Update("trips").
		Set(record).
		Where(goqu.Ex{"id": id}).
		Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to update trip notes: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected for trip %d: %w", id, err)
	}
	if rowsAffected == 0 {
		return ErrTripNotFound
	}

	return nil
}

func (r *tripRepositoryImpl) InsertLineItemTx(tx *goqu.TxDatabase, line models.TripLineItem) (int, error) {
	var lineID int
	query := tx.Insert("trip_line_items").
		Rows(goqu.Record{
			"trip_id":           line.TripID,
			"stock_item_id":     line.StockItemID,
			"name":              line.Name,
			"caliber":           line.Caliber,
			"rounds_per_box":    line.RoundsPerBox,
			"boxes_checked_out": line.BoxesCheckedOut,
			"boxes_checked_in":  line.BoxesCheckedIn,
		}).
		Returning("id")

	if _, err := query.Executor().ScanVal(&lineID); err != nil {
		return 0, fmt.Errorf("failed to insert trip line item: %w", err)
	}

	return lineID, nil
}

var lineColumns = []interface{}{
	"id", "trip_id", "stock_item_id", "name", "caliber", "rounds_per_box",
	"boxes_checked_out", "boxes_checked_in",
}

func (r *tripRepositoryImpl) GetLineItemTx(tx *goqu.TxDatabase, tripID, lineID int) (*models.TripLineItem, error) {
	var line models.TripLineItem

	query := tx.
		Select(lineColumns...).
		From("trip_line_items").
		Where(goqu.Ex{"id": lineID, "trip_id": tripID})

	found, err := query.Executor().ScanStruct(&line)
	if err != nil {
		return nil, fmt.Errorf("error executing SQL statement for trip line item: %w", err)
	}
	if !found {
		return nil, ErrLineItemNotFound
	}

	line.ComputeRoundsUsed()
	return &line, nil
}

func (r *tripRepositoryImpl) SetLineCheckedInTx(tx *goqu.TxDatabase, lineID, boxesReturned int) error {
	result, err := tx.Update("trip_line_items").
		Set(goqu.Record{"boxes_checked_in": boxesReturned}).
		Where(goqu.Ex{"id": lineID}).
		Executor().Exec()
	if err != nil {
		return fmt.Errorf("failed to update trip line item %d: %w", lineID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected for line item %d: %w", lineID, err)
	}
	if rowsAffected == 0 {
		return ErrLineItemNotFound
	}

	return nil
}

func (r *tripRepositoryImpl) GetLineItems(tripID int) ([]models.TripLineItem, error) {
	var lines []models.TripLineItem

	query := r.repository.GoquDBWrapper.
		Select(lineColumns...).
		From("trip_line_items").
		Where(goqu.Ex{"trip_id": tripID}).
		Order(goqu.I("id").Asc())

	if err := query.Executor().ScanStructs(&lines); err != nil {
		return nil, fmt.Errorf("error executing SQL statement for trip line items: %w", err)
	}

	for i := range lines {
		lines[i].ComputeRoundsUsed()
	}

	return lines, nil
}

func (r *tripRepositoryImpl) InsertFirearmUsage(usage models.TripFirearm) (int, error) {
	var usageID int
	query := r.repository.GoquDBWrapper.Insert("trip_firearms").
		Rows(goqu.Record{
			"trip_id":      usage.TripID,
			"firearm_id":   usage.FirearmID,
			"rounds_fired": usage.RoundsFired,
			"notes":        usage.Notes,
		}).
		Returning("id")

	if _, err := query.Executor().ScanVal(&usageID); err != nil {
		return 0, fmt.Errorf("failed to insert trip firearm usage: %w", err)
	}

	return usageID, nil
}

func (r *tripRepositoryImpl) GetFirearmUsage(tripID int) ([]models.TripFirearm, error) {
	var usage []models.TripFirearm

	query := r.repository.GoquDBWrapper.
		Select(
			goqu.I("tf.id"),
			goqu.I("tf.trip_id"),
			goqu.I("tf.firearm_id"),
			goqu.I("f.name").As("firearm_name"),
			goqu.I("tf.rounds_fired"),
			goqu.I("tf.notes"),
		).
		From(goqu.T("trip_firearms").As("tf")).
		LeftJoin(
			goqu.T("firearms").As("f"),
			goqu.On(goqu.Ex{"f.id": goqu.I("tf.firearm_id")}),
		).
		Where(goqu.Ex{"tf.trip_id": tripID}).
		Order(goqu.I("tf.id").Asc())

	if err := query.Executor().ScanStructs(&usage); err != nil {
		return nil, fmt.Errorf("error executing SQL statement for trip firearms: %w", err)
	}

	return usage, nil
}
