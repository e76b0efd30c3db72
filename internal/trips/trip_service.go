package trips

import (
	"fmt"

	"github.com/lance0/RubyRidge/internal/repository"
	"github.com/lance0/RubyRidge/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

// StockLedger is the slice of the inventory ledger the trip ledger mutates.
// Checkout and check-in always go through these transactional methods so
// stock movement and line-item bookkeeping commit or roll back together.
type StockLedger interface {
	GetStockItemTx(tx *goqu.TxDatabase, id int) (*models.StockItem, error)
	AdjustStockTx(tx *goqu.TxDatabase, id int, deltaBoxes int) error
}

type TripService struct {
	r     *repository.Repository
	tr    TripRepository
	stock StockLedger
	txRun func(*goqu.Database, func(tx *goqu.TxDatabase) error) error
}

func NewService(r *repository.Repository, tr TripRepository, stock StockLedger) *TripService {
	return &TripService{r: r, tr: tr, stock: stock, txRun: repository.WithTransaction}
}

func (s *TripService) CreateTrip(req CreateTripRequest, userID *int) (*models.Trip, error) {
	tripID, err := s.tr.InsertTrip(req, userID)
	if err != nil {
		return nil, err
	}

	return s.tr.GetTripRow(tripID)
}

// Checkout moves boxes from inventory into the trip's custody. The guarded
// stock decrement runs before the line item is recorded, in one transaction,
// so a failed decrement leaves no trace and a recorded line always has its
// stock accounted for.
func (s *TripService) Checkout(tripID, stockItemID, boxes int) (*models.TripLineItem, error) {
	if boxes <= 0 {
		return nil, ErrInvalidBoxes
	}

	var line models.TripLineItem

	err := s.txRun(s.r.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		trip, err := s.tr.GetTripForUpdateTx(tx, tripID)
		if err != nil {
			return err
		}
		if !trip.IsActive() {
			return ErrTripClosed
		}

		item, err := s.stock.GetStockItemTx(tx, stockItemID)
		if err != nil {
			return err
		}

		if err := s.stock.AdjustStockTx(tx, stockItemID, -boxes); err != nil {
			return err
		}

		line = models.TripLineItem{
			TripID:          tripID,
			StockItemID:     &stockItemID,
			Name:            item.Name,
			Caliber:         item.Caliber,
			RoundsPerBox:    item.RoundsPerBox,
			BoxesCheckedOut: boxes,
		}

		lineID, err := s.tr.InsertLineItemTx(tx, line)
		if err != nil {
			return fmt.Errorf("failed to record checkout line: %w", err)
		}
		line.ID = lineID

		return nil
	})
	if err != nil {
		return nil, err
	}

	line.ComputeRoundsUsed()
	return &line, nil
}

// Checkin records how many of a line's boxes came back. Repeated calls
// overwrite rather than accumulate; stock is adjusted by the delta from the
// previously recorded value, so re-submitting the same count is a no-op.
func (s *TripService) Checkin(tripID, lineID, boxesReturned int) (*models.TripLineItem, error) {
	if boxesReturned < 0 {
		return nil, ErrInvalidBoxes
	}

	var line *models.TripLineItem

	err := s.txRun(s.r.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		trip, err := s.tr.GetTripForUpdateTx(tx, tripID)
		if err != nil {
			return err
		}
		if !trip.IsActive() {
			return ErrTripClosed
		}

		line, err = s.tr.GetLineItemTx(tx, tripID, lineID)
		if err != nil {
			return err
		}

		if boxesReturned > line.BoxesCheckedOut {
			return ErrOverReturn
		}

		delta := boxesReturned - line.BoxesCheckedIn
		if delta != 0 && line.StockItemID != nil {
			if err := s.stock.AdjustStockTx(tx, *line.StockItemID, delta); err != nil {
				return err
			}
		}

		if err := s.tr.SetLineCheckedInTx(tx, lineID, boxesReturned); err != nil {
			return err
		}

		line.BoxesCheckedIn = boxesReturned
		line.ComputeRoundsUsed()
		return nil
	})
	if err != nil {
		return nil, err
	}

	return line, nil
}

// CompleteTrip flips active to completed, a terminal transition. Outstanding
// boxes are not auto-restocked; whatever was never checked back in counts as
// used, and the caller sees that through the status change rather than a
// silent inventory mutation.
func (s *TripService) CompleteTrip(tripID int) (*models.Trip, error) {
	err := s.txRun(s.r.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		trip, err := s.tr.GetTripForUpdateTx(tx, tripID)
		if err != nil {
			return err
		}
		if !trip.IsActive() {
			return ErrTripClosed
		}

		return s.tr.SetTripStatusTx(tx, tripID, models.TripStatusCompleted)
	})
	if err != nil {
		return nil, err
	}

	return s.tr.GetTripRow(tripID)
}

func (s *TripService) GetTrip(tripID int) (*models.Trip, error) {
	trip, err := s.tr.GetTripRow(tripID)
	if err != nil {
		return nil, err
	}

	lines, err := s.tr.GetLineItems(tripID)
	if err != nil {
		return nil, err
	}
	trip.LineItems = lines

	firearms, err := s.tr.GetFirearmUsage(tripID)
	if err != nil {
		return nil, err
	}
	trip.Firearms = firearms

	return trip, nil
}

func (s *TripService) ListTrips(userID *int) ([]models.Trip, error) {
	return s.tr.ListTrips(userID)
}

func (s *TripService) UpdateNotes(tripID int, req UpdateTripNotesRequest) (*models.Trip, error) {
	// Informational fields stay editable after completion.
	if err := s.tr.UpdateTripNotes(tripID, req); err != nil {
		return nil, err
	}

	return s.tr.GetTripRow(tripID)
}

// Summarize aggregates a trip's line items. Pure read, no side effects.
func (s *TripService) Summarize(tripID int) (*models.TripSummary, error) {
	if _, err := s.tr.GetTripRow(tripID); err != nil {
		return nil, err
	}

	lines, err := s.tr.GetLineItems(tripID)
	if err != nil {
		return nil, err
	}

	summary := models.TripSummary{TripID: tripID}
	byCaliber := map[string]int{}
	var order []string

	for _, line := range lines {
		summary.TotalBoxesOut += line.BoxesCheckedOut
		summary.TotalBoxesIn += line.BoxesCheckedIn
		summary.TotalRoundsUsed += line.RoundsUsed

		if _, seen := byCaliber[line.Caliber]; !seen {
			order = append(order, line.Caliber)
		}
		byCaliber[line.Caliber] += line.RoundsUsed
	}

	for _, caliber := range order {
		summary.ByCaliber = append(summary.ByCaliber, models.CaliberTotal{
			Caliber:     caliber,
			TotalRounds: byCaliber[caliber],
		})
	}

	return &summary, nil
}

func (s *TripService) AddFirearmUsage(tripID int, req FirearmUsageRequest) (*models.TripFirearm, error) {
	if req.RoundsFired < 0 {
		return nil, ErrInvalidBoxes
	}

	trip, err := s.tr.GetTripRow(tripID)
	if err != nil {
		return nil, err
	}
	if !trip.IsActive() {
		return nil, ErrTripClosed
	}

	usage := models.TripFirearm{
		TripID:      tripID,
		FirearmID:   req.FirearmID,
		RoundsFired: req.RoundsFired,
		Notes:       req.Notes,
	}

	usageID, err := s.tr.InsertFirearmUsage(usage)
	if err != nil {
		return nil, err
	}
	usage.ID = usageID

	return &usage, nil
}
