package trips

import (
	"errors"
	"testing"

	"github.com/lance0/RubyRidge/internal/repository"
	"github.com/lance0/RubyRidge/internal/stocks"
	"github.com/lance0/RubyRidge/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockTripRepository struct {
	mock.Mock
}

func (m *MockTripRepository) InsertTrip(req CreateTripRequest, userID *int) (int, error) {
	args := m.Called(req, userID)
	return args.Int(0), args.Error(1)
}

func (m *MockTripRepository) GetTripRow(id int) (*models.Trip, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Trip), args.Error(1)
}

func (m *MockTripRepository) GetTripForUpdateTx(tx *goqu.TxDatabase, id int) (*models.Trip, error) {
	args := m.Called(tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Trip), args.Error(1)
}

func (m *MockTripRepository) ListTrips(userID *int) ([]models.Trip, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Trip), args.Error(1)
}

func (m *MockTripRepository) SetTripStatusTx(tx *goqu.TxDatabase, id int, status string) error {
	args := m.Called(tx, id, status)
	return args.Error(0)
}

func (m *MockTripRepository) UpdateTripNotes(id int, req UpdateTripNotesRequest) error {
	args := m.Called(id, req)
	return args.Error(0)
}

func (m *MockTripRepository) InsertLineItemTx(tx *goqu.TxDatabase, line models.TripLineItem) (int, error) {
	args := m.Called(tx, line)
	return args.Int(0), args.Error(1)
}

func (m *MockTripRepository) GetLineItemTx(tx *goqu.TxDatabase, tripID, lineID int) (*models.TripLineItem, error) {
	args := m.Called(tx, tripID, lineID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TripLineItem), args.Error(1)
}

func (m *MockTripRepository) SetLineCheckedInTx(tx *goqu.TxDatabase, lineID, boxesReturned int) error {
	args := m.Called(tx, lineID, boxesReturned)
	return args.Error(0)
}

func (m *MockTripRepository) GetLineItems(tripID int) ([]models.TripLineItem, error) {
	args := m.Called(tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TripLineItem), args.Error(1)
}

func (m *MockTripRepository) InsertFirearmUsage(usage models.TripFirearm) (int, error) {
	args := m.Called(usage)
	return args.Int(0), args.Error(1)
}

func (m *MockTripRepository) GetFirearmUsage(tripID int) ([]models.TripFirearm, error) {
	args := m.Called(tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.TripFirearm), args.Error(1)
}

type MockStockLedger struct {
	mock.Mock
}

func (m *MockStockLedger) GetStockItemTx(tx *goqu.TxDatabase, id int) (*models.StockItem, error) {
	args := m.Called(tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StockItem), args.Error(1)
}

func (m *MockStockLedger) AdjustStockTx(tx *goqu.TxDatabase, id int, deltaBoxes int) error {
	args := m.Called(tx, id, deltaBoxes)
	return args.Error(0)
}

// newLedgerService builds a service whose transaction runner invokes the
// closure directly, so the checkout and check-in paths run against mocks.
func newLedgerService(tr TripRepository, stock StockLedger) *TripService {
	service := NewService(&repository.Repository{}, tr, stock)
	service.txRun = func(_ *goqu.Database, fn func(tx *goqu.TxDatabase) error) error {
		return fn(nil)
	}
	return service
}

func lineItem(caliber string, roundsPerBox, out, in int) models.TripLineItem {
	line := models.TripLineItem{
		Caliber:         caliber,
		RoundsPerBox:    roundsPerBox,
		BoxesCheckedOut: out,
		BoxesCheckedIn:  in,
	}
	line.ComputeRoundsUsed()
	return line
}

func TestCheckoutRejectsNonPositiveBoxes(t *testing.T) {
	service := NewService(nil, new(MockTripRepository), new(MockStockLedger))

	for _, boxes := range []int{0, -3} {
		_, err := service.Checkout(1, 1, boxes)
		assert.ErrorIs(t, err, ErrInvalidBoxes)
	}
}

func TestCheckinRejectsNegativeBoxes(t *testing.T) {
	service := NewService(nil, new(MockTripRepository), new(MockStockLedger))

	_, err := service.Checkin(1, 1, -1)
	assert.ErrorIs(t, err, ErrInvalidBoxes)
}

func TestGetTripEmbedsLinesAndFirearms(t *testing.T) {
	mockRepo := new(MockTripRepository)
	mockRepo.On("GetTripRow", 7).Return(&models.Trip{ID: 7, Status: models.TripStatusActive}, nil)
	mockRepo.On("GetLineItems", 7).Return([]models.TripLineItem{
		lineItem("9mm Luger", 50, 4, 1),
	}, nil)
	mockRepo.On("GetFirearmUsage", 7).Return([]models.TripFirearm{
		{ID: 1, TripID: 7, FirearmID: 3, RoundsFired: 100},
	}, nil)

	service := NewService(nil, mockRepo, new(MockStockLedger))

	trip, err := service.GetTrip(7)

	assert.NoError(t, err)
	assert.Len(t, trip.LineItems, 1)
	assert.Len(t, trip.Firearms, 1)
	mockRepo.AssertExpectations(t)
}

func TestGetTripNotFound(t *testing.T) {
	mockRepo := new(MockTripRepository)
	mockRepo.On("GetTripRow", 99).Return(nil, ErrTripNotFound)

	service := NewService(nil, mockRepo, new(MockStockLedger))

	_, err := service.GetTrip(99)

	assert.ErrorIs(t, err, ErrTripNotFound)
}

func TestSummarizeAggregatesByCaliber(t *testing.T) {
	mockRepo := new(MockTripRepository)
	mockRepo.On("GetTripRow", 7).Return(&models.Trip{ID: 7}, nil)
	mockRepo.On("GetLineItems", 7).Return([]models.TripLineItem{
		lineItem("9mm Luger", 50, 4, 1),
		lineItem(".223 Remington", 20, 5, 5),
		lineItem("9mm Luger", 50, 2, 0),
	}, nil)

	service := NewService(nil, mockRepo, new(MockStockLedger))

	summary, err := service.Summarize(7)

	assert.NoError(t, err)
	assert.Equal(t, 11, summary.TotalBoxesOut)
	assert.Equal(t, 6, summary.TotalBoxesIn)
	assert.Equal(t, 250, summary.TotalRoundsUsed)

	// Calibers keep first-seen order, every round counted once.
	assert.Len(t, summary.ByCaliber, 2)
	assert.Equal(t, "9mm Luger", summary.ByCaliber[0].Caliber)
	assert.Equal(t, 250, summary.ByCaliber[0].TotalRounds)
	assert.Equal(t, ".223 Remington", summary.ByCaliber[1].Caliber)
	assert.Equal(t, 0, summary.ByCaliber[1].TotalRounds)
}

func TestSummarizeEmptyTrip(t *testing.T) {
	mockRepo := new(MockTripRepository)
	mockRepo.On("GetTripRow", 7).Return(&models.Trip{ID: 7}, nil)
	mockRepo.On("GetLineItems", 7).Return([]models.TripLineItem{}, nil)

	service := NewService(nil, mockRepo, new(MockStockLedger))

	summary, err := service.Summarize(7)

	assert.NoError(t, err)
	assert.Equal(t, 0, summary.TotalBoxesOut)
	assert.Equal(t, 0, summary.TotalRoundsUsed)
	assert.Empty(t, summary.ByCaliber)
}

func TestAddFirearmUsage(t *testing.T) {
	tests := []struct {
		name        string
		trip        *models.Trip
		tripErr     error
		req         FirearmUsageRequest
		setupMock   func(*MockTripRepository)
		expectedErr error
	}{
		{
			name: "records usage on active trip",
			trip: &models.Trip{ID: 7, Status: models.TripStatusActive},
			req:  FirearmUsageRequest{FirearmID: 3, RoundsFired: 150},
			setupMock: func(m *MockTripRepository) {
				m.On("InsertFirearmUsage", mock.MatchedBy(func(usage models.TripFirearm) bool {
					return usage.TripID == 7 && usage.FirearmID == 3 && usage.RoundsFired == 150
				})).Return(12, nil)
			},
		},
		{
			name:        "rejects completed trip",
			trip:        &models.Trip{ID: 7, Status: models.TripStatusCompleted},
			req:         FirearmUsageRequest{FirearmID: 3, RoundsFired: 150},
			setupMock:   func(m *MockTripRepository) {},
			expectedErr: ErrTripClosed,
		},
		{
			name:        "rejects negative rounds",
			req:         FirearmUsageRequest{FirearmID: 3, RoundsFired: -1},
			setupMock:   func(m *MockTripRepository) {},
			expectedErr: ErrInvalidBoxes,
		},
		{
			name:        "trip not found",
			tripErr:     ErrTripNotFound,
			req:         FirearmUsageRequest{FirearmID: 3, RoundsFired: 150},
			setupMock:   func(m *MockTripRepository) {},
			expectedErr: ErrTripNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockTripRepository)
			if tt.trip != nil || tt.tripErr != nil {
				mockRepo.On("GetTripRow", 7).Return(tt.trip, tt.tripErr)
			}
			tt.setupMock(mockRepo)

			service := NewService(nil, mockRepo, new(MockStockLedger))

			usage, err := service.AddFirearmUsage(7, tt.req)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, 12, usage.ID)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestUpdateNotes(t *testing.T) {
	mockRepo := new(MockTripRepository)
	notes := "windy day, new optic"
	req := UpdateTripNotesRequest{Notes: &notes}
	mockRepo.On("UpdateTripNotes", 7, req).Return(nil)
	mockRepo.On("GetTripRow", 7).Return(&models.Trip{ID: 7, Notes: notes, Status: models.TripStatusCompleted}, nil)

	service := NewService(nil, mockRepo, new(MockStockLedger))

	trip, err := service.UpdateNotes(7, req)

	assert.NoError(t, err)
	assert.Equal(t, notes, trip.Notes)
}

func TestUpdateNotesRepositoryError(t *testing.T) {
	mockRepo := new(MockTripRepository)
	notes := "x"
	req := UpdateTripNotesRequest{Notes: &notes}
	mockRepo.On("UpdateTripNotes", 7, req).Return(errors.New("db error"))

	service := NewService(nil, mockRepo, new(MockStockLedger))

	_, err := service.UpdateNotes(7, req)

	assert.Error(t, err)
}

func TestCheckoutDebitsStockAndSnapshotsLine(t *testing.T) {
	mockRepo := new(MockTripRepository)
	mockStock := new(MockStockLedger)

	mockRepo.On("GetTripForUpdateTx", mock.Anything, 7).
		Return(&models.Trip{ID: 7, Status: models.TripStatusActive}, nil)
	mockStock.On("GetStockItemTx", mock.Anything, 5).
		Return(&models.StockItem{ID: 5, Name: "CCI Blazer Brass 9mm", Caliber: "9mm Luger", RoundsPerBox: 50, BoxesOnHand: 5}, nil)
	mockStock.On("AdjustStockTx", mock.Anything, 5, -3).Return(nil)
	mockRepo.On("InsertLineItemTx", mock.Anything, mock.MatchedBy(func(line models.TripLineItem) bool {
		return line.TripID == 7 &&
			line.StockItemID != nil && *line.StockItemID == 5 &&
			line.Caliber == "9mm Luger" &&
			line.RoundsPerBox == 50 &&
			line.BoxesCheckedOut == 3
	})).Return(12, nil)

	service := newLedgerService(mockRepo, mockStock)

	line, err := service.Checkout(7, 5, 3)

	assert.NoError(t, err)
	assert.Equal(t, 12, line.ID)
	assert.Equal(t, 3, line.BoxesCheckedOut)
	assert.Equal(t, 150, line.RoundsUsed)
	mockRepo.AssertExpectations(t)
	mockStock.AssertExpectations(t)
}

func TestCheckoutOnCompletedTripLeavesStockAlone(t *testing.T) {
	mockRepo := new(MockTripRepository)
	mockStock := new(MockStockLedger)

	mockRepo.On("GetTripForUpdateTx", mock.Anything, 7).
		Return(&models.Trip{ID: 7, Status: models.TripStatusCompleted}, nil)

	service := newLedgerService(mockRepo, mockStock)

	_, err := service.Checkout(7, 5, 3)

	assert.ErrorIs(t, err, ErrTripClosed)
	mockStock.AssertNotCalled(t, "AdjustStockTx", mock.Anything, mock.Anything, mock.Anything)
	mockRepo.AssertNotCalled(t, "InsertLineItemTx", mock.Anything, mock.Anything)
}

func TestCheckoutInsufficientStockRecordsNoLine(t *testing.T) {
	mockRepo := new(MockTripRepository)
	mockStock := new(MockStockLedger)

	mockRepo.On("GetTripForUpdateTx", mock.Anything, 7).
		Return(&models.Trip{ID: 7, Status: models.TripStatusActive}, nil)
	mockStock.On("GetStockItemTx", mock.Anything, 5).
		Return(&models.StockItem{ID: 5, Caliber: "9mm Luger", RoundsPerBox: 50, BoxesOnHand: 2}, nil)
	mockStock.On("AdjustStockTx", mock.Anything, 5, -3).Return(stocks.ErrInsufficientStock)

	service := newLedgerService(mockRepo, mockStock)

	_, err := service.Checkout(7, 5, 3)

	assert.ErrorIs(t, err, stocks.ErrInsufficientStock)
	mockRepo.AssertNotCalled(t, "InsertLineItemTx", mock.Anything, mock.Anything)
}

func TestCheckinRestocksReturnedBoxes(t *testing.T) {
	// Five boxes on hand, three checked out, one comes back: the delta
	// restock is +1 and the two unreturned boxes count as 100 rounds used.
	mockRepo := new(MockTripRepository)
	mockStock := new(MockStockLedger)
	itemID := 5

	mockRepo.On("GetTripForUpdateTx", mock.Anything, 7).
		Return(&models.Trip{ID: 7, Status: models.TripStatusActive}, nil)
	mockRepo.On("GetLineItemTx", mock.Anything, 7, 12).
		Return(&models.TripLineItem{ID: 12, TripID: 7, StockItemID: &itemID, Caliber: "9mm Luger", RoundsPerBox: 50, BoxesCheckedOut: 3}, nil)
	mockStock.On("AdjustStockTx", mock.Anything, 5, 1).Return(nil)
	mockRepo.On("SetLineCheckedInTx", mock.Anything, 12, 1).Return(nil)

	service := newLedgerService(mockRepo, mockStock)

	line, err := service.Checkin(7, 12, 1)

	assert.NoError(t, err)
	assert.Equal(t, 1, line.BoxesCheckedIn)
	assert.Equal(t, 100, line.RoundsUsed)
	mockRepo.AssertExpectations(t)
	mockStock.AssertExpectations(t)
}

func TestCheckinSameCountIsNoOpOnStock(t *testing.T) {
	mockRepo := new(MockTripRepository)
	mockStock := new(MockStockLedger)
	itemID := 5

	mockRepo.On("GetTripForUpdateTx", mock.Anything, 7).
		Return(&models.Trip{ID: 7, Status: models.TripStatusActive}, nil)
	mockRepo.On("GetLineItemTx", mock.Anything, 7, 12).
		Return(&models.TripLineItem{ID: 12, TripID: 7, StockItemID: &itemID, Caliber: "9mm Luger", RoundsPerBox: 50, BoxesCheckedOut: 3, BoxesCheckedIn: 1}, nil)
	mockRepo.On("SetLineCheckedInTx", mock.Anything, 12, 1).Return(nil)

	service := newLedgerService(mockRepo, mockStock)

	line, err := service.Checkin(7, 12, 1)

	assert.NoError(t, err)
	assert.Equal(t, 1, line.BoxesCheckedIn)
	mockStock.AssertNotCalled(t, "AdjustStockTx", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckinOverReturnMutatesNothing(t *testing.T) {
	mockRepo := new(MockTripRepository)
	mockStock := new(MockStockLedger)
	itemID := 5

	mockRepo.On("GetTripForUpdateTx", mock.Anything, 7).
		Return(&models.Trip{ID: 7, Status: models.TripStatusActive}, nil)
	mockRepo.On("GetLineItemTx", mock.Anything, 7, 12).
		Return(&models.TripLineItem{ID: 12, TripID: 7, StockItemID: &itemID, RoundsPerBox: 50, BoxesCheckedOut: 3}, nil)

	service := newLedgerService(mockRepo, mockStock)

	_, err := service.Checkin(7, 12, 4)

	assert.ErrorIs(t, err, ErrOverReturn)
	mockStock.AssertNotCalled(t, "AdjustStockTx", mock.Anything, mock.Anything, mock.Anything)
	mockRepo.AssertNotCalled(t, "SetLineCheckedInTx", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckinOnCompletedTripLeavesStockAlone(t *testing.T) {
	mockRepo := new(MockTripRepository)
	mockStock := new(MockStockLedger)

	mockRepo.On("GetTripForUpdateTx", mock.Anything, 7).
		Return(&models.Trip{ID: 7, Status: models.TripStatusCompleted}, nil)

	service := newLedgerService(mockRepo, mockStock)

	_, err := service.Checkin(7, 12, 1)

	assert.ErrorIs(t, err, ErrTripClosed)
	mockStock.AssertNotCalled(t, "AdjustStockTx", mock.Anything, mock.Anything, mock.Anything)
	mockRepo.AssertNotCalled(t, "SetLineCheckedInTx", mock.Anything, mock.Anything, mock.Anything)
}

func TestCompleteTripDoesNotRestockOutstandingBoxes(t *testing.T) {
	mockRepo := new(MockTripRepository)
	mockStock := new(MockStockLedger)

	mockRepo.On("GetTripForUpdateTx", mock.Anything, 7).
		Return(&models.Trip{ID: 7, Status: models.TripStatusActive}, nil)
	mockRepo.On("SetTripStatusTx", mock.Anything, 7, models.TripStatusCompleted).Return(nil)
	mockRepo.On("GetTripRow", 7).
		Return(&models.Trip{ID: 7, Status: models.TripStatusCompleted}, nil)

	service := newLedgerService(mockRepo, mockStock)

	trip, err := service.CompleteTrip(7)

	assert.NoError(t, err)
	assert.Equal(t, models.TripStatusCompleted, trip.Status)
	mockStock.AssertNotCalled(t, "AdjustStockTx", mock.Anything, mock.Anything, mock.Anything)
	mockRepo.AssertExpectations(t)
}

func TestCompleteTripIsTerminal(t *testing.T) {
	mockRepo := new(MockTripRepository)
	mockRepo.On("GetTripForUpdateTx", mock.Anything, 7).
		Return(&models.Trip{ID: 7, Status: models.TripStatusCompleted}, nil)

	service := newLedgerService(mockRepo, new(MockStockLedger))

	_, err := service.CompleteTrip(7)

	assert.ErrorIs(t, err, ErrTripClosed)
	mockRepo.AssertNotCalled(t, "SetTripStatusTx", mock.Anything, mock.Anything, mock.Anything)
}
