package reports

import (
	"errors"
	"testing"

	"github.com/lance0/RubyRidge/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockThresholdStore struct {
	mock.Mock
}

func (m *MockThresholdStore) GetThreshold(caliber string) (*models.Threshold, error) {
	args := m.Called(caliber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Threshold), args.Error(1)
}

func (m *MockThresholdStore) GetThresholds() ([]models.Threshold, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Threshold), args.Error(1)
}

func (m *MockThresholdStore) PersistThreshold(threshold models.Threshold) error {
	args := m.Called(threshold)
	return args.Error(0)
}

type MockInventoryReader struct {
	mock.Mock
}

func (m *MockInventoryReader) GetCaliberTotals() ([]models.CaliberTotal, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.CaliberTotal), args.Error(1)
}

func TestSetThreshold(t *testing.T) {
	tests := []struct {
		name        string
		threshold   models.Threshold
		setupMock   func(*MockThresholdStore)
		expectedErr error
	}{
		{
			name:      "valid threshold is persisted",
			threshold: models.Threshold{Caliber: "9mm Luger", Critical: 50, Low: 150, Target: 600},
			setupMock: func(store *MockThresholdStore) {
				store.On("PersistThreshold", mock.Anything).Return(nil)
			},
			expectedErr: nil,
		},
		{
			name:        "critical above low is rejected",
			threshold:   models.Threshold{Caliber: "9mm Luger", Critical: 200, Low: 150, Target: 600},
			setupMock:   func(store *MockThresholdStore) {},
			expectedErr: ErrInvalidThreshold,
		},
		{
			name:        "low above target is rejected",
			threshold:   models.Threshold{Caliber: "9mm Luger", Critical: 50, Low: 700, Target: 600},
			setupMock:   func(store *MockThresholdStore) {},
			expectedErr: ErrInvalidThreshold,
		},
		{
			name:        "negative critical is rejected",
			threshold:   models.Threshold{Caliber: "9mm Luger", Critical: -1, Low: 150, Target: 600},
			setupMock:   func(store *MockThresholdStore) {},
			expectedErr: ErrInvalidThreshold,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(MockThresholdStore)
			tt.setupMock(store)
			service := NewService(store, new(MockInventoryReader))

			err := service.SetThreshold(tt.threshold)

			assert.Equal(t, tt.expectedErr, err)
			store.AssertExpectations(t)
		})
	}
}

func TestGetThresholdFallback(t *testing.T) {
	t.Run("stored threshold wins over defaults", func(t *testing.T) {
		store := new(MockThresholdStore)
		store.On("GetThreshold", "9mm Luger").Return(&models.Threshold{
			Caliber: "9mm Luger", Critical: 10, Low: 20, Target: 30,
		}, nil)
		service := NewService(store, new(MockInventoryReader))

		threshold, err := service.GetThreshold("9mm Luger")

		assert.NoError(t, err)
		assert.Equal(t, 30, threshold.Target)
	})

	t.Run("known caliber falls back to built-in defaults", func(t *testing.T) {
		store := new(MockThresholdStore)
		store.On("GetThreshold", "9mm Luger").Return(nil, nil)
		service := NewService(store, new(MockInventoryReader))

		threshold, err := service.GetThreshold("9mm Luger")

		assert.NoError(t, err)
		assert.Equal(t, 100, threshold.Critical)
		assert.Equal(t, 500, threshold.Target)
	})

	t.Run("unknown caliber gets the generic fallback", func(t *testing.T) {
		store := new(MockThresholdStore)
		store.On("GetThreshold", "7.62x39mm").Return(nil, nil)
		service := NewService(store, new(MockInventoryReader))

		threshold, err := service.GetThreshold("7.62x39mm")

		assert.NoError(t, err)
		assert.Equal(t, "7.62x39mm", threshold.Caliber)
		assert.Equal(t, fallbackThreshold.Target, threshold.Target)
	})

	t.Run("store error is propagated", func(t *testing.T) {
		store := new(MockThresholdStore)
		store.On("GetThreshold", "9mm Luger").Return(nil, errors.New("db error"))
		service := NewService(store, new(MockInventoryReader))

		_, err := service.GetThreshold("9mm Luger")

		assert.Error(t, err)
	})
}

func TestStockStatusReport(t *testing.T) {
	store := new(MockThresholdStore)
	store.On("GetThreshold", mock.Anything).Return(nil, nil)

	inventory := new(MockInventoryReader)
	inventory.On("GetCaliberTotals").Return([]models.CaliberTotal{
		{Caliber: "9mm Luger", TotalRounds: 80},
		{Caliber: ".45 ACP", TotalRounds: 90},
		{Caliber: ".22 LR", TotalRounds: 1200},
	}, nil)

	service := NewService(store, inventory)

	statuses, err := service.StockStatusReport()

	assert.NoError(t, err)
	assert.Len(t, statuses, 3)

	assert.Equal(t, models.StockLevelCritical, statuses[0].Level)
	assert.Equal(t, 420, statuses[0].TargetGap)

	assert.Equal(t, models.StockLevelLow, statuses[1].Level)
	assert.Equal(t, 210, statuses[1].TargetGap)

	assert.Equal(t, models.StockLevelOK, statuses[2].Level)
	assert.Equal(t, 0, statuses[2].TargetGap)
}

func TestStockStatusReportInventoryError(t *testing.T) {
	inventory := new(MockInventoryReader)
	inventory.On("GetCaliberTotals").Return(nil, errors.New("db error"))

	service := NewService(new(MockThresholdStore), inventory)

	_, err := service.StockStatusReport()

	assert.Error(t, err)
}
