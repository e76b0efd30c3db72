package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lance0/RubyRidge/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockUpcStore struct {
	mock.Mock
}

func (m *MockUpcStore) GetUpcData(upc string) (*models.UpcData, error) {
	args := m.Called(upc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UpcData), args.Error(1)
}

func (m *MockUpcStore) PersistUpcData(data models.UpcData) error {
	args := m.Called(data)
	return args.Error(0)
}

type MockLookupClient struct {
	mock.Mock
}

func (m *MockLookupClient) Lookup(ctx context.Context, upc string) (*models.UpcData, error) {
	args := m.Called(ctx, upc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.UpcData), args.Error(1)
}

func TestLookupPrefersCache(t *testing.T) {
	store := new(MockUpcStore)
	store.On("GetUpcData", "076683051202").Return(&models.UpcData{
		UPC: "076683051202", Name: "CCI Blazer Brass 9mm 115gr FMJ", Caliber: "9mm Luger", RoundsPerBox: 50,
	}, nil)

	client := new(MockLookupClient)
	service := NewService(store, client)

	data, err := service.Lookup(context.Background(), "076683051202")

	assert.NoError(t, err)
	assert.Equal(t, "9mm Luger", data.Caliber)
	client.AssertNotCalled(t, "Lookup")
}

func TestLookupFallsBackToClientAndCaches(t *testing.T) {
	store := new(MockUpcStore)
	store.On("GetUpcData", "090255815511").Return(nil, nil)
	store.On("PersistUpcData", mock.MatchedBy(func(data models.UpcData) bool {
		return data.UPC == "090255815511"
	})).Return(nil)

	client := new(MockLookupClient)
	client.On("Lookup", mock.Anything, "090255815511").Return(&models.UpcData{
		UPC: "090255815511", Name: "Federal American Eagle 5.56mm 55gr FMJ", Caliber: "5.56 NATO", RoundsPerBox: 20,
	}, nil)

	service := NewService(store, client)

	data, err := service.Lookup(context.Background(), "090255815511")

	assert.NoError(t, err)
	assert.Equal(t, 20, data.RoundsPerBox)
	store.AssertExpectations(t)
}

func TestLookupDegradesClientErrorToNotFound(t *testing.T) {
	store := new(MockUpcStore)
	store.On("GetUpcData", "000000000000").Return(nil, nil)

	client := new(MockLookupClient)
	client.On("Lookup", mock.Anything, "000000000000").Return(nil, errors.New("upstream down"))

	service := NewService(store, client)

	data, err := service.Lookup(context.Background(), "000000000000")

	assert.NoError(t, err)
	assert.Nil(t, data)
}

func TestLookupStoreErrorIsFatal(t *testing.T) {
	store := new(MockUpcStore)
	store.On("GetUpcData", "076683051202").Return(nil, errors.New("db error"))

	service := NewService(store, new(MockLookupClient))

	_, err := service.Lookup(context.Background(), "076683051202")

	assert.Error(t, err)
}

func TestHTTPLookupClient(t *testing.T) {
	t.Run("decodes a hit", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/029465088414", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"name":"Remington UMC .45 ACP 230gr FMJ","caliber":".45 ACP","rounds_per_box":50}`))
		}))
		defer server.Close()

		client := NewHTTPLookupClient(server.URL)

		data, err := client.Lookup(context.Background(), "029465088414")

		assert.NoError(t, err)
		assert.Equal(t, "029465088414", data.UPC)
		assert.Equal(t, ".45 ACP", data.Caliber)
	})

	t.Run("404 means not found, not an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		client := NewHTTPLookupClient(server.URL)

		data, err := client.Lookup(context.Background(), "000000000000")

		assert.NoError(t, err)
		assert.Nil(t, data)
	})

	t.Run("server error is reported", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := NewHTTPLookupClient(server.URL)

		_, err := client.Lookup(context.Background(), "000000000000")

		assert.Error(t, err)
	})

	t.Run("unconfigured base URL means not found", func(t *testing.T) {
		client := NewHTTPLookupClient("")

		data, err := client.Lookup(context.Background(), "029465088414")

		assert.NoError(t, err)
		assert.Nil(t, data)
	})
}
