package catalog

import (
	"context"
	"log"

	"github.com/lance0/RubyRidge/pkg/models"
)

// UpcStore is the cache the service reads before going to the network.
type UpcStore interface {
	GetUpcData(upc string) (*models.UpcData, error)
	PersistUpcData(data models.UpcData) error
}

type UpcService struct {
	store  UpcStore
	client LookupClient
}

func NewService(store UpcStore, client LookupClient) *UpcService {
	return &UpcService{store: store, client: client}
}

// Lookup resolves a scanned code: local cache first, then the external
// source. External failures degrade to "not found" so a scan never breaks
// on a flaky upstream. The network call runs outside any transaction.
func (s *UpcService) Lookup(ctx context.Context, upc string) (*models.UpcData, error) {
	cached, err := s.store.GetUpcData(upc)
	if err != nil {
		return nil, err
	}
	if cached != nil {
		return cached, nil
	}

	data, err := s.client.Lookup(ctx, upc)
	if err != nil {
		log.Println("UPC lookup degraded to not-found: ", err)
		return nil, nil
	}
	if data == nil {
		return nil, nil
	}

	if err := s.store.PersistUpcData(*data); err != nil {
		// Cache write failures do not matter to the caller.
		log.Println("Unable to cache UPC data for ", upc)
	}

	return data, nil
}
