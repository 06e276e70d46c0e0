package sources

import (
	"context"

	"github.com/username/sadakatracker/backend/src/models"
)

// AddressSource retrieves every message sent by one known sender identity.
type AddressSource struct {
	store   MessageStore
	address string
}

func NewAddressSource(store MessageStore, address string) *AddressSource {
	return &AddressSource{store: store, address: address}
}

func (s *AddressSource) Name() string {
	return "address:" + s.address
}

func (s *AddressSource) Fetch(ctx context.Context) ([]models.RawMessage, error) {
	return s.store.ListByAddress(ctx, s.address)
}
