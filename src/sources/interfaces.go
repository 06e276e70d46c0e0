package sources

import (
	"context"

	"github.com/username/sadakatracker/backend/src/models"
)

// Source is one independent raw-message retrieval, e.g. "everything from
// sender MPESA" or "everything matching the keyword pattern". Retrievals
// overlap on purpose; the Aggregator removes the resulting duplicates.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]models.RawMessage, error)
}

// MessageStore is the external message collaborator the concrete sources
// query. The store owns retention and ordering of stored messages; sources
// only filter.
type MessageStore interface {
	// ListByAddress returns messages received from one sender identity.
	ListByAddress(ctx context.Context, address string) ([]models.RawMessage, error)
	// ListMatching returns messages whose body matches the given pattern.
	ListMatching(ctx context.Context, bodyPattern string) ([]models.RawMessage, error)
}
