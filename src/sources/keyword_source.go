package sources

import (
	"context"

	"github.com/username/sadakatracker/backend/src/models"
)

// KeywordSource retrieves messages whose body matches a keyword pattern,
// regardless of sender. It is the broad net that catches transaction
// messages delivered from identities not on the configured sender list.
type KeywordSource struct {
	store   MessageStore
	pattern string
}

func NewKeywordSource(store MessageStore, pattern string) *KeywordSource {
	return &KeywordSource{store: store, pattern: pattern}
}

func (s *KeywordSource) Name() string {
	return "keyword"
}

func (s *KeywordSource) Fetch(ctx context.Context) ([]models.RawMessage, error) {
	return s.store.ListMatching(ctx, s.pattern)
}
