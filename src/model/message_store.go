package model

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	"github.com/username/sadakatracker/backend/src/models"
)

// SQLMessageStore adapts the raw_messages table to the sources.MessageStore
// collaborator interface. Body-pattern matching happens in Go because the
// sqlite driver ships without a REGEXP function.
type SQLMessageStore struct {
	db *sql.DB
}

func NewSQLMessageStore(db *sql.DB) *SQLMessageStore {
	return &SQLMessageStore{db: db}
}

func (s *SQLMessageStore) ListByAddress(ctx context.Context, address string) ([]models.RawMessage, error) {
	return ListMessagesByAddress(ctx, s.db, address)
}

func (s *SQLMessageStore) ListMatching(ctx context.Context, bodyPattern string) ([]models.RawMessage, error) {
	re, err := regexp.Compile(bodyPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid body pattern %q: %w", bodyPattern, err)
	}

	all, err := ListAllMessages(ctx, s.db)
	if err != nil {
		return nil, err
	}

	var matched []models.RawMessage
	for _, m := range all {
		if re.MatchString(m.Body) {
			matched = append(matched, m)
		}
	}
	return matched, nil
}
