package services

import (
	"context"
	"io"
	"time"

	"github.com/username/sadakatracker/backend/src/models"
)

// ImportResult reports what happened to one uploaded SMS backup.
type ImportResult struct {
	ImportID         string `json:"import_id"`
	MessagesReceived int    `json:"messages_received"`
	MessagesStored   int    `json:"messages_stored"`
}

// RefreshResult reports one full pipeline run: sources → aggregator →
// parser → deduplicator → stored transaction set.
type RefreshResult struct {
	MessagesCollected int `json:"messages_collected"`
	Parsed            int `json:"parsed"`
	Rejected          int `json:"rejected"`
	UniqueStored      int `json:"unique_stored"`
}

// IngestionService defines the core pipeline logic: importing raw messages
// and turning them into the deduplicated transaction set served to reports.
type IngestionService interface {
	ImportMessages(reader io.Reader) (*ImportResult, error)
	RefreshTransactions(ctx context.Context) (*RefreshResult, error)
	GetTransactions(from, to time.Time, search string) ([]models.ParsedTransaction, error)
	GetSummary() (models.TransactionSummary, error)
	DeleteAllData() error
}
