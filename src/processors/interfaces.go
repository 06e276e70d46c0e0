package processors

import "github.com/username/sadakatracker/backend/src/models"

// TransactionDeduplicator removes record-level duplicates from a built
// transaction sequence. This interface is implemented by dedup_processor.go.
type TransactionDeduplicator interface {
	Process(txs []models.ParsedTransaction) []models.ParsedTransaction
}

// SummaryProcessor reduces a transaction set into the aggregate figures the
// reporting side displays. Implemented by summary_processor.go.
type SummaryProcessor interface {
	Summarize(txs []models.ParsedTransaction) models.TransactionSummary
}
