package processors

import (
	"github.com/username/sadakatracker/backend/src/logger"
	"github.com/username/sadakatracker/backend/src/models"
)

type dedupProcessorImpl struct{}

func NewDedupProcessor() TransactionDeduplicator {
	return &dedupProcessorImpl{}
}

// Process keeps the first occurrence of every transaction identifier and
// drops the rest. It never edits or reorders surviving records, so when the
// input is sorted newest-first (the aggregator guarantees this) the newest
// record per identifier is the one that survives.
func (p *dedupProcessorImpl) Process(txs []models.ParsedTransaction) []models.ParsedTransaction {
	seen := make(map[string]struct{}, len(txs))
	unique := make([]models.ParsedTransaction, 0, len(txs))
	for _, tx := range txs {
		if _, dup := seen[tx.TransactionID]; dup {
			if logger.L != nil {
				logger.L.Debug("Dropping duplicate transaction", "transactionID", tx.TransactionID)
			}
			continue
		}
		seen[tx.TransactionID] = struct{}{}
		unique = append(unique, tx)
	}
	return unique
}
