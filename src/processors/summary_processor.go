package processors

import (
	"github.com/shopspring/decimal"

	"github.com/username/sadakatracker/backend/src/models"
)

type summaryProcessorImpl struct{}

func NewSummaryProcessor() SummaryProcessor {
	return &summaryProcessorImpl{}
}

// Summarize computes the headline totals for a transaction set. Amounts are
// summed as exact decimals, never floats.
func (p *summaryProcessorImpl) Summarize(txs []models.ParsedTransaction) models.TransactionSummary {
	summary := models.TransactionSummary{
		Count:       len(txs),
		TotalAmount: decimal.Zero,
		ByType:      make(map[models.TransactionType]models.TypeSummary),
	}

	for _, tx := range txs {
		summary.TotalAmount = summary.TotalAmount.Add(tx.Amount)

		byType := summary.ByType[tx.TransactionType]
		byType.Count++
		byType.TotalAmount = byType.TotalAmount.Add(tx.Amount)
		summary.ByType[tx.TransactionType] = byType

		if summary.LatestDate == nil || tx.Date.After(*summary.LatestDate) {
			date := tx.Date
			summary.LatestDate = &date
		}
	}
	return summary
}
