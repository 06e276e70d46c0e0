package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TypeSummary is the aggregate for one transaction type.
type TypeSummary struct {
	Count       int             `json:"count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// TransactionSummary holds the headline figures for a transaction set:
// overall count and amount, a per-type breakdown, and the newest date seen.
type TransactionSummary struct {
	Count       int                             `json:"count"`
	TotalAmount decimal.Decimal                 `json:"total_amount"`
	ByType      map[TransactionType]TypeSummary `json:"by_type"`
	LatestDate  *time.Time                      `json:"latest_date,omitempty"`
}
