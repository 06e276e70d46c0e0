package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies what a mobile-money message did. The value is
// decided by keyword priority during parsing, see parsers.ExtractType.
type TransactionType string

const (
	TypeReceived TransactionType = "received"
	TypeSent     TransactionType = "sent"
	TypePaid     TransactionType = "paid"
	TypeWithdraw TransactionType = "withdraw"
	TypeGoods    TransactionType = "goods"
	TypeUnknown  TransactionType = "unknown"
)

// ParsedTransaction is the structured record extracted from exactly one
// RawMessage. It is never mutated after construction; the deduplicator drops
// whole records, it never edits them.
type ParsedTransaction struct {
	ID int64 `json:"id,omitempty"` // database primary key, 0 until stored

	// TransactionID is the dedup key. Always non-empty: either extracted
	// from the message or synthesized from the resolved date and body.
	TransactionID   string              `json:"transaction_id"`
	Amount          decimal.Decimal     `json:"amount"`
	Sender          string              `json:"sender"`       // "Unknown" when not extracted
	PhoneNumber     string              `json:"phone_number"` // canonical 254XXXXXXXXX, or "Unknown"
	Account         string              `json:"account,omitempty"`
	Balance         decimal.NullDecimal `json:"balance"`
	TransactionType TransactionType     `json:"transaction_type"`
	Date            time.Time           `json:"date"`
	RawMessage      string              `json:"raw_message"`
}
