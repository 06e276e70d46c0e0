package parsers

import (
	"time"

	"github.com/username/sadakatracker/backend/src/models"
)

// MessageParser turns one raw notification message into a structured
// transaction record, or rejects it.
// This interface is implemented by message_parser.go.
type MessageParser interface {
	// Parse extracts a transaction from body. receivedAt is the timestamp
	// the message carried when it was retrieved; it is used as the
	// transaction date when the body itself holds no parseable date.
	Parse(body string, receivedAt time.Time) (*models.ParsedTransaction, error)
}
