package parsers

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/username/sadakatracker/backend/src/logger"
	"github.com/username/sadakatracker/backend/src/models"
)

var (
	// ErrEmptyMessage rejects messages with no body at all.
	ErrEmptyMessage = errors.New("empty message body")
	// ErrNotTransactionMessage is the normal negative result for bodies
	// that carry none of the transaction keywords.
	ErrNotTransactionMessage = errors.New("not a mobile-money transaction message")
)

type messageParserImpl struct{}

// NewMessageParser returns the standard message parser. It is stateless and
// safe for concurrent use; messages may be parsed in parallel freely.
func NewMessageParser() MessageParser {
	return &messageParserImpl{}
}

// Parse gates body through the keyword classifier, then runs every field
// extractor against it. Extraction order matters in one place only: the
// phone-number extractor consumes the already-resolved sender name.
func (p *messageParserImpl) Parse(body string, receivedAt time.Time) (tx *models.ParsedTransaction, err error) {
	if strings.TrimSpace(body) == "" {
		return nil, ErrEmptyMessage
	}
	if !IsRelevant(body) {
		return nil, ErrNotTransactionMessage
	}

	// A single malformed message must never take down a whole batch: any
	// fault inside the extractors converts to a reject for this message.
	defer func() {
		if r := recover(); r != nil {
			if logger.L != nil {
				logger.L.Error("Recovered from fault while extracting message fields", "fault", r)
			}
			tx = nil
			err = fmt.Errorf("%w: extraction fault: %v", ErrNotTransactionMessage, r)
		}
	}()

	if receivedAt.IsZero() {
		receivedAt = time.Now()
	}

	id, found := ExtractID(body)
	date := ExtractDateTime(body, receivedAt)
	amount := ExtractAmount(body)
	sender := ExtractSender(body)
	phone := ExtractPhoneNumber(body, sender)
	account := ExtractAccount(body)
	balance := ExtractBalance(body)
	if !found {
		id = SynthesizeID(body, date)
	}

	return &models.ParsedTransaction{
		TransactionID:   id,
		Amount:          amount,
		Sender:          sender,
		PhoneNumber:     phone,
		Account:         account,
		Balance:         balance,
		TransactionType: ExtractType(body),
		Date:            date,
		RawMessage:      body,
	}, nil
}

// SynthesizeID builds a deterministic fallback identifier for messages that
// carry no extractable one: the resolved transaction date as a fixed-width
// numeric stamp plus the body length in hex, truncated to 10 characters.
// Deterministic per (body, date) pair, but not collision-free across
// unrelated messages of equal length and derived date.
func SynthesizeID(body string, date time.Time) string {
	id := fmt.Sprintf("GEN%s%04x", date.Format("200601021504"), len(body))
	if len(id) > 10 {
		id = id[:10]
	}
	return id
}
