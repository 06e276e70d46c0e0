package services

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/sadakatracker/backend/src/config"
	"github.com/username/sadakatracker/backend/src/logger"
	"github.com/username/sadakatracker/backend/src/models"
)

// fakeParser accepts bodies prefixed with "ok:" and uses the rest of the
// body as the transaction id; everything else is rejected.
type fakeParser struct{}

func (fakeParser) Parse(body string, receivedAt time.Time) (*models.ParsedTransaction, error) {
	if !strings.HasPrefix(body, "ok:") {
		return nil, errors.New("not a transaction message")
	}
	return &models.ParsedTransaction{
		TransactionID: strings.TrimPrefix(body, "ok:"),
		Amount:        decimal.NewFromInt(100),
		Date:          receivedAt,
		RawMessage:    body,
	}, nil
}

func newTestService(workers int) *ingestionServiceImpl {
	logger.InitLogger("error")
	config.Cfg = &config.AppConfig{ParseWorkers: workers}
	return &ingestionServiceImpl{parser: fakeParser{}}
}

func TestParseAllPreservesInputOrder(t *testing.T) {
	svc := newTestService(4)

	base := time.Date(2025, 4, 11, 12, 0, 0, 0, time.Local)
	var msgs []models.RawMessage
	for i := 0; i < 50; i++ {
		msgs = append(msgs, models.RawMessage{
			Body:      fmt.Sprintf("ok:TX%03d", i),
			Timestamp: base.Add(-time.Duration(i) * time.Minute),
		})
	}

	parsed := svc.parseAll(msgs)
	require.Len(t, parsed, 50)
	for i, tx := range parsed {
		assert.Equal(t, fmt.Sprintf("TX%03d", i), tx.TransactionID,
			"concurrent parsing must not reorder results")
	}
}

func TestParseAllSkipsRejectedMessages(t *testing.T) {
	svc := newTestService(2)

	msgs := []models.RawMessage{
		{Body: "ok:AAA", Timestamp: time.Now()},
		{Body: "your airtime balance is low", Timestamp: time.Now()},
		{Body: "ok:BBB", Timestamp: time.Now()},
	}

	parsed := svc.parseAll(msgs)
	require.Len(t, parsed, 2)
	assert.Equal(t, "AAA", parsed[0].TransactionID)
	assert.Equal(t, "BBB", parsed[1].TransactionID)
}

func TestParseAllEmptyInput(t *testing.T) {
	svc := newTestService(4)
	assert.Empty(t, svc.parseAll(nil))
}

func TestTransactionMatches(t *testing.T) {
	tx := models.ParsedTransaction{
		TransactionID: "TDB2BU7T7S",
		Amount:        decimal.RequireFromString("5000"),
		Sender:        "WYCLIFFE TAI",
		PhoneNumber:   "254721918757",
		Account:       "Building",
	}

	testCases := []struct {
		name   string
		search string
		want   bool
	}{
		{"matches transaction id", "tdb2bu", true},
		{"matches sender case-insensitively", "wycliffe", true},
		{"matches phone number", "254721", true},
		{"matches account", "building", true},
		{"matches amount", "5000", true},
		{"no match", "nairobi", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, transactionMatches(tx, tc.search))
		})
	}
}
