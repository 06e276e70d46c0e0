package parsers

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/sadakatracker/backend/src/models"
)

func TestMessageParser_Parse(t *testing.T) {
	parser := NewMessageParser()

	t.Run("utility payment with in-body date overrides message timestamp", func(t *testing.T) {
		body := "TDB2BU7T7S Confirmed. on 11/4/25 at 2:37 PM Ksh received from WYCLIFFE TAI 254721918757. Account Number Building New Utility balance is Ksh00."
		receivedAt := time.Date(2024, 4, 11, 14, 37, 0, 0, time.Local)

		tx, err := parser.Parse(body, receivedAt)
		require.NoError(t, err)

		assert.Equal(t, "TDB2BU7T7S", tx.TransactionID)
		assert.True(t, tx.Amount.Equal(decimal.Zero))
		assert.Equal(t, "WYCLIFFE TAI", tx.Sender)
		assert.Equal(t, "254721918757", tx.PhoneNumber)
		assert.Equal(t, "Building", tx.Account)
		require.True(t, tx.Balance.Valid)
		assert.True(t, tx.Balance.Decimal.Equal(decimal.Zero))
		assert.Equal(t, models.TypeReceived, tx.TransactionType)
		// The body said 11/4/25, so the 2-digit year resolves to 2025
		// even though the message itself arrived in 2024.
		assert.True(t, time.Date(2025, 4, 11, 14, 37, 0, 0, time.Local).Equal(tx.Date))
		assert.Equal(t, body, tx.RawMessage)
	})

	t.Run("standard receipt with comma-separated amount", func(t *testing.T) {
		body := "MPKWA2C confirmed. Ksh5,000 received from JOHN DOE 254722000000 on 9/4/25 at 10:30 AM. Account Number Building New utility balance is Ksh12,345. Transaction cost, Ksh0.00."

		tx, err := parser.Parse(body, time.Date(2025, 4, 9, 10, 30, 0, 0, time.Local))
		require.NoError(t, err)

		assert.True(t, tx.Amount.Equal(decimal.NewFromInt(5000)))
		assert.Equal(t, models.TypeReceived, tx.TransactionType)
		assert.Equal(t, "JOHN DOE", tx.Sender)
		assert.Equal(t, "254722000000", tx.PhoneNumber)
		assert.NotEmpty(t, tx.TransactionID)
	})

	t.Run("empty body is rejected before classification", func(t *testing.T) {
		tx, err := parser.Parse("", time.Now())
		assert.Nil(t, tx)
		assert.ErrorIs(t, err, ErrEmptyMessage)
	})

	t.Run("body without any keyword is rejected", func(t *testing.T) {
		tx, err := parser.Parse("Hello, are we still meeting for lunch?", time.Now())
		assert.Nil(t, tx)
		assert.ErrorIs(t, err, ErrNotTransactionMessage)
	})

	t.Run("missing identifier is synthesized deterministically", func(t *testing.T) {
		body := "paid to the corner shop, thank you"
		receivedAt := time.Date(2025, 4, 11, 14, 37, 0, 0, time.Local)

		first, err := parser.Parse(body, receivedAt)
		require.NoError(t, err)
		second, err := parser.Parse(body, receivedAt)
		require.NoError(t, err)

		assert.NotEmpty(t, first.TransactionID)
		assert.Len(t, first.TransactionID, 10)
		assert.Equal(t, first.TransactionID, second.TransactionID)
		assert.Equal(t, "Unknown", first.Sender)
		assert.Equal(t, "Unknown", first.PhoneNumber)
		assert.False(t, first.Balance.Valid)
		assert.Empty(t, first.Account)
	})
}

func TestSynthesizeID(t *testing.T) {
	date := time.Date(2025, 4, 11, 14, 37, 0, 0, time.Local)

	id := SynthesizeID("some message body", date)
	assert.Len(t, id, 10)
	assert.Equal(t, "GEN", id[:3])

	// Same (body, date) pair always yields the same identifier.
	assert.Equal(t, id, SynthesizeID("some message body", date))

	// A different resolved date yields a different identifier.
	assert.NotEqual(t, id, SynthesizeID("some message body", date.AddDate(0, 1, 0)))
}
