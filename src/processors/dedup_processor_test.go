package processors

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/sadakatracker/backend/src/models"
)

func tx(id, body string, date time.Time) models.ParsedTransaction {
	return models.ParsedTransaction{
		TransactionID:   id,
		Amount:          decimal.Zero,
		Sender:          "Unknown",
		PhoneNumber:     "Unknown",
		TransactionType: models.TypeReceived,
		Date:            date,
		RawMessage:      body,
	}
}

func TestDedupProcessor_Process(t *testing.T) {
	dedup := NewDedupProcessor()
	base := time.Date(2025, 4, 11, 12, 0, 0, 0, time.UTC)

	t.Run("first occurrence wins, later duplicates dropped", func(t *testing.T) {
		// Input already sorted newest-first, so the first "X" is the
		// newest one and must be the survivor.
		input := []models.ParsedTransaction{
			tx("X", "newer body", base),
			tx("Y", "other", base.Add(-time.Hour)),
			tx("X", "older body", base.Add(-2*time.Hour)),
		}

		got := dedup.Process(input)
		require.Len(t, got, 2)
		assert.Equal(t, "X", got[0].TransactionID)
		assert.Equal(t, "newer body", got[0].RawMessage)
		assert.Equal(t, "Y", got[1].TransactionID)
	})

	t.Run("survivors keep their relative input order", func(t *testing.T) {
		input := []models.ParsedTransaction{
			tx("A", "", base),
			tx("B", "", base),
			tx("A", "", base),
			tx("C", "", base),
			tx("B", "", base),
		}

		got := dedup.Process(input)
		require.Len(t, got, 3)
		assert.Equal(t, "A", got[0].TransactionID)
		assert.Equal(t, "B", got[1].TransactionID)
		assert.Equal(t, "C", got[2].TransactionID)
	})

	t.Run("empty input yields empty output", func(t *testing.T) {
		assert.Empty(t, dedup.Process(nil))
	})
}

func TestSummaryProcessor_Summarize(t *testing.T) {
	summarizer := NewSummaryProcessor()
	base := time.Date(2025, 4, 11, 12, 0, 0, 0, time.UTC)

	received := tx("A", "", base)
	received.Amount = decimal.NewFromInt(5000)

	paid := tx("B", "", base.Add(-time.Hour))
	paid.Amount = decimal.RequireFromString("1250.50")
	paid.TransactionType = models.TypePaid

	summary := summarizer.Summarize([]models.ParsedTransaction{received, paid})

	assert.Equal(t, 2, summary.Count)
	assert.True(t, summary.TotalAmount.Equal(decimal.RequireFromString("6250.50")))
	assert.Equal(t, 1, summary.ByType[models.TypeReceived].Count)
	assert.Equal(t, 1, summary.ByType[models.TypePaid].Count)
	require.NotNil(t, summary.LatestDate)
	assert.True(t, base.Equal(*summary.LatestDate))

	t.Run("empty set has zero totals and no latest date", func(t *testing.T) {
		empty := summarizer.Summarize(nil)
		assert.Zero(t, empty.Count)
		assert.True(t, empty.TotalAmount.IsZero())
		assert.Nil(t, empty.LatestDate)
	})
}
