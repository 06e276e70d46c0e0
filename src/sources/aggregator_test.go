package sources

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/sadakatracker/backend/src/models"
)

type fakeSource struct {
	name  string
	msgs  []models.RawMessage
	err   error
	delay time.Duration
}

func (s *fakeSource) Name() string { return s.name }

func (s *fakeSource) Fetch(ctx context.Context) ([]models.RawMessage, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return s.msgs, s.err
}

func msg(body string, ts time.Time) models.RawMessage {
	return models.RawMessage{Body: body, Timestamp: ts}
}

func TestAggregator_Collect(t *testing.T) {
	base := time.Date(2025, 4, 11, 12, 0, 0, 0, time.UTC)

	t.Run("identical message from two sources is merged once", func(t *testing.T) {
		shared := msg("MPESA Confirmed", base)
		agg := NewAggregator([]Source{
			&fakeSource{name: "address:MPESA", msgs: []models.RawMessage{shared}},
			&fakeSource{name: "keyword", msgs: []models.RawMessage{shared}},
		}, time.Second)

		got := agg.Collect(context.Background())
		require.Len(t, got, 1)
		assert.Equal(t, shared, got[0])
	})

	t.Run("same body different timestamp is not a duplicate", func(t *testing.T) {
		agg := NewAggregator([]Source{
			&fakeSource{name: "a", msgs: []models.RawMessage{msg("body", base)}},
			&fakeSource{name: "b", msgs: []models.RawMessage{msg("body", base.Add(time.Minute))}},
		}, time.Second)

		assert.Len(t, agg.Collect(context.Background()), 2)
	})

	t.Run("merged sequence is sorted newest first", func(t *testing.T) {
		agg := NewAggregator([]Source{
			&fakeSource{name: "a", msgs: []models.RawMessage{
				msg("oldest", base.Add(-2 * time.Hour)),
				msg("newest", base),
			}},
			&fakeSource{name: "b", msgs: []models.RawMessage{
				msg("middle", base.Add(-time.Hour)),
			}},
		}, time.Second)

		got := agg.Collect(context.Background())
		require.Len(t, got, 3)
		assert.Equal(t, "newest", got[0].Body)
		assert.Equal(t, "middle", got[1].Body)
		assert.Equal(t, "oldest", got[2].Body)
	})

	t.Run("failed source contributes nothing without blocking siblings", func(t *testing.T) {
		agg := NewAggregator([]Source{
			&fakeSource{name: "broken", err: errors.New("store unavailable")},
			&fakeSource{name: "healthy", msgs: []models.RawMessage{msg("ok", base)}},
		}, time.Second)

		got := agg.Collect(context.Background())
		require.Len(t, got, 1)
		assert.Equal(t, "ok", got[0].Body)
	})

	t.Run("slow source is timed out and treated like a failure", func(t *testing.T) {
		agg := NewAggregator([]Source{
			&fakeSource{name: "slow", delay: time.Second, msgs: []models.RawMessage{msg("late", base)}},
			&fakeSource{name: "fast", msgs: []models.RawMessage{msg("ok", base)}},
		}, 20*time.Millisecond)

		got := agg.Collect(context.Background())
		require.Len(t, got, 1)
		assert.Equal(t, "ok", got[0].Body)
	})

	t.Run("no sources yields empty result", func(t *testing.T) {
		agg := NewAggregator(nil, time.Second)
		assert.Empty(t, agg.Collect(context.Background()))
	})
}
