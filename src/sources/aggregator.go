package sources

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/username/sadakatracker/backend/src/logger"
	"github.com/username/sadakatracker/backend/src/models"
)

// Aggregator fans out to N independent sources, waits for all of them to
// settle, and merges their results into a single newest-first sequence with
// source-level duplicates removed. A source that fails or times out
// contributes zero messages and never blocks or corrupts its siblings.
type Aggregator struct {
	sources []Source
	timeout time.Duration // per-source fetch budget; 0 means no limit
}

func NewAggregator(srcs []Source, timeout time.Duration) *Aggregator {
	return &Aggregator{sources: srcs, timeout: timeout}
}

// Collect runs every source concurrently and returns the merged sequence
// once all of them have settled. The result is sorted by descending
// timestamp; the downstream deduplicator keeps the first record per
// identifier, so this ordering is what makes newest-wins hold.
func (a *Aggregator) Collect(ctx context.Context) []models.RawMessage {
	var (
		mu     sync.Mutex
		merged []models.RawMessage
		seen   = make(map[models.MessageKey]struct{})
		wg     sync.WaitGroup
	)

	for _, src := range a.sources {
		wg.Add(1)
		go func(src Source) {
			defer wg.Done()

			fetchCtx := ctx
			if a.timeout > 0 {
				var cancel context.CancelFunc
				fetchCtx, cancel = context.WithTimeout(ctx, a.timeout)
				defer cancel()
			}

			msgs, err := src.Fetch(fetchCtx)
			if err != nil {
				if logger.L != nil {
					logger.L.Warn("Message source failed, contributing nothing", "source", src.Name(), "error", err)
				}
				return
			}

			mu.Lock()
			defer mu.Unlock()
			for _, m := range msgs {
				if _, dup := seen[m.Key()]; dup {
					continue
				}
				seen[m.Key()] = struct{}{}
				merged = append(merged, m)
			}
		}(src)
	}
	wg.Wait()

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Timestamp.After(merged[j].Timestamp)
	})
	return merged
}
