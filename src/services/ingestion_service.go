package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/username/sadakatracker/backend/src/config"
	"github.com/username/sadakatracker/backend/src/logger"
	"github.com/username/sadakatracker/backend/src/model"
	"github.com/username/sadakatracker/backend/src/models"
	"github.com/username/sadakatracker/backend/src/parsers"
	"github.com/username/sadakatracker/backend/src/processors"
	"github.com/username/sadakatracker/backend/src/security/validation"
	"github.com/username/sadakatracker/backend/src/sources"
)

var (
	ErrInvalidImportPayload = errors.New("invalid import payload")
	ErrEmptyImport          = errors.New("import contains no messages")
)

const summaryCacheKey = "transaction_summary"

// importedMessage mirrors one entry of the JSON array produced by SMS
// backup tools: sender address, raw body, timestamp in epoch milliseconds.
type importedMessage struct {
	Address string `json:"address"`
	Body    string `json:"body"`
	Date    int64  `json:"date"`
}

type ingestionServiceImpl struct {
	db          *sql.DB
	store       sources.MessageStore
	parser      parsers.MessageParser
	deduper     processors.TransactionDeduplicator
	summarizer  processors.SummaryProcessor
	reportCache *cache.Cache
}

func NewIngestionService(
	db *sql.DB,
	store sources.MessageStore,
	parser parsers.MessageParser,
	deduper processors.TransactionDeduplicator,
	summarizer processors.SummaryProcessor,
	reportCache *cache.Cache,
) IngestionService {
	return &ingestionServiceImpl{
		db:          db,
		store:       store,
		parser:      parser,
		deduper:     deduper,
		summarizer:  summarizer,
		reportCache: reportCache,
	}
}

// ImportMessages decodes an uploaded SMS backup and stores its messages,
// skipping any the store has already seen. Every upload gets its own batch
// id so imports can be told apart later.
func (s *ingestionServiceImpl) ImportMessages(reader io.Reader) (*ImportResult, error) {
	var entries []importedMessage
	if err := json.NewDecoder(reader).Decode(&entries); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImportPayload, err)
	}
	if len(entries) == 0 {
		return nil, ErrEmptyImport
	}

	importID := uuid.New().String()
	msgs := make([]model.StoredMessage, 0, len(entries))
	for _, e := range entries {
		body := validation.StripUnprintable(e.Body)
		if strings.TrimSpace(body) == "" {
			continue
		}
		msgs = append(msgs, model.StoredMessage{
			Address:   strings.TrimSpace(validation.StripUnprintable(e.Address)),
			Body:      body,
			Timestamp: time.UnixMilli(e.Date),
		})
	}
	if len(msgs) == 0 {
		return nil, fmt.Errorf("%w: every entry had an empty body", ErrEmptyImport)
	}

	stored, err := model.InsertRawMessages(s.db, importID, msgs)
	if err != nil {
		logger.L.Error("Failed to store imported messages", "importID", importID, "error", err)
		return nil, fmt.Errorf("storing imported messages: %w", err)
	}

	s.reportCache.Flush()
	logger.L.Info("Message import complete",
		"importID", importID, "received", len(entries), "stored", stored)

	return &ImportResult{
		ImportID:         importID,
		MessagesReceived: len(entries),
		MessagesStored:   stored,
	}, nil
}

// RefreshTransactions runs the full pipeline: collect messages from every
// configured source, parse them concurrently, drop duplicate transaction
// ids keeping the newest occurrence, and replace the stored set.
func (s *ingestionServiceImpl) RefreshTransactions(ctx context.Context) (*RefreshResult, error) {
	agg := sources.NewAggregator(s.buildSources(), config.Cfg.SourceFetchTimeout)
	msgs := agg.Collect(ctx)

	parsed := s.parseAll(msgs)
	unique := s.deduper.Process(parsed)

	if err := model.ReplaceTransactions(s.db, unique); err != nil {
		logger.L.Error("Failed to store refreshed transactions", "error", err)
		return nil, fmt.Errorf("storing refreshed transactions: %w", err)
	}

	s.reportCache.Flush()
	logger.L.Info("Transaction refresh complete",
		"collected", len(msgs), "parsed", len(parsed),
		"rejected", len(msgs)-len(parsed), "unique", len(unique))

	return &RefreshResult{
		MessagesCollected: len(msgs),
		Parsed:            len(parsed),
		Rejected:          len(msgs) - len(parsed),
		UniqueStored:      len(unique),
	}, nil
}

// buildSources produces one source per configured sender identity plus the
// keyword source that catches messages from unlisted senders. Overlap
// between them is expected; the aggregator removes it.
func (s *ingestionServiceImpl) buildSources() []sources.Source {
	srcs := make([]sources.Source, 0, len(config.Cfg.SenderIDs)+1)
	for _, addr := range config.Cfg.SenderIDs {
		srcs = append(srcs, sources.NewAddressSource(s.store, addr))
	}
	srcs = append(srcs, sources.NewKeywordSource(s.store, config.Cfg.KeywordPattern))
	return srcs
}

// parseAll parses the collected messages on a small worker pool. Results
// land in per-index slots and are compacted afterwards, so the output keeps
// the newest-first order of the input even though parsing is concurrent.
// That order is what lets the deduplicator keep the newest record per id.
func (s *ingestionServiceImpl) parseAll(msgs []models.RawMessage) []models.ParsedTransaction {
	workers := config.Cfg.ParseWorkers
	if workers > len(msgs) {
		workers = len(msgs)
	}
	if workers < 1 {
		workers = 1
	}

	slots := make([]*models.ParsedTransaction, len(msgs))
	indexes := make(chan int)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range indexes {
				msg := msgs[idx]
				tx, err := s.parser.Parse(msg.Body, msg.Timestamp)
				if err != nil {
					logger.L.Debug("Message rejected by parser",
						"timestamp", msg.Timestamp, "error", err)
					continue
				}
				slots[idx] = tx
			}
		}()
	}

	for idx := range msgs {
		indexes <- idx
	}
	close(indexes)
	wg.Wait()

	parsed := make([]models.ParsedTransaction, 0, len(msgs))
	for _, tx := range slots {
		if tx != nil {
			parsed = append(parsed, *tx)
		}
	}
	return parsed
}

// GetTransactions returns stored transactions inside [from, to], newest
// first, optionally narrowed by a free-text search over the id, sender,
// phone number, account and amount fields.
func (s *ingestionServiceImpl) GetTransactions(from, to time.Time, search string) ([]models.ParsedTransaction, error) {
	txs, err := model.ListTransactions(s.db, from, to)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return txs, nil
	}

	var matched []models.ParsedTransaction
	for _, tx := range txs {
		if transactionMatches(tx, search) {
			matched = append(matched, tx)
		}
	}
	return matched, nil
}

func transactionMatches(tx models.ParsedTransaction, search string) bool {
	for _, field := range []string{
		tx.TransactionID, tx.Sender, tx.PhoneNumber, tx.Account, tx.Amount.String(),
	} {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}

// GetSummary returns aggregate figures over the full stored transaction
// set. Summaries are cached until the next import, refresh or wipe.
func (s *ingestionServiceImpl) GetSummary() (models.TransactionSummary, error) {
	if cached, found := s.reportCache.Get(summaryCacheKey); found {
		if summary, ok := cached.(models.TransactionSummary); ok {
			logger.L.Debug("Serving transaction summary from cache")
			return summary, nil
		}
	}

	txs, err := model.ListTransactions(s.db, time.Time{}, time.Time{})
	if err != nil {
		return models.TransactionSummary{}, fmt.Errorf("listing transactions for summary: %w", err)
	}

	summary := s.summarizer.Summarize(txs)
	s.reportCache.Set(summaryCacheKey, summary, cache.DefaultExpiration)
	return summary, nil
}

// DeleteAllData wipes both the imported messages and the derived
// transaction set.
func (s *ingestionServiceImpl) DeleteAllData() error {
	if err := model.DeleteAllTransactions(s.db); err != nil {
		return fmt.Errorf("deleting transactions: %w", err)
	}
	if err := model.DeleteAllMessages(s.db); err != nil {
		return fmt.Errorf("deleting messages: %w", err)
	}
	s.reportCache.Flush()
	logger.L.Info("All message and transaction data deleted")
	return nil
}
