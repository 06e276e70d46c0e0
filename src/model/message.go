package model

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/username/sadakatracker/backend/src/models"
)

// StoredMessage is one inbox entry as imported from an SMS backup: the raw
// body and timestamp plus the sender address the backup reported.
type StoredMessage struct {
	Address   string    `json:"address"`
	Body      string    `json:"body"`
	Timestamp time.Time `json:"timestamp"`
}

// InsertRawMessages stores a batch of imported messages, tagged with the
// import batch id. Messages already present (same timestamp and body) are
// silently skipped; the returned count covers newly stored rows only.
func InsertRawMessages(db *sql.DB, importID string, msgs []StoredMessage) (int, error) {
	dbTx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("beginning raw message insert: %w", err)
	}
	defer dbTx.Rollback()

	stmt, err := dbTx.Prepare(`
		INSERT OR IGNORE INTO raw_messages (import_id, address, body, message_ts)
		VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing raw message insert: %w", err)
	}
	defer stmt.Close()

	stored := 0
	for _, m := range msgs {
		res, err := stmt.Exec(importID, m.Address, m.Body, m.Timestamp.UnixMilli())
		if err != nil {
			return 0, fmt.Errorf("inserting raw message: %w", err)
		}
		if affected, _ := res.RowsAffected(); affected > 0 {
			stored++
		}
	}

	if err := dbTx.Commit(); err != nil {
		return 0, fmt.Errorf("committing raw message insert: %w", err)
	}
	return stored, nil
}

// ListMessagesByAddress returns every stored message received from one
// sender identity, newest first.
func ListMessagesByAddress(ctx context.Context, db *sql.DB, address string) ([]models.RawMessage, error) {
	return listMessages(ctx, db, `
		SELECT body, message_ts FROM raw_messages
		WHERE address = ?
		ORDER BY message_ts DESC`, address)
}

// ListAllMessages returns every stored message, newest first.
func ListAllMessages(ctx context.Context, db *sql.DB) ([]models.RawMessage, error) {
	return listMessages(ctx, db, `
		SELECT body, message_ts FROM raw_messages
		ORDER BY message_ts DESC`)
}

// DeleteAllMessages removes every stored message.
func DeleteAllMessages(db *sql.DB) error {
	if _, err := db.Exec(`DELETE FROM raw_messages`); err != nil {
		return fmt.Errorf("deleting raw messages: %w", err)
	}
	return nil
}

func listMessages(ctx context.Context, db *sql.DB, query string, args ...any) ([]models.RawMessage, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying raw messages: %w", err)
	}
	defer rows.Close()

	var msgs []models.RawMessage
	for rows.Next() {
		var body string
		var ts int64
		if err := rows.Scan(&body, &ts); err != nil {
			return nil, fmt.Errorf("scanning raw message: %w", err)
		}
		msgs = append(msgs, models.RawMessage{Body: body, Timestamp: time.UnixMilli(ts)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating raw messages: %w", err)
	}
	return msgs, nil
}
