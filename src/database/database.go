package database

import (
	"database/sql"
	stdlog "log"

	"github.com/username/sadakatracker/backend/src/logger"
	_ "modernc.org/sqlite"
)

var DB *sql.DB

func InitDB(databasePath string) {
	db, err := sql.Open("sqlite", databasePath)
	if err != nil {
		stdlog.Fatalf("failed to open database at %s: %v", databasePath, err)
	}

	DB = db

	if logger.L != nil {
		logger.L.Info("Ensuring database schema", "databasePath", databasePath)
	} else {
		stdlog.Println("Ensuring database schema for:", databasePath)
	}

	createTableStatement := `
	CREATE TABLE IF NOT EXISTS raw_messages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		import_id TEXT NOT NULL,
		address TEXT NOT NULL DEFAULT '',
		body TEXT NOT NULL,
		message_ts INTEGER NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(message_ts, body)
	);

	CREATE INDEX IF NOT EXISTS idx_raw_messages_address ON raw_messages(address);

	CREATE TABLE IF NOT EXISTS transactions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		transaction_id TEXT NOT NULL UNIQUE,
		amount TEXT NOT NULL,
		sender TEXT NOT NULL,
		phone_number TEXT NOT NULL,
		account TEXT NOT NULL DEFAULT '',
		balance TEXT,
		transaction_type TEXT NOT NULL,
		date_ts INTEGER NOT NULL,
		raw_message TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_transactions_date_ts ON transactions(date_ts);
	`

	if _, err := DB.Exec(createTableStatement); err != nil {
		stdlog.Fatalf("failed to create database schema: %v", err)
	}
}
