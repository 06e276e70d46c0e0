package model

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/username/sadakatracker/backend/src/models"
)

// ReplaceTransactions swaps the stored transaction set for the given one in
// a single database transaction. The pipeline always produces the complete
// deduplicated set, so a full replace keeps the table consistent with the
// newest run.
func ReplaceTransactions(db *sql.DB, txs []models.ParsedTransaction) error {
	dbTx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction replace: %w", err)
	}
	defer dbTx.Rollback()

	if _, err := dbTx.Exec(`DELETE FROM transactions`); err != nil {
		return fmt.Errorf("clearing transactions: %w", err)
	}

	stmt, err := dbTx.Prepare(`
		INSERT INTO transactions (
			transaction_id, amount, sender, phone_number, account,
			balance, transaction_type, date_ts, raw_message
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing transaction insert: %w", err)
	}
	defer stmt.Close()

	for _, tx := range txs {
		var balance sql.NullString
		if tx.Balance.Valid {
			balance = sql.NullString{String: tx.Balance.Decimal.String(), Valid: true}
		}
		_, err := stmt.Exec(
			tx.TransactionID, tx.Amount.String(), tx.Sender, tx.PhoneNumber,
			tx.Account, balance, string(tx.TransactionType),
			tx.Date.UnixMilli(), tx.RawMessage,
		)
		if err != nil {
			return fmt.Errorf("inserting transaction %s: %w", tx.TransactionID, err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction replace: %w", err)
	}
	return nil
}

// ListTransactions returns the stored transactions with date inside
// [from, to], newest first. Zero bounds mean unbounded on that side.
func ListTransactions(db *sql.DB, from, to time.Time) ([]models.ParsedTransaction, error) {
	query := `
		SELECT id, transaction_id, amount, sender, phone_number, account,
		       balance, transaction_type, date_ts, raw_message
		FROM transactions`
	var (
		conds []string
		args  []any
	)
	if !from.IsZero() {
		conds = append(conds, "date_ts >= ?")
		args = append(args, from.UnixMilli())
	}
	if !to.IsZero() {
		conds = append(conds, "date_ts <= ?")
		args = append(args, to.UnixMilli())
	}
	for i, cond := range conds {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY date_ts DESC, id DESC"

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying transactions: %w", err)
	}
	defer rows.Close()

	var txs []models.ParsedTransaction
	for rows.Next() {
		var (
			tx        models.ParsedTransaction
			amountStr string
			balance   sql.NullString
			txType    string
			dateTS    int64
		)
		err := rows.Scan(
			&tx.ID, &tx.TransactionID, &amountStr, &tx.Sender, &tx.PhoneNumber,
			&tx.Account, &balance, &txType, &dateTS, &tx.RawMessage,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		tx.Amount, err = decimal.NewFromString(amountStr)
		if err != nil {
			return nil, fmt.Errorf("stored amount %q is not a decimal: %w", amountStr, err)
		}
		if balance.Valid {
			b, err := decimal.NewFromString(balance.String)
			if err != nil {
				return nil, fmt.Errorf("stored balance %q is not a decimal: %w", balance.String, err)
			}
			tx.Balance = decimal.NullDecimal{Decimal: b, Valid: true}
		}
		tx.TransactionType = models.TransactionType(txType)
		tx.Date = time.UnixMilli(dateTS)

		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transactions: %w", err)
	}
	return txs, nil
}

// DeleteAllTransactions removes every stored transaction.
func DeleteAllTransactions(db *sql.DB) error {
	if _, err := db.Exec(`DELETE FROM transactions`); err != nil {
		return fmt.Errorf("deleting transactions: %w", err)
	}
	return nil
}
