package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/probooks/reconciler/internal/model"
)

// ErrTransactionNotFound is returned when a match update targets an id that
// does not exist. The engine only passes ids it just listed, so hitting this
// indicates a corrupted or externally modified database.
var ErrTransactionNotFound = errors.New("transaction not found")

// InsertTransaction appends a debit transaction row with need_invoice=Yes
// and has_invoice=Unmatched, returning the store-assigned id.
func (s *Store) InsertTransaction(ctx context.Context, date, description string, amount decimal.Decimal, txType string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions (date, description, amount, type, need_invoice, has_invoice)
		VALUES (?, ?, ?, ?, ?, ?)`,
		date, description, amount.String(), txType,
		model.NeedInvoiceYes, model.MatchStateUnmatched,
	)
	if err != nil {
		return 0, fmt.Errorf("InsertTransaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("InsertTransaction: last insert id: %w", err)
	}
	return id, nil
}

// ListTransactions returns all transactions in insertion order.
func (s *Store) ListTransactions(ctx context.Context) ([]model.Transaction, error) {
	return s.queryTransactions(ctx, `
		SELECT id, date, description, amount, type, need_invoice, has_invoice, invoice_number
		FROM transactions ORDER BY id`)
}

// ListUnmatchedTransactions returns the transactions still requiring an
// invoice, in insertion order.
func (s *Store) ListUnmatchedTransactions(ctx context.Context) ([]model.Transaction, error) {
	return s.queryTransactions(ctx, `
		SELECT id, date, description, amount, type, need_invoice, has_invoice, invoice_number
		FROM transactions
		WHERE need_invoice = ? AND has_invoice = ?
		ORDER BY id`,
		model.NeedInvoiceYes, model.MatchStateUnmatched)
}

// UpdateTransactionMatch marks a transaction as matched and records the
// invoice number it matched against.
func (s *Store) UpdateTransactionMatch(ctx context.Context, id int64, invoiceNumber string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE transactions SET has_invoice = ?, invoice_number = ? WHERE id = ?`,
		model.MatchStateMatched, invoiceNumber, id,
	)
	if err != nil {
		return fmt.Errorf("UpdateTransactionMatch: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("UpdateTransactionMatch: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("UpdateTransactionMatch: id %d: %w", id, ErrTransactionNotFound)
	}
	return nil
}

func (s *Store) queryTransactions(ctx context.Context, query string, args ...interface{}) ([]model.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying transactions: %w", err)
	}
	defer rows.Close()

	var txs []model.Transaction
	for rows.Next() {
		var (
			tx            model.Transaction
			amount        string
			invoiceNumber sql.NullString
		)
		if err := rows.Scan(&tx.ID, &tx.Date, &tx.Description, &amount, &tx.Type,
			&tx.NeedInvoice, &tx.HasInvoice, &invoiceNumber); err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}
		tx.Amount = parseStoredAmount(amount)
		if invoiceNumber.Valid {
			v := invoiceNumber.String
			tx.InvoiceNumber = &v
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transactions: %w", err)
	}
	return txs, nil
}

// parseStoredAmount decodes an amount column. Amounts are written by this
// package as decimal strings; anything else decodes as zero.
func parseStoredAmount(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
