package store

import (
	"context"
	"fmt"

	"github.com/probooks/reconciler/internal/model"
)

// InsertInvoice appends an invoice row verbatim and returns the
// store-assigned id. Invoices are never updated or deleted.
func (s *Store) InsertInvoice(ctx context.Context, inv model.Invoice) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO invoices (invoice_id, business_name, description, gstin,
			taxable_amount, sgst_amount, cgst_amount, igst_amount, total_amount)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.InvoiceID, inv.BusinessName, inv.Description, inv.GSTIN,
		inv.TaxableAmount.String(), inv.SGSTAmount.String(), inv.CGSTAmount.String(),
		inv.IGSTAmount.String(), inv.TotalAmount.String(),
	)
	if err != nil {
		return 0, fmt.Errorf("InsertInvoice: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("InsertInvoice: last insert id: %w", err)
	}
	return id, nil
}

// ListInvoices returns all invoices in insertion order.
func (s *Store) ListInvoices(ctx context.Context) ([]model.Invoice, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, invoice_id, business_name, description, gstin,
			taxable_amount, sgst_amount, cgst_amount, igst_amount, total_amount
		FROM invoices ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("ListInvoices: %w", err)
	}
	defer rows.Close()

	var invs []model.Invoice
	for rows.Next() {
		var inv model.Invoice
		var taxable, sgst, cgst, igst, total string
		if err := rows.Scan(&inv.ID, &inv.InvoiceID, &inv.BusinessName, &inv.Description,
			&inv.GSTIN, &taxable, &sgst, &cgst, &igst, &total); err != nil {
			return nil, fmt.Errorf("ListInvoices: scanning invoice: %w", err)
		}
		inv.TaxableAmount = parseStoredAmount(taxable)
		inv.SGSTAmount = parseStoredAmount(sgst)
		inv.CGSTAmount = parseStoredAmount(cgst)
		inv.IGSTAmount = parseStoredAmount(igst)
		inv.TotalAmount = parseStoredAmount(total)
		invs = append(invs, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListInvoices: iterating invoices: %w", err)
	}
	return invs, nil
}
