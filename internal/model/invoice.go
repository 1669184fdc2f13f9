package model

import "github.com/shopspring/decimal"

// Invoice is one vendor invoice extracted from an uploaded document.
// Invoices are immutable once inserted.
type Invoice struct {
	ID           int64
	InvoiceID    string // external identifier, not guaranteed unique
	BusinessName string // fuzzy-match anchor for reconciliation
	Description  string
	GSTIN        string // informational only

	TaxableAmount decimal.Decimal
	SGSTAmount    decimal.Decimal
	CGSTAmount    decimal.Decimal
	IGSTAmount    decimal.Decimal

	// TotalAmount is the amount compared against transaction amounts.
	TotalAmount decimal.Decimal
}
