package model

import "github.com/shopspring/decimal"

// TypeDebit is the only transaction type the store ever holds; credit lines
// are discarded during statement ingestion.
const TypeDebit = "Debit"

// Values for Transaction.NeedInvoice.
const (
	NeedInvoiceYes = "Yes"
	NeedInvoiceNo  = "No"
)

// Values for Transaction.HasInvoice. A transaction only ever moves from
// Unmatched to Matched, and only the reconciliation engine moves it.
const (
	MatchStateUnmatched = "Unmatched"
	MatchStateMatched   = "Matched"
)

// Transaction is one debit row parsed out of a bank statement.
type Transaction struct {
	ID          int64
	Date        string // free-form, source format preserved
	Description string
	Amount      decimal.Decimal // magnitude of the debit
	Type        string          // always TypeDebit
	NeedInvoice string
	HasInvoice  string

	// InvoiceNumber is a soft reference to Invoice.InvoiceID. It is set
	// exactly when HasInvoice is Matched and nil otherwise.
	InvoiceNumber *string
}
