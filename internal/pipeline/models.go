package pipeline

import "github.com/shopspring/decimal"

// TransactionCandidate is one statement line the model managed to
// structure. It is not yet classified as a debit.
type TransactionCandidate struct {
	Date        string
	Description string
	Amount      decimal.Decimal
	Type        string // model's Debit/Credit verdict, any casing
}

// StatementSummary reports what happened to each line of one statement
// ingestion. Inserted is the count the caller-facing contract promises;
// the other fields keep per-line failures observable.
type StatementSummary struct {
	Inserted      int // debit transactions written to the store
	NotDebit      int // lines the debit classifier rejected
	ExtractFailed int // extraction or parse failures, logged and skipped
}
