// Package reconcile pairs unmatched debit transactions with vendor
// invoices by amount tolerance and fuzzy vendor-name matching.
package reconcile

import (
	"context"
	"fmt"
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/probooks/reconciler/internal/model"
)

// Default knobs for a reconciliation pass.
const (
	DefaultTolerance      = 0.5
	DefaultFuzzyThreshold = 65
)

// Store is the slice of the record store the engine needs.
type Store interface {
	ListUnmatchedTransactions(ctx context.Context) ([]model.Transaction, error)
	ListInvoices(ctx context.Context) ([]model.Invoice, error)
	UpdateTransactionMatch(ctx context.Context, id int64, invoiceNumber string) error
}

// Scorer computes a 0-100 partial similarity between two strings
// (substring-aware, robust to extra padding around the shorter string).
type Scorer interface {
	PartialRatio(a, b string) int
}

// PartialRatioScorer scores with fuzzywuzzy's partial ratio.
type PartialRatioScorer struct{}

// PartialRatio implements Scorer.
func (PartialRatioScorer) PartialRatio(a, b string) int {
	return fuzzy.PartialRatio(a, b)
}

// Options tune one reconciliation pass.
type Options struct {
	// Tolerance is the maximum absolute difference between a transaction
	// amount and an invoice total for the pair to be considered.
	Tolerance decimal.Decimal

	// FuzzyThreshold is the minimum 0-100 name-similarity score when the
	// business name is not a plain substring of the description.
	FuzzyThreshold int
}

// DefaultOptions returns the standard tolerance and threshold.
func DefaultOptions() Options {
	return Options{
		Tolerance:      decimal.NewFromFloat(DefaultTolerance),
		FuzzyThreshold: DefaultFuzzyThreshold,
	}
}

// Engine runs reconciliation passes against the record store.
type Engine struct {
	store  Store
	scorer Scorer
	log    zerolog.Logger
}

// NewEngine creates an engine. A nil scorer selects PartialRatioScorer.
func NewEngine(store Store, scorer Scorer, log zerolog.Logger) *Engine {
	if scorer == nil {
		scorer = PartialRatioScorer{}
	}
	return &Engine{
		store:  store,
		scorer: scorer,
		log:    log,
	}
}

// Run performs one deterministic reconciliation pass and reports how many
// transactions were newly matched. Transactions and invoices are both
// visited in store order; the first invoice satisfying the predicate wins
// and scanning stops for that transaction. An invoice may be reused by any
// number of transactions.
func (e *Engine) Run(ctx context.Context, opts Options) (int, error) {
	txs, err := e.store.ListUnmatchedTransactions(ctx)
	if err != nil {
		return 0, fmt.Errorf("Run: listing transactions: %w", err)
	}
	invs, err := e.store.ListInvoices(ctx)
	if err != nil {
		return 0, fmt.Errorf("Run: listing invoices: %w", err)
	}

	matched := 0
	for _, tx := range txs {
		for _, inv := range invs {
			if !e.matches(tx, inv, opts) {
				continue
			}
			if err := e.store.UpdateTransactionMatch(ctx, tx.ID, inv.InvoiceID); err != nil {
				return matched, fmt.Errorf("Run: marking transaction %d matched: %w", tx.ID, err)
			}
			e.log.Debug().
				Int64("transaction_id", tx.ID).
				Str("invoice_id", inv.InvoiceID).
				Msg("transaction matched")
			matched++
			break
		}
	}

	e.log.Info().
		Int("candidates", len(txs)).
		Int("invoices", len(invs)).
		Int("matched", matched).
		Msg("reconciliation pass complete")
	return matched, nil
}

// matches applies the amount-tolerance and vendor-name predicates. The
// substring check runs before the fuzzy score purely as a fast path; both
// express "plausibly the same vendor", so false positives are accepted.
func (e *Engine) matches(tx model.Transaction, inv model.Invoice, opts Options) bool {
	if tx.Amount.Sub(inv.TotalAmount).Abs().GreaterThan(opts.Tolerance) {
		return false
	}

	name := strings.ToLower(inv.BusinessName)
	if name == "" {
		return false
	}
	desc := strings.ToLower(tx.Description)

	if strings.Contains(desc, name) {
		return true
	}
	return e.scorer.PartialRatio(name, desc) >= opts.FuzzyThreshold
}
