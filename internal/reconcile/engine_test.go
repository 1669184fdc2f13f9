package reconcile

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/probooks/reconciler/internal/logger"
	"github.com/probooks/reconciler/internal/model"
)

// fakeStore is an in-memory Store whose unmatched listing honors match
// state, so repeated passes behave like the real store.
type fakeStore struct {
	transactions []model.Transaction
	invoices     []model.Invoice

	listTransactionsErr error
	updateMatchErr      error
}

func (f *fakeStore) ListUnmatchedTransactions(ctx context.Context) ([]model.Transaction, error) {
	if f.listTransactionsErr != nil {
		return nil, f.listTransactionsErr
	}
	var out []model.Transaction
	for _, tx := range f.transactions {
		if tx.NeedInvoice == model.NeedInvoiceYes && tx.HasInvoice == model.MatchStateUnmatched {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (f *fakeStore) ListInvoices(ctx context.Context) ([]model.Invoice, error) {
	return f.invoices, nil
}

func (f *fakeStore) UpdateTransactionMatch(ctx context.Context, id int64, invoiceNumber string) error {
	if f.updateMatchErr != nil {
		return f.updateMatchErr
	}
	for i := range f.transactions {
		if f.transactions[i].ID == id {
			f.transactions[i].HasInvoice = model.MatchStateMatched
			n := invoiceNumber
			f.transactions[i].InvoiceNumber = &n
			return nil
		}
	}
	return errors.New("transaction not found")
}

// stubScorer returns a fixed similarity for every pair.
type stubScorer struct{ score int }

func (s stubScorer) PartialRatio(a, b string) int { return s.score }

func newTestEngine(store Store, scorer Scorer) *Engine {
	return NewEngine(store, scorer, logger.NewWithWriter(&strings.Builder{}))
}

func tx(id int64, description, amount string) model.Transaction {
	return model.Transaction{
		ID:          id,
		Description: description,
		Amount:      decimal.RequireFromString(amount),
		Type:        model.TypeDebit,
		NeedInvoice: model.NeedInvoiceYes,
		HasInvoice:  model.MatchStateUnmatched,
	}
}

func inv(id int64, invoiceID, businessName, total string) model.Invoice {
	return model.Invoice{
		ID:           id,
		InvoiceID:    invoiceID,
		BusinessName: businessName,
		TotalAmount:  decimal.RequireFromString(total),
	}
}

func TestRun_MatchWithinTolerance(t *testing.T) {
	store := &fakeStore{
		transactions: []model.Transaction{tx(1, "Payment to Acme Traders", "1000.00")},
		invoices:     []model.Invoice{inv(1, "INV-1", "Acme Traders", "1000.30")},
	}
	engine := newTestEngine(store, nil)

	matched, err := engine.Run(context.Background(), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 1, matched)

	got := store.transactions[0]
	assert.Equal(t, model.MatchStateMatched, got.HasInvoice)
	require.NotNil(t, got.InvoiceNumber)
	assert.Equal(t, "INV-1", *got.InvoiceNumber)
}

func TestRun_AmountOutsideTolerance(t *testing.T) {
	store := &fakeStore{
		transactions: []model.Transaction{tx(1, "Payment to Acme Traders", "1000.00")},
		invoices:     []model.Invoice{inv(1, "INV-1", "Acme Traders", "1002.00")},
	}
	engine := newTestEngine(store, nil)

	matched, err := engine.Run(context.Background(), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 0, matched)
	assert.Equal(t, model.MatchStateUnmatched, store.transactions[0].HasInvoice)
	assert.Nil(t, store.transactions[0].InvoiceNumber)
}

func TestRun_ToleranceBoundaryIsInclusive(t *testing.T) {
	// |1000.50 - 1000.00| == 0.5 exactly: inside the tolerance.
	store := &fakeStore{
		transactions: []model.Transaction{tx(1, "Payment to Acme Traders", "1000.50")},
		invoices:     []model.Invoice{inv(1, "INV-1", "Acme Traders", "1000.00")},
	}
	engine := newTestEngine(store, nil)

	matched, err := engine.Run(context.Background(), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 1, matched)
}

func TestRun_JustOutsideTolerance(t *testing.T) {
	store := &fakeStore{
		transactions: []model.Transaction{tx(1, "Payment to Acme Traders", "1000.51")},
		invoices:     []model.Invoice{inv(1, "INV-1", "Acme Traders", "1000.00")},
	}
	engine := newTestEngine(store, nil)

	matched, err := engine.Run(context.Background(), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 0, matched)
}

func TestRun_FirstMatchWins(t *testing.T) {
	store := &fakeStore{
		transactions: []model.Transaction{tx(1, "Payment to Acme Traders", "1000.00")},
		invoices: []model.Invoice{
			inv(1, "INV-FIRST", "Acme Traders", "1000.10"),
			inv(2, "INV-SECOND", "Acme Traders", "1000.00"),
		},
	}
	engine := newTestEngine(store, nil)

	matched, err := engine.Run(context.Background(), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 1, matched)
	// Store order decides, not closeness of amounts.
	assert.Equal(t, "INV-FIRST", *store.transactions[0].InvoiceNumber)
}

func TestRun_Idempotent(t *testing.T) {
	store := &fakeStore{
		transactions: []model.Transaction{tx(1, "Payment to Acme Traders", "1000.00")},
		invoices:     []model.Invoice{inv(1, "INV-1", "Acme Traders", "1000.00")},
	}
	engine := newTestEngine(store, nil)

	first, err := engine.Run(context.Background(), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 1, first)

	second, err := engine.Run(context.Background(), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 0, second)
	assert.Equal(t, "INV-1", *store.transactions[0].InvoiceNumber)
}

func TestRun_InvoiceReuseAcrossTransactions(t *testing.T) {
	store := &fakeStore{
		transactions: []model.Transaction{
			tx(1, "Payment to Acme Traders", "1000.00"),
			tx(2, "Acme Traders monthly retainer", "1000.00"),
		},
		invoices: []model.Invoice{inv(1, "INV-1", "Acme Traders", "1000.00")},
	}
	engine := newTestEngine(store, nil)

	matched, err := engine.Run(context.Background(), DefaultOptions())
	require.NoError(t, err)
	// No claiming: the same invoice covers both transactions.
	assert.Equal(t, 2, matched)
	assert.Equal(t, "INV-1", *store.transactions[0].InvoiceNumber)
	assert.Equal(t, "INV-1", *store.transactions[1].InvoiceNumber)
}

func TestRun_EmptyBusinessNameNeverMatches(t *testing.T) {
	store := &fakeStore{
		transactions: []model.Transaction{tx(1, "Payment to Acme Traders", "1000.00")},
		invoices:     []model.Invoice{inv(1, "INV-1", "", "1000.00")},
	}
	// A maximally generous scorer must not rescue an empty name.
	engine := newTestEngine(store, stubScorer{score: 100})

	matched, err := engine.Run(context.Background(), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 0, matched)
}

func TestRun_FuzzyThreshold(t *testing.T) {
	opts := DefaultOptions()

	tests := []struct {
		name    string
		score   int
		matched int
	}{
		{name: "at threshold", score: opts.FuzzyThreshold, matched: 1},
		{name: "above threshold", score: opts.FuzzyThreshold + 10, matched: 1},
		{name: "below threshold", score: opts.FuzzyThreshold - 1, matched: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Description shares no substring with the name, so only the
			// fuzzy path can match.
			store := &fakeStore{
				transactions: []model.Transaction{tx(1, "UPI:9910002 txn ref 4411", "1000.00")},
				invoices:     []model.Invoice{inv(1, "INV-1", "Acme Traders", "1000.00")},
			}
			engine := newTestEngine(store, stubScorer{score: tt.score})

			matched, err := engine.Run(context.Background(), opts)
			require.NoError(t, err)
			assert.Equal(t, tt.matched, matched)
		})
	}
}

func TestRun_SubstringShortCircuitsFuzzy(t *testing.T) {
	// Case-insensitive substring containment matches even when the scorer
	// would reject the pair.
	store := &fakeStore{
		transactions: []model.Transaction{tx(1, "PAYMENT TO ACME TRADERS LTD", "1000.00")},
		invoices:     []model.Invoice{inv(1, "INV-1", "Acme Traders", "1000.00")},
	}
	engine := newTestEngine(store, stubScorer{score: 0})

	matched, err := engine.Run(context.Background(), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 1, matched)
}

func TestRun_PartialRatioScorerMatchesNoisyDescriptions(t *testing.T) {
	// Real scorer: vendor name buried in statement noise clears the default
	// threshold even though exact containment fails.
	store := &fakeStore{
		transactions: []model.Transaction{tx(1, "POS 884412 ACME TRADRS MUMBAI IN", "1000.00")},
		invoices:     []model.Invoice{inv(1, "INV-1", "Acme Traders", "1000.00")},
	}
	engine := newTestEngine(store, nil)

	matched, err := engine.Run(context.Background(), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 1, matched)
}

func TestRun_CustomTolerance(t *testing.T) {
	store := &fakeStore{
		transactions: []model.Transaction{tx(1, "Payment to Acme Traders", "1000.00")},
		invoices:     []model.Invoice{inv(1, "INV-1", "Acme Traders", "1002.00")},
	}
	engine := newTestEngine(store, nil)

	opts := Options{Tolerance: decimal.NewFromInt(5), FuzzyThreshold: DefaultFuzzyThreshold}
	matched, err := engine.Run(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, 1, matched)
}

func TestRun_StoreErrorsPropagate(t *testing.T) {
	store := &fakeStore{listTransactionsErr: errors.New("database locked")}
	engine := newTestEngine(store, nil)

	_, err := engine.Run(context.Background(), DefaultOptions())
	assert.Error(t, err)
}

func TestRun_UpdateErrorAborts(t *testing.T) {
	store := &fakeStore{
		transactions:   []model.Transaction{tx(1, "Payment to Acme Traders", "1000.00")},
		invoices:       []model.Invoice{inv(1, "INV-1", "Acme Traders", "1000.00")},
		updateMatchErr: errors.New("disk full"),
	}
	engine := newTestEngine(store, nil)

	matched, err := engine.Run(context.Background(), DefaultOptions())
	assert.Error(t, err)
	assert.Equal(t, 0, matched)
}
