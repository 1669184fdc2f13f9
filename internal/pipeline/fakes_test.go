package pipeline

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/probooks/reconciler/internal/model"
)

// fakeExtractionClient is a func-backed ExtractionClient for tests.
type fakeExtractionClient struct {
	ExtractFromTextFunc     func(ctx context.Context, instruction, input string) (string, error)
	ExtractFromDocumentFunc func(ctx context.Context, instruction, mimeType string, data []byte) (string, error)

	// DocumentMIMETypes records the media types submitted with documents.
	DocumentMIMETypes []string
}

func (f *fakeExtractionClient) ExtractFromText(ctx context.Context, instruction, input string) (string, error) {
	if f.ExtractFromTextFunc != nil {
		return f.ExtractFromTextFunc(ctx, instruction, input)
	}
	return "{}", nil
}

func (f *fakeExtractionClient) ExtractFromDocument(ctx context.Context, instruction, mimeType string, data []byte) (string, error) {
	f.DocumentMIMETypes = append(f.DocumentMIMETypes, mimeType)
	if f.ExtractFromDocumentFunc != nil {
		return f.ExtractFromDocumentFunc(ctx, instruction, mimeType, data)
	}
	return "{}", nil
}

// fakeLineExtractor returns canned lines for any document.
type fakeLineExtractor struct {
	lines []string
	err   error
}

func (f *fakeLineExtractor) Lines(data []byte) ([]string, error) {
	return f.lines, f.err
}

// fakeRecordStore is an in-memory RecordStore.
type fakeRecordStore struct {
	transactions []model.Transaction
	invoices     []model.Invoice
	runs         map[string]string // run id -> final status

	insertTransactionErr error
	insertInvoiceErr     error
	startRunErr          error
}

func newFakeRecordStore() *fakeRecordStore {
	return &fakeRecordStore{runs: make(map[string]string)}
}

func (f *fakeRecordStore) InsertTransaction(ctx context.Context, date, description string, amount decimal.Decimal, txType string) (int64, error) {
	if f.insertTransactionErr != nil {
		return 0, f.insertTransactionErr
	}
	id := int64(len(f.transactions) + 1)
	f.transactions = append(f.transactions, model.Transaction{
		ID:          id,
		Date:        date,
		Description: description,
		Amount:      amount,
		Type:        txType,
		NeedInvoice: model.NeedInvoiceYes,
		HasInvoice:  model.MatchStateUnmatched,
	})
	return id, nil
}

func (f *fakeRecordStore) InsertInvoice(ctx context.Context, inv model.Invoice) (int64, error) {
	if f.insertInvoiceErr != nil {
		return 0, f.insertInvoiceErr
	}
	inv.ID = int64(len(f.invoices) + 1)
	f.invoices = append(f.invoices, inv)
	return inv.ID, nil
}

func (f *fakeRecordStore) StartRun(ctx context.Context, kind, filename string) (string, error) {
	if f.startRunErr != nil {
		return "", f.startRunErr
	}
	runID := fmt.Sprintf("run-%d", len(f.runs)+1)
	f.runs[runID] = model.RunStatusRunning
	return runID, nil
}

func (f *fakeRecordStore) MarkRunSucceeded(ctx context.Context, runID string, inserted int) error {
	f.runs[runID] = model.RunStatusSuccess
	return nil
}

func (f *fakeRecordStore) MarkRunFailed(ctx context.Context, runID string, runErr error) error {
	f.runs[runID] = model.RunStatusFailed
	return nil
}
