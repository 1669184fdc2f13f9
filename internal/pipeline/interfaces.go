package pipeline

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/probooks/reconciler/internal/model"
)

// ExtractionClient sends content to the language-model extraction service
// and returns the raw response text. Responses are free text expected to
// contain one JSON object, possibly surrounded by prose.
type ExtractionClient interface {
	// ExtractFromText submits an instruction plus a text input.
	ExtractFromText(ctx context.Context, instruction, input string) (string, error)

	// ExtractFromDocument submits an instruction plus inline document bytes
	// tagged with their media type.
	ExtractFromDocument(ctx context.Context, instruction, mimeType string, data []byte) (string, error)
}

// LineExtractor produces the trimmed, non-empty text lines of a PDF
// document, page order then line order.
type LineExtractor interface {
	Lines(data []byte) ([]string, error)
}

// RecordStore is the persistence surface the pipeline writes to.
type RecordStore interface {
	InsertTransaction(ctx context.Context, date, description string, amount decimal.Decimal, txType string) (int64, error)
	InsertInvoice(ctx context.Context, inv model.Invoice) (int64, error)

	StartRun(ctx context.Context, kind, filename string) (string, error)
	MarkRunSucceeded(ctx context.Context, runID string, inserted int) error
	MarkRunFailed(ctx context.Context, runID string, runErr error) error
}
