package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/probooks/reconciler/internal/model"
)

// ErrExtractionFailed signals that an invoice document could not be
// structured by the extraction service. The record store is left untouched.
var ErrExtractionFailed = errors.New("invoice extraction failed")

// IngestInvoice structures one invoice file (PDF or image) through the
// extraction service and inserts the resulting record. Monetary fields are
// coerced independently, so a missing or garbled field becomes zero rather
// than failing the record; only a wholly unusable response fails.
func (s *Service) IngestInvoice(ctx context.Context, data []byte, filename string) (*model.Invoice, error) {
	runID, err := s.store.StartRun(ctx, model.RunKindInvoice, filename)
	if err != nil {
		return nil, fmt.Errorf("IngestInvoice: starting run: %w", err)
	}

	raw, err := s.client.ExtractFromDocument(ctx, invoicePrompt, invoiceMIMEType(filename), data)
	if err != nil {
		s.log.Warn().Err(err).Str("file", filename).Msg("invoice extraction failed")
		s.markRunFailed(ctx, runID, err)
		return nil, ErrExtractionFailed
	}

	obj, ok := firstJSONObject(raw)
	if !ok {
		s.log.Warn().Str("file", filename).Msg("no JSON object in extraction response")
		s.markRunFailed(ctx, runID, ErrExtractionFailed)
		return nil, ErrExtractionFailed
	}

	inv := model.Invoice{
		InvoiceID:     stringField(obj, "invoice_id"),
		BusinessName:  stringField(obj, "business_name"),
		Description:   stringField(obj, "description"),
		GSTIN:         stringField(obj, "gstin"),
		TaxableAmount: coerceAmount(obj["taxable_amount"]),
		SGSTAmount:    coerceAmount(obj["sgst_amount"]),
		CGSTAmount:    coerceAmount(obj["cgst_amount"]),
		IGSTAmount:    coerceAmount(obj["igst_amount"]),
		TotalAmount:   coerceAmount(obj["total_amount"]),
	}

	id, err := s.store.InsertInvoice(ctx, inv)
	if err != nil {
		s.markRunFailed(ctx, runID, err)
		return nil, fmt.Errorf("IngestInvoice: inserting invoice: %w", err)
	}
	inv.ID = id

	if err := s.store.MarkRunSucceeded(ctx, runID, 1); err != nil {
		return nil, fmt.Errorf("IngestInvoice: closing run: %w", err)
	}

	s.log.Info().
		Str("file", filename).
		Str("invoice_id", inv.InvoiceID).
		Str("business_name", inv.BusinessName).
		Msg("invoice ingested")
	return &inv, nil
}

// invoiceMIMEType maps the uploaded filename to the media type sent with
// the document bytes. Unknown extensions are treated as PNG images.
func invoiceMIMEType(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return "application/pdf"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".webp":
		return "image/webp"
	default:
		return "image/png"
	}
}
