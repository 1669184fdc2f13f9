package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/probooks/reconciler/internal/model"
)

// IngestBankStatement extracts the text lines of a bank statement PDF,
// structures each line through the extraction service and inserts every
// accepted debit as a transaction. Lines that fail extraction or are not
// debits are logged and skipped; only store failures abort the batch.
func (s *Service) IngestBankStatement(ctx context.Context, pdfBytes []byte, filename string) (StatementSummary, error) {
	var summary StatementSummary

	runID, err := s.store.StartRun(ctx, model.RunKindStatement, filename)
	if err != nil {
		return summary, fmt.Errorf("IngestBankStatement: starting run: %w", err)
	}

	lines, err := s.lines.Lines(pdfBytes)
	if err != nil {
		s.markRunFailed(ctx, runID, err)
		return summary, fmt.Errorf("IngestBankStatement: extracting text lines: %w", err)
	}

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		cand, ok := s.extractTransactionLine(ctx, line)
		if !ok {
			summary.ExtractFailed++
			continue
		}
		if !isDebit(cand.Type, line) {
			summary.NotDebit++
			continue
		}

		desc := cand.Description
		if desc == "" {
			desc = line
		}
		if _, err := s.store.InsertTransaction(ctx, cand.Date, desc, cand.Amount, model.TypeDebit); err != nil {
			s.markRunFailed(ctx, runID, err)
			return summary, fmt.Errorf("IngestBankStatement: inserting transaction: %w", err)
		}
		summary.Inserted++
	}

	if err := s.store.MarkRunSucceeded(ctx, runID, summary.Inserted); err != nil {
		return summary, fmt.Errorf("IngestBankStatement: closing run: %w", err)
	}

	s.log.Info().
		Str("file", filename).
		Int("inserted", summary.Inserted).
		Int("not_debit", summary.NotDebit).
		Int("extract_failed", summary.ExtractFailed).
		Msg("statement ingested")
	return summary, nil
}

// extractTransactionLine asks the model to structure one statement line.
// A false return means the line yields no candidate; the reason is logged
// and ingestion moves on to the next line.
func (s *Service) extractTransactionLine(ctx context.Context, line string) (TransactionCandidate, bool) {
	raw, err := s.client.ExtractFromText(ctx, transactionPrompt, transactionLineInput(line))
	if err != nil {
		s.log.Warn().Err(err).Str("line", line).Msg("transaction line extraction failed")
		return TransactionCandidate{}, false
	}

	obj, ok := firstJSONObject(raw)
	if !ok {
		s.log.Warn().Str("line", line).Msg("no JSON object in extraction response")
		return TransactionCandidate{}, false
	}

	return TransactionCandidate{
		Date:        stringField(obj, "date"),
		Description: stringField(obj, "description"),
		Amount:      coerceAmount(obj["amount"]),
		Type:        stringField(obj, "type"),
	}, true
}

// isDebit decides whether a statement line is a debit. A line passes when
// the extracted type says "debit", or when the raw text contains "debit" or
// "dr". The three signals are ORed even when they disagree: an extracted
// Credit with "dr" in the raw text still passes, and the bare "dr" check
// matches inside ordinary words. Both quirks are kept as-is rather than
// guessing a precedence.
func isDebit(extractedType, line string) bool {
	if strings.EqualFold(strings.TrimSpace(extractedType), "debit") {
		return true
	}
	lower := strings.ToLower(line)
	return strings.Contains(lower, "debit") || strings.Contains(lower, "dr")
}
