// Package pipeline turns raw bank statements and invoice documents into
// structured records via the extraction service and writes them to the
// record store.
package pipeline

import (
	"context"

	"github.com/rs/zerolog"
)

// Service runs the extraction pipeline. All collaborators are injected so
// tests can substitute fakes for the store, the extraction service and the
// PDF text extractor.
type Service struct {
	store  RecordStore
	client ExtractionClient
	lines  LineExtractor
	log    zerolog.Logger
}

// NewService creates a pipeline service.
func NewService(store RecordStore, client ExtractionClient, lines LineExtractor, log zerolog.Logger) *Service {
	return &Service{
		store:  store,
		client: client,
		lines:  lines,
		log:    log,
	}
}

// markRunFailed records a run failure; a failure to record is only logged
// because the run row is bookkeeping, not the operation's result.
func (s *Service) markRunFailed(ctx context.Context, runID string, cause error) {
	if err := s.store.MarkRunFailed(ctx, runID, cause); err != nil {
		s.log.Error().Err(err).Str("run_id", runID).Msg("failed to mark ingestion run failed")
	}
}
