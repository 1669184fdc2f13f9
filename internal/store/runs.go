package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/probooks/reconciler/internal/model"
)

// maxErrorMessageLen caps stored error messages.
const maxErrorMessageLen = 2000

// StartRun creates an ingestion_runs row with status=RUNNING and returns
// the generated run id.
func (s *Store) StartRun(ctx context.Context, kind, filename string) (string, error) {
	runID := uuid.NewString()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO ingestion_runs (run_id, kind, filename, started_at, status)
		VALUES (?, ?, ?, ?, ?)`,
		runID, kind, filename, time.Now(), model.RunStatusRunning,
	)
	if err != nil {
		return "", fmt.Errorf("StartRun: %w", err)
	}
	return runID, nil
}

// MarkRunSucceeded updates an ingestion run to status=SUCCESS and records
// how many rows the run inserted.
func (s *Store) MarkRunSucceeded(ctx context.Context, runID string, inserted int) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE ingestion_runs
		SET status = ?, finished_at = ?, error_message = '', inserted_count = ?
		WHERE run_id = ?`,
		model.RunStatusSuccess, time.Now(), inserted, runID,
	)
	if err != nil {
		return fmt.Errorf("MarkRunSucceeded: %w", err)
	}
	return nil
}

// MarkRunFailed updates an ingestion run to status=FAILED with the cause.
func (s *Store) MarkRunFailed(ctx context.Context, runID string, runErr error) error {
	errMsg := ""
	if runErr != nil {
		errMsg = runErr.Error()
		if len(errMsg) > maxErrorMessageLen {
			errMsg = errMsg[:maxErrorMessageLen]
		}
	}

	_, err := s.db.ExecContext(ctx, `
		UPDATE ingestion_runs
		SET status = ?, finished_at = ?, error_message = ?
		WHERE run_id = ?`,
		model.RunStatusFailed, time.Now(), errMsg, runID,
	)
	if err != nil {
		return fmt.Errorf("MarkRunFailed: %w", err)
	}
	return nil
}

// ListRuns returns all ingestion runs, most recent first.
func (s *Store) ListRuns(ctx context.Context) ([]model.IngestionRun, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, kind, filename, started_at, finished_at, status, error_message, inserted_count
		FROM ingestion_runs ORDER BY started_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("ListRuns: %w", err)
	}
	defer rows.Close()

	var runs []model.IngestionRun
	for rows.Next() {
		var run model.IngestionRun
		var finished sql.NullTime
		if err := rows.Scan(&run.RunID, &run.Kind, &run.Filename, &run.StartedAt,
			&finished, &run.Status, &run.ErrorMessage, &run.InsertedCount); err != nil {
			return nil, fmt.Errorf("ListRuns: scanning run: %w", err)
		}
		if finished.Valid {
			t := finished.Time
			run.FinishedAt = &t
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListRuns: iterating runs: %w", err)
	}
	return runs, nil
}
