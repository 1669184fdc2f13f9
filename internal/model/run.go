package model

import "time"

// Ingestion run kinds.
const (
	RunKindStatement = "statement"
	RunKindInvoice   = "invoice"
)

// Ingestion run statuses.
const (
	RunStatusRunning = "RUNNING"
	RunStatusSuccess = "SUCCESS"
	RunStatusFailed  = "FAILED"
)

// IngestionRun records one statement or invoice ingestion attempt.
// Runs are bookkeeping for ingestion only; they carry no match state.
type IngestionRun struct {
	RunID         string // uuid
	Kind          string
	Filename      string
	StartedAt     time.Time
	FinishedAt    *time.Time
	Status        string
	ErrorMessage  string
	InsertedCount int
}
