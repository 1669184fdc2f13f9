package store

// Schema defines the SQL statements to create the reconciliation tables.
// Every statement is idempotent so reopening an existing database is safe.
const Schema = `
-- Debit transactions parsed out of bank statements.
-- Match fields are the only mutable part; rows are never deleted.
CREATE TABLE IF NOT EXISTS transactions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    date TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    amount TEXT NOT NULL DEFAULT '0',          -- decimal, stored as text
    type TEXT NOT NULL DEFAULT 'Debit',
    need_invoice TEXT NOT NULL DEFAULT 'Yes',
    has_invoice TEXT NOT NULL DEFAULT 'Unmatched',
    invoice_number TEXT                        -- soft reference to invoices.invoice_id
);

CREATE INDEX IF NOT EXISTS idx_transactions_match
    ON transactions(need_invoice, has_invoice);

-- Vendor invoices extracted from uploaded documents. Immutable once inserted.
CREATE TABLE IF NOT EXISTS invoices (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    invoice_id TEXT NOT NULL DEFAULT '',
    business_name TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    gstin TEXT NOT NULL DEFAULT '',
    taxable_amount TEXT NOT NULL DEFAULT '0',
    sgst_amount TEXT NOT NULL DEFAULT '0',
    cgst_amount TEXT NOT NULL DEFAULT '0',
    igst_amount TEXT NOT NULL DEFAULT '0',
    total_amount TEXT NOT NULL DEFAULT '0'
);

-- One row per statement or invoice ingestion attempt.
CREATE TABLE IF NOT EXISTS ingestion_runs (
    run_id TEXT PRIMARY KEY,
    kind TEXT NOT NULL,                        -- 'statement' or 'invoice'
    filename TEXT NOT NULL DEFAULT '',
    started_at TIMESTAMP NOT NULL,
    finished_at TIMESTAMP,
    status TEXT NOT NULL,                      -- RUNNING / SUCCESS / FAILED
    error_message TEXT NOT NULL DEFAULT '',
    inserted_count INTEGER NOT NULL DEFAULT 0
);
`
