package db

import (
	"database/sql"
	"fmt"
)

// SchemaSQL is the complete schema for fresh installs.
// This schema reflects the current state after all migrations.
//
// This is the SINGLE SOURCE OF TRUTH for the database schema. Repository
// tests load it through GetSchemaSQL() instead of declaring their own tables,
// so a column referenced by an adapter but missing here fails immediately.
//
// When adding new columns or tables:
//  1. Add a migration in migrations.go
//  2. Update SchemaSQL here
const SchemaSQL = `
-- Journal (audit trail of payment sessions)
CREATE TABLE IF NOT EXISTS journal (
	id TEXT PRIMARY KEY,
	session_id TEXT NOT NULL,
	timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
	actor_id TEXT,
	action TEXT NOT NULL CHECK(action IN ('transition', 'search', 'submit', 'paid', 'failed', 'receipt', 'reset')),
	subject_type TEXT NOT NULL CHECK(subject_type IN ('session', 'customer', 'bill', 'payment')),
	subject_id TEXT NOT NULL,
	old_value TEXT,
	new_value TEXT,
	detail TEXT
);

CREATE INDEX IF NOT EXISTS idx_journal_session ON journal(session_id);
CREATE INDEX IF NOT EXISTS idx_journal_timestamp ON journal(timestamp);
CREATE INDEX IF NOT EXISTS idx_journal_subject ON journal(subject_id);

-- Receipt archive (one row per backend transaction, kept for offline reprint)
CREATE TABLE IF NOT EXISTS receipts (
	id TEXT PRIMARY KEY,
	transaction_number TEXT NOT NULL UNIQUE,
	payment_id TEXT,
	bill_id TEXT,
	session_id TEXT,
	customer_code TEXT NOT NULL,
	customer_name TEXT NOT NULL,
	period TEXT,
	amount_paid TEXT NOT NULL,
	cashier TEXT,
	paid_at TEXT,
	payload TEXT NOT NULL,
	archived_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_receipts_customer ON receipts(customer_code);
CREATE INDEX IF NOT EXISTS idx_receipts_paid_at ON receipts(paid_at);
`

// InitSchema creates the database schema or upgrades an existing one.
func InitSchema(db *sql.DB) error {
	// Check if schema_version table exists to determine if this is a fresh install
	var tableCount int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&tableCount)
	if err != nil {
		return err
	}

	if tableCount > 0 {
		return RunMigrations(db)
	}

	// Completely fresh install - create the current schema directly and
	// mark every migration as applied.
	if _, err := db.Exec(SchemaSQL); err != nil {
		return err
	}
	if err := createVersionTable(db); err != nil {
		return err
	}
	for _, m := range migrations {
		if _, err := db.Exec("INSERT INTO schema_version (version) VALUES (?)", m.Version); err != nil {
			return fmt.Errorf("failed to mark migration %d applied: %w", m.Version, err)
		}
	}
	return nil
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
// Tests should use this instead of hardcoding their own schema to prevent drift.
func GetSchemaSQL() string {
	return SchemaSQL
}
