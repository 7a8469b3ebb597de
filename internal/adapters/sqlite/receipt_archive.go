package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/example/paydesk/internal/ports/secondary"
)

// ReceiptArchive implements secondary.ReceiptArchive with SQLite.
// The full receipt is kept as a JSON payload; searchable fields are columns.
// The paid_at column holds the payment time in the desk's time zone so that
// date filters match the cashier's calendar day.
type ReceiptArchive struct {
	db  *sql.DB
	loc *time.Location
}

// NewReceiptArchive creates a new SQLite receipt archive in the local time zone.
func NewReceiptArchive(db *sql.DB) *ReceiptArchive {
	return NewReceiptArchiveIn(db, time.Local)
}

// NewReceiptArchiveIn creates a new SQLite receipt archive whose paid dates
// are taken in loc.
func NewReceiptArchiveIn(db *sql.DB, loc *time.Location) *ReceiptArchive {
	return &ReceiptArchive{db: db, loc: loc}
}

// Save archives a receipt. A transaction already archived is left untouched.
func (r *ReceiptArchive) Save(ctx context.Context, rec *secondary.ArchivedReceiptRecord) error {
	if rec.Receipt.TransactionNumber == "" {
		return fmt.Errorf("cannot archive receipt without transaction number")
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	payload, err := json.Marshal(rec.Receipt)
	if err != nil {
		return fmt.Errorf("failed to encode receipt: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO receipts (id, transaction_number, payment_id, bill_id, session_id, customer_code, customer_name, period, amount_paid, cashier, paid_at, payload)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(transaction_number) DO NOTHING`,
		rec.ID,
		rec.Receipt.TransactionNumber,
		nullString(rec.PaymentID),
		nullString(rec.BillID),
		nullString(rec.SessionID),
		rec.Receipt.CustomerCode,
		rec.Receipt.CustomerName,
		nullString(rec.Receipt.Period),
		rec.Receipt.AmountPaid.String(),
		nullString(rec.Receipt.Cashier),
		nullString(r.localPaidAt(rec.Receipt.PaidAt)),
		string(payload),
	)
	if err != nil {
		return fmt.Errorf("failed to archive receipt: %w", err)
	}

	return nil
}

// GetByTransaction retrieves an archived receipt by transaction number.
func (r *ReceiptArchive) GetByTransaction(ctx context.Context, transactionNumber string) (*secondary.ArchivedReceiptRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, payment_id, bill_id, session_id, payload, archived_at FROM receipts WHERE transaction_number = ?`,
		transactionNumber,
	)

	record, err := scanArchived(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("receipt %s: %w", transactionNumber, secondary.ErrNotArchived)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get archived receipt: %w", err)
	}

	return record, nil
}

// List retrieves archived receipts matching the given filters.
func (r *ReceiptArchive) List(ctx context.Context, filters secondary.ArchiveFilters) ([]*secondary.ArchivedReceiptRecord, error) {
	query := `SELECT id, payment_id, bill_id, session_id, payload, archived_at FROM receipts WHERE 1=1`
	args := []any{}

	if filters.CustomerCode != "" {
		query += " AND customer_code = ?"
		args = append(args, filters.CustomerCode)
	}

	if filters.PaidOn != "" {
		query += " AND substr(paid_at, 1, 10) = ?"
		args = append(args, filters.PaidOn)
	}

	query += " ORDER BY archived_at DESC, rowid DESC"

	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list archived receipts: %w", err)
	}
	defer rows.Close()

	var recs []*secondary.ArchivedReceiptRecord
	for rows.Next() {
		record, err := scanArchived(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan archived receipt: %w", err)
		}
		recs = append(recs, record)
	}

	return recs, rows.Err()
}

// localPaidAt converts a backend timestamp to the archive's time zone.
// Values without a zone are stored as received.
func (r *ReceiptArchive) localPaidAt(raw string) string {
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return raw
	}
	return t.In(r.loc).Format(time.RFC3339)
}

func scanArchived(row rowScanner) (*secondary.ArchivedReceiptRecord, error) {
	var (
		paymentID  sql.NullString
		billID     sql.NullString
		sessionID  sql.NullString
		payload    string
		archivedAt time.Time
	)

	record := &secondary.ArchivedReceiptRecord{}
	if err := row.Scan(&record.ID, &paymentID, &billID, &sessionID, &payload, &archivedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(payload), &record.Receipt); err != nil {
		return nil, fmt.Errorf("failed to decode receipt payload: %w", err)
	}
	record.PaymentID = paymentID.String
	record.BillID = billID.String
	record.SessionID = sessionID.String
	record.ArchivedAt = archivedAt.Format(time.RFC3339)

	return record, nil
}

// Ensure ReceiptArchive implements the interface
var _ secondary.ReceiptArchive = (*ReceiptArchive)(nil)
