// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/paydesk/internal/ports/secondary"
)

// JournalRepository implements secondary.JournalRepository with SQLite.
type JournalRepository struct {
	db *sql.DB
}

// NewJournalRepository creates a new SQLite journal repository.
func NewJournalRepository(db *sql.DB) *JournalRepository {
	return &JournalRepository{db: db}
}

// Create persists a new journal entry.
func (r *JournalRepository) Create(ctx context.Context, entry *secondary.JournalRecord) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO journal (id, session_id, actor_id, action, subject_type, subject_id, old_value, new_value, detail) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID,
		entry.SessionID,
		nullString(entry.ActorID),
		entry.Action,
		entry.SubjectType,
		entry.SubjectID,
		nullString(entry.OldValue),
		nullString(entry.NewValue),
		nullString(entry.Detail),
	)
	if err != nil {
		return fmt.Errorf("failed to create journal entry: %w", err)
	}

	return nil
}

// GetByID retrieves a journal entry by its ID.
func (r *JournalRepository) GetByID(ctx context.Context, id string) (*secondary.JournalRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, session_id, timestamp, actor_id, action, subject_type, subject_id, old_value, new_value, detail FROM journal WHERE id = ?`,
		id,
	)

	record, err := scanJournal(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("journal entry %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get journal entry: %w", err)
	}

	return record, nil
}

// List retrieves journal entries matching the given filters.
func (r *JournalRepository) List(ctx context.Context, filters secondary.JournalFilters) ([]*secondary.JournalRecord, error) {
	query := `SELECT id, session_id, timestamp, actor_id, action, subject_type, subject_id, old_value, new_value, detail FROM journal WHERE 1=1`
	args := []any{}

	if filters.SessionID != "" {
		query += " AND session_id = ?"
		args = append(args, filters.SessionID)
	}

	if filters.ActorID != "" {
		query += " AND actor_id = ?"
		args = append(args, filters.ActorID)
	}

	if filters.Action != "" {
		query += " AND action = ?"
		args = append(args, filters.Action)
	}

	if filters.SubjectType != "" {
		query += " AND subject_type = ?"
		args = append(args, filters.SubjectType)
	}

	if filters.SubjectID != "" {
		query += " AND subject_id = ?"
		args = append(args, filters.SubjectID)
	}

	// rowid breaks ties between entries written within the same second
	query += " ORDER BY timestamp DESC, rowid DESC"

	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}
	defer rows.Close()

	var entries []*secondary.JournalRecord
	for rows.Next() {
		record, err := scanJournal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		entries = append(entries, record)
	}

	return entries, rows.Err()
}

// PruneOlderThan deletes journal entries older than the given number of days.
func (r *JournalRepository) PruneOlderThan(ctx context.Context, days int) (int, error) {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM journal WHERE timestamp < datetime('now', ?)",
		fmt.Sprintf("-%d days", days),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to prune journal: %w", err)
	}

	count, _ := result.RowsAffected()
	return int(count), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJournal(row rowScanner) (*secondary.JournalRecord, error) {
	var (
		actorID   sql.NullString
		oldValue  sql.NullString
		newValue  sql.NullString
		detail    sql.NullString
		timestamp time.Time
	)

	record := &secondary.JournalRecord{}
	err := row.Scan(&record.ID,
		&record.SessionID,
		&timestamp,
		&actorID,
		&record.Action,
		&record.SubjectType,
		&record.SubjectID,
		&oldValue,
		&newValue,
		&detail)
	if err != nil {
		return nil, err
	}
	record.Timestamp = timestamp.Format(time.RFC3339)
	record.ActorID = actorID.String
	record.OldValue = oldValue.String
	record.NewValue = newValue.String
	record.Detail = detail.String

	return record, nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// Ensure JournalRepository implements the interface
var _ secondary.JournalRepository = (*JournalRepository)(nil)
