package secondary

import "context"

// JournalRepository defines the secondary port for the session journal (audit trail).
// Entries are immutable - no Update operations, but old entries can be pruned.
type JournalRepository interface {
	// Create persists a new journal entry.
	Create(ctx context.Context, entry *JournalRecord) error

	// GetByID retrieves a journal entry by its ID.
	GetByID(ctx context.Context, id string) (*JournalRecord, error)

	// List retrieves journal entries matching the given filters, newest first.
	List(ctx context.Context, filters JournalFilters) ([]*JournalRecord, error)

	// PruneOlderThan deletes entries older than the given number of days.
	// Returns the number of deleted entries.
	PruneOlderThan(ctx context.Context, days int) (int, error)
}

// JournalRecord represents a journal entry as stored in persistence.
type JournalRecord struct {
	ID          string
	SessionID   string
	Timestamp   string
	ActorID     string // Empty string means null
	Action      string // 'transition', 'search', 'submit', 'paid', 'failed', 'receipt', 'reset'
	SubjectType string // 'session', 'customer', 'bill', 'payment'
	SubjectID   string
	OldValue    string // Empty string means null
	NewValue    string // Empty string means null
	Detail      string // Empty string means null
}

// JournalFilters contains filter options for querying the journal.
type JournalFilters struct {
	SessionID   string
	ActorID     string
	Action      string
	SubjectType string
	SubjectID   string
	Limit       int
}

// LogWriter defines the interface for writing journal entries.
// Implementations extract actor and session from context.
type LogWriter interface {
	// LogTransition logs a payment session phase change.
	LogTransition(ctx context.Context, from, to string) error

	// LogEvent logs a domain event about a subject (customer, bill, payment).
	LogEvent(ctx context.Context, action, subjectType, subjectID, detail string) error
}
