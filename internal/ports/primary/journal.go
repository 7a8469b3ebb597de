package primary

import "context"

// JournalService defines the primary port for reading the session journal.
type JournalService interface {
	// ListEntries retrieves journal entries matching the given filters.
	ListEntries(ctx context.Context, filters JournalFilters) ([]*JournalEntry, error)

	// PruneEntries deletes entries older than the specified number of days.
	PruneEntries(ctx context.Context, olderThanDays int) (int, error)
}

// JournalFilters contains filter options for querying the journal.
type JournalFilters struct {
	SessionID string
	Action    string
	SubjectID string
	Limit     int
}

// JournalEntry represents a journal entry at the port boundary.
type JournalEntry struct {
	ID          string
	SessionID   string
	Timestamp   string
	ActorID     string
	Action      string
	SubjectType string
	SubjectID   string
	OldValue    string
	NewValue    string
	Detail      string
}
