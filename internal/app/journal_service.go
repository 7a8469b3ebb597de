package app

import (
	"context"
	"fmt"

	"github.com/example/paydesk/internal/ports/primary"
	"github.com/example/paydesk/internal/ports/secondary"
)

// JournalServiceImpl implements the JournalService interface.
type JournalServiceImpl struct {
	journalRepo secondary.JournalRepository
}

// NewJournalService creates a new JournalService with injected dependencies.
func NewJournalService(journalRepo secondary.JournalRepository) *JournalServiceImpl {
	return &JournalServiceImpl{
		journalRepo: journalRepo,
	}
}

// ListEntries retrieves journal entries matching the given filters.
func (s *JournalServiceImpl) ListEntries(ctx context.Context, filters primary.JournalFilters) ([]*primary.JournalEntry, error) {
	records, err := s.journalRepo.List(ctx, secondary.JournalFilters{
		SessionID: filters.SessionID,
		Action:    filters.Action,
		SubjectID: filters.SubjectID,
		Limit:     filters.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}

	entries := make([]*primary.JournalEntry, len(records))
	for i, r := range records {
		entries[i] = s.recordToEntry(r)
	}
	return entries, nil
}

// PruneEntries deletes entries older than the specified number of days.
func (s *JournalServiceImpl) PruneEntries(ctx context.Context, olderThanDays int) (int, error) {
	if olderThanDays < 1 {
		return 0, fmt.Errorf("days must be at least 1, got %d", olderThanDays)
	}
	return s.journalRepo.PruneOlderThan(ctx, olderThanDays)
}

// Helper methods

func (s *JournalServiceImpl) recordToEntry(r *secondary.JournalRecord) *primary.JournalEntry {
	return &primary.JournalEntry{
		ID:          r.ID,
		SessionID:   r.SessionID,
		Timestamp:   r.Timestamp,
		ActorID:     r.ActorID,
		Action:      r.Action,
		SubjectType: r.SubjectType,
		SubjectID:   r.SubjectID,
		OldValue:    r.OldValue,
		NewValue:    r.NewValue,
		Detail:      r.Detail,
	}
}

// Ensure JournalServiceImpl implements the interface
var _ primary.JournalService = (*JournalServiceImpl)(nil)
