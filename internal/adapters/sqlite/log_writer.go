package sqlite

import (
	"context"

	"github.com/google/uuid"

	"github.com/example/paydesk/internal/ctxutil"
	"github.com/example/paydesk/internal/ports/secondary"
)

// LogWriterAdapter implements secondary.LogWriter using JournalRepository.
type LogWriterAdapter struct {
	journalRepo secondary.JournalRepository
}

// NewLogWriterAdapter creates a new LogWriterAdapter.
func NewLogWriterAdapter(journalRepo secondary.JournalRepository) *LogWriterAdapter {
	return &LogWriterAdapter{journalRepo: journalRepo}
}

// LogTransition logs a payment session phase change.
func (w *LogWriterAdapter) LogTransition(ctx context.Context, from, to string) error {
	sessionID := ctxutil.SessionFromContext(ctx)
	return w.writeLog(ctx, "transition", "session", sessionID, from, to, "")
}

// LogEvent logs a domain event about a subject.
func (w *LogWriterAdapter) LogEvent(ctx context.Context, action, subjectType, subjectID, detail string) error {
	return w.writeLog(ctx, action, subjectType, subjectID, "", "", detail)
}

// writeLog writes a journal entry with common logic.
func (w *LogWriterAdapter) writeLog(ctx context.Context, action, subjectType, subjectID, oldValue, newValue, detail string) error {
	sessionID := ctxutil.SessionFromContext(ctx)
	if sessionID == "" {
		// No session context - skip logging
		// This happens for lookups made outside a payment session
		return nil
	}

	record := &secondary.JournalRecord{
		ID:          uuid.NewString(),
		SessionID:   sessionID,
		ActorID:     ctxutil.ActorFromContext(ctx),
		Action:      action,
		SubjectType: subjectType,
		SubjectID:   subjectID,
		OldValue:    oldValue,
		NewValue:    newValue,
		Detail:      detail,
	}

	return w.journalRepo.Create(ctx, record)
}

// Ensure LogWriterAdapter implements the interface
var _ secondary.LogWriter = (*LogWriterAdapter)(nil)
