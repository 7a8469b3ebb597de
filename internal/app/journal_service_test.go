package app

import (
	"context"
	"errors"
	"testing"

	"github.com/example/paydesk/internal/ports/primary"
	"github.com/example/paydesk/internal/ports/secondary"
)

func TestJournalService_ListEntries(t *testing.T) {
	repo := &mockJournalRepository{entries: []*secondary.JournalRecord{
		{ID: "j1", SessionID: "s1", Action: "transition", SubjectType: "session", OldValue: "idle", NewValue: "searching"},
		{ID: "j2", SessionID: "s1", Action: "paid", SubjectType: "bill", SubjectID: "b1", Detail: "TRX-1"},
		{ID: "j3", SessionID: "s2", Action: "reset", SubjectType: "session"},
	}}
	service := NewJournalService(repo)

	tests := []struct {
		name    string
		filters primary.JournalFilters
		wantIDs []string
	}{
		{"all", primary.JournalFilters{}, []string{"j1", "j2", "j3"}},
		{"by session", primary.JournalFilters{SessionID: "s1"}, []string{"j1", "j2"}},
		{"by action", primary.JournalFilters{Action: "paid"}, []string{"j2"}},
		{"limited", primary.JournalFilters{Limit: 1}, []string{"j1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries, err := service.ListEntries(context.Background(), tt.filters)
			if err != nil {
				t.Fatalf("ListEntries failed: %v", err)
			}
			if len(entries) != len(tt.wantIDs) {
				t.Fatalf("got %d entries, want %d", len(entries), len(tt.wantIDs))
			}
			for i, e := range entries {
				if e.ID != tt.wantIDs[i] {
					t.Errorf("entry %d = %s, want %s", i, e.ID, tt.wantIDs[i])
				}
			}
		})
	}
}

func TestJournalService_ListEntriesMapsFields(t *testing.T) {
	repo := &mockJournalRepository{entries: []*secondary.JournalRecord{
		{ID: "j1", SessionID: "s1", ActorID: "u-1", Action: "transition", SubjectType: "session", SubjectID: "s1", OldValue: "idle", NewValue: "searching"},
	}}
	service := NewJournalService(repo)

	entries, err := service.ListEntries(context.Background(), primary.JournalFilters{})
	if err != nil {
		t.Fatalf("ListEntries failed: %v", err)
	}
	e := entries[0]
	if e.ActorID != "u-1" || e.OldValue != "idle" || e.NewValue != "searching" || e.SubjectID != "s1" {
		t.Errorf("unexpected entry: %+v", e)
	}
}

func TestJournalService_ListEntriesError(t *testing.T) {
	repo := &mockJournalRepository{listErr: errors.New("disk I/O error")}
	service := NewJournalService(repo)

	if _, err := service.ListEntries(context.Background(), primary.JournalFilters{}); err == nil {
		t.Error("expected error")
	}
}

func TestJournalService_PruneEntries(t *testing.T) {
	repo := &mockJournalRepository{}
	service := NewJournalService(repo)

	count, err := service.PruneEntries(context.Background(), 30)
	if err != nil {
		t.Fatalf("PruneEntries failed: %v", err)
	}
	if count != 3 || repo.pruneDays != 30 {
		t.Errorf("count = %d days = %d, want 3 and 30", count, repo.pruneDays)
	}

	if _, err := service.PruneEntries(context.Background(), 0); err == nil {
		t.Error("expected error for zero days")
	}
}
