package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/paydesk/internal/ports/primary"
	"github.com/example/paydesk/internal/wire"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "View the payment session journal",
	Long:  "View and prune the local journal of session transitions, payments and receipts (audit trail)",
}

var journalListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show recent journal entries",
	Long:  "Show recent journal entries, newest last (default 50)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		limit, _ := cmd.Flags().GetInt("limit")
		sessionID, _ := cmd.Flags().GetString("session")
		action, _ := cmd.Flags().GetString("action")
		subject, _ := cmd.Flags().GetString("subject")

		if limit <= 0 {
			limit = 50
		}

		entries, err := wire.JournalService().ListEntries(ctx, primary.JournalFilters{
			SessionID: sessionID,
			Action:    action,
			SubjectID: subject,
			Limit:     limit,
		})
		if err != nil {
			return fmt.Errorf("failed to fetch journal: %w", err)
		}

		printJournalEntries(entries)
		return nil
	},
}

var journalPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete old journal entries",
	Long:  "Delete journal entries older than the specified number of days (default 30)",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := NewContext()
		days, _ := cmd.Flags().GetInt("days")

		count, err := wire.JournalService().PruneEntries(ctx, days)
		if err != nil {
			return fmt.Errorf("failed to prune journal: %w", err)
		}

		if count == 0 {
			fmt.Printf("No journal entries older than %d days found.\n", days)
		} else {
			fmt.Printf("Pruned %d journal entries older than %d days.\n", count, days)
		}
		return nil
	},
}

func printJournalEntries(entries []*primary.JournalEntry) {
	if len(entries) == 0 {
		fmt.Println("No journal entries found.")
		return
	}

	fmt.Printf("Found %d journal entries:\n\n", len(entries))

	// Oldest first
	for i := len(entries) - 1; i >= 0; i-- {
		printJournalEntry(entries[i])
	}
}

func printJournalEntry(entry *primary.JournalEntry) {
	// Format: timestamp | session | actor | action | subject_type/subject_id | detail
	actorStr := entry.ActorID
	if actorStr == "" {
		actorStr = "-"
	}

	fmt.Printf("%s | %s | %-12s | %s %-10s | %s/%s",
		formatTimestamp(entry.Timestamp),
		shortID(entry.SessionID),
		actorStr,
		getActionIcon(entry.Action),
		entry.Action,
		entry.SubjectType,
		shortID(entry.SubjectID),
	)

	if entry.Action == "transition" {
		fmt.Printf(" | %s -> %s", entry.OldValue, entry.NewValue)
	} else if entry.Detail != "" {
		fmt.Printf(" | %s", entry.Detail)
	}

	fmt.Println()
}

func getActionIcon(action string) string {
	switch action {
	case "paid", "receipt":
		return "+"
	case "failed":
		return "!"
	case "transition":
		return "~"
	case "reset":
		return "-"
	default:
		return " "
	}
}

func formatTimestamp(ts string) string {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

// shortID trims uuids to their first block.
func shortID(id string) string {
	if len(id) == 36 && id[8] == '-' {
		return id[:8]
	}
	return id
}

// JournalCmd returns the journal command with all subcommands attached.
func JournalCmd() *cobra.Command {
	// journal list
	journalListCmd.Flags().IntP("limit", "n", 50, "Number of entries to show")
	journalListCmd.Flags().String("session", "", "Filter by session ID")
	journalListCmd.Flags().String("action", "", "Filter by action (transition, search, submit, paid, failed, receipt, reset)")
	journalListCmd.Flags().String("subject", "", "Filter by subject ID (customer code, bill ID, payment ID)")

	// journal prune
	journalPruneCmd.Flags().Int("days", 30, "Delete entries older than N days")

	journalCmd.AddCommand(journalListCmd)
	journalCmd.AddCommand(journalPruneCmd)

	return journalCmd
}
