package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/paydesk/internal/ports/primary"
	"github.com/example/paydesk/internal/wire"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Collection reports",
	Long:  "Daily revenue and transaction history from the billing backend",
}

var reportDailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Show one day's collections",
	RunE: func(cmd *cobra.Command, args []string) error {
		dateStr, _ := cmd.Flags().GetString("date")

		date := time.Now()
		if dateStr != "" {
			parsed, err := time.ParseInLocation(time.DateOnly, dateStr, time.Local)
			if err != nil {
				return fmt.Errorf("invalid --date %q: expected YYYY-MM-DD", dateStr)
			}
			date = parsed
		}

		return wire.ReportAdapterWithOutput(cmd.OutOrStdout()).Daily(NewContext(), date)
	},
}

var reportHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded payments",
	RunE: func(cmd *cobra.Command, args []string) error {
		page, _ := cmd.Flags().GetInt("page")
		perPage, _ := cmd.Flags().GetInt("per-page")
		search, _ := cmd.Flags().GetString("search")

		return wire.ReportAdapterWithOutput(cmd.OutOrStdout()).History(NewContext(), primary.HistoryFilters{
			Page:    page,
			PerPage: perPage,
			Search:  search,
		})
	},
}

// ReportCmd returns the report command with all subcommands attached.
func ReportCmd() *cobra.Command {
	reportDailyCmd.Flags().String("date", "", "Report date YYYY-MM-DD (default today)")

	reportHistoryCmd.Flags().Int("page", 1, "Page number")
	reportHistoryCmd.Flags().Int("per-page", 10, "Payments per page")
	reportHistoryCmd.Flags().String("search", "", "Filter by transaction number or customer")

	reportCmd.AddCommand(reportDailyCmd)
	reportCmd.AddCommand(reportHistoryCmd)

	return reportCmd
}
