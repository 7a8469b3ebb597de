package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/paydesk/internal/ports/primary"
	"github.com/example/paydesk/internal/wire"
)

var receiptCmd = &cobra.Command{
	Use:   "receipt",
	Short: "Fetch and reprint receipts",
	Long:  "Fetch receipts from the backend and reprint them from the local archive",
}

var receiptFetchCmd = &cobra.Command{
	Use:   "fetch [payment-id]",
	Short: "Fetch a payment's receipt from the backend",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.ReceiptAdapterWithOutput(cmd.OutOrStdout()).Fetch(NewContext(), args[0])
	},
}

var receiptFindCmd = &cobra.Command{
	Use:   "find [transaction-number]",
	Short: "Reprint a receipt by transaction number",
	Long:  "Reprint a receipt by transaction number. The local archive is checked before the backend.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.ReceiptAdapterWithOutput(cmd.OutOrStdout()).Find(NewContext(), args[0])
	},
}

var receiptListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived receipts",
	RunE: func(cmd *cobra.Command, args []string) error {
		customer, _ := cmd.Flags().GetString("customer")
		date, _ := cmd.Flags().GetString("date")
		limit, _ := cmd.Flags().GetInt("limit")

		if date != "" {
			if _, err := time.Parse(time.DateOnly, date); err != nil {
				return fmt.Errorf("invalid --date %q: expected YYYY-MM-DD", date)
			}
		}

		return wire.ReceiptAdapterWithOutput(cmd.OutOrStdout()).List(NewContext(), primary.ArchiveFilters{
			CustomerCode: customer,
			PaidOn:       date,
			Limit:        limit,
		})
	},
}

// ReceiptCmd returns the receipt command with all subcommands attached.
func ReceiptCmd() *cobra.Command {
	receiptListCmd.Flags().String("customer", "", "Filter by customer code")
	receiptListCmd.Flags().String("date", "", "Filter by payment date YYYY-MM-DD")
	receiptListCmd.Flags().IntP("limit", "n", 20, "Maximum receipts to show")

	receiptCmd.AddCommand(receiptFetchCmd)
	receiptCmd.AddCommand(receiptFindCmd)
	receiptCmd.AddCommand(receiptListCmd)

	return receiptCmd
}
