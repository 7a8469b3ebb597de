package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/paydesk/internal/wire"
)

// PayCmd returns the pay command
func PayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pay [customer-code]",
		Short: "Run a payment session",
		Long: `Run a cashier payment session.

Without arguments an interactive session starts: search a customer, toggle
bills, submit, and print the receipt. Type 'help' at the prompt.

With a customer code the session runs once and exits non-zero if any
bill failed.

Usage:
  paydesk pay                              # interactive
  paydesk pay 551234567890 --all           # pay every unpaid bill
  paydesk pay 551234567890 --bill B1 --bill B2`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := NewContext()
			adapter := wire.PaymentAdapterWithOutput(cmd.OutOrStdout())

			if len(args) == 0 {
				return adapter.Run(ctx, cmd.InOrStdin())
			}

			all, _ := cmd.Flags().GetBool("all")
			bills, _ := cmd.Flags().GetStringSlice("bill")
			return adapter.PayOnce(ctx, args[0], bills, all)
		},
	}

	cmd.Flags().Bool("all", false, "Pay every unpaid bill of the customer")
	cmd.Flags().StringSlice("bill", nil, "Bill ID to pay (repeatable)")
	cmd.MarkFlagsMutuallyExclusive("all", "bill")

	return cmd
}
