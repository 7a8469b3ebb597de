package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/paydesk/internal/wire"
)

var customerCmd = &cobra.Command{
	Use:   "customer",
	Short: "Look up customers",
	Long:  "Read-only customer lookups against the billing backend",
}

var customerShowCmd = &cobra.Command{
	Use:   "show [customer-code]",
	Short: "Show customer details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.ReportAdapterWithOutput(cmd.OutOrStdout()).ShowCustomer(NewContext(), args[0])
	},
}

var customerBillsCmd = &cobra.Command{
	Use:   "bills [customer-code]",
	Short: "List a customer's bills",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		unpaid, _ := cmd.Flags().GetBool("unpaid")
		return wire.ReportAdapterWithOutput(cmd.OutOrStdout()).Bills(NewContext(), args[0], unpaid)
	},
}

// CustomerCmd returns the customer command with all subcommands attached.
func CustomerCmd() *cobra.Command {
	customerBillsCmd.Flags().Bool("unpaid", false, "Only unpaid bills")

	customerCmd.AddCommand(customerShowCmd)
	customerCmd.AddCommand(customerBillsCmd)

	return customerCmd
}
