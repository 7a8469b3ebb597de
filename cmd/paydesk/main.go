package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/paydesk/internal/cli"
	"github.com/example/paydesk/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "paydesk",
		Short:   "paydesk - cashier desk for electricity bill payments",
		Version: version.String(),
		Long: `paydesk is a terminal cashier client for the electricity billing backend.
Look up a customer, pick unpaid bills, pay them in cash and print receipts.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// config commands must work before the rest of the stack can load
			if cmd.Parent() != nil && cmd.Parent().Name() == "config" {
				return
			}
			cli.DetectAndStoreActor()
		},
	}

	// Session and auth
	rootCmd.AddCommand(cli.LoginCmd())
	rootCmd.AddCommand(cli.LogoutCmd())
	rootCmd.AddCommand(cli.WhoAmICmd())
	rootCmd.AddCommand(cli.PayCmd())

	// Read-only views
	rootCmd.AddCommand(cli.CustomerCmd())
	rootCmd.AddCommand(cli.ReceiptCmd())
	rootCmd.AddCommand(cli.ReportCmd())
	rootCmd.AddCommand(cli.JournalCmd())

	rootCmd.AddCommand(cli.ConfigCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
