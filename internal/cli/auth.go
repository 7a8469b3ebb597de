package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/paydesk/internal/ports/primary"
	"github.com/example/paydesk/internal/wire"
)

// LoginCmd returns the login command
func LoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in as a cashier",
		Long: `Log in against the billing backend and store the access token.

The token is kept in ~/.paydesk/credentials.yaml (mode 0600) until logout
or expiry. The password is read from stdin when --password is omitted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")

			if password == "" {
				fmt.Fprint(cmd.OutOrStdout(), "Password: ")
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("failed to read password: %w", err)
				}
				password = strings.TrimSpace(line)
			}

			cashier, err := wire.AuthService().Login(NewContext(), primary.LoginRequest{
				Email:    email,
				Password: password,
			})
			if err != nil {
				return err
			}

			fmt.Printf("✓ Logged in as %s (%s)\n", cashier.Name, cashier.Role)
			if !cashier.ExpiresAt.IsZero() {
				fmt.Printf("  Token expires %s\n", cashier.ExpiresAt.Local().Format("2006-01-02 15:04"))
			}
			return nil
		},
	}

	cmd.Flags().StringP("email", "e", "", "Cashier email (required)")
	cmd.Flags().StringP("password", "p", "", "Password (prompted when omitted)")
	cmd.MarkFlagRequired("email")

	return cmd
}

// LogoutCmd returns the logout command
func LogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored login",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := wire.AuthService().Logout(NewContext()); err != nil {
				return err
			}
			fmt.Println("✓ Logged out")
			return nil
		},
	}
}

// WhoAmICmd returns the whoami command
func WhoAmICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in cashier",
		RunE: func(cmd *cobra.Command, args []string) error {
			cashier, err := wire.AuthService().WhoAmI(NewContext())
			if err != nil {
				return err
			}

			fmt.Printf("%s <%s>\n", cashier.Name, cashier.Email)
			fmt.Printf("  Role:    %s\n", color.New(color.FgCyan).Sprint(cashier.Role))
			fmt.Printf("  User ID: %s\n", cashier.UserID)
			if !cashier.ExpiresAt.IsZero() {
				fmt.Printf("  Expires: %s\n", cashier.ExpiresAt.Local().Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
}
