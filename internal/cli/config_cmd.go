package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/paydesk/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage client configuration",
	Long: `Manage ~/.paydesk/config.yaml.

PAYDESK_API_URL, PAYDESK_REQUEST_TIMEOUT, PAYDESK_REQUESTS_PER_SECOND,
PAYDESK_DB_PATH and PAYDESK_CREDENTIALS_PATH override the file; a .env file
in the working directory is loaded first.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load("", "")
		if err != nil {
			return err
		}

		fmt.Printf("api_url:             %s\n", cfg.APIURL)
		fmt.Printf("request_timeout:     %s\n", cfg.RequestTimeout)
		fmt.Printf("requests_per_second: %v\n", cfg.RequestsPerSecond)
		fmt.Printf("db_path:             %s\n", cfg.DBPath)
		fmt.Printf("credentials_path:    %s\n", cfg.CredentialsPath)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file",
	RunE: func(cmd *cobra.Command, args []string) error {
		apiURL, _ := cmd.Flags().GetString("api-url")
		force, _ := cmd.Flags().GetBool("force")

		path, err := config.DefaultPath()
		if err != nil {
			return err
		}
		if _, err := os.Stat(path); err == nil && !force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		} else if err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to check %s: %w", path, err)
		}

		cfg, err := config.Load("", "")
		if err != nil {
			return err
		}
		if apiURL != "" {
			cfg.APIURL = apiURL
			if err := cfg.Validate(); err != nil {
				return err
			}
		}

		if err := config.Save(path, cfg); err != nil {
			return err
		}
		fmt.Printf("✓ Wrote %s\n", path)
		return nil
	},
}

// ConfigCmd returns the config command with all subcommands attached.
func ConfigCmd() *cobra.Command {
	configInitCmd.Flags().String("api-url", "", "Billing backend base URL")
	configInitCmd.Flags().Bool("force", false, "Overwrite an existing config file")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)

	return configCmd
}
