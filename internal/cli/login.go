package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newLoginCmd creates and returns a new login command
func newLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Verify the API key with the Leeroo server",
		Long: `Authenticate with the Leeroo server using the configured API key.
The user the key belongs to is stored in your configuration file.

The login process requires:
- A server location (leeroo config --endpoint or --server)
- An API key (leeroo config --api-key, or the LEEROO_API_KEY environment variable)

Example:
  leeroo login
  LEEROO_API_KEY=<key> leeroo login`,
		RunE: runLogin,
	}
	return cmd
}

// runLogin handles the login command execution
func runLogin(cmd *cobra.Command, args []string) error {
	session, err := newSession(cmd)
	if err != nil {
		return err
	}

	cfg := GetConfig()
	cfg.UserID = session.UserID()

	path, err := resolveConfigPath()
	if err != nil {
		return err
	}
	if err := cfg.WriteConfig(path); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	if jsonOutput {
		printJSON(map[string]any{
			"result":  1,
			"user_id": session.UserID(),
		})
	} else {
		printDone("Logged in as %s", session.UserID())
	}
	return nil
}
