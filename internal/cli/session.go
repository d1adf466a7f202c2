package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/leeroo-ai/leeroo/pkg/leeroo"
)

// newSession authenticates with the configured server and key.
func newSession(cmd *cobra.Command) (*leeroo.Session, error) {
	cfg := GetConfig()
	if cfg == nil {
		return nil, errors.New("no configuration loaded")
	}
	if cfg.APIKey == "" {
		return nil, errors.New("no API key configured. Use \"leeroo config --api-key <key>\" or set " + APIKeyEnv)
	}

	opts, err := cfg.SessionOptions()
	if err != nil {
		return nil, err
	}
	opts = append(opts, leeroo.WithStatusPrinter(leeroo.NewColorStatusPrinter(os.Stdout)))

	return leeroo.Authenticate(cmd.Context(), cfg.APIKey, opts...)
}
