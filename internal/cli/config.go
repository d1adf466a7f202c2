package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/leeroo-ai/leeroo/pkg/leeroo"
)

// DefaultConfigFile is the default name of the config file
const DefaultConfigFile = "config.yaml"

// ConfigFormatVersion is written into new config files.
const ConfigFormatVersion = "0.1.0"

// APIKeyEnv overrides the API key of the config file when set.
const APIKeyEnv = "LEEROO_API_KEY"

var configVersionConstraint = mustConstraint("~0.1")

func mustConstraint(c string) *semver.Constraints {
	constraint, err := semver.NewConstraint(c)
	if err != nil {
		panic(err)
	}
	return constraint
}

var validate = newValidator()

// newValidator reports fields by their config file names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Config represents the configuration for the Leeroo CLI
type Config struct {
	// Version of the configuration file format
	Version string `yaml:"version" toml:"version" validate:"required"`
	// Endpoint selects a well-known API location: production or local
	Endpoint string `yaml:"endpoint,omitempty" toml:"endpoint,omitempty" validate:"omitempty,oneof=production local"`
	// ServerURL overrides Endpoint with a custom API location
	ServerURL string `yaml:"server_url,omitempty" toml:"server_url,omitempty" validate:"omitempty,url"`
	// APIKey is the Leeroo API key
	APIKey string `yaml:"api_key,omitempty" toml:"api_key,omitempty"`
	// UserID is recorded by "leeroo login" for display
	UserID string `yaml:"user_id,omitempty" toml:"user_id,omitempty"`
	// InsecureSkipVerify accepts any TLS certificate from the server
	InsecureSkipVerify bool `yaml:"insecure_skip_verify,omitempty" toml:"insecure_skip_verify,omitempty"`
}

var config *Config

// GetDefaultConfigPath returns the default path for the config file
// It uses the OS-specific config directory (e.g., ~/.config/leeroo on Linux)
func GetDefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, "leeroo", DefaultConfigFile), nil
}

func isTOML(file string) bool {
	return strings.EqualFold(filepath.Ext(file), ".toml")
}

// ReadConfig parses and validates the configuration file. YAML is the default
// format, files ending in .toml are read as TOML.
func ReadConfig(file string) (*Config, error) {
	raw, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("unable to read config file: %w", err)
	}

	var c Config
	if isTOML(file) {
		err = toml.Unmarshal(raw, &c)
	} else {
		err = yaml.Unmarshal(raw, &c)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to parse config file: %w", err)
	}

	if err := c.ValidateConfig(); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadConfig loads the configuration from the specified file and applies the
// LEEROO_API_KEY override. A missing file is not an error when the environment
// supplies the key.
func LoadConfig(file string) error {
	if file == "" {
		var err error
		file, err = GetDefaultConfigPath()
		if err != nil {
			return fmt.Errorf("failed to get default config path: %w", err)
		}
	}

	_ = godotenv.Load() // no error if .env doesn't exist

	c, err := ReadConfig(file)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) || os.Getenv(APIKeyEnv) == "" {
			return err
		}
		c = &Config{Version: ConfigFormatVersion}
	}
	if key := os.Getenv(APIKeyEnv); key != "" {
		c.APIKey = key
	}

	config = c
	return nil
}

// GetConfig returns the current configuration
func GetConfig() *Config {
	return config
}

// WriteConfig writes the configuration to file, creating its directory.
func (cfg *Config) WriteConfig(file string) error {
	if file == "" {
		return errors.New("file path cannot be empty")
	}

	err := os.MkdirAll(filepath.Dir(file), 0700)
	if err != nil {
		return fmt.Errorf("unable to create config directory: %w", err)
	}

	var out []byte
	if isTOML(file) {
		var buf bytes.Buffer
		err = toml.NewEncoder(&buf).Encode(cfg)
		out = buf.Bytes()
	} else {
		out, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return fmt.Errorf("unable to generate configuration: %w", err)
	}

	err = os.WriteFile(file, out, os.FileMode(0600))
	if err != nil {
		return fmt.Errorf("unable to write config file: %w", err)
	}

	return nil
}

// ValidateConfig checks field formats and that the file format version is supported.
func (cfg *Config) ValidateConfig() error {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: %s fails %q", fe.Field(), fe.Tag())
		}
		return fmt.Errorf("invalid config: %w", err)
	}

	v, err := semver.NewVersion(cfg.Version)
	if err != nil {
		return fmt.Errorf("invalid config version %q: %w", cfg.Version, err)
	}
	if !configVersionConstraint.Check(v) {
		return fmt.Errorf("unsupported config version %s, expected %s", cfg.Version, configVersionConstraint)
	}
	return nil
}

// SessionOptions translates the configured location and TLS setting into client options.
func (cfg *Config) SessionOptions() ([]leeroo.Option, error) {
	var opts []leeroo.Option
	if cfg.ServerURL != "" {
		opts = append(opts, leeroo.WithBaseURL(cfg.ServerURL))
	} else {
		endpoint, err := leeroo.ParseEndpoint(cfg.Endpoint)
		if err != nil {
			return nil, err
		}
		opts = append(opts, leeroo.WithEndpoint(endpoint))
	}
	if cfg.InsecureSkipVerify {
		opts = append(opts, leeroo.WithInsecureSkipVerify())
	}
	return opts, nil
}

// ServerLocation returns the URL the CLI will talk to.
func (cfg *Config) ServerLocation() string {
	if cfg.ServerURL != "" {
		return cfg.ServerURL
	}
	endpoint, err := leeroo.ParseEndpoint(cfg.Endpoint)
	if err != nil {
		return cfg.Endpoint
	}
	return endpoint.URL()
}

// Print prints the current configuration in a human-readable format
func (cfg *Config) Print() {
	fmt.Printf("Server: %s\n", cfg.ServerLocation())
	if cfg.UserID != "" {
		fmt.Printf("User: %s\n", cfg.UserID)
	}
	fmt.Printf("API key: %s\n", maskKey(cfg.APIKey))
	if cfg.InsecureSkipVerify {
		fmt.Println("TLS certificate verification: disabled")
	}
}

func maskKey(key string) string {
	if key == "" {
		return "(not set)"
	}
	if len(key) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage CLI configuration",
	Long: `Manage CLI configuration settings like the API location and key.

Examples:
  # Use the production API
  leeroo config --endpoint production --api-key $LEEROO_API_KEY

  # Use a development server
  leeroo config --server http://localhost:8000

  # Accept the self-signed certificate of a staging server
  leeroo config --server https://staging.internal:8443 --insecure`,
	RunE: func(cmd *cobra.Command, args []string) error {
		endpoint, _ := cmd.Flags().GetString("endpoint")
		server, _ := cmd.Flags().GetString("server")
		apiKey, _ := cmd.Flags().GetString("api-key")
		var insecure *bool
		if cmd.Flags().Changed("insecure") {
			v, _ := cmd.Flags().GetBool("insecure")
			insecure = &v
		}
		if endpoint == "" && server == "" && apiKey == "" && insecure == nil {
			return cmd.Help()
		}
		return setConfig(endpoint, server, apiKey, insecure)
	},
}

// configShowCmd represents the config show command
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := LoadConfig(configFile); err != nil {
			return err
		}
		cfg := GetConfig()
		if jsonOutput {
			printJSON(map[string]any{
				"result": 1,
				"value": map[string]string{
					"server":  cfg.ServerLocation(),
					"user_id": cfg.UserID,
					"api_key": maskKey(cfg.APIKey),
				},
			})
			return nil
		}
		cfg.Print()
		return nil
	},
}

// configClearCmd represents the config clear command
var configClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the stored API key and user",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveConfigPath()
		if err != nil {
			return err
		}
		cfg, err := ReadConfig(path)
		if err != nil {
			return err
		}
		cfg.APIKey = ""
		cfg.UserID = ""

		if err := cfg.WriteConfig(path); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}

		if jsonOutput {
			printJSON(map[string]int{"result": 1})
		} else {
			fmt.Println("Credentials cleared. Set a key with \"leeroo config --api-key <key>\"")
		}
		return nil
	},
}

func init() {
	configCmd.Flags().String("endpoint", "", "Well-known API location: production or local")
	configCmd.Flags().String("server", "", "Custom API URL (e.g., http://localhost:8000)")
	configCmd.Flags().String("api-key", "", "Leeroo API key")
	configCmd.Flags().Bool("insecure", false, "Skip TLS certificate verification (use --insecure=false to restore)")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configClearCmd)
	rootCmd.AddCommand(configCmd)
}

func resolveConfigPath() (string, error) {
	if configFile != "" {
		return configFile, nil
	}
	return GetDefaultConfigPath()
}

// setConfig merges the given settings into the config file, creating it if needed.
// Changing the server location or key forgets the recorded user. A nil insecure
// leaves the TLS setting unchanged.
func setConfig(endpoint, server, apiKey string, insecure *bool) error {
	path, err := resolveConfigPath()
	if err != nil {
		return err
	}

	cfg, err := ReadConfig(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		cfg = &Config{Version: ConfigFormatVersion}
	}

	if endpoint != "" {
		e, err := leeroo.ParseEndpoint(endpoint)
		if err != nil {
			return err
		}
		cfg.Endpoint = e.String()
		cfg.ServerURL = ""
		cfg.UserID = ""
	}
	if server != "" {
		cfg.ServerURL = strings.TrimRight(server, "/")
		cfg.UserID = ""
	}
	if apiKey != "" {
		cfg.APIKey = apiKey
		cfg.UserID = ""
	}
	if insecure != nil {
		cfg.InsecureSkipVerify = *insecure
	}

	if err := cfg.ValidateConfig(); err != nil {
		return err
	}
	if err := cfg.WriteConfig(path); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	if jsonOutput {
		printJSON(map[string]string{
			"server":      cfg.ServerLocation(),
			"config_file": path,
		})
	} else {
		fmt.Printf("Server configured: %s\n", cfg.ServerLocation())
		fmt.Printf("Config file: %s\n", path)
	}
	return nil
}
