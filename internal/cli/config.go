package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const defaultServerURL = "http://localhost:8080"

// CLIConfig holds CLI configuration persisted to disk.
type CLIConfig struct {
	ServerURL string `yaml:"server_url,omitempty"`
	AuthorID  string `yaml:"author_id,omitempty"`
}

// configKeys maps `tl config set` keys to their fields.
var configKeys = map[string]func(*CLIConfig) *string{
	"server_url": func(c *CLIConfig) *string { return &c.ServerURL },
	"author_id":  func(c *CLIConfig) *string { return &c.AuthorID },
}

// configPath returns the path to the CLI config file.
func configPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".config", "tl", "config.yaml"), nil
}

// loadConfig reads the CLI config from disk.
// Returns a zero-value config if the file doesn't exist.
func loadConfig() (CLIConfig, error) {
	path, err := configPath()
	if err != nil {
		return CLIConfig{}, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return CLIConfig{}, nil
	}
	if err != nil {
		return CLIConfig{}, fmt.Errorf("reading config: %w", err)
	}

	var cfg CLIConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return CLIConfig{}, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// saveConfig writes the CLI config to disk.
func saveConfig(cfg CLIConfig) error {
	path, err := configPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}

// getServerURL returns the server URL from the --server flag, env var,
// config, or default.
func getServerURL() string {
	if flagServer != "" {
		return flagServer
	}
	if v := os.Getenv("TL_SERVER_URL"); v != "" {
		return v
	}
	cfg, err := loadConfig()
	if err == nil && cfg.ServerURL != "" {
		return cfg.ServerURL
	}
	return defaultServerURL
}

// getAuthorID returns the default comment author from env var or config.
func getAuthorID() string {
	if v := os.Getenv("TL_AUTHOR_ID"); v != "" {
		return v
	}
	cfg, err := loadConfig()
	if err == nil {
		return cfg.AuthorID
	}
	return ""
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  "Read and write ~/.config/tl/config.yaml.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a config value (server_url, author_id)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			field, ok := configKeys[args[0]]
			if !ok {
				return fmt.Errorf("unknown config key %q (valid: %s)", args[0], validConfigKeys())
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			*field(&cfg) = args[1]
			if err := saveConfig(cfg); err != nil {
				return err
			}

			if isJSON() {
				return printJSON(out(cmd), cfg)
			}
			_, err = fmt.Fprintf(out(cmd), "Set %s = %s\n", args[0], args[1])
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := CLIConfig{ServerURL: getServerURL(), AuthorID: getAuthorID()}
			if isJSON() {
				return printJSON(out(cmd), cfg)
			}
			author := cfg.AuthorID
			if author == "" {
				author = "(none)"
			}
			_, err := fmt.Fprintf(out(cmd), "server_url: %s\nauthor_id:  %s\n", cfg.ServerURL, author)
			return err
		},
	})

	return cmd
}

func validConfigKeys() string {
	keys := make([]string, 0, len(configKeys))
	for k := range configKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Sprintf("%v", keys)
}
