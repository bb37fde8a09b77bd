package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// Config is the full folio configuration.
type Config struct {
	// DatabasePath is the index database location.
	DatabasePath string `toml:"database_path"`

	// PlanCachePath is the append-only plan cache location.
	PlanCachePath string `toml:"plan_cache_path"`

	// AliasTablePath points at the place/publisher alias table. Empty
	// means normalization runs without aliases.
	AliasTablePath string `toml:"alias_table_path"`

	// Planner selects and configures the query planner.
	Planner PlannerConfig `toml:"planner"`
}

// PlannerConfig configures the planner backend.
type PlannerConfig struct {
	// Provider is "heuristic" (default) or "anthropic".
	Provider string `toml:"provider"`

	// APIKey authenticates against the provider's API.
	APIKey string `toml:"api_key"`

	// BaseURL overrides the provider's API endpoint.
	BaseURL string `toml:"base_url"`

	// Model is the provider model name.
	Model string `toml:"model"`

	// TimeoutSeconds bounds one planning call.
	TimeoutSeconds int `toml:"timeout_seconds"`

	// RequestsPerMinute rate-limits planning calls.
	RequestsPerMinute int `toml:"requests_per_minute"`
}

// Planner provider names.
const (
	ProviderHeuristic = "heuristic"
	ProviderAnthropic = "anthropic"
)

// DefaultConfigDir returns ~/.folio.
func DefaultConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".folio"), nil
}

// defaults fills every unset field relative to configDir.
func defaults(configDir string) Config {
	return Config{
		DatabasePath:  filepath.Join(configDir, "index.db"),
		PlanCachePath: filepath.Join(configDir, "plans.jsonl"),
		Planner: PlannerConfig{
			Provider:          ProviderHeuristic,
			TimeoutSeconds:    30,
			RequestsPerMinute: 20,
		},
	}
}

// Load reads config.toml from configDir. An empty configDir means the
// default directory; a missing file yields the defaults.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		dir, err := DefaultConfigDir()
		if err != nil {
			return nil, err
		}
		configDir = dir
	}

	cfg := defaults(configDir)

	data, err := os.ReadFile(filepath.Join(configDir, "config.toml"))
	if os.IsNotExist(err) {
		return &cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// validate rejects settings the adapters would otherwise fail on later
// with a less helpful message.
func (c *Config) validate() error {
	switch c.Planner.Provider {
	case ProviderHeuristic, ProviderAnthropic:
	default:
		return fmt.Errorf("unknown planner provider %q", c.Planner.Provider)
	}
	if c.Planner.Provider == ProviderAnthropic && c.Planner.APIKey == "" {
		return fmt.Errorf("planner provider %q requires an api_key", ProviderAnthropic)
	}
	if c.Planner.TimeoutSeconds <= 0 {
		return fmt.Errorf("planner timeout_seconds must be positive")
	}
	if c.Planner.RequestsPerMinute <= 0 {
		return fmt.Errorf("planner requests_per_minute must be positive")
	}
	return nil
}
