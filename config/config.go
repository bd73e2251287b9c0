// Package config loads the ProCheck runtime configuration
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/azure-innovate/procheck/sop"
	"github.com/azure-innovate/procheck/types"
)

// Config represents the main configuration
type Config struct {
	ListenAddr string        `yaml:"listen_addr"`
	StorageDir string        `yaml:"storage_dir"`
	Scan       ScanConfig    `yaml:"scan,omitempty"`
	Summary    SummaryConfig `yaml:"summary,omitempty"`

	// Initial scoring thresholds; saved settings take precedence
	Thresholds types.ThresholdSettings `yaml:"thresholds,omitempty"`
}

// Duration wraps time.Duration with "1500ms" style YAML parsing
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped time.Duration
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// ScanConfig tunes the audit scan simulation timing
type ScanConfig struct {
	Delay   Duration `yaml:"delay"`
	Stagger Duration `yaml:"stagger"`
}

// SummaryConfig configures the generative diagnostic bridge. An empty
// key disables it and the dashboard falls back to canned copy.
type SummaryConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// Default returns the configuration used when no file is given
func Default() *Config {
	return &Config{
		ListenAddr: ":8080",
		StorageDir: "./data",
		Scan: ScanConfig{
			Delay:   Duration(1500 * time.Millisecond),
			Stagger: Duration(150 * time.Millisecond),
		},
		Thresholds: sop.DefaultThresholds(),
	}
}

// Load loads configuration from file, filling defaults for absent fields
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is intentional user input
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate ensures config has required fields
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return fmt.Errorf("listen_addr is required")
	}
	if c.StorageDir == "" {
		return fmt.Errorf("storage_dir is required")
	}
	if c.Scan.Delay.Std() <= 0 {
		return fmt.Errorf("scan delay must be positive")
	}
	if c.Scan.Stagger.Std() < 0 {
		return fmt.Errorf("scan stagger must not be negative")
	}
	return nil
}
