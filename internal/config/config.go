// Package config loads the bundler's run configuration: entry file, output
// directory, public path, progress toggle, and write concurrency. Grounded
// on internal/config/config.go's struct-plus-DefaultConfig-plus-viper
// pattern, trimmed from jscan's many analysis sub-configs down to the single
// flat shape this bundler needs.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config is the bundler's run configuration.
type Config struct {
	Entry          string `mapstructure:"entry" yaml:"entry"`
	Output         string `mapstructure:"output" yaml:"output"`
	PublicPath     string `mapstructure:"public_path" yaml:"public_path"`
	Progress       bool   `mapstructure:"progress" yaml:"progress"`
	MaxConcurrency int    `mapstructure:"max_concurrency" yaml:"max_concurrency"`
}

// DefaultConfig returns the configuration used when no config file and no
// flags override a setting. Entry and Output are deliberately left empty:
// they are required arguments (spec.md §6/§7's Usage error), not values this
// bundler should guess at, so the CLI layer is the one that rejects their
// absence rather than this layer silently supplying a path that happens not
// to exist.
func DefaultConfig() *Config {
	return &Config{
		Entry:          "",
		Output:         "",
		PublicPath:     "",
		Progress:       true,
		MaxConcurrency: 8,
	}
}

// Validate checks that config carries a usable set of values. Entry/Output
// presence is not checked here: they may legitimately be empty in a config
// loaded on its own, to be supplied by CLI flags instead.
func (c *Config) Validate() error {
	if c.MaxConcurrency < 1 {
		return fmt.Errorf("max_concurrency must be >= 1, got %d", c.MaxConcurrency)
	}
	return nil
}

// LoadConfig loads configuration from configPath if non-empty, or from the
// first discovered default location, falling back to DefaultConfig when
// neither exists.
func LoadConfig(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = discoverConfigFile()
	}
	if configPath == "" {
		return DefaultConfig(), nil
	}

	v := viper.New()
	v.SetConfigFile(configPath)

	cfg := DefaultConfig()
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// discoverConfigFile looks for a bundler config file in the working
// directory, the first location jscan's findDefaultConfig also checks.
func discoverConfigFile() string {
	candidates := []string{"bundler.yaml", "bundler.yml", ".bundler.yaml", ".bundler.yml"}
	for _, name := range candidates {
		path := filepath.Join(".", name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path
		}
	}
	return ""
}
