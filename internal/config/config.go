// Package config loads application settings via viper, with environment
// overrides under the NEWS_ prefix.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds everything a single pipeline run needs.
type Config struct {
	RegistryPath   string `mapstructure:"registry_path"`
	BiasTablePath  string `mapstructure:"bias_table_path"`
	PublishersPath string `mapstructure:"publishers_path"`
	SnapshotPath   string `mapstructure:"snapshot_path"`

	FetchTimeoutSeconds int     `mapstructure:"fetch_timeout_seconds"`
	RunTimeoutSeconds   int     `mapstructure:"run_timeout_seconds"`
	FetchWorkers        int     `mapstructure:"fetch_workers"`
	RequestsPerSecond   float64 `mapstructure:"requests_per_second"`

	CategoryCap int `mapstructure:"category_cap"`
	TickerSize  int `mapstructure:"ticker_size"`

	LogLevel string `mapstructure:"log_level"`
}

// Load reads settings from the given file (optional when empty; defaults
// plus environment then apply) and validates them.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("registry_path", "configs/feeds.yaml")
	v.SetDefault("bias_table_path", "")
	v.SetDefault("publishers_path", "")
	v.SetDefault("snapshot_path", "data/news.json")
	v.SetDefault("fetch_timeout_seconds", 20)
	v.SetDefault("run_timeout_seconds", 300)
	v.SetDefault("fetch_workers", 10)
	v.SetDefault("requests_per_second", 8.0)
	v.SetDefault("category_cap", 50)
	v.SetDefault("ticker_size", 15)
	v.SetDefault("log_level", "info")

	v.SetEnvPrefix("news")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if strings.TrimSpace(path) != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.RegistryPath) == "" {
		return fmt.Errorf("registry_path is required")
	}
	if strings.TrimSpace(c.SnapshotPath) == "" {
		return fmt.Errorf("snapshot_path is required")
	}
	if c.FetchTimeoutSeconds <= 0 {
		return fmt.Errorf("fetch_timeout_seconds must be positive")
	}
	if c.RunTimeoutSeconds <= 0 {
		return fmt.Errorf("run_timeout_seconds must be positive")
	}
	if c.FetchWorkers <= 0 {
		return fmt.Errorf("fetch_workers must be positive")
	}
	if c.RequestsPerSecond <= 0 {
		return fmt.Errorf("requests_per_second must be positive")
	}
	if c.CategoryCap <= 0 {
		return fmt.Errorf("category_cap must be positive")
	}
	if c.TickerSize <= 0 {
		return fmt.Errorf("ticker_size must be positive")
	}
	return nil
}

// FetchTimeout returns the per-feed timeout as a duration.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}

// RunTimeout returns the whole-run outer bound as a duration.
func (c *Config) RunTimeout() time.Duration {
	return time.Duration(c.RunTimeoutSeconds) * time.Second
}
