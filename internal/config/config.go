// Package config loads and validates repolens configuration.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config represents the complete repolens configuration.
type Config struct {
	Version int `json:"version" mapstructure:"version"`

	Scan       ScanConfig       `json:"scan" mapstructure:"scan"`
	Complexity ComplexityConfig `json:"complexity" mapstructure:"complexity"`
	Grouping   GroupingConfig   `json:"grouping" mapstructure:"grouping"`
	History    HistoryConfig    `json:"history" mapstructure:"history"`
	Cache      CacheConfig      `json:"cache" mapstructure:"cache"`
	Logging    LoggingConfig    `json:"logging" mapstructure:"logging"`
}

// ScanConfig controls the file scanner.
type ScanConfig struct {
	Extensions       []string `json:"extensions" mapstructure:"extensions"`
	Ignore           []string `json:"ignore" mapstructure:"ignore"`
	MaxFileSizeBytes int64    `json:"maxFileSizeBytes" mapstructure:"maxFileSizeBytes"`
}

// ComplexityConfig controls complexity-derived metrics.
type ComplexityConfig struct {
	// DebtThreshold is the per-file cyclomatic complexity above which
	// technical debt accrues.
	DebtThreshold int `json:"debtThreshold" mapstructure:"debtThreshold"`
	// CoreFunctionThreshold marks a file as core material for the learning
	// path when any of its functions exceeds this cyclomatic score.
	CoreFunctionThreshold int `json:"coreFunctionThreshold" mapstructure:"coreFunctionThreshold"`
}

// GroupingConfig controls component grouping.
type GroupingConfig struct {
	// Strategy is the component grouping key: "parent" (immediate parent
	// directory) is the only supported strategy.
	Strategy string `json:"strategy" mapstructure:"strategy"`
}

// HistoryConfig controls commit-history collection.
type HistoryConfig struct {
	Enabled    bool `json:"enabled" mapstructure:"enabled"`
	MaxCommits int  `json:"maxCommits" mapstructure:"maxCommits"`
}

// CacheConfig controls the result store.
type CacheConfig struct {
	TTLSeconds int    `json:"ttlSeconds" mapstructure:"ttlSeconds"`
	Path       string `json:"path" mapstructure:"path"` // sqlite path; empty selects the in-memory store
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Level  string `json:"level" mapstructure:"level"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Scan: ScanConfig{
			Extensions:       []string{".js", ".jsx", ".mjs", ".cjs", ".ts", ".tsx", ".mts", ".cts"},
			Ignore:           []string{"node_modules", "dist", "build", "coverage", ".git", ".next", "vendor"},
			MaxFileSizeBytes: 1_000_000,
		},
		Complexity: ComplexityConfig{
			DebtThreshold:         10,
			CoreFunctionThreshold: 10,
		},
		Grouping: GroupingConfig{
			Strategy: "parent",
		},
		History: HistoryConfig{
			Enabled:    true,
			MaxCommits: 500,
		},
		Cache: CacheConfig{
			TTLSeconds: 3600,
			Path:       "",
		},
		Logging: LoggingConfig{
			Format: "human",
			Level:  "info",
		},
	}
}

// Load reads configuration from <dir>/.repolens/config.json, falling back to
// defaults when no config file exists.
func Load(dir string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(dir, ".repolens"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to <dir>/.repolens/config.json.
func (c *Config) Save(dir string) error {
	confDir := filepath.Join(dir, ".repolens")
	if err := os.MkdirAll(confDir, 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(filepath.Join(confDir, "config.json"), data, 0o644)
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if len(c.Scan.Extensions) == 0 {
		return &Error{Field: "scan.extensions", Message: "at least one extension is required"}
	}
	if c.Scan.MaxFileSizeBytes <= 0 {
		return &Error{Field: "scan.maxFileSizeBytes", Message: "must be positive"}
	}
	if c.Complexity.DebtThreshold < 1 {
		return &Error{Field: "complexity.debtThreshold", Message: "must be at least 1"}
	}
	if c.Grouping.Strategy != "parent" {
		return &Error{Field: "grouping.strategy", Message: fmt.Sprintf("unsupported strategy %q", c.Grouping.Strategy)}
	}
	if c.Cache.TTLSeconds <= 0 {
		return &Error{Field: "cache.ttlSeconds", Message: "must be positive"}
	}
	return nil
}

// Error represents a configuration error.
type Error struct {
	Field   string
	Message string
}

func (e *Error) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
