package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"repolens/internal/config"
	"repolens/internal/logging"
	"repolens/internal/store"
	"repolens/internal/version"
)

var (
	// logLevelFlag is the CLI --log-level flag value
	logLevelFlag string
	// logFormatFlag is the CLI --log-format flag value
	logFormatFlag string
)

var rootCmd = &cobra.Command{
	Use:   "repolens",
	Short: "RepoLens - repository comprehension analyzer",
	Long: `RepoLens statically analyzes JavaScript and TypeScript repositories with
tree-sitter, derives complexity and maintainability metrics, groups files into
architectural components, and synthesizes repository-level insights including a
suggested learning path.`,
	Version: version.Version,
}

func init() {
	rootCmd.SetVersionTemplate("RepoLens version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "",
		"Log level: debug, info, warn, error (default from config)")
	rootCmd.PersistentFlags().StringVar(&logFormatFlag, "log-format", "",
		"Log format: json or human (default from config)")
}

// mustLoadConfig loads configuration from the working directory, falling back
// to defaults. CLI flags override the logging section.
func mustLoadConfig() *config.Config {
	dir, err := os.Getwd()
	if err != nil {
		dir = "."
	}

	cfg, err := config.Load(dir)
	if err != nil {
		logging.NewLogger(logging.Config{Format: logging.HumanFormat, Level: logging.ErrorLevel}).
			Error("Failed to load configuration", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}

	if logLevelFlag != "" {
		cfg.Logging.Level = logLevelFlag
	}
	if logFormatFlag != "" {
		cfg.Logging.Format = logFormatFlag
	}
	return cfg
}

// newLogger builds the logger configured by flags and config. When command
// output goes to stdout, logs stay on stderr so pipelines remain clean.
func newLogger(cfg *config.Config) *logging.Logger {
	return logging.NewLogger(logging.Config{
		Format: logging.ParseFormat(cfg.Logging.Format),
		Level:  logging.ParseLevel(cfg.Logging.Level),
	})
}

// newStore builds the result store selected by configuration: SQLite when a
// cache path is configured, in-memory otherwise.
func newStore(cfg *config.Config, logger *logging.Logger) (store.Store, error) {
	ttl := time.Duration(cfg.Cache.TTLSeconds) * time.Second
	if cfg.Cache.Path != "" {
		return store.OpenSQLite(cfg.Cache.Path, ttl, logger)
	}
	return store.NewMemoryStore(ttl), nil
}
