package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/ziadkadry99/folio/internal/config"
	"github.com/ziadkadry99/folio/internal/db"
	"github.com/ziadkadry99/folio/internal/github"
	"github.com/ziadkadry99/folio/internal/portfolio"
)

// loadConfig reads and validates the config file, then installs the logger.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	logger := config.SetupLogger(cfg.Log, os.Stderr)
	return cfg, logger, nil
}

// loadSource returns the configured dataset, or the bundled one.
func loadSource(cfg *config.Config) (*portfolio.Source, error) {
	if cfg.DataFile != "" {
		return portfolio.Load(cfg.DataFile)
	}
	return portfolio.Default()
}

// openCache opens the project cache. A cache that cannot be opened is
// logged and skipped.
func openCache(cfg *config.Config, logger *slog.Logger) *db.DB {
	database, err := db.Open(cfg.DatabasePath())
	if err != nil {
		logger.Warn("Project cache disabled", "path", cfg.DatabasePath(), "error", err)
		return nil
	}
	return database
}

// newGitHubService builds the repository lister from config.
func newGitHubService(cfg *config.Config, src *portfolio.Source, database *db.DB, logger *slog.Logger) (*github.Service, error) {
	opts := []github.Option{
		github.WithToken(cfg.GitHub.Token),
		github.WithMaxRepos(cfg.GitHub.MaxRepos),
		github.WithExclude(cfg.GitHub.Exclude...),
		github.WithCacheTTL(cfg.GitHub.CacheTTL),
		github.WithFallback(github.FromPortfolio(src.Projects())),
		github.WithLogger(logger),
	}
	if database != nil {
		opts = append(opts, github.WithStore(github.NewStore(database)))
	}
	return github.NewService(cfg.GitHub.Username, opts...)
}
