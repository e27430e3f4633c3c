package config

import (
	"os"
	"path/filepath"
	"slices"
	"time"
)

// FileName is the default configuration file, looked up in the working directory.
const FileName = ".folio.yml"

// DefaultExcludes are repository name globs hidden from the project list.
var DefaultExcludes = []string{
	"*.github.io",
	".github",
	"dotfiles",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port: 8001,
		},
		API: APIConfig{
			Timeout: 10 * time.Second,
		},
		GitHub: GitHubConfig{
			Username: "Dineshh-007",
			MaxRepos: 6,
			Exclude:  slices.Clone(DefaultExcludes),
			CacheTTL: time.Hour,
		},
		DataDir: defaultDataDir(),
		Log: LogConfig{
			Level:  "info",
			Format: LogFormatText,
		},
	}
}

func defaultDataDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "folio")
	}
	return ".folio"
}

// DatabasePath returns the SQLite cache file inside DataDir.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "folio.db")
}
