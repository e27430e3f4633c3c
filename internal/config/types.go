package config

import "time"

// LogFormat selects the slog handler.
type LogFormat string

const (
	LogFormatText LogFormat = "text"
	LogFormatJSON LogFormat = "json"
)

// Config is the top-level folio configuration, corresponding to .folio.yml.
type Config struct {
	Server   ServerConfig `yaml:"server" koanf:"server"`
	API      APIConfig    `yaml:"api" koanf:"api"`
	GitHub   GitHubConfig `yaml:"github" koanf:"github"`
	DataFile string       `yaml:"data_file" koanf:"data_file"`
	DataDir  string       `yaml:"data_dir" koanf:"data_dir"`
	Log      LogConfig    `yaml:"log" koanf:"log"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port            int  `yaml:"port" koanf:"port"`
	AllowAllOrigins bool `yaml:"allow_all_origins" koanf:"allow_all_origins"`
}

// APIConfig describes the portfolio API the project loader talks to.
type APIConfig struct {
	// BaseURL is empty when the page talks to the API served by this process.
	BaseURL string        `yaml:"base_url" koanf:"base_url"`
	Timeout time.Duration `yaml:"timeout" koanf:"timeout"`
}

// GitHubConfig controls the repository listing behind /api/github/projects.
type GitHubConfig struct {
	Username string        `yaml:"username" koanf:"username"`
	Token    string        `yaml:"token,omitempty" koanf:"token"`
	MaxRepos int           `yaml:"max_repos" koanf:"max_repos"`
	Exclude  []string      `yaml:"exclude" koanf:"exclude"`
	CacheTTL time.Duration `yaml:"cache_ttl" koanf:"cache_ttl"`
}

// LogConfig controls the process-wide logger.
type LogConfig struct {
	Level  string    `yaml:"level" koanf:"level"`
	Format LogFormat `yaml:"format" koanf:"format"`
}
