package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and returns the
// resulting Config. It also saves the config to path.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to folio! Let's configure your portfolio.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. GitHub account.
	userPrompt := promptui.Prompt{
		Label:   "GitHub username",
		Default: cfg.GitHub.Username,
		Validate: func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("username is required")
			}
			return nil
		},
	}
	username, err := userPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("github username: %w", err)
	}
	cfg.GitHub.Username = strings.TrimSpace(username)

	// 2. How many repositories to show.
	reposPrompt := promptui.Prompt{
		Label:    "Repositories to show",
		Default:  strconv.Itoa(cfg.GitHub.MaxRepos),
		Validate: positiveInt,
	}
	reposStr, err := reposPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("max repos: %w", err)
	}
	cfg.GitHub.MaxRepos, _ = strconv.Atoi(strings.TrimSpace(reposStr))

	// 3. Extra exclude patterns.
	excludePrompt := promptui.Prompt{
		Label:   "Extra repository excludes (comma-separated globs, leave blank for defaults)",
		Default: "",
	}
	excludeStr, err := excludePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("exclude patterns: %w", err)
	}
	if extra := splitAndTrim(excludeStr); len(extra) > 0 {
		cfg.GitHub.Exclude = append(append([]string{}, DefaultExcludes...), extra...)
	}

	// 4. Listener.
	portPrompt := promptui.Prompt{
		Label:    "HTTP port",
		Default:  strconv.Itoa(cfg.Server.Port),
		Validate: positiveInt,
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(strings.TrimSpace(portStr))

	// 5. Log format.
	formatPrompt := promptui.Select{
		Label: "Log format",
		Items: []string{string(LogFormatText), string(LogFormatJSON)},
	}
	_, format, err := formatPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("log format: %w", err)
	}
	cfg.Log.Format = LogFormat(format)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if os.Getenv("GITHUB_TOKEN") == "" {
		fmt.Println("\nNote: set GITHUB_TOKEN to raise the GitHub rate limit from 60 to 5000 requests/hour.")
	}

	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

func positiveInt(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return fmt.Errorf("enter a positive number")
	}
	return nil
}

// splitAndTrim splits a comma-separated string and trims whitespace,
// dropping empty entries.
func splitAndTrim(s string) []string {
	var result []string
	for _, part := range strings.Split(s, ",") {
		if token := strings.TrimSpace(part); token != "" {
			result = append(result, token)
		}
	}
	return result
}
