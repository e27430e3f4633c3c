package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/folio/internal/github"
	"github.com/ziadkadry99/folio/internal/portfolio"
	"github.com/ziadkadry99/folio/internal/progress"
)

var githubCmd = &cobra.Command{
	Use:   "github",
	Short: "Manage the cached GitHub project list",
}

var githubSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Fetch repositories from GitHub and refresh the cache",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		src, err := loadSource(cfg)
		if err != nil {
			return fmt.Errorf("loading portfolio data: %w", err)
		}
		database := openCache(cfg, logger)
		if database == nil {
			return fmt.Errorf("cannot open project cache at %s", cfg.DatabasePath())
		}
		defer database.Close()

		svc, err := newGitHubService(cfg, src, database, logger)
		if err != nil {
			return err
		}

		fmt.Fprintf(os.Stderr, "Syncing repositories for %s...\n", svc.Username())
		list, err := svc.Sync(context.Background(), progress.NewReporter(os.Stderr))
		if err != nil {
			return fmt.Errorf("syncing %s: %w", svc.Username(), err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Cached %d repositories in %s\n", len(list), database.Path())
		return nil
	},
}

var githubListCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the cached GitHub project list",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		database := openCache(cfg, logger)
		if database == nil {
			return fmt.Errorf("cannot open project cache at %s", cfg.DatabasePath())
		}
		defer database.Close()

		list, syncedAt, err := github.NewStore(database).Load(context.Background(), cfg.GitHub.Username)
		if err != nil {
			return fmt.Errorf("reading cache for %s: %w", cfg.GitHub.Username, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Synced %s\n\n", syncedAt.Local().Format("2006-01-02 15:04"))
		out := make([]portfolio.Project, 0, len(list))
		for _, p := range list {
			out = append(out, p.Portfolio())
		}
		printProjects(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	githubCmd.AddCommand(githubSyncCmd)
	githubCmd.AddCommand(githubListCmd)
	rootCmd.AddCommand(githubCmd)
}
