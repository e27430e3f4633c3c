package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/folio/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve portfolio data to AI assistants over MCP (stdio)",
	Long: `Starts a Model Context Protocol server on stdin/stdout exposing the
profile, projects, skills and education as tools. Logs go to stderr.`,
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
		if database != nil {
			defer database.Close()
		}
		gh, err := newGitHubService(cfg, src, database, logger)
		if err != nil {
			return err
		}

		mcp.Version = Version
		return mcp.NewServer(src, gh).Serve()
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
