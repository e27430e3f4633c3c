package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/folio/internal/fetch"
	"github.com/ziadkadry99/folio/internal/portfolio"
	"github.com/ziadkadry99/folio/internal/projects"
)

var (
	projectsAPI  string
	projectsJSON bool
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "Run one project load cycle and print the result",
	Long: `Fetches the live project list from the portfolio API exactly as a page
view does. When the API fails the bundled projects are printed instead and a
notice goes to stderr; the command still succeeds.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		src, err := loadSource(cfg)
		if err != nil {
			return fmt.Errorf("loading portfolio data: %w", err)
		}

		base := projectsAPI
		if base == "" {
			base = cfg.API.BaseURL
		}
		if base == "" {
			base = fmt.Sprintf("http://127.0.0.1:%d/api", cfg.Server.Port)
		}

		client := fetch.NewClient(base,
			fetch.WithTimeout(cfg.API.Timeout),
			fetch.WithLogger(logger),
		)
		loader := projects.NewLoader(client, src.Projects(), projects.WithLogger(logger))
		defer loader.Close()

		res := loader.Load(context.Background())
		if !res.OK() {
			fmt.Fprintf(os.Stderr, "%s (%v)\n", projects.ErrorMessage(res.Err), res.Err)
		}

		if projectsJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res.Projects)
		}
		printProjects(cmd.OutOrStdout(), res.Projects)
		return nil
	},
}

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

func printProjects(out io.Writer, list []portfolio.Project) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("NAME", "STARS", "UPDATED", "TAGS").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, p := range list {
		updated := "-"
		if !p.LastUpdated.IsZero() {
			updated = p.LastUpdated.Format("2006-01-02")
		}
		t.Row(p.Name, strconv.Itoa(p.Stars), updated, strings.Join(p.Tags, ", "))
	}
	fmt.Fprintln(out, t.Render())
}

func init() {
	projectsCmd.Flags().StringVar(&projectsAPI, "api", "", "portfolio API base URL (default: api.base_url or the local server)")
	projectsCmd.Flags().BoolVar(&projectsJSON, "json", false, "print projects as JSON")
	rootCmd.AddCommand(projectsCmd)
}
