package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/folio/internal/api"
	"github.com/ziadkadry99/folio/internal/config"
	"github.com/ziadkadry99/folio/internal/fetch"
	"github.com/ziadkadry99/folio/internal/server"
	"github.com/ziadkadry99/folio/internal/site"
	"github.com/ziadkadry99/folio/internal/view"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the portfolio server",
	Long: `Serves the portfolio page on /, the JSON API on /api and the per-view
websocket channel on /ws/view.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = servePort
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		shutdownTelemetry, err := config.SetupTelemetry(ctx)
		if err != nil {
			logger.Warn("Telemetry disabled", "error", err)
		}
		defer shutdownTelemetry()

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

		renderer, err := site.NewRenderer(src, logger)
		if err != nil {
			return err
		}

		// Views load projects through the API, either this process's own
		// or the configured one.
		apiBase := cfg.API.BaseURL
		if apiBase == "" {
			apiBase = fmt.Sprintf("http://127.0.0.1:%d/api", cfg.Server.Port)
		}
		fetcher := fetch.NewClient(apiBase,
			fetch.WithTimeout(cfg.API.Timeout),
			fetch.WithLogger(logger),
		)

		srv := server.New(server.Config{
			Port:     cfg.Server.Port,
			AllowAll: cfg.Server.AllowAllOrigins,
			Logger:   logger,
		})
		r := srv.Router()
		api.RegisterRoutes(r, api.Deps{Projects: gh, Source: src, DB: database})
		site.RegisterRoutes(r, renderer)
		view.RegisterRoutes(r, view.NewHandler(fetcher, src.Projects(), logger))

		go func() {
			<-ctx.Done()
			logger.Info("Shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("Shutdown failed", "error", err)
			}
		}()

		logger.Info("folio starting",
			"version", Version,
			"port", cfg.Server.Port,
			"github_user", cfg.GitHub.Username,
			"api", apiBase,
		)
		return srv.Start()
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8001, "port to listen on (overrides server.port)")
	rootCmd.AddCommand(serveCmd)
}
