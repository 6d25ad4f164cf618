package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/evcraddock/threadline/internal/config"
	"github.com/evcraddock/threadline/internal/db"
	"github.com/evcraddock/threadline/internal/logging"
	"github.com/evcraddock/threadline/internal/web"
)

func newServeCmd() *cobra.Command {
	var port, dbPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the HTTP API and WebSocket feed. Settings come from TL_* environment variables and .env, overridden by flags.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Port = port
			}
			if dbPath != "" {
				cfg.DBPath = dbPath
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "port to listen on (default: TL_PORT or 8080)")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path (default: TL_DB or ~/.config/tl/threadline.db)")

	return cmd
}

func runServe(ctx context.Context, cfg config.Config) error {
	logging.Setup(cfg.DevMode)

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(); err != nil {
			slog.Warn("closing database", "error", err)
		}
	}()

	srv, err := web.NewServer(database, cfg)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	slog.Info("threadline starting", "db", cfg.DBPath, "dev_mode", cfg.DevMode)
	return srv.ListenAndServe(ctx, cfg.Addr())
}
