package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/killallgit/corpus-api/api"
	"github.com/killallgit/corpus-api/api/types"
	"github.com/killallgit/corpus-api/pkg/config"
	"github.com/killallgit/corpus-api/pkg/version"
	"github.com/spf13/cobra"
)

var (
	serverHost string
	serverPort int
	resetDB    bool
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	Long: `Start the corpus-api server with the configured settings.

The server prepares the record tables, reconciles records against the
storage roots and then serves the upload, listing and delete endpoints.

Example:
  corpus-api serve
  corpus-api serve --port 9090
  corpus-api serve --host 0.0.0.0 --port 8080 --reset-db`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	// Server flags
	serveCmd.Flags().StringVar(&serverHost, "host", "", "server host (overrides config)")
	serveCmd.Flags().IntVar(&serverPort, "port", 0, "server port (overrides config)")
	serveCmd.Flags().BoolVar(&resetDB, "reset-db", false, "drop and recreate the record tables before serving")
}

func runServer(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("host") {
		config.Set("server.host", serverHost)
	}
	if cmd.Flags().Changed("port") {
		config.Set("server.port", serverPort)
	}
	if cmd.Flags().Changed("reset-db") {
		config.Set("database.reset_on_start", resetDB)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := buildComponents(ctx, cfg, cfg.Database.ResetOnStart)
	if err != nil {
		return err
	}
	defer app.Close()

	if cfg.Database.ResetOnStart {
		slog.Warn("record tables were reset on start")
	}

	if cfg.Storage.ReconcileOnStart {
		if _, err := app.reconciler.Reconcile(ctx); err != nil {
			return fmt.Errorf("startup reconciliation failed: %w", err)
		}
	}
	app.reconciler.Start(ctx)

	server := api.NewServer(cfg)
	server.SetDependencies(&types.Dependencies{
		DB:            app.db,
		RecordService: app.records,
		Config:        cfg,
	})
	if err := server.Initialize(); err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	slog.Info("server started",
		"service", version.Name,
		"version", version.Version,
		"address", server.Addr(),
		"audio_dir", cfg.Storage.AudioDir,
		"text_dir", cfg.Storage.TextDir)

	// Wait for a signal, cancellation or server error
	select {
	case <-ctx.Done():
		slog.Info("shutting down server")
	case err := <-serverErr:
		if err != nil {
			slog.Error("server error", "error", err)
			return fmt.Errorf("server error: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("server gracefully stopped")
	return nil
}
