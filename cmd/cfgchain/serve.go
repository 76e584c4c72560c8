package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sagarc03/cfgchain/config"
	cfghttp "github.com/sagarc03/cfgchain/http"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Serve the session's value store over HTTP.

Overrides set with PUT /variables/{name} live in memory for the lifetime of
the server and win over every other source.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Int("port", 5709, "HTTP server port (env: CFGCHAIN_SERVER_PORT)")
	serveCmd.Flags().Bool("metrics", true, "expose Prometheus metrics at /metrics")
	serveCmd.Flags().Bool("watch", false, "reload the profile file when it changes")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	cfg, err := config.FromContext(ctx)
	if err != nil {
		return err
	}

	sess, cleanup, err := openSession(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	if cfg.Session.Watch {
		go func() {
			if err := sess.Watch(ctx); err != nil {
				slog.Error("profile file watch stopped", "err", err)
			}
		}()
	}

	handlerConfig := cfghttp.HandlerConfig{CORS: cfg.Server.CORS}
	if cfg.Server.Metrics {
		handlerConfig.Metrics = cfghttp.NewMetrics()
	}
	handler := cfghttp.NewHandler(&handlerConfig, sess.Store())

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "err", err)
		}
		cancel()
	}()

	slog.Info("starting server",
		"addr", addr,
		"session", cfg.Session.Name,
		"persistent", cfg.Database.Enabled,
		"metrics", cfg.Server.Metrics,
		"watch", cfg.Session.Watch,
	)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}
