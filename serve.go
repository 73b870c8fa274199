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

	"github.com/CrowderSoup/couple-calendar/database"
	"github.com/CrowderSoup/couple-calendar/handlers"
	"github.com/CrowderSoup/couple-calendar/services"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the task API server",
		Long: `Run the task API server.

The store is chosen by STORE_URI (MONGODB_URI is also accepted): a mongodb://
or mongodb+srv:// URI uses MongoDB, sqlite:<path> uses a local SQLite file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	cfg, err := services.LoadConfig(".")
	if err != nil {
		return err
	}
	logger := services.NewLogger(os.Stderr, cfg)
	slog.SetDefault(logger)

	store, err := database.Open(cfg.StoreURI, cfg.StoreDB)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      handlers.NewRouter(store, logger, cfg.CORSOrigins),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", slog.String("port", cfg.Port))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			_ = store.Close(context.Background())
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.Any("err", err))
	}
	if err := store.Close(shutdownCtx); err != nil {
		logger.Error("failed to close store", slog.Any("err", err))
	}
	logger.Info("server stopped")
	return nil
}
