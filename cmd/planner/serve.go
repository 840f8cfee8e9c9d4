/*
serve.go - HTTP server startup and graceful shutdown

STARTUP SEQUENCE:
  1. Load configuration (file + PLANNER_* environment overrides)
  2. Open the SQLite store
  3. Build the calculator and seed its allocation index from the store
  4. Wire the engine, metrics and HTTP router
  5. Serve until SIGINT/SIGTERM, then drain for up to 30s

EXAMPLES:
  planner serve
  planner serve -c config.yaml
  PLANNER_SERVER__DB=":memory:" planner serve
*/
package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pubule/capacity-planner/api"
	"github.com/pubule/capacity-planner/calendar"
	"github.com/pubule/capacity-planner/config"
	"github.com/pubule/capacity-planner/internal/logger"
	"github.com/pubule/capacity-planner/metrics"
	"github.com/pubule/capacity-planner/plan"
	"github.com/pubule/capacity-planner/store/sqlite"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the planning HTTP service",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.SetLevel(cfg.Logging.Level)
	log := logger.New("serve")

	store, err := sqlite.New(cfg.Server.DB)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	calc := calendar.NewCalculator()
	if err := store.SeedCalculator(ctx, calc); err != nil {
		return fmt.Errorf("seed calculator: %w", err)
	}

	recorder, err := metrics.NewRecorder(nil)
	if err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	engine := plan.NewEngine(calc, store)
	handler := api.NewHandler(store, calc, engine, logger.New("api"), recorder)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      api.NewRouter(handler),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.Server.Port).Str("db", cfg.Server.DB).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}
	log.Info().Msg("server stopped")
	return nil
}
