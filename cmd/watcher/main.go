// cmd/watcher/main.go
package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/stockops/stockorders/internal/config"
	"github.com/stockops/stockorders/internal/source"
	"github.com/stockops/stockorders/pkg/logger"
)

// The watcher polls the configured report source and mirrors new files
// into the data directory, with a small admin API for status and manual
// syncs.
func main() {
	cfg := config.Load()
	logger.SetLevel(cfg.App.LogLevel)

	src, err := source.New(cfg)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to build report source")
	}

	interval := time.Duration(cfg.Ingest.PollSeconds) * time.Second
	watcher := source.NewWatcher(src, cfg.App.DataDir, interval, cfg.Ingest.MaxParallel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go watcher.Run(ctx)

	r := mux.NewRouter()
	source.NewAdminHandler(watcher, src).RegisterRoutes(r)
	r.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	srv := &http.Server{
		Addr:    ":" + cfg.Ingest.AdminPort,
		Handler: r,
	}
	go func() {
		logger.Log.Info().
			Str("port", cfg.Ingest.AdminPort).
			Str("source", src.Name()).
			Str("interval", interval.String()).
			Msg("Watcher admin listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start admin server")
		}
	}()

	<-ctx.Done()
	logger.Log.Info().Msg("Shutting down watcher...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error().Err(err).Msg("Admin server forced to shutdown")
	}
	logger.Log.Info().Msg("Watcher exiting")
}
