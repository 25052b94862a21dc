// cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stockops/stockorders/internal/api"
	"github.com/stockops/stockorders/internal/cache"
	"github.com/stockops/stockorders/internal/config"
	"github.com/stockops/stockorders/internal/service"
	"github.com/stockops/stockorders/internal/suppliers"
	"github.com/stockops/stockorders/pkg/logger"
)

func main() {
	cfg := config.Load()

	logger.SetLevel(cfg.App.LogLevel)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	exclusions := suppliers.NewStore(cfg.Suppliers.ExclusionFile)
	if err := exclusions.Load(); err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to load supplier exclusions")
	}

	exportCache, err := cache.NewExportCache(cfg.Cache)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to the export cache")
	}

	datasets := service.NewDatasetService(cfg.Ingest.MaxParallel)
	orders := service.NewOrderService(datasets, cfg)
	po := service.NewPOService(datasets, cfg, exclusions)
	exports := service.NewExportService(orders, po, exportCache)

	// Load whatever reports the data directory already holds. An empty
	// directory is fine; uploads fill the dataset later.
	if _, err := datasets.LoadDir(context.Background(), cfg.App.DataDir); err != nil {
		logger.Log.Warn().Err(err).Str("dir", cfg.App.DataDir).Msg("Initial dataset load skipped")
	}

	router := api.NewRouter(&api.Services{
		Config:     cfg,
		Datasets:   datasets,
		Orders:     orders,
		PO:         po,
		Exports:    exports,
		Exclusions: exclusions,
	}, cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
