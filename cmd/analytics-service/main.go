package main

import (
	"fmt"
	"os"

	"github.com/nurpe/contract-analytics/internal/auth"
	"github.com/nurpe/contract-analytics/internal/config"
	"github.com/nurpe/contract-analytics/internal/dataset"
	"github.com/nurpe/contract-analytics/internal/export"
	httphandler "github.com/nurpe/contract-analytics/internal/http"
	"github.com/nurpe/contract-analytics/internal/http/middleware"
	"github.com/nurpe/contract-analytics/internal/logger"
	"github.com/nurpe/contract-analytics/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	loader := dataset.NewLoader(cfg.Dataset.Path, cfg.Dataset.Sheet, log)

	// A missing workbook is fatal: verify the load before serving anything.
	if _, err := loader.Records(); err != nil {
		log.Fatal().Err(err).Msg("failed to load dataset")
	}

	analyticsService := service.NewAnalyticsService(
		loader,
		export.NewCSVGenerator(),
		export.NewXLSXGenerator(),
		export.NewPDFGenerator(),
	)

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	handler := httphandler.NewHandler(analyticsService, log)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, cfg, log)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting contract analytics service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
