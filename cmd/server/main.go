package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jobindex/internal/api"
	"jobindex/internal/config"
	"jobindex/internal/dashboard"
	"jobindex/internal/engine"
	"jobindex/internal/logger"
	"jobindex/internal/session"
	"jobindex/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{Level: "info", Pretty: true})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})
	logger.SetGlobalLogger(log)

	// 1. Wire services with NO data yet
	// The API is live immediately but answers 503 until the registry is set
	dash := dashboard.NewService(log)
	sessions := session.NewStore(cfg.SessionTTL, log)
	h := api.NewHandler(dash, sessions, web.Page{GitHubURL: cfg.GitHubURL}, log)
	e := api.NewEcho(h, log)

	stopJanitor, err := sessions.StartJanitor(cfg.SessionSweep)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to start session janitor")
	}

	// 2. Load datasets in background
	go func() {
		log.Info().Str("data_dir", cfg.DataDir).Strs("countries", cfg.Countries).Msg("Loading datasets")
		t0 := time.Now()

		reg, err := engine.LoadRegistry(cfg.DataDir, cfg.Countries, log)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to build dataset registry")
		}
		dash.SetRegistry(reg)

		log.Info().Dur("took", time.Since(t0)).Msg("Datasets ready")
	}()

	// 3. Start Server
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Port)
		log.Info().Str("addr", addr).Msg("Server ready (data loading in background)")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 4. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down")
	stopJanitor()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
}
