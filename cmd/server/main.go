package main

import (
	"context"
	"errors"
	"log" // Use standard log only for initial fatal errors before logger is set up
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"copytrade/config"
	"copytrade/internal/adapters/logger"
	"copytrade/internal/api"
	"copytrade/internal/app"
	"copytrade/internal/store"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err) // Use standard log before logger is ready
	}

	// 2. Initialize Logger
	appLogger, err := logger.NewZapLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize logger: %v", err)
	}
	defer func() {
		_ = appLogger.Sync()
	}()
	ctx := context.Background()
	appLogger.Info(ctx, "Logger initialized", map[string]interface{}{"level": cfg.LogLevel.String()})

	// 3. Initialize the Domain Store
	st, err := store.New(store.Config{Logger: appLogger})
	if err != nil {
		appLogger.Error(ctx, err, "FATAL: Failed to initialize domain store")
		os.Exit(1)
	}
	if cfg.Seed {
		seed := store.DefaultSeed()
		if cfg.SeedFile != "" {
			if seed, err = store.LoadSeed(cfg.SeedFile); err != nil {
				appLogger.Error(ctx, err, "FATAL: Failed to load seed file")
				os.Exit(1)
			}
		}
		if err := st.ApplySeed(seed); err != nil {
			appLogger.Error(ctx, err, "FATAL: Failed to apply seed data")
			os.Exit(1)
		}
	}

	// 4. Initialize the Trading Service (compiles both workflow graphs; a
	// malformed definition fails here, once, not per call)
	svc, err := app.NewTradingService(cfg, appLogger, st)
	if err != nil {
		appLogger.Error(ctx, err, "FATAL: Failed to initialize trading service")
		os.Exit(1)
	}
	appLogger.Info(ctx, "Trading service initialized")

	// 5. Initialize the API Server
	srv, err := api.NewServer(cfg, appLogger, svc)
	if err != nil {
		appLogger.Error(ctx, err, "FATAL: Failed to initialize API server")
		os.Exit(1)
	}

	// 6. Run until SIGINT/SIGTERM
	runCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		return srv.Run(gctx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		appLogger.Error(ctx, err, "Server exited with error")
		os.Exit(1)
	}
	appLogger.Info(ctx, "Shutdown complete")
}
