// Package main provides the RadMud server binary: the game loop, the telnet
// acceptor and the health and metrics endpoints in one process.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"go.uber.org/zap"

	"github.com/HexColors60/RadMud/internal/config"
	"github.com/HexColors60/RadMud/internal/observability"
)

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging, "radmud")
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting radmud",
		zap.String("telnet_addr", cfg.Telnet.Addr()),
		zap.String("admin_addr", cfg.Admin.Addr()),
		zap.String("storage", cfg.Storage.Backend),
	)

	ctx := context.Background()
	lifecycle, cleanup, err := initializeServer(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("initializing server", zap.Error(err))
	}
	defer cleanup()
	logger.Info("server initialized", zap.Duration("elapsed", time.Since(start)))

	if err := lifecycle.Run(ctx); err != nil {
		logger.Error("server stopped with error", zap.Error(err))
	}
}
