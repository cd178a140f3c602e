package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/gountain/catalog/internal/app"
	"github.com/gountain/catalog/internal/config"
	"github.com/gountain/catalog/internal/logger"
)

func main() {
	cfg, err := config.Load(os.Getenv("GOUNTAIN_CONFIG"))
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	lg, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer func() { _ = lg.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Serve(ctx, cfg, lg); err != nil {
		lg.Fatal("server error", zap.Error(err))
	}
}
