package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/agenthands/coursegraph/internal/app"
	"github.com/agenthands/coursegraph/internal/config"
	"github.com/agenthands/coursegraph/internal/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using defaults")
	}

	cfg, err := app.LoadConfig(config.Path())
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	lg, err := logger.New(cfg.Log.Mode)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer lg.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, lg)
	if err != nil {
		lg.Fatal("failed to initialize", "error", err)
	}
	defer a.Close(context.Background())

	if err := a.Serve(ctx); err != nil {
		lg.Error("server stopped", "error", err)
		os.Exit(1)
	}
}
