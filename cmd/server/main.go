package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/youssefMoMo/youssef-portfolio/internal/config"
	"github.com/youssefMoMo/youssef-portfolio/internal/container"

	log "github.com/sirupsen/logrus"
)

func main() {
	log.Info("Starting portfolio backend...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.Info("Configuration loaded successfully")

	app, err := container.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx); err != nil {
		log.Fatalf("Application exited with error: %v", err)
	}

	log.Info("Application finished successfully")
}
