package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Kamar-Folarin/mileage-collector/internal/app"
	"github.com/Kamar-Folarin/mileage-collector/internal/config"
	"github.com/Kamar-Folarin/mileage-collector/internal/utils"
)

func main() {
	brands := flag.String("brands", "", "comma-separated brand ids, defaults to the saved selection")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	brandIDs, err := utils.ParseIDList(*brands)
	if err != nil {
		log.Fatalf("Invalid -brands: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := app.NewLogger(cfg.LogLevel)

	a, err := app.New(cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to initialize application: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	run, err := a.Collection.RunCollection(ctx, brandIDs)
	stop()
	a.Close()

	if err != nil {
		logger.WithError(err).Error("Collection failed")
		os.Exit(1)
	}
	logger.WithField("run", run.String()).Info("Collection finished")
}
