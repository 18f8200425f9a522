package main

import (
	"context"
	"os"

	"taxiservice/config"
	"taxiservice/pkg/logger"
	"taxiservice/storage/postgres"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.ServiceName, cfg.LoggerLevel)

	ctx := context.Background()
	pg, err := postgres.New(ctx, cfg, log)
	if err != nil {
		log.Error("failed to connect to postgres", logger.Error(err))
		os.Exit(1)
	}
	defer pg.Close()

	// drivers, cars, manufacturers and assignments; ids restart from 1
	if err := pg.Reset(ctx); err != nil {
		log.Error("failed to truncate tables", logger.Error(err))
		os.Exit(1)
	}
	log.Info("taxi tables truncated")
}
