package main

import (
	"context"
	"flag"
	"os"

	"taxiservice/config"
	"taxiservice/pkg/logger"
	"taxiservice/pkg/models"
	"taxiservice/service"
	"taxiservice/storage/postgres"
)

func main() {
	var (
		username = flag.String("username", os.Getenv("SUPERUSER_USERNAME"), "login of the staff driver")
		password = flag.String("password", os.Getenv("SUPERUSER_PASSWORD"), "password of the staff driver")
		email    = flag.String("email", os.Getenv("SUPERUSER_EMAIL"), "optional email")
	)
	flag.Parse()

	cfg := config.Load()
	log := logger.New(cfg.ServiceName, cfg.LoggerLevel)

	if *username == "" || *password == "" {
		log.Error("username and password are required")
		flag.Usage()
		os.Exit(2)
	}

	ctx := context.Background()
	pg, err := postgres.New(ctx, cfg, log)
	if err != nil {
		log.Error("failed to connect to postgres", logger.Error(err))
		os.Exit(1)
	}
	defer pg.Close()

	svc := service.New(pg, nil, log)
	d, err := svc.Driver().Register(ctx, &models.Driver{
		Username: *username,
		Email:    *email,
		IsStaff:  true,
		IsActive: true,
	}, *password)
	if err != nil {
		log.Error("failed to create superuser", logger.Error(err))
		os.Exit(1)
	}
	log.Info("superuser created", logger.Int64("id", d.ID), logger.String("username", d.Username))
}
