package service

import (
	"context"

	"taxiservice/pkg/models"
	"taxiservice/storage"
)

type StatsService interface {
	Get(ctx context.Context) (models.Stats, error)
}

type statsService struct {
	stg storage.IStorage
}

func NewStatsService(stg storage.IStorage) StatsService {
	return &statsService{stg: stg}
}

func (s *statsService) Get(ctx context.Context) (models.Stats, error) {
	return s.stg.Stats(ctx)
}
