package service

import (
	"context"

	"taxiservice/pkg/logger"
	"taxiservice/pkg/models"
	"taxiservice/pkg/pagination"
	"taxiservice/storage"
)

type ManufacturerService interface {
	List(ctx context.Context, name string, page int) (ListResult[*models.Manufacturer], error)
	All(ctx context.Context) ([]*models.Manufacturer, error)
	GetByID(ctx context.Context, id int64) (*models.Manufacturer, error)
	Create(ctx context.Context, m *models.Manufacturer) (*models.Manufacturer, error)
	Update(ctx context.Context, m *models.Manufacturer) (*models.Manufacturer, error)
	Delete(ctx context.Context, id int64) error
	CarCount(ctx context.Context, id int64) (int, error)
}

type manufacturerService struct {
	stg  storage.IManufacturerStorage
	cars storage.ICarStorage
	log  logger.ILogger
}

func NewManufacturerService(stg storage.IStorage, log logger.ILogger) ManufacturerService {
	return &manufacturerService{
		stg:  stg.Manufacturer(),
		cars: stg.Car(),
		log:  log,
	}
}

func (s *manufacturerService) List(ctx context.Context, name string, page int) (ListResult[*models.Manufacturer], error) {
	filter := models.ManufacturerFilter{Name: name}
	total, err := s.stg.Count(ctx, filter)
	if err != nil {
		return ListResult[*models.Manufacturer]{}, err
	}

	p := pagination.New(total, page, pagination.DefaultPageSize)
	filter.Limit, filter.Offset = p.Limit(), p.Offset()

	items, err := s.stg.List(ctx, filter)
	if err != nil {
		return ListResult[*models.Manufacturer]{}, err
	}
	return ListResult[*models.Manufacturer]{Items: items, Page: p}, nil
}

func (s *manufacturerService) All(ctx context.Context) ([]*models.Manufacturer, error) {
	return s.stg.List(ctx, models.ManufacturerFilter{})
}

func (s *manufacturerService) GetByID(ctx context.Context, id int64) (*models.Manufacturer, error) {
	return s.stg.GetByID(ctx, id)
}

func (s *manufacturerService) Create(ctx context.Context, m *models.Manufacturer) (*models.Manufacturer, error) {
	created, err := s.stg.Create(ctx, m)
	if err != nil {
		return nil, err
	}
	s.log.Info("manufacturer created", logger.Int64("id", created.ID), logger.String("name", created.Name))
	return created, nil
}

func (s *manufacturerService) Update(ctx context.Context, m *models.Manufacturer) (*models.Manufacturer, error) {
	return s.stg.Update(ctx, m)
}

func (s *manufacturerService) Delete(ctx context.Context, id int64) error {
	if err := s.stg.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("manufacturer deleted", logger.Int64("id", id))
	return nil
}

func (s *manufacturerService) CarCount(ctx context.Context, id int64) (int, error) {
	return s.cars.CountByManufacturer(ctx, id)
}
