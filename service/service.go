package service

import (
	"context"

	"taxiservice/pkg/logger"
	"taxiservice/pkg/models"
	"taxiservice/pkg/pagination"
	"taxiservice/storage"
)

type IServiceManager interface {
	Manufacturer() ManufacturerService
	Car() CarService
	Driver() DriverService
	Stats() StatsService
}

// Notifier receives domain events worth telling the administrators about.
// Implementations must not block the caller.
type Notifier interface {
	DriverRegistered(ctx context.Context, d *models.Driver)
	AssignmentToggled(ctx context.Context, car *models.Car, d *models.Driver, assigned bool)
}

type nopNotifier struct{}

func (nopNotifier) DriverRegistered(context.Context, *models.Driver) {}

func (nopNotifier) AssignmentToggled(context.Context, *models.Car, *models.Driver, bool) {}

// ListResult is one page of a filtered list.
type ListResult[T any] struct {
	Items []T
	Page  pagination.Page
}

type service struct {
	manufacturerService ManufacturerService
	carService          CarService
	driverService       DriverService
	statsService        StatsService
}

// New wires the services over stg. A nil notifier disables notifications.
func New(stg storage.IStorage, notifier Notifier, log logger.ILogger) IServiceManager {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &service{
		manufacturerService: NewManufacturerService(stg, log),
		carService:          NewCarService(stg, notifier, log),
		driverService:       NewDriverService(stg, notifier, log),
		statsService:        NewStatsService(stg),
	}
}

func (s *service) Manufacturer() ManufacturerService {
	return s.manufacturerService
}

func (s *service) Car() CarService {
	return s.carService
}

func (s *service) Driver() DriverService {
	return s.driverService
}

func (s *service) Stats() StatsService {
	return s.statsService
}
