package service

import (
	"context"

	"taxiservice/pkg/apperrors"
	"taxiservice/pkg/logger"
	"taxiservice/pkg/models"
	"taxiservice/pkg/pagination"
	"taxiservice/storage"
)

type CarService interface {
	List(ctx context.Context, filter models.CarFilter, page, pageSize int) (ListResult[*models.Car], error)
	GetByID(ctx context.Context, id int64) (*models.Car, error)
	Create(ctx context.Context, car *models.Car) (*models.Car, error)
	Update(ctx context.Context, car *models.Car) (*models.Car, error)
	Delete(ctx context.Context, id int64) error
	// ToggleAssign adds driver to the car when absent and removes it when
	// present. It reports whether the driver is assigned afterwards.
	ToggleAssign(ctx context.Context, carID int64, driver *models.Driver) (bool, error)
}

type carService struct {
	stg           storage.ICarStorage
	manufacturers storage.IManufacturerStorage
	drivers       storage.IDriverStorage
	notifier      Notifier
	log           logger.ILogger
}

func NewCarService(stg storage.IStorage, notifier Notifier, log logger.ILogger) CarService {
	return &carService{
		stg:           stg.Car(),
		manufacturers: stg.Manufacturer(),
		drivers:       stg.Driver(),
		notifier:      notifier,
		log:           log,
	}
}

func (s *carService) List(ctx context.Context, filter models.CarFilter, page, pageSize int) (ListResult[*models.Car], error) {
	total, err := s.stg.Count(ctx, filter)
	if err != nil {
		return ListResult[*models.Car]{}, err
	}

	p := pagination.New(total, page, pageSize)
	filter.Limit, filter.Offset = p.Limit(), p.Offset()

	items, err := s.stg.List(ctx, filter)
	if err != nil {
		return ListResult[*models.Car]{}, err
	}
	return ListResult[*models.Car]{Items: items, Page: p}, nil
}

func (s *carService) GetByID(ctx context.Context, id int64) (*models.Car, error) {
	return s.stg.GetByID(ctx, id)
}

// checkRefs reports a field error when the manufacturer or any driver is gone.
func (s *carService) checkRefs(ctx context.Context, car *models.Car) error {
	exists, err := s.manufacturers.Exists(ctx, car.ManufacturerID)
	if err != nil {
		return err
	}
	if !exists {
		return apperrors.NewFieldError("manufacturer", "Select a valid choice. That choice is not one of the available choices.")
	}

	ids := car.DriverIDs()
	if len(ids) == 0 {
		return nil
	}
	found, err := s.drivers.GetByIDs(ctx, ids)
	if err != nil {
		return err
	}
	if len(found) != len(ids) {
		return apperrors.NewFieldError("drivers", "Select a valid choice. One of the drivers is not one of the available choices.")
	}
	return nil
}

func (s *carService) Create(ctx context.Context, car *models.Car) (*models.Car, error) {
	if err := s.checkRefs(ctx, car); err != nil {
		return nil, err
	}
	created, err := s.stg.Create(ctx, car)
	if err != nil {
		return nil, err
	}
	s.log.Info("car created", logger.Int64("id", created.ID), logger.String("model", created.Model))
	return created, nil
}

func (s *carService) Update(ctx context.Context, car *models.Car) (*models.Car, error) {
	exists, err := s.stg.Exists(ctx, car.ID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.ErrNotFound
	}
	if err := s.checkRefs(ctx, car); err != nil {
		return nil, err
	}
	return s.stg.Update(ctx, car)
}

func (s *carService) Delete(ctx context.Context, id int64) error {
	if err := s.stg.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("car deleted", logger.Int64("id", id))
	return nil
}

func (s *carService) ToggleAssign(ctx context.Context, carID int64, driver *models.Driver) (bool, error) {
	car, err := s.stg.GetByID(ctx, carID)
	if err != nil {
		return false, err
	}

	assigned, err := s.stg.ToggleDriver(ctx, carID, driver.ID)
	if err != nil {
		return false, err
	}

	s.log.Info("car assignment toggled",
		logger.Int64("car_id", carID),
		logger.Int64("driver_id", driver.ID),
		logger.Bool("assigned", assigned),
	)
	s.notifier.AssignmentToggled(ctx, car, driver, assigned)
	return assigned, nil
}
