package storage

import (
	"context"
	"time"

	"taxiservice/pkg/models"
)

type IStorage interface {
	Manufacturer() IManufacturerStorage
	Car() ICarStorage
	Driver() IDriverStorage
	Stats(ctx context.Context) (models.Stats, error)
	Reset(ctx context.Context) error
	Close()
}

type IManufacturerStorage interface {
	Create(ctx context.Context, m *models.Manufacturer) (*models.Manufacturer, error)
	Update(ctx context.Context, m *models.Manufacturer) (*models.Manufacturer, error)
	GetByID(ctx context.Context, id int64) (*models.Manufacturer, error)
	List(ctx context.Context, filter models.ManufacturerFilter) ([]*models.Manufacturer, error)
	Count(ctx context.Context, filter models.ManufacturerFilter) (int, error)
	Exists(ctx context.Context, id int64) (bool, error)
	// Delete also removes the manufacturer's cars.
	Delete(ctx context.Context, id int64) error
}

type ICarStorage interface {
	// Create and Update persist car.Drivers as the full driver set.
	Create(ctx context.Context, car *models.Car) (*models.Car, error)
	Update(ctx context.Context, car *models.Car) (*models.Car, error)
	// GetByID loads the manufacturer and the assigned drivers.
	GetByID(ctx context.Context, id int64) (*models.Car, error)
	List(ctx context.Context, filter models.CarFilter) ([]*models.Car, error)
	Count(ctx context.Context, filter models.CarFilter) (int, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Delete(ctx context.Context, id int64) error
	ListByDriver(ctx context.Context, driverID int64) ([]*models.Car, error)
	CountByManufacturer(ctx context.Context, manufacturerID int64) (int, error)
	// ToggleDriver flips membership and reports whether the driver is now assigned.
	ToggleDriver(ctx context.Context, carID, driverID int64) (bool, error)
}

type IDriverStorage interface {
	Create(ctx context.Context, d *models.Driver) (*models.Driver, error)
	Update(ctx context.Context, d *models.Driver) (*models.Driver, error)
	UpdateLicense(ctx context.Context, id int64, license string) error
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error
	GetByID(ctx context.Context, id int64) (*models.Driver, error)
	GetByUsername(ctx context.Context, username string) (*models.Driver, error)
	GetByIDs(ctx context.Context, ids []int64) ([]*models.Driver, error)
	List(ctx context.Context, filter models.DriverFilter) ([]*models.Driver, error)
	Count(ctx context.Context, filter models.DriverFilter) (int, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Delete(ctx context.Context, id int64) error
}
