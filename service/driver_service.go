package service

import (
	"context"
	"errors"
	"time"

	"taxiservice/pkg/apperrors"
	"taxiservice/pkg/auth"
	"taxiservice/pkg/logger"
	"taxiservice/pkg/models"
	"taxiservice/pkg/pagination"
	"taxiservice/storage"
)

type DriverService interface {
	List(ctx context.Context, filter models.DriverFilter, page, pageSize int) (ListResult[*models.Driver], error)
	All(ctx context.Context) ([]*models.Driver, error)
	// GetByID loads the driver together with the cars it is assigned to.
	GetByID(ctx context.Context, id int64) (*models.Driver, error)
	// Active returns the driver only while the account is active.
	Active(ctx context.Context, id int64) (*models.Driver, error)
	Register(ctx context.Context, d *models.Driver, password string) (*models.Driver, error)
	Authenticate(ctx context.Context, username, password string) (*models.Driver, error)
	UpdateLicense(ctx context.Context, id int64, license string) error
	Update(ctx context.Context, d *models.Driver) (*models.Driver, error)
	Delete(ctx context.Context, id int64) error
}

type driverService struct {
	stg      storage.IDriverStorage
	cars     storage.ICarStorage
	notifier Notifier
	log      logger.ILogger
	now      func() time.Time
}

func NewDriverService(stg storage.IStorage, notifier Notifier, log logger.ILogger) DriverService {
	return &driverService{
		stg:      stg.Driver(),
		cars:     stg.Car(),
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

func (s *driverService) List(ctx context.Context, filter models.DriverFilter, page, pageSize int) (ListResult[*models.Driver], error) {
	total, err := s.stg.Count(ctx, filter)
	if err != nil {
		return ListResult[*models.Driver]{}, err
	}

	p := pagination.New(total, page, pageSize)
	filter.Limit, filter.Offset = p.Limit(), p.Offset()

	items, err := s.stg.List(ctx, filter)
	if err != nil {
		return ListResult[*models.Driver]{}, err
	}
	return ListResult[*models.Driver]{Items: items, Page: p}, nil
}

func (s *driverService) All(ctx context.Context) ([]*models.Driver, error) {
	return s.stg.List(ctx, models.DriverFilter{})
}

func (s *driverService) GetByID(ctx context.Context, id int64) (*models.Driver, error) {
	d, err := s.stg.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	d.Cars, err = s.cars.ListByDriver(ctx, id)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (s *driverService) Active(ctx context.Context, id int64) (*models.Driver, error) {
	d, err := s.stg.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !d.IsActive {
		return nil, apperrors.ErrNotFound
	}
	return d, nil
}

func (s *driverService) Register(ctx context.Context, d *models.Driver, password string) (*models.Driver, error) {
	hash, err := auth.HashPassword(password)
	if err != nil {
		if auth.IsPasswordTooLong(err) {
			return nil, apperrors.NewFieldError("password2", "Ensure this password has at most 72 bytes.")
		}
		return nil, err
	}

	d.PasswordHash = hash
	d.DateJoined = s.now().UTC()

	created, err := s.stg.Create(ctx, d)
	if err != nil {
		return nil, err
	}

	s.log.Info("driver registered",
		logger.Int64("id", created.ID),
		logger.String("username", created.Username),
		logger.Bool("is_staff", created.IsStaff),
	)
	s.notifier.DriverRegistered(ctx, created)
	return created, nil
}

func (s *driverService) Authenticate(ctx context.Context, username, password string) (*models.Driver, error) {
	d, err := s.stg.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}

	if !d.IsActive || !auth.CheckPasswordHash(password, d.PasswordHash) {
		s.log.Warning("failed login attempt", logger.String("username", username))
		return nil, apperrors.ErrInvalidCredentials
	}

	at := s.now().UTC()
	if err := s.stg.UpdateLastLogin(ctx, d.ID, at); err != nil {
		return nil, err
	}
	d.LastLogin = &at
	return d, nil
}

func (s *driverService) UpdateLicense(ctx context.Context, id int64, license string) error {
	if err := models.ValidateLicenseNumber(license); err != nil {
		return apperrors.NewFieldError("license_number", err.Error())
	}
	return s.stg.UpdateLicense(ctx, id, license)
}

func (s *driverService) Update(ctx context.Context, d *models.Driver) (*models.Driver, error) {
	if d.LicenseNumber != nil {
		if err := models.ValidateLicenseNumber(*d.LicenseNumber); err != nil {
			return nil, apperrors.NewFieldError("license_number", err.Error())
		}
	}
	return s.stg.Update(ctx, d)
}

func (s *driverService) Delete(ctx context.Context, id int64) error {
	if err := s.stg.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("driver deleted", logger.Int64("id", id))
	return nil
}
