package postgres

import (
	"context"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"taxiservice/pkg/apperrors"
	"taxiservice/pkg/logger"
	"taxiservice/pkg/models"
	"taxiservice/storage"
)

type carRepo struct {
	db  *pgxpool.Pool
	sb  squirrel.StatementBuilderType
	log logger.ILogger
}

func NewCarRepo(db *pgxpool.Pool, log logger.ILogger) storage.ICarStorage {
	return &carRepo{
		db:  db,
		sb:  squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		log: log,
	}
}

var carColumns = []string{"c.id", "c.model", "c.manufacturer_id", "m.name", "m.country"}

func scanCar(row pgx.Row) (*models.Car, error) {
	car := models.Car{Manufacturer: &models.Manufacturer{}}
	err := row.Scan(&car.ID, &car.Model, &car.ManufacturerID, &car.Manufacturer.Name, &car.Manufacturer.Country)
	if err != nil {
		return nil, err
	}
	car.Manufacturer.ID = car.ManufacturerID
	return &car, nil
}

func (r *carRepo) selectCars() squirrel.SelectBuilder {
	return r.sb.Select(carColumns...).
		From("cars c").
		Join("manufacturers m ON m.id = c.manufacturer_id")
}

func (r *carRepo) Create(ctx context.Context, car *models.Car) (*models.Car, error) {
	var id int64
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		query, args, err := r.sb.Insert("cars").
			Columns("model", "manufacturer_id").
			Values(car.Model, car.ManufacturerID).
			Suffix("RETURNING id").
			ToSql()
		if err != nil {
			return err
		}
		if err := tx.QueryRow(ctx, query, args...).Scan(&id); err != nil {
			return err
		}
		return r.replaceDrivers(ctx, tx, id, car.DriverIDs())
	})
	if err != nil {
		r.log.Error("failed to create car", logger.Error(err))
		return nil, translateError(err)
	}
	return r.GetByID(ctx, id)
}

func (r *carRepo) Update(ctx context.Context, car *models.Car) (*models.Car, error) {
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		query, args, err := r.sb.Update("cars").
			Set("model", car.Model).
			Set("manufacturer_id", car.ManufacturerID).
			Where(squirrel.Eq{"id": car.ID}).
			ToSql()
		if err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, query, args...)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return apperrors.ErrNotFound
		}
		return r.replaceDrivers(ctx, tx, car.ID, car.DriverIDs())
	})
	if err != nil {
		err = translateError(err)
		if !errors.Is(err, apperrors.ErrNotFound) {
			r.log.Error("failed to update car", logger.Int64("id", car.ID), logger.Error(err))
		}
		return nil, err
	}
	return r.GetByID(ctx, car.ID)
}

func (r *carRepo) replaceDrivers(ctx context.Context, tx pgx.Tx, carID int64, driverIDs []int64) error {
	if _, err := tx.Exec(ctx, `DELETE FROM car_drivers WHERE car_id = $1`, carID); err != nil {
		return err
	}
	if len(driverIDs) == 0 {
		return nil
	}

	insert := r.sb.Insert("car_drivers").Columns("car_id", "driver_id")
	for _, driverID := range driverIDs {
		insert = insert.Values(carID, driverID)
	}
	query, args, err := insert.Suffix("ON CONFLICT DO NOTHING").ToSql()
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx, query, args...)
	return err
}

func (r *carRepo) GetByID(ctx context.Context, id int64) (*models.Car, error) {
	query, args, err := r.selectCars().Where(squirrel.Eq{"c.id": id}).ToSql()
	if err != nil {
		return nil, err
	}

	car, err := scanCar(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, translateError(err)
	}

	car.Drivers, err = r.carDrivers(ctx, id)
	if err != nil {
		return nil, err
	}
	return car, nil
}

func (r *carRepo) carDrivers(ctx context.Context, carID int64) ([]*models.Driver, error) {
	query := `SELECT d.id, d.username, d.first_name, d.last_name, d.license_number
		FROM drivers d
		JOIN car_drivers cd ON cd.driver_id = d.id
		WHERE cd.car_id = $1
		ORDER BY d.id`
	rows, err := r.db.Query(ctx, query, carID)
	if err != nil {
		r.log.Error("failed to get car drivers", logger.Int64("car_id", carID), logger.Error(err))
		return nil, err
	}
	defer rows.Close()

	drivers := []*models.Driver{}
	for rows.Next() {
		var d models.Driver
		if err := rows.Scan(&d.ID, &d.Username, &d.FirstName, &d.LastName, &d.LicenseNumber); err != nil {
			return nil, err
		}
		drivers = append(drivers, &d)
	}
	return drivers, rows.Err()
}

func (r *carRepo) filtered(b squirrel.SelectBuilder, filter models.CarFilter) squirrel.SelectBuilder {
	if filter.Model != "" {
		b = b.Where(squirrel.ILike{"c.model": containsPattern(filter.Model)})
	}
	if filter.ManufacturerID > 0 {
		b = b.Where(squirrel.Eq{"c.manufacturer_id": filter.ManufacturerID})
	}
	return b
}

func (r *carRepo) List(ctx context.Context, filter models.CarFilter) ([]*models.Car, error) {
	b := r.filtered(r.selectCars(), filter).OrderBy("c.id ASC")
	if filter.Limit > 0 {
		b = b.Limit(uint64(filter.Limit)).Offset(uint64(filter.Offset))
	}
	return r.queryCars(ctx, b)
}

func (r *carRepo) queryCars(ctx context.Context, b squirrel.SelectBuilder) ([]*models.Car, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("failed to list cars", logger.Error(err))
		return nil, err
	}
	defer rows.Close()

	cars := []*models.Car{}
	for rows.Next() {
		car, err := scanCar(rows)
		if err != nil {
			return nil, err
		}
		cars = append(cars, car)
	}
	return cars, rows.Err()
}

func (r *carRepo) Count(ctx context.Context, filter models.CarFilter) (int, error) {
	query, args, err := r.filtered(r.sb.Select("COUNT(*)").From("cars c"), filter).ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		r.log.Error("failed to count cars", logger.Error(err))
		return 0, err
	}
	return count, nil
}

func (r *carRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM cars WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func (r *carRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM cars WHERE id = $1`, id)
	if err != nil {
		r.log.Error("failed to delete car", logger.Int64("id", id), logger.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *carRepo) ListByDriver(ctx context.Context, driverID int64) ([]*models.Car, error) {
	b := r.selectCars().
		Join("car_drivers cd ON cd.car_id = c.id").
		Where(squirrel.Eq{"cd.driver_id": driverID}).
		OrderBy("c.id ASC")
	return r.queryCars(ctx, b)
}

func (r *carRepo) CountByManufacturer(ctx context.Context, manufacturerID int64) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM cars WHERE manufacturer_id = $1`, manufacturerID).Scan(&count)
	return count, err
}

func (r *carRepo) ToggleDriver(ctx context.Context, carID, driverID int64) (bool, error) {
	var assigned bool
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		// Lock the car row so concurrent toggles on it run one after another.
		var locked int64
		if err := tx.QueryRow(ctx, `SELECT id FROM cars WHERE id = $1 FOR UPDATE`, carID).Scan(&locked); err != nil {
			return err
		}

		var exists bool
		queryCheck := `SELECT EXISTS(SELECT 1 FROM car_drivers WHERE car_id = $1 AND driver_id = $2)`
		if err := tx.QueryRow(ctx, queryCheck, carID, driverID).Scan(&exists); err != nil {
			return err
		}

		if exists {
			_, err := tx.Exec(ctx, `DELETE FROM car_drivers WHERE car_id = $1 AND driver_id = $2`, carID, driverID)
			assigned = false
			return err
		}
		_, err := tx.Exec(ctx, `INSERT INTO car_drivers (car_id, driver_id) VALUES ($1, $2)`, carID, driverID)
		assigned = true
		return err
	})
	if err != nil {
		err = translateError(err)
		if _, ok := apperrors.AsFieldError(err); ok {
			// the driver row vanished mid-request
			return false, apperrors.ErrNotFound
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			r.log.Error("failed to toggle car driver", logger.Int64("car_id", carID), logger.Int64("driver_id", driverID), logger.Error(err))
		}
		return false, err
	}
	return assigned, nil
}
