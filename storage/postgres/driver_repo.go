package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"taxiservice/pkg/apperrors"
	"taxiservice/pkg/logger"
	"taxiservice/pkg/models"
	"taxiservice/storage"
)

type driverRepo struct {
	db  *pgxpool.Pool
	sb  squirrel.StatementBuilderType
	log logger.ILogger
}

func NewDriverRepo(db *pgxpool.Pool, log logger.ILogger) storage.IDriverStorage {
	return &driverRepo{
		db:  db,
		sb:  squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		log: log,
	}
}

var driverColumns = []string{
	"id", "username", "password_hash", "first_name", "last_name", "email",
	"license_number", "is_staff", "is_active", "date_joined", "last_login",
}

func scanDriver(row pgx.Row) (*models.Driver, error) {
	var d models.Driver
	err := row.Scan(
		&d.ID, &d.Username, &d.PasswordHash, &d.FirstName, &d.LastName, &d.Email,
		&d.LicenseNumber, &d.IsStaff, &d.IsActive, &d.DateJoined, &d.LastLogin,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *driverRepo) Create(ctx context.Context, d *models.Driver) (*models.Driver, error) {
	joined := d.DateJoined
	if joined.IsZero() {
		joined = time.Now().UTC()
	}

	query, args, err := r.sb.Insert("drivers").
		Columns("username", "password_hash", "first_name", "last_name", "email",
			"license_number", "is_staff", "is_active", "date_joined").
		Values(d.Username, d.PasswordHash, d.FirstName, d.LastName, d.Email,
			d.LicenseNumber, d.IsStaff, d.IsActive, joined).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, err
	}

	var id int64
	if err := r.db.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		err = translateError(err)
		if _, ok := apperrors.AsFieldError(err); !ok {
			r.log.Error("failed to create driver", logger.String("username", d.Username), logger.Error(err))
		}
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *driverRepo) Update(ctx context.Context, d *models.Driver) (*models.Driver, error) {
	b := r.sb.Update("drivers").
		Set("username", d.Username).
		Set("first_name", d.FirstName).
		Set("last_name", d.LastName).
		Set("email", d.Email).
		Set("license_number", d.LicenseNumber).
		Set("is_staff", d.IsStaff).
		Set("is_active", d.IsActive).
		Where(squirrel.Eq{"id": d.ID})
	if d.PasswordHash != "" {
		b = b.Set("password_hash", d.PasswordHash)
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		err = translateError(err)
		if _, ok := apperrors.AsFieldError(err); !ok {
			r.log.Error("failed to update driver", logger.Int64("id", d.ID), logger.Error(err))
		}
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, apperrors.ErrNotFound
	}
	return r.GetByID(ctx, d.ID)
}

func (r *driverRepo) UpdateLicense(ctx context.Context, id int64, license string) error {
	tag, err := r.db.Exec(ctx, `UPDATE drivers SET license_number = $1 WHERE id = $2`, license, id)
	if err != nil {
		err = translateError(err)
		if _, ok := apperrors.AsFieldError(err); !ok {
			r.log.Error("failed to update license", logger.Int64("id", id), logger.Error(err))
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *driverRepo) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	_, err := r.db.Exec(ctx, `UPDATE drivers SET last_login = $1 WHERE id = $2`, at, id)
	if err != nil {
		r.log.Error("failed to update last login", logger.Int64("id", id), logger.Error(err))
	}
	return err
}

func (r *driverRepo) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.Driver, error) {
	query, args, err := r.sb.Select(driverColumns...).From("drivers").Where(where).ToSql()
	if err != nil {
		return nil, err
	}

	d, err := scanDriver(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		err = translateError(err)
		if !errors.Is(err, apperrors.ErrNotFound) {
			r.log.Error("failed to get driver", logger.Error(err))
		}
		return nil, err
	}
	return d, nil
}

func (r *driverRepo) GetByID(ctx context.Context, id int64) (*models.Driver, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

func (r *driverRepo) GetByUsername(ctx context.Context, username string) (*models.Driver, error) {
	return r.getOne(ctx, squirrel.Eq{"username": username})
}

func (r *driverRepo) GetByIDs(ctx context.Context, ids []int64) ([]*models.Driver, error) {
	if len(ids) == 0 {
		return []*models.Driver{}, nil
	}
	b := r.sb.Select(driverColumns...).
		From("drivers").
		Where(squirrel.Eq{"id": ids}).
		OrderBy("id ASC")
	return r.query(ctx, b)
}

func (r *driverRepo) filtered(b squirrel.SelectBuilder, filter models.DriverFilter) squirrel.SelectBuilder {
	if filter.Username != "" {
		b = b.Where(squirrel.ILike{"username": containsPattern(filter.Username)})
	}
	if filter.Query != "" {
		pattern := containsPattern(filter.Query)
		b = b.Where(squirrel.Or{
			squirrel.ILike{"username": pattern},
			squirrel.ILike{"first_name": pattern},
			squirrel.ILike{"last_name": pattern},
			squirrel.ILike{"email": pattern},
			squirrel.ILike{"license_number": pattern},
		})
	}
	if filter.IsStaff != nil {
		b = b.Where(squirrel.Eq{"is_staff": *filter.IsStaff})
	}
	return b
}

func (r *driverRepo) List(ctx context.Context, filter models.DriverFilter) ([]*models.Driver, error) {
	b := r.filtered(r.sb.Select(driverColumns...).From("drivers"), filter).OrderBy("id ASC")
	if filter.Limit > 0 {
		b = b.Limit(uint64(filter.Limit)).Offset(uint64(filter.Offset))
	}
	return r.query(ctx, b)
}

func (r *driverRepo) query(ctx context.Context, b squirrel.SelectBuilder) ([]*models.Driver, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("failed to list drivers", logger.Error(err))
		return nil, err
	}
	defer rows.Close()

	drivers := []*models.Driver{}
	for rows.Next() {
		d, err := scanDriver(rows)
		if err != nil {
			return nil, err
		}
		drivers = append(drivers, d)
	}
	return drivers, rows.Err()
}

func (r *driverRepo) Count(ctx context.Context, filter models.DriverFilter) (int, error) {
	query, args, err := r.filtered(r.sb.Select("COUNT(*)").From("drivers"), filter).ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		r.log.Error("failed to count drivers", logger.Error(err))
		return 0, err
	}
	return count, nil
}

func (r *driverRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM drivers WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func (r *driverRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM drivers WHERE id = $1`, id)
	if err != nil {
		r.log.Error("failed to delete driver", logger.Int64("id", id), logger.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
