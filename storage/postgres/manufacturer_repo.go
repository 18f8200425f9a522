package postgres

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"taxiservice/pkg/apperrors"
	"taxiservice/pkg/logger"
	"taxiservice/pkg/models"
	"taxiservice/storage"
)

type manufacturerRepo struct {
	db  *pgxpool.Pool
	sb  squirrel.StatementBuilderType
	log logger.ILogger
}

func NewManufacturerRepo(db *pgxpool.Pool, log logger.ILogger) storage.IManufacturerStorage {
	return &manufacturerRepo{
		db:  db,
		sb:  squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		log: log,
	}
}

func (r *manufacturerRepo) Create(ctx context.Context, m *models.Manufacturer) (*models.Manufacturer, error) {
	query, args, err := r.sb.Insert("manufacturers").
		Columns("name", "country").
		Values(m.Name, m.Country).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, err
	}

	created := *m
	if err := r.db.QueryRow(ctx, query, args...).Scan(&created.ID); err != nil {
		r.log.Error("failed to create manufacturer", logger.Error(err))
		return nil, translateError(err)
	}
	return &created, nil
}

func (r *manufacturerRepo) Update(ctx context.Context, m *models.Manufacturer) (*models.Manufacturer, error) {
	query, args, err := r.sb.Update("manufacturers").
		Set("name", m.Name).
		Set("country", m.Country).
		Where(squirrel.Eq{"id": m.ID}).
		Suffix("RETURNING id, name, country").
		ToSql()
	if err != nil {
		return nil, err
	}

	var updated models.Manufacturer
	err = r.db.QueryRow(ctx, query, args...).Scan(&updated.ID, &updated.Name, &updated.Country)
	if err != nil {
		err = translateError(err)
		if err != apperrors.ErrNotFound {
			r.log.Error("failed to update manufacturer", logger.Int64("id", m.ID), logger.Error(err))
		}
		return nil, err
	}
	return &updated, nil
}

func (r *manufacturerRepo) GetByID(ctx context.Context, id int64) (*models.Manufacturer, error) {
	var m models.Manufacturer
	query := `SELECT id, name, country FROM manufacturers WHERE id = $1`
	err := r.db.QueryRow(ctx, query, id).Scan(&m.ID, &m.Name, &m.Country)
	if err != nil {
		return nil, translateError(err)
	}
	return &m, nil
}

func (r *manufacturerRepo) filtered(b squirrel.SelectBuilder, filter models.ManufacturerFilter) squirrel.SelectBuilder {
	if filter.Name != "" {
		b = b.Where(squirrel.ILike{"name": containsPattern(filter.Name)})
	}
	return b
}

func (r *manufacturerRepo) List(ctx context.Context, filter models.ManufacturerFilter) ([]*models.Manufacturer, error) {
	b := r.filtered(r.sb.Select("id", "name", "country").From("manufacturers"), filter).
		OrderBy("id ASC")
	if filter.Limit > 0 {
		b = b.Limit(uint64(filter.Limit)).Offset(uint64(filter.Offset))
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("failed to list manufacturers", logger.Error(err))
		return nil, err
	}
	defer rows.Close()

	manufacturers := []*models.Manufacturer{}
	for rows.Next() {
		var m models.Manufacturer
		if err := rows.Scan(&m.ID, &m.Name, &m.Country); err != nil {
			return nil, err
		}
		manufacturers = append(manufacturers, &m)
	}
	return manufacturers, rows.Err()
}

func (r *manufacturerRepo) Count(ctx context.Context, filter models.ManufacturerFilter) (int, error) {
	query, args, err := r.filtered(r.sb.Select("COUNT(*)").From("manufacturers"), filter).ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		r.log.Error("failed to count manufacturers", logger.Error(err))
		return 0, err
	}
	return count, nil
}

func (r *manufacturerRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM manufacturers WHERE id = $1)`
	err := r.db.QueryRow(ctx, query, id).Scan(&exists)
	return exists, err
}

func (r *manufacturerRepo) Delete(ctx context.Context, id int64) error {
	// cars.manufacturer_id is ON DELETE CASCADE
	tag, err := r.db.Exec(ctx, `DELETE FROM manufacturers WHERE id = $1`, id)
	if err != nil {
		r.log.Error("failed to delete manufacturer", logger.Int64("id", id), logger.Error(err))
		return err
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
