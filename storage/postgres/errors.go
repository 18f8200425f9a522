package postgres

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"taxiservice/pkg/apperrors"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// constraintFields maps constraint names to the form field they belong to.
var constraintFields = map[string]*apperrors.FieldError{
	"drivers_username_key":       apperrors.NewConflictError("username", "A user with that username already exists."),
	"drivers_license_number_key": apperrors.NewConflictError("license_number", "Driver with this License number already exists."),
	"cars_manufacturer_id_fkey":  apperrors.NewFieldError("manufacturer", "Select a valid choice. That choice is not one of the available choices."),
	"car_drivers_driver_id_fkey": apperrors.NewFieldError("drivers", "Select a valid choice. One of the drivers is not one of the available choices."),
}

// translateError turns driver errors into the shared apperrors vocabulary.
func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case codeUniqueViolation, codeForeignKeyViolation:
		if fe, ok := constraintFields[pgErr.ConstraintName]; ok {
			copied := *fe
			return &copied
		}
		if pgErr.Code == codeUniqueViolation {
			return apperrors.ErrAlreadyExists
		}
		return apperrors.ErrNotFound
	}
	return err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching s anywhere in the column.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
