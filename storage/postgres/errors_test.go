package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxiservice/pkg/apperrors"
)

func TestTranslateError(t *testing.T) {
	assert.NoError(t, translateError(nil))
	assert.ErrorIs(t, translateError(fmt.Errorf("scan: %w", pgx.ErrNoRows)), apperrors.ErrNotFound)

	plain := errors.New("connection reset")
	assert.Equal(t, plain, translateError(plain))
}

func TestTranslateErrorConstraints(t *testing.T) {
	err := translateError(&pgconn.PgError{Code: codeUniqueViolation, ConstraintName: "drivers_username_key"})
	fe, ok := apperrors.AsFieldError(err)
	require.True(t, ok)
	assert.Equal(t, "username", fe.Field)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	err = translateError(&pgconn.PgError{Code: codeForeignKeyViolation, ConstraintName: "cars_manufacturer_id_fkey"})
	fe, ok = apperrors.AsFieldError(err)
	require.True(t, ok)
	assert.Equal(t, "manufacturer", fe.Field)
	assert.NotErrorIs(t, err, apperrors.ErrAlreadyExists)

	// the shared template must not leak mutations between calls
	fe.Message = "changed"
	again, _ := apperrors.AsFieldError(translateError(&pgconn.PgError{Code: codeForeignKeyViolation, ConstraintName: "cars_manufacturer_id_fkey"}))
	assert.NotEqual(t, "changed", again.Message)

	assert.ErrorIs(t, translateError(&pgconn.PgError{Code: codeUniqueViolation, ConstraintName: "other"}), apperrors.ErrAlreadyExists)
	assert.ErrorIs(t, translateError(&pgconn.PgError{Code: codeForeignKeyViolation, ConstraintName: "other"}), apperrors.ErrNotFound)
}

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%bmw%", containsPattern("bmw"))
	assert.Equal(t, `%50\%\_off\\%`, containsPattern(`50%_off\`))
}
