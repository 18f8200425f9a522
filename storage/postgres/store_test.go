package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxiservice/pkg/apperrors"
	"taxiservice/pkg/logger"
	"taxiservice/pkg/models"
)

// newTestStore connects to TEST_POSTGRES_URL, migrates and truncates it.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	url := os.Getenv("TEST_POSTGRES_URL")
	if url == "" {
		t.Skip("TEST_POSTGRES_URL not set")
	}

	log := logger.NewNop()
	require.NoError(t, Migrate(url, log))

	pool, err := pgxpool.New(context.Background(), url)
	require.NoError(t, err)

	s := &Store{pool: pool, log: log}
	require.NoError(t, s.Reset(context.Background()))
	t.Cleanup(s.Close)
	return s
}

func TestStoreManufacturerCascade(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	m, err := s.Manufacturer().Create(ctx, &models.Manufacturer{Name: "BMW", Country: "Germany"})
	require.NoError(t, err)

	d, err := s.Driver().Create(ctx, &models.Driver{Username: "john", IsActive: true})
	require.NoError(t, err)

	car, err := s.Car().Create(ctx, &models.Car{Model: "X5", ManufacturerID: m.ID, Drivers: []*models.Driver{d}})
	require.NoError(t, err)
	assert.Equal(t, "BMW", car.Manufacturer.Name)
	require.Len(t, car.Drivers, 1)

	require.NoError(t, s.Manufacturer().Delete(ctx, m.ID))

	_, err = s.Car().GetByID(ctx, car.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Stats{Drivers: 1}, stats)
}

func TestStoreToggleDriver(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	m, err := s.Manufacturer().Create(ctx, &models.Manufacturer{Name: "Audi", Country: "Germany"})
	require.NoError(t, err)
	d, err := s.Driver().Create(ctx, &models.Driver{Username: "jane", IsActive: true})
	require.NoError(t, err)
	car, err := s.Car().Create(ctx, &models.Car{Model: "A4", ManufacturerID: m.ID})
	require.NoError(t, err)

	assigned, err := s.Car().ToggleDriver(ctx, car.ID, d.ID)
	require.NoError(t, err)
	assert.True(t, assigned)

	cars, err := s.Car().ListByDriver(ctx, d.ID)
	require.NoError(t, err)
	require.Len(t, cars, 1)

	assigned, err = s.Car().ToggleDriver(ctx, car.ID, d.ID)
	require.NoError(t, err)
	assert.False(t, assigned)

	_, err = s.Car().ToggleDriver(ctx, car.ID+100, d.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestStoreDriverSearchAndUniqueness(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	license := "ABC12345"
	_, err := s.Driver().Create(ctx, &models.Driver{Username: "alice", LicenseNumber: &license, IsActive: true})
	require.NoError(t, err)
	_, err = s.Driver().Create(ctx, &models.Driver{Username: "bob_smith", IsActive: true})
	require.NoError(t, err)

	_, err = s.Driver().Create(ctx, &models.Driver{Username: "carol", LicenseNumber: &license})
	fe, ok := apperrors.AsFieldError(err)
	require.True(t, ok)
	assert.Equal(t, "license_number", fe.Field)

	found, err := s.Driver().List(ctx, models.DriverFilter{Username: "B_S"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "bob_smith", found[0].Username)

	found, err = s.Driver().List(ctx, models.DriverFilter{Query: "abc1"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "alice", found[0].Username)
}
