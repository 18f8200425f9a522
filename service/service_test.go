package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxiservice/pkg/apperrors"
	"taxiservice/pkg/logger"
	"taxiservice/pkg/models"
	"taxiservice/pkg/pagination"
	"taxiservice/storage/memory"
)

type toggleEvent struct {
	carID, driverID int64
	assigned        bool
}

type recordingNotifier struct {
	mu         sync.Mutex
	registered []string
	toggles    []toggleEvent
}

func (n *recordingNotifier) DriverRegistered(_ context.Context, d *models.Driver) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.registered = append(n.registered, d.Username)
}

func (n *recordingNotifier) AssignmentToggled(_ context.Context, car *models.Car, d *models.Driver, assigned bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.toggles = append(n.toggles, toggleEvent{car.ID, d.ID, assigned})
}

func newTestServices(t *testing.T) (IServiceManager, *recordingNotifier) {
	t.Helper()
	n := &recordingNotifier{}
	return New(memory.New(), n, logger.NewNop()), n
}

func register(t *testing.T, svc IServiceManager, username string) *models.Driver {
	t.Helper()
	d, err := svc.Driver().Register(context.Background(), &models.Driver{Username: username, IsActive: true}, "pass-"+username)
	require.NoError(t, err)
	return d
}

func TestManufacturerListPaginates(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		_, err := svc.Manufacturer().Create(ctx, &models.Manufacturer{Name: "Maker", Country: "Nowhere"})
		require.NoError(t, err)
	}

	res, err := svc.Manufacturer().List(ctx, "", 1)
	require.NoError(t, err)
	assert.Len(t, res.Items, pagination.DefaultPageSize)
	assert.Equal(t, 3, res.Page.NumPages)

	res, err = svc.Manufacturer().List(ctx, "", 99)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Page.Number)
	assert.Len(t, res.Items, 2)
	assert.EqualValues(t, 11, res.Items[0].ID)

	res, err = svc.Manufacturer().List(ctx, "nothing matches", 1)
	require.NoError(t, err)
	assert.Empty(t, res.Items)
	assert.Equal(t, 1, res.Page.NumPages)
}

func TestCarCreateChecksReferences(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	_, err := svc.Car().Create(ctx, &models.Car{Model: "X5", ManufacturerID: 1})
	fe, ok := apperrors.AsFieldError(err)
	require.True(t, ok)
	assert.Equal(t, "manufacturer", fe.Field)

	m, err := svc.Manufacturer().Create(ctx, &models.Manufacturer{Name: "BMW", Country: "Germany"})
	require.NoError(t, err)

	_, err = svc.Car().Create(ctx, &models.Car{Model: "X5", ManufacturerID: m.ID, Drivers: []*models.Driver{{ID: 7}}})
	fe, ok = apperrors.AsFieldError(err)
	require.True(t, ok)
	assert.Equal(t, "drivers", fe.Field)

	d := register(t, svc, "john")
	car, err := svc.Car().Create(ctx, &models.Car{Model: "X5", ManufacturerID: m.ID, Drivers: []*models.Driver{{ID: d.ID}}})
	require.NoError(t, err)
	assert.True(t, car.HasDriver(d.ID))

	_, err = svc.Car().Update(ctx, &models.Car{ID: car.ID + 1, Model: "X6", ManufacturerID: m.ID})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	updated, err := svc.Car().Update(ctx, &models.Car{ID: car.ID, Model: "X6", ManufacturerID: m.ID})
	require.NoError(t, err)
	assert.Equal(t, "X6", updated.Model)
	assert.Empty(t, updated.Drivers)
}

func TestToggleAssignNotifies(t *testing.T) {
	svc, n := newTestServices(t)
	ctx := context.Background()

	m, err := svc.Manufacturer().Create(ctx, &models.Manufacturer{Name: "Audi", Country: "Germany"})
	require.NoError(t, err)
	car, err := svc.Car().Create(ctx, &models.Car{Model: "A6", ManufacturerID: m.ID})
	require.NoError(t, err)
	d := register(t, svc, "jane")

	assigned, err := svc.Car().ToggleAssign(ctx, car.ID, d)
	require.NoError(t, err)
	assert.True(t, assigned)

	assigned, err = svc.Car().ToggleAssign(ctx, car.ID, d)
	require.NoError(t, err)
	assert.False(t, assigned)

	_, err = svc.Car().ToggleAssign(ctx, car.ID+1, d)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	assert.Equal(t, []toggleEvent{{car.ID, d.ID, true}, {car.ID, d.ID, false}}, n.toggles)
	assert.Equal(t, []string{"jane"}, n.registered)
}

func TestAuthenticate(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	d := register(t, svc, "alice")
	assert.NotEqual(t, "pass-alice", d.PasswordHash)

	got, err := svc.Driver().Authenticate(ctx, "alice", "pass-alice")
	require.NoError(t, err)
	require.NotNil(t, got.LastLogin)
	assert.WithinDuration(t, time.Now(), *got.LastLogin, time.Minute)

	_, err = svc.Driver().Authenticate(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = svc.Driver().Authenticate(ctx, "nobody", "pass")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	got.IsActive = false
	_, err = svc.Driver().Update(ctx, got)
	require.NoError(t, err)

	_, err = svc.Driver().Authenticate(ctx, "alice", "pass-alice")
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = svc.Driver().Active(ctx, d.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	svc, _ := newTestServices(t)
	register(t, svc, "bob")

	_, err := svc.Driver().Register(context.Background(), &models.Driver{Username: "bob"}, "whatever1")
	fe, ok := apperrors.AsFieldError(err)
	require.True(t, ok)
	assert.Equal(t, "username", fe.Field)
}

func TestUpdateLicense(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()
	d := register(t, svc, "carl")

	err := svc.Driver().UpdateLicense(ctx, d.ID, "abc12345")
	fe, ok := apperrors.AsFieldError(err)
	require.True(t, ok)
	assert.Equal(t, models.ErrLicensePrefix.Error(), fe.Message)

	require.NoError(t, svc.Driver().UpdateLicense(ctx, d.ID, "ABC12345"))
	got, err := svc.Driver().GetByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, "ABC12345", got.License())

	assert.ErrorIs(t, svc.Driver().UpdateLicense(ctx, d.ID+1, "ABC12345"), apperrors.ErrNotFound)
}

func TestDriverDetailLoadsCars(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	m, err := svc.Manufacturer().Create(ctx, &models.Manufacturer{Name: "Kia", Country: "Korea"})
	require.NoError(t, err)
	d := register(t, svc, "dora")
	_, err = svc.Car().Create(ctx, &models.Car{Model: "Rio", ManufacturerID: m.ID, Drivers: []*models.Driver{d}})
	require.NoError(t, err)

	got, err := svc.Driver().GetByID(ctx, d.ID)
	require.NoError(t, err)
	require.Len(t, got.Cars, 1)
	assert.Equal(t, "Rio", got.Cars[0].Model)

	count, err := svc.Manufacturer().CarCount(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	stats, err := svc.Stats().Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Stats{Drivers: 1, Cars: 1, Manufacturers: 1}, stats)

	require.NoError(t, svc.Manufacturer().Delete(ctx, m.ID))
	got, err = svc.Driver().GetByID(ctx, d.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Cars)
}
