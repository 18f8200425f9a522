// Package memory is an in-process storage.IStorage used by tests and by
// STORAGE_DRIVER=memory. It mirrors the Postgres constraints: unique
// usernames and license numbers, foreign keys and cascading deletes.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"taxiservice/pkg/apperrors"
	"taxiservice/pkg/models"
	"taxiservice/storage"
)

var _ storage.IStorage = (*Store)(nil)

type carRow struct {
	id             int64
	model          string
	manufacturerID int64
}

// Store keeps every table behind one lock so cascades stay atomic.
type Store struct {
	mu sync.RWMutex

	manufacturers map[int64]models.Manufacturer
	cars          map[int64]carRow
	drivers       map[int64]models.Driver
	// car id -> driver ids
	assignments map[int64]map[int64]struct{}

	lastManufacturerID int64
	lastCarID          int64
	lastDriverID       int64
}

func New() *Store {
	s := &Store{}
	s.init()
	return s
}

func (s *Store) init() {
	s.manufacturers = make(map[int64]models.Manufacturer)
	s.cars = make(map[int64]carRow)
	s.drivers = make(map[int64]models.Driver)
	s.assignments = make(map[int64]map[int64]struct{})
	s.lastManufacturerID, s.lastCarID, s.lastDriverID = 0, 0, 0
}

func (s *Store) Manufacturer() storage.IManufacturerStorage { return manufacturerStore{s} }

func (s *Store) Car() storage.ICarStorage { return carStore{s} }

func (s *Store) Driver() storage.IDriverStorage { return driverStore{s} }

func (s *Store) Stats(_ context.Context) (models.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.Stats{
		Drivers:       len(s.drivers),
		Cars:          len(s.cars),
		Manufacturers: len(s.manufacturers),
	}, nil
}

func (s *Store) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.init()
	return nil
}

func (s *Store) Close() {}

// car builds the public view of a row; the caller holds the lock.
func (s *Store) car(row carRow, withDrivers bool) *models.Car {
	car := &models.Car{
		ID:             row.id,
		Model:          row.model,
		ManufacturerID: row.manufacturerID,
	}
	if m, ok := s.manufacturers[row.manufacturerID]; ok {
		car.Manufacturer = &m
	}
	if withDrivers {
		car.Drivers = []*models.Driver{}
		for _, id := range sortedKeys(s.assignments[row.id]) {
			d := s.drivers[id]
			d.Cars = nil
			car.Drivers = append(car.Drivers, &d)
		}
	}
	return car
}

func sortedKeys(set map[int64]struct{}) []int64 {
	ids := make([]int64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func contains(value, substr string) bool {
	return strings.Contains(strings.ToLower(value), strings.ToLower(substr))
}

// window applies limit/offset the way SQL does.
func window[T any](items []T, limit, offset int) []T {
	if offset > len(items) {
		offset = len(items)
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func manufacturerChoiceError() error {
	return apperrors.NewFieldError("manufacturer", "Select a valid choice. That choice is not one of the available choices.")
}

func driverChoiceError() error {
	return apperrors.NewFieldError("drivers", "Select a valid choice. One of the drivers is not one of the available choices.")
}
