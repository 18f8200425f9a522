package memory

import (
	"context"
	"sort"

	"taxiservice/pkg/apperrors"
	"taxiservice/pkg/models"
)

type carStore struct {
	s *Store
}

// checkRefs validates foreign keys; the caller holds the write lock.
func (r carStore) checkRefs(car *models.Car) error {
	if _, ok := r.s.manufacturers[car.ManufacturerID]; !ok {
		return manufacturerChoiceError()
	}
	for _, id := range car.DriverIDs() {
		if _, ok := r.s.drivers[id]; !ok {
			return driverChoiceError()
		}
	}
	return nil
}

func (r carStore) setDrivers(carID int64, ids []int64) {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	r.s.assignments[carID] = set
}

func (r carStore) Create(_ context.Context, car *models.Car) (*models.Car, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.checkRefs(car); err != nil {
		return nil, err
	}

	r.s.lastCarID++
	row := carRow{id: r.s.lastCarID, model: car.Model, manufacturerID: car.ManufacturerID}
	r.s.cars[row.id] = row
	r.setDrivers(row.id, car.DriverIDs())
	return r.s.car(row, true), nil
}

func (r carStore) Update(_ context.Context, car *models.Car) (*models.Car, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.cars[car.ID]; !ok {
		return nil, apperrors.ErrNotFound
	}
	if err := r.checkRefs(car); err != nil {
		return nil, err
	}

	row := carRow{id: car.ID, model: car.Model, manufacturerID: car.ManufacturerID}
	r.s.cars[row.id] = row
	r.setDrivers(row.id, car.DriverIDs())
	return r.s.car(row, true), nil
}

func (r carStore) GetByID(_ context.Context, id int64) (*models.Car, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	row, ok := r.s.cars[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return r.s.car(row, true), nil
}

func (r carStore) matching(filter models.CarFilter) []*models.Car {
	result := []*models.Car{}
	for _, row := range r.s.cars {
		if filter.Model != "" && !contains(row.model, filter.Model) {
			continue
		}
		if filter.ManufacturerID > 0 && row.manufacturerID != filter.ManufacturerID {
			continue
		}
		result = append(result, r.s.car(row, false))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

func (r carStore) List(_ context.Context, filter models.CarFilter) ([]*models.Car, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return window(r.matching(filter), filter.Limit, filter.Offset), nil
}

func (r carStore) Count(_ context.Context, filter models.CarFilter) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.matching(filter)), nil
}

func (r carStore) Exists(_ context.Context, id int64) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.cars[id]
	return ok, nil
}

func (r carStore) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.cars[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.s.cars, id)
	delete(r.s.assignments, id)
	return nil
}

func (r carStore) ListByDriver(_ context.Context, driverID int64) ([]*models.Car, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := []*models.Car{}
	for carID, drivers := range r.s.assignments {
		if _, ok := drivers[driverID]; ok {
			result = append(result, r.s.car(r.s.cars[carID], false))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r carStore) CountByManufacturer(_ context.Context, manufacturerID int64) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	count := 0
	for _, row := range r.s.cars {
		if row.manufacturerID == manufacturerID {
			count++
		}
	}
	return count, nil
}

func (r carStore) ToggleDriver(_ context.Context, carID, driverID int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.cars[carID]; !ok {
		return false, apperrors.ErrNotFound
	}
	if _, ok := r.s.drivers[driverID]; !ok {
		return false, apperrors.ErrNotFound
	}

	drivers := r.s.assignments[carID]
	if drivers == nil {
		drivers = make(map[int64]struct{})
		r.s.assignments[carID] = drivers
	}
	if _, ok := drivers[driverID]; ok {
		delete(drivers, driverID)
		return false, nil
	}
	drivers[driverID] = struct{}{}
	return true, nil
}
