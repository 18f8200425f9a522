package memory

import (
	"context"
	"sort"
	"time"

	"taxiservice/pkg/apperrors"
	"taxiservice/pkg/models"
)

type driverStore struct {
	s *Store
}

// checkUnique mirrors the drivers_username_key and drivers_license_number_key
// constraints; the caller holds the write lock.
func (r driverStore) checkUnique(d *models.Driver) error {
	for id, other := range r.s.drivers {
		if id == d.ID {
			continue
		}
		if other.Username == d.Username {
			return apperrors.NewConflictError("username", "A user with that username already exists.")
		}
		if d.LicenseNumber != nil && other.LicenseNumber != nil && *other.LicenseNumber == *d.LicenseNumber {
			return apperrors.NewConflictError("license_number", "Driver with this License number already exists.")
		}
	}
	return nil
}

func copyDriver(d models.Driver) *models.Driver {
	if d.LicenseNumber != nil {
		license := *d.LicenseNumber
		d.LicenseNumber = &license
	}
	if d.LastLogin != nil {
		at := *d.LastLogin
		d.LastLogin = &at
	}
	d.Cars = nil
	return &d
}

func (r driverStore) Create(_ context.Context, d *models.Driver) (*models.Driver, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	created := *copyDriver(*d)
	created.ID = 0
	if err := r.checkUnique(&created); err != nil {
		return nil, err
	}
	if created.DateJoined.IsZero() {
		created.DateJoined = time.Now().UTC()
	}

	r.s.lastDriverID++
	created.ID = r.s.lastDriverID
	r.s.drivers[created.ID] = created
	return copyDriver(created), nil
}

func (r driverStore) Update(_ context.Context, d *models.Driver) (*models.Driver, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	current, ok := r.s.drivers[d.ID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if err := r.checkUnique(d); err != nil {
		return nil, err
	}

	updated := *copyDriver(*d)
	updated.DateJoined = current.DateJoined
	updated.LastLogin = current.LastLogin
	if updated.PasswordHash == "" {
		updated.PasswordHash = current.PasswordHash
	}
	r.s.drivers[d.ID] = updated
	return copyDriver(updated), nil
}

func (r driverStore) UpdateLicense(_ context.Context, id int64, license string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	d, ok := r.s.drivers[id]
	if !ok {
		return apperrors.ErrNotFound
	}
	d.LicenseNumber = &license
	if err := r.checkUnique(&d); err != nil {
		return err
	}
	r.s.drivers[id] = d
	return nil
}

func (r driverStore) UpdateLastLogin(_ context.Context, id int64, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if d, ok := r.s.drivers[id]; ok {
		d.LastLogin = &at
		r.s.drivers[id] = d
	}
	return nil
}

func (r driverStore) GetByID(_ context.Context, id int64) (*models.Driver, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	d, ok := r.s.drivers[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return copyDriver(d), nil
}

func (r driverStore) GetByUsername(_ context.Context, username string) (*models.Driver, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, d := range r.s.drivers {
		if d.Username == username {
			return copyDriver(d), nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r driverStore) GetByIDs(_ context.Context, ids []int64) ([]*models.Driver, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := []*models.Driver{}
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		d, ok := r.s.drivers[id]
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		result = append(result, copyDriver(d))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r driverStore) matching(filter models.DriverFilter) []*models.Driver {
	result := []*models.Driver{}
	for _, d := range r.s.drivers {
		if filter.Username != "" && !contains(d.Username, filter.Username) {
			continue
		}
		if filter.Query != "" && !matchesQuery(d, filter.Query) {
			continue
		}
		if filter.IsStaff != nil && d.IsStaff != *filter.IsStaff {
			continue
		}
		result = append(result, copyDriver(d))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

func matchesQuery(d models.Driver, q string) bool {
	for _, field := range []string{d.Username, d.FirstName, d.LastName, d.Email, d.License()} {
		if contains(field, q) {
			return true
		}
	}
	return false
}

func (r driverStore) List(_ context.Context, filter models.DriverFilter) ([]*models.Driver, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return window(r.matching(filter), filter.Limit, filter.Offset), nil
}

func (r driverStore) Count(_ context.Context, filter models.DriverFilter) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.matching(filter)), nil
}

func (r driverStore) Exists(_ context.Context, id int64) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.drivers[id]
	return ok, nil
}

func (r driverStore) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.drivers[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.s.drivers, id)
	for _, drivers := range r.s.assignments {
		delete(drivers, id)
	}
	return nil
}
