package memory

import (
	"context"
	"sort"

	"taxiservice/pkg/apperrors"
	"taxiservice/pkg/models"
)

type manufacturerStore struct {
	s *Store
}

func (r manufacturerStore) Create(_ context.Context, m *models.Manufacturer) (*models.Manufacturer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	r.s.lastManufacturerID++
	created := *m
	created.ID = r.s.lastManufacturerID
	r.s.manufacturers[created.ID] = created
	return &created, nil
}

func (r manufacturerStore) Update(_ context.Context, m *models.Manufacturer) (*models.Manufacturer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.manufacturers[m.ID]; !ok {
		return nil, apperrors.ErrNotFound
	}
	updated := *m
	r.s.manufacturers[m.ID] = updated
	return &updated, nil
}

func (r manufacturerStore) GetByID(_ context.Context, id int64) (*models.Manufacturer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	m, ok := r.s.manufacturers[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &m, nil
}

func (r manufacturerStore) matching(filter models.ManufacturerFilter) []*models.Manufacturer {
	result := []*models.Manufacturer{}
	for _, m := range r.s.manufacturers {
		if filter.Name != "" && !contains(m.Name, filter.Name) {
			continue
		}
		result = append(result, &m)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

func (r manufacturerStore) List(_ context.Context, filter models.ManufacturerFilter) ([]*models.Manufacturer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return window(r.matching(filter), filter.Limit, filter.Offset), nil
}

func (r manufacturerStore) Count(_ context.Context, filter models.ManufacturerFilter) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.matching(filter)), nil
}

func (r manufacturerStore) Exists(_ context.Context, id int64) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.manufacturers[id]
	return ok, nil
}

func (r manufacturerStore) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.manufacturers[id]; !ok {
		return apperrors.ErrNotFound
	}
	delete(r.s.manufacturers, id)
	for carID, car := range r.s.cars {
		if car.manufacturerID == id {
			delete(r.s.cars, carID)
			delete(r.s.assignments, carID)
		}
	}
	return nil
}
