package booking

import (
	"context"
	"sort"
	"sync"

	bookingRepo "schooltrip/database/repository/booking"
	tourRepo "schooltrip/database/repository/tour"
	"schooltrip/models"
)

type memBookings struct {
	mu   sync.Mutex
	docs map[string]models.Booking
}

func newMemBookings() *memBookings {
	return &memBookings{docs: map[string]models.Booking{}}
}

func (m *memBookings) Create(_ context.Context, b *models.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[b.ID] = *b
	return nil
}

func (m *memBookings) GetByID(_ context.Context, id string) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.docs[id]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (m *memBookings) List(_ context.Context, filter models.BookingFilter) ([]models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Booking
	for _, b := range m.docs {
		if filter.Status == "" || b.Status == filter.Status {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memBookings) ApplyPatch(_ context.Context, id string, patch models.BookingPatch) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.docs[id]
	if !ok {
		return nil, bookingRepo.ErrNotFound
	}
	if patch.Bus != nil {
		b.Bus = patch.Bus
	}
	if patch.ContactDetails != nil {
		b.ContactDetails = patch.ContactDetails
	}
	if patch.Status != nil {
		b.Status = *patch.Status
	}
	m.docs[id] = b
	return &b, nil
}

type memTours struct {
	docs map[string]models.Tour
}

func newMemTours(tours ...models.Tour) *memTours {
	m := &memTours{docs: map[string]models.Tour{}}
	for _, t := range tours {
		m.docs[t.ID] = t
	}
	return m
}

func (m *memTours) GetAll(context.Context) ([]models.Tour, error) {
	var out []models.Tour
	for _, t := range m.docs {
		out = append(out, t)
	}
	return out, nil
}

func (m *memTours) GetByID(_ context.Context, id string) (*models.Tour, error) {
	t, ok := m.docs[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (m *memTours) GetByIDs(_ context.Context, ids []string) (map[string]models.Tour, error) {
	out := map[string]models.Tour{}
	for _, id := range ids {
		if t, ok := m.docs[id]; ok {
			out[id] = t
		}
	}
	return out, nil
}

func (m *memTours) Create(_ context.Context, t *models.Tour) error {
	m.docs[t.ID] = *t
	return nil
}

func (m *memTours) Update(_ context.Context, t *models.Tour) error {
	if _, ok := m.docs[t.ID]; !ok {
		return tourRepo.ErrNotFound
	}
	m.docs[t.ID] = *t
	return nil
}

func (m *memTours) Delete(_ context.Context, id string) error {
	if _, ok := m.docs[id]; !ok {
		return tourRepo.ErrNotFound
	}
	delete(m.docs, id)
	return nil
}

func (m *memTours) ReplaceAll(_ context.Context, tours []models.Tour) error {
	m.docs = map[string]models.Tour{}
	for _, t := range tours {
		m.docs[t.ID] = t
	}
	return nil
}
