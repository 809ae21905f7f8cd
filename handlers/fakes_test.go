package handlers_test

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

func (m *memBookings) Create(_ context.Context, b *models.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[b.ID] = *b
	return nil
}

func (m *memBookings) GetByID(_ context.Context, id string) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if b, ok := m.docs[id]; ok {
		return &b, nil
	}
	return nil, nil
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

func (m *memBookings) all() []models.Booking {
	out, _ := m.List(context.Background(), models.BookingFilter{})
	return out
}

type memTours struct {
	mu   sync.Mutex
	docs map[string]models.Tour
}

func (m *memTours) GetAll(context.Context) ([]models.Tour, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []models.Tour{}
	for _, t := range m.docs {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memTours) GetByID(_ context.Context, id string) (*models.Tour, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.docs[id]; ok {
		return &t, nil
	}
	return nil, nil
}

func (m *memTours) GetByIDs(_ context.Context, ids []string) (map[string]models.Tour, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[string]models.Tour{}
	for _, id := range ids {
		if t, ok := m.docs[id]; ok {
			out[id] = t
		}
	}
	return out, nil
}

func (m *memTours) Create(_ context.Context, t *models.Tour) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[t.ID] = *t
	return nil
}

func (m *memTours) Update(_ context.Context, t *models.Tour) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[t.ID]; !ok {
		return tourRepo.ErrNotFound
	}
	m.docs[t.ID] = *t
	return nil
}

func (m *memTours) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.docs[id]; !ok {
		return tourRepo.ErrNotFound
	}
	delete(m.docs, id)
	return nil
}

func (m *memTours) ReplaceAll(_ context.Context, tours []models.Tour) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs = map[string]models.Tour{}
	for _, t := range tours {
		m.docs[t.ID] = t
	}
	return nil
}

type memBuses struct {
	docs []models.Bus
}

func (m *memBuses) GetAll(_ context.Context, minCapacity int) ([]models.Bus, error) {
	out := []models.Bus{}
	for _, b := range m.docs {
		if b.Capacity >= minCapacity {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memBuses) GetByID(_ context.Context, id string) (*models.Bus, error) {
	for _, b := range m.docs {
		if b.ID == id {
			return &b, nil
		}
	}
	return nil, nil
}

func (m *memBuses) ReplaceAll(_ context.Context, buses []models.Bus) error {
	m.docs = buses
	return nil
}

type memUsers struct {
	mu   sync.Mutex
	docs map[string]models.User
}

func (m *memUsers) GetByID(_ context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.docs[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.docs {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (m *memUsers) Create(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[u.ID] = *u
	return nil
}

func (m *memUsers) Update(_ context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[u.ID] = *u
	return nil
}

// scriptedGenerator returns reply for every call and records the turns.
type scriptedGenerator struct {
	mu    sync.Mutex
	reply string
	err   error
	calls [][]models.ChatTurn
}

func (g *scriptedGenerator) Generate(_ context.Context, turns []models.ChatTurn) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, turns)
	return g.reply, g.err
}

type recordingDispatcher struct {
	mu   sync.Mutex
	msgs []models.IncomingMessage
}

func (d *recordingDispatcher) Dispatch(_ context.Context, msg models.IncomingMessage) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.msgs = append(d.msgs, msg)
	return nil
}
