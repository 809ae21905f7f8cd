package intelligence

import (
	"context"
	"errors"
	"sync"

	"schooltrip/models"
)

type fakeGenerator struct {
	mu    sync.Mutex
	reply string
	err   error
	calls [][]models.ChatTurn
}

func (f *fakeGenerator) Generate(_ context.Context, turns []models.ChatTurn) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, cloneTurns(turns))
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

type fakeSender struct {
	mu   sync.Mutex
	sent []string
}

func (f *fakeSender) SendText(_ context.Context, _ string, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, text)
	return nil
}

type fakeCatalog struct {
	snap *models.CatalogSnapshot
	err  error
}

func (f *fakeCatalog) Snapshot(context.Context) (*models.CatalogSnapshot, error) {
	return f.snap, f.err
}

var errCatalogDown = errors.New("mongo unreachable")

func testSnapshot() *models.CatalogSnapshot {
	return &models.CatalogSnapshot{
		Tours: []models.Tour{{ID: "T1", Name: "Sataflia", BasePrice: 15, Description: "Cave"}},
		Buses: []models.Bus{{ID: "b1", Name: "Setra S415", Capacity: 50}},
	}
}

// expiringStore drops the session after every Get, as a TTL firing between
// the read and the write would.
type expiringStore struct {
	*MemorySessionStore
}

func (s expiringStore) Get(ctx context.Context, key string) ([]models.ChatTurn, error) {
	turns, err := s.MemorySessionStore.Get(ctx, key)
	s.MemorySessionStore.Clear(ctx, key)
	return turns, err
}
