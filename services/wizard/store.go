package wizard

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

const wizardPrefix = "wizard:"

// Store persists wizard sessions. Get returns nil, nil for unknown or
// expired sessions.
type Store interface {
	Get(ctx context.Context, id string) (*Wizard, error)
	Save(ctx context.Context, w *Wizard) error
}

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Get(ctx context.Context, id string) (*Wizard, error) {
	data, err := s.client.Get(ctx, wizardPrefix+id).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var w Wizard
	if err := json.Unmarshal([]byte(data), &w); err != nil {
		return nil, fmt.Errorf("corrupt wizard session: %w", err)
	}
	return &w, nil
}

func (s *RedisStore) Save(ctx context.Context, w *Wizard) error {
	b, err := json.Marshal(w)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, wizardPrefix+w.ID, b, s.ttl).Err()
}

type MemoryStore struct {
	cache *expirable.LRU[string, Wizard]
}

func NewMemoryStore(maxEntries int, ttl time.Duration) *MemoryStore {
	return &MemoryStore{cache: expirable.NewLRU[string, Wizard](maxEntries, nil, ttl)}
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Wizard, error) {
	w, ok := s.cache.Get(id)
	if !ok {
		return nil, nil
	}
	return cloneWizard(w), nil
}

func (s *MemoryStore) Save(_ context.Context, w *Wizard) error {
	s.cache.Add(w.ID, *cloneWizard(*w))
	return nil
}

func cloneWizard(w Wizard) *Wizard {
	if w.Bus != nil {
		bus := *w.Bus
		w.Bus = &bus
	}
	if w.Contact != nil {
		contact := *w.Contact
		w.Contact = &contact
	}
	return &w
}
