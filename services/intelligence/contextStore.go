package intelligence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"schooltrip/models"

	"github.com/go-redis/redis/v8"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

const (
	chatSessionPrefix = "chat:session:"
	lockStripes       = 64
	maxTxRetries      = 10
)

var ErrSessionContention = errors.New("chat session is busy, retry later")

// UpdateFunc receives the current turns and returns the turns to store.
// It may run more than once per Update and must not have side effects.
type UpdateFunc func(turns []models.ChatTurn) ([]models.ChatTurn, error)

// SessionStore keeps a conversation history per sender.
type SessionStore interface {
	// Get returns the stored turns; a missing session is an empty slice.
	Get(ctx context.Context, key string) ([]models.ChatTurn, error)
	// Update applies fn atomically with respect to other updates of key.
	Update(ctx context.Context, key string, fn UpdateFunc) ([]models.ChatTurn, error)
	Clear(ctx context.Context, key string) error
}

// MemorySessionStore is a size and TTL bounded in-process store.
type MemorySessionStore struct {
	cache *expirable.LRU[string, []models.ChatTurn]
	locks [lockStripes]sync.Mutex
}

func NewMemorySessionStore(maxEntries int, ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{cache: expirable.NewLRU[string, []models.ChatTurn](maxEntries, nil, ttl)}
}

func (s *MemorySessionStore) lockFor(key string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(key))
	return &s.locks[h.Sum32()%lockStripes]
}

func (s *MemorySessionStore) Get(_ context.Context, key string) ([]models.ChatTurn, error) {
	turns, _ := s.cache.Get(key)
	return cloneTurns(turns), nil
}

func (s *MemorySessionStore) Update(_ context.Context, key string, fn UpdateFunc) ([]models.ChatTurn, error) {
	mu := s.lockFor(key)
	mu.Lock()
	defer mu.Unlock()

	current, _ := s.cache.Get(key)
	next, err := fn(cloneTurns(current))
	if err != nil {
		return nil, err
	}
	s.cache.Add(key, cloneTurns(next))
	return next, nil
}

func (s *MemorySessionStore) Clear(_ context.Context, key string) error {
	s.cache.Remove(key)
	return nil
}

// RedisSessionStore keeps sessions as JSON with a sliding TTL.
type RedisSessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionStore(client *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{client: client, ttl: ttl}
}

func (s *RedisSessionStore) Get(ctx context.Context, key string) ([]models.ChatTurn, error) {
	return decodeTurns(s.client.Get(ctx, chatSessionPrefix+key).Result())
}

// Update runs fn inside an optimistic WATCH/MULTI transaction.
func (s *RedisSessionStore) Update(ctx context.Context, key string, fn UpdateFunc) ([]models.ChatTurn, error) {
	redisKey := chatSessionPrefix + key
	var result []models.ChatTurn

	txf := func(tx *redis.Tx) error {
		current, err := decodeTurns(tx.Get(ctx, redisKey).Result())
		if err != nil {
			return err
		}
		next, err := fn(current)
		if err != nil {
			return err
		}
		b, err := json.Marshal(next)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, redisKey, b, s.ttl)
			return nil
		})
		if err == nil {
			result = next
		}
		return err
	}

	for i := 0; i < maxTxRetries; i++ {
		err := s.client.Watch(ctx, txf, redisKey)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return nil, err
	}
	return nil, ErrSessionContention
}

func (s *RedisSessionStore) Clear(ctx context.Context, key string) error {
	return s.client.Del(ctx, chatSessionPrefix+key).Err()
}

func decodeTurns(data string, err error) ([]models.ChatTurn, error) {
	if err == redis.Nil {
		return []models.ChatTurn{}, nil
	}
	if err != nil {
		return nil, err
	}
	var turns []models.ChatTurn
	if err := json.Unmarshal([]byte(data), &turns); err != nil {
		return nil, fmt.Errorf("corrupt chat session: %w", err)
	}
	return turns, nil
}

func cloneTurns(turns []models.ChatTurn) []models.ChatTurn {
	out := make([]models.ChatTurn, len(turns))
	copy(out, turns)
	return out
}
