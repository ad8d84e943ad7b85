package hitl

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Continuation is the stateless follow-up descriptor for an action whose
// Decision.MissingFields is non-empty: the action type plus the fields
// collected so far, resubmitted by the client once the remaining fields are
// collected. Neither ooda.Decide nor action.Dispatcher constructs one;
// callers build it themselves. The
// core itself holds no server-side conversation state across turns — the
// store here is purely an optional convenience for callers that want a
// short-lived handle instead of round-tripping the whole descriptor.
type Continuation struct {
	ID              string
	ActionType      string
	CollectedFields map[string]interface{}
}

// ErrContinuationNotFound indicates the id is unknown or has expired.
var ErrContinuationNotFound = errors.New("continuation not found")

// Store persists Continuations by id with a TTL. Implementations must be
// safe for concurrent use.
type Store interface {
	Put(ctx context.Context, c Continuation, ttl time.Duration) error
	Get(ctx context.Context, id string) (Continuation, error)
	Delete(ctx context.Context, id string) error
}

// MemoryStore is the default in-process Store, grounded on the same
// mutex-guarded-map idiom used throughout this module's registries.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]memEntry
}

type memEntry struct {
	c         Continuation
	expiresAt time.Time
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]memEntry)}
}

func (s *MemoryStore) Put(ctx context.Context, c Continuation, ttl time.Duration) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[c.ID] = memEntry{c: c, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (Continuation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[id]
	if !ok || time.Now().After(e.expiresAt) {
		return Continuation{}, ErrContinuationNotFound
	}
	return e.c, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
	return nil
}

// RedisStore is an alternate Store backed by Redis, for hosts that run
// multiple dispatcher instances and need continuations to survive past a
// single process. Grounded on itsneelabh-gomind's
// orchestration/hitl_checkpoint_store.go Redis checkpoint pattern.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore constructs a RedisStore using client, namespacing keys
// under prefix (e.g. "ontologycore:hitl:").
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(id string) string {
	return s.prefix + id
}

func (s *RedisStore) Put(ctx context.Context, c Continuation, ttl time.Duration) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(c.ID), data, ttl).Err()
}

func (s *RedisStore) Get(ctx context.Context, id string) (Continuation, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Continuation{}, ErrContinuationNotFound
	}
	if err != nil {
		return Continuation{}, err
	}
	var c Continuation
	if err := json.Unmarshal(data, &c); err != nil {
		return Continuation{}, err
	}
	return c, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, s.key(id)).Err()
}
