package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// StateStore persists session state between turns. Load returns (nil, nil)
// for an unknown session; the engine treats that as Idle.
type StateStore interface {
	Load(ctx context.Context, sessionID string) (*State, error)
	Save(ctx context.Context, state *State) error
	Delete(ctx context.Context, sessionID string) error
}

const sessionKeyPrefix = "session:state:"

// RedisStateStore keeps session state in Redis with a TTL so abandoned
// sessions age out.
type RedisStateStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStateStore creates a session store backed by Redis.
func NewRedisStateStore(rdb *redis.Client, ttl time.Duration) *RedisStateStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisStateStore{rdb: rdb, ttl: ttl}
}

func sessionKey(sessionID string) string {
	return sessionKeyPrefix + sessionID
}

// Load retrieves session state, or nil if the session is unknown.
func (s *RedisStateStore) Load(ctx context.Context, sessionID string) (*State, error) {
	data, err := s.rdb.Get(ctx, sessionKey(sessionID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("conversation: load state: %w", err)
	}
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("conversation: unmarshal state: %w", err)
	}
	return &state, nil
}

// Save persists session state and refreshes the TTL.
func (s *RedisStateStore) Save(ctx context.Context, state *State) error {
	if state == nil || state.SessionID == "" {
		return ErrSessionIDRequired
	}
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("conversation: marshal state: %w", err)
	}
	return s.rdb.Set(ctx, sessionKey(state.SessionID), data, s.ttl).Err()
}

// Delete removes session state, returning the session to Idle.
func (s *RedisStateStore) Delete(ctx context.Context, sessionID string) error {
	return s.rdb.Del(ctx, sessionKey(sessionID)).Err()
}

// MemoryStateStore is an in-memory StateStore for development and tests.
type MemoryStateStore struct {
	mu     sync.RWMutex
	states map[string]*State
}

// NewMemoryStateStore creates an empty in-memory state store.
func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{states: make(map[string]*State)}
}

// Load retrieves a copy of the session state, or nil if unknown.
func (s *MemoryStateStore) Load(ctx context.Context, sessionID string) (*State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.states[sessionID]
	if !ok {
		return nil, nil
	}
	copied := *state
	copied.Transcript = append([]Utterance(nil), state.Transcript...)
	return &copied, nil
}

// Save stores a copy of the session state.
func (s *MemoryStateStore) Save(ctx context.Context, state *State) error {
	if state == nil || state.SessionID == "" {
		return ErrSessionIDRequired
	}
	copied := *state
	copied.Transcript = append([]Utterance(nil), state.Transcript...)

	s.mu.Lock()
	s.states[state.SessionID] = &copied
	s.mu.Unlock()
	return nil
}

// Delete removes session state.
func (s *MemoryStateStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.states, sessionID)
	s.mu.Unlock()
	return nil
}
