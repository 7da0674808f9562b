package wizard

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/ecodeclub/ecache"
)

// SessionTTL is how long an idle wizard session is kept.
const SessionTTL = 24 * time.Hour

// Store persists sessions. Concurrent writers are not coordinated; the last
// Save wins.
type Store interface {
	// Load returns nil when the session does not exist.
	Load(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}

// CacheStore keeps sessions in an ecache backend, usually Redis
type CacheStore struct {
	cache ecache.Cache
	ttl   time.Duration
}

// NewCacheStore namespaces c under "wizard:".
func NewCacheStore(c ecache.Cache) *CacheStore {
	return &CacheStore{
		cache: &ecache.NamespaceCache{
			Namespace: "wizard:",
			C:         c,
		},
		ttl: SessionTTL,
	}
}

func (c *CacheStore) Load(ctx context.Context, id string) (*Session, error) {
	val := c.cache.Get(ctx, id)
	if val.KeyNotFound() {
		return nil, nil
	}
	if val.Err != nil {
		return nil, fmt.Errorf("failed to load wizard session: %w", val.Err)
	}
	raw, err := val.String()
	if err != nil {
		return nil, fmt.Errorf("failed to read wizard session: %w", err)
	}
	return decodeSession([]byte(raw))
}

func (c *CacheStore) Save(ctx context.Context, s *Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode wizard session: %w", err)
	}
	if err := c.cache.Set(ctx, s.ID, string(raw), c.ttl); err != nil {
		return fmt.Errorf("failed to save wizard session: %w", err)
	}
	return nil
}

func (c *CacheStore) Delete(ctx context.Context, id string) error {
	if _, err := c.cache.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete wizard session: %w", err)
	}
	return nil
}

// MemoryStore keeps sessions in process, for tests and single-instance runs
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string][]byte
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string][]byte)}
}

func (m *MemoryStore) Load(_ context.Context, id string) (*Session, error) {
	m.mu.Lock()
	raw, ok := m.sessions[id]
	m.mu.Unlock()
	if !ok {
		return nil, nil
	}
	return decodeSession(raw)
}

func (m *MemoryStore) Save(_ context.Context, s *Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode wizard session: %w", err)
	}
	m.mu.Lock()
	m.sessions[s.ID] = raw
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	return nil
}

func decodeSession(raw []byte) (*Session, error) {
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("failed to decode wizard session: %w", err)
	}
	return &s, nil
}
