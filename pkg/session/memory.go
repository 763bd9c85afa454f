package session

import (
	"context"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	apperrors "github.com/matzehuels/archsketch/pkg/errors"
)

// DefaultMemorySize bounds a [MemoryStore] created with size <= 0.
const DefaultMemorySize = 1024

// MemoryStore keeps sessions in an in-process LRU. The least recently used
// session is evicted once the store is full. Sessions are copied on the way
// in and out so callers never share state with the store.
type MemoryStore struct {
	mu    sync.Mutex
	cache *lru.Cache[string, *Session]
}

// NewMemoryStore creates a store holding at most size sessions.
func NewMemoryStore(size int) (*MemoryStore, error) {
	if size <= 0 {
		size = DefaultMemorySize
	}
	c, err := lru.New[string, *Session](size)
	if err != nil {
		return nil, err
	}
	return &MemoryStore{cache: c}, nil
}

// Get implements [Store].
func (m *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.cache.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	if sess.IsExpired() {
		m.cache.Remove(id)
		return nil, ErrNotFound
	}
	return sess.Clone(), nil
}

// Set implements [Store].
func (m *MemoryStore) Set(ctx context.Context, sess *Session) error {
	if err := apperrors.ValidateSessionID(sess.ID); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache.Add(sess.ID, sess.Clone())
	return nil
}

// Delete implements [Store].
func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache.Remove(id)
	return nil
}

// List implements [Store].
func (m *MemoryStore) List(ctx context.Context) ([]*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []*Session
	for _, sess := range m.cache.Values() {
		if !sess.IsExpired() {
			out = append(out, sess.Clone())
		}
	}
	sortByUpdated(out)
	return out, nil
}

// Cleanup implements [Store].
func (m *MemoryStore) Cleanup(ctx context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for _, id := range m.cache.Keys() {
		if sess, ok := m.cache.Peek(id); ok && sess.IsExpired() {
			m.cache.Remove(id)
			removed++
		}
	}
	return removed, nil
}

// Len returns the number of stored sessions, expired ones included.
func (m *MemoryStore) Len() int {
	return m.cache.Len()
}

// Close does nothing.
func (m *MemoryStore) Close() error { return nil }

var _ Store = (*MemoryStore)(nil)
