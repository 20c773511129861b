package session

import "sync"

// Storage keys for the two persisted entries. They are always written
// together on successful authentication and removed together on
// logout/401.
const (
	TokenKey = "auth_token"
	UserKey  = "auth_user"
)

// Persistence is the pluggable key-value capability backing the store,
// so the session survives reloads without the store knowing where the
// bytes live (cookies in production, a map in tests).
type Persistence interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Remove(key string)
}

// MemoryPersistence is an in-memory Persistence, used in tests.
type MemoryPersistence struct {
	mu      sync.Mutex
	entries map[string]string
}

func NewMemoryPersistence() *MemoryPersistence {
	return &MemoryPersistence{entries: make(map[string]string)}
}

func (m *MemoryPersistence) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.entries[key]
	return v, ok
}

func (m *MemoryPersistence) Set(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
}

func (m *MemoryPersistence) Remove(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
}
