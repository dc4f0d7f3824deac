package credentials

import (
	"context"
	"sync"
)

// MemoryStore keeps the credential in process memory.
type MemoryStore struct {
	mu    sync.Mutex
	token string
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore(token string) *MemoryStore {
	return &MemoryStore{token: token}
}

func (m *MemoryStore) Load(context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *MemoryStore) Save(_ context.Context, token string) error {
	m.mu.Lock()
	m.token = token
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Swap(_ context.Context, prev, next string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.token == "" || m.token != prev {
		return false, nil
	}
	m.token = next
	return true, nil
}

func (m *MemoryStore) Delete(context.Context) error {
	m.mu.Lock()
	m.token = ""
	m.mu.Unlock()
	return nil
}
