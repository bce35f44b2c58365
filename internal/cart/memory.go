package cart

import (
	"context"
	"sync"
)

// MemoryStore keeps carts in process memory.
type MemoryStore struct {
	mu    sync.Mutex
	carts map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[string][]byte)}
}

func (s *MemoryStore) LoadCart(_ context.Context, clientID string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.carts[clientID]
	if !ok {
		return nil, ErrNoCart
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (s *MemoryStore) SaveCart(_ context.Context, clientID string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	buf := make([]byte, len(data))
	copy(buf, data)
	s.carts[clientID] = buf
	return nil
}
