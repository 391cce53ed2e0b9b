package kv

import "sync"

// MemoryStore is a map-backed Store for tests and ephemeral runs. It keeps
// the encoded payloads rather than live values so Get exercises the same
// decode path as the durable drivers.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemory returns an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (s *MemoryStore) Get(key string, out any) (bool, error) {
	s.mu.RLock()
	payload, ok := s.data[key]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if err := decode(payload, out); err != nil {
		return false, err
	}
	return true, nil
}

func (s *MemoryStore) Set(key string, value any) error {
	payload, err := encode(value)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.data[key] = payload
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Delete(key string) error {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Close() error { return nil }

// Corrupt overwrites a key with an undecodable payload. Test hook for the
// degrade-to-absent read contract.
func (s *MemoryStore) Corrupt(key string) {
	s.mu.Lock()
	s.data[key] = []byte("{not json")
	s.mu.Unlock()
}
