package pinstore

import (
	"context"
	"sync"
)

// MemoryStore is a process-local Store guarded by a RWMutex.
type MemoryStore struct {
	mu     sync.RWMutex
	hashes map[int64][]byte
	cost   int
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty store hashing with the given bcrypt cost.
func NewMemoryStore(cost int) *MemoryStore {
	return &MemoryStore{hashes: make(map[int64][]byte), cost: normalizeCost(cost)}
}

func (s *MemoryStore) Set(_ context.Context, agentID int64, pin string) error {
	hash, err := hashPIN(pin, s.cost)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hashes[agentID] = hash
	return nil
}

func (s *MemoryStore) Verify(_ context.Context, agentID int64, pin string) (bool, error) {
	s.mu.RLock()
	hash, ok := s.hashes[agentID]
	s.mu.RUnlock()
	if !ok {
		return false, nil
	}
	return compareHash(hash, pin)
}

func (s *MemoryStore) Delete(_ context.Context, agentID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.hashes, agentID)
	return nil
}

// Len returns the number of stored PINs.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.hashes)
}
