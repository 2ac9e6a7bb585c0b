package holdstore

import (
	"context"
	"sync"
	"time"

	"github.com/Jay210305/Fulbo-sub001/internal/model"
)

// MemoryStore is the fallback hold store for environments without Redis
// (local development, tests). Holds do not survive a restart, which is
// acceptable for an ephemeral claim whose loss only sends the shopper back
// one step in checkout.
type MemoryStore struct {
	mu    sync.Mutex
	holds map[string]model.Hold
}

// NewMemoryStore returns an empty in-memory hold store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{holds: make(map[string]model.Hold)}
}

// Get returns the owner's hold or nil when there is none.
func (s *MemoryStore) Get(_ context.Context, ownerRef string) (*model.Hold, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.holds[ownerRef]
	if !ok {
		return nil, nil
	}
	cp := h
	return &cp, nil
}

// Put stores the hold under its owner, replacing any previous one. The ttl
// is ignored here; the manager's computed expiry governs.
func (s *MemoryStore) Put(_ context.Context, h model.Hold, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.holds[h.OwnerRef] = h
	return nil
}

// Delete removes the owner's hold; absent is not an error.
func (s *MemoryStore) Delete(_ context.Context, ownerRef string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.holds, ownerRef)
	return nil
}
