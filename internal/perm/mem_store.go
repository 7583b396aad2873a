package perm

import (
	"context"
	"sync"
)

type grantKey struct {
	userID int64
	name   string
	obj    ObjectRef
}

// MemStore is an in-memory Store used by unit tests and the seed tooling's
// dry-run mode. Safe for concurrent use.
type MemStore struct {
	mu     sync.RWMutex
	grants map[grantKey]struct{}
}

// NewMemStore creates an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{grants: make(map[grantKey]struct{})}
}

func (s *MemStore) Assign(ctx context.Context, name string, userID int64, obj ObjectRef) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grants[grantKey{userID, name, obj}] = struct{}{}
	return nil
}

func (s *MemStore) Remove(ctx context.Context, name string, userID int64, obj ObjectRef) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.grants, grantKey{userID, name, obj})
	return nil
}

func (s *MemStore) Has(ctx context.Context, name string, userID int64, obj ObjectRef) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.grants[grantKey{userID, name, obj}]
	return ok, nil
}

func (s *MemStore) PurgeUser(ctx context.Context, userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.grants {
		if k.userID == userID {
			delete(s.grants, k)
		}
	}
	return nil
}

func (s *MemStore) PurgeObject(ctx context.Context, obj ObjectRef) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k := range s.grants {
		if k.obj == obj {
			delete(s.grants, k)
		}
	}
	return nil
}

// Len returns the number of grants held. Used by tests to assert that
// propagation leaves no leaked grants behind.
func (s *MemStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.grants)
}
