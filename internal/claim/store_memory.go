package claim

import (
	"context"
	"sync"

	"proofmark/pkg/domain"
	"proofmark/pkg/platform/sentinel"
)

// InMemoryStore is the reference Store implementation. It backs tests and
// single-process deployments that do not need durability.
type InMemoryStore struct {
	mu     sync.RWMutex
	proofs map[string]ProofRecord
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{proofs: make(map[string]ProofRecord)}
}

func (s *InMemoryStore) Exists(_ context.Context, proof Proof) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.proofs[proof.Key()]
	return ok, nil
}

func (s *InMemoryStore) Get(_ context.Context, proof Proof) (*ProofRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.proofs[proof.Key()]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	// Copy so callers cannot mutate stored state.
	out := record
	return &out, nil
}

func (s *InMemoryStore) Insert(_ context.Context, proof Proof, record ProofRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.proofs[proof.Key()]; ok {
		return sentinel.ErrConflict
	}
	s.proofs[proof.Key()] = record
	return nil
}

func (s *InMemoryStore) SetOwner(_ context.Context, proof Proof, newOwner domain.AccountID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, ok := s.proofs[proof.Key()]
	if !ok {
		return sentinel.ErrNotFound
	}
	record.Owner = newOwner
	s.proofs[proof.Key()] = record
	return nil
}

func (s *InMemoryStore) Remove(_ context.Context, proof Proof) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.proofs[proof.Key()]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.proofs, proof.Key())
	return nil
}

// Len reports the number of claimed proofs. Test helper.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.proofs)
}
