package claim

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"proofmark/pkg/domain"
	"proofmark/pkg/platform/sentinel"
)

// negativeMarker is cached for proofs known to be unclaimed, so repeated
// verification of unclaimed fingerprints does not hammer the backing store.
const negativeMarker = "!"

// CachedStore is a go-redis read-through cache in front of another Store.
// Verification traffic in a notarization service is read-heavy; mutations
// pass through and invalidate. Cache failures degrade to the inner store
// rather than failing the operation.
type CachedStore struct {
	inner Store
	rdb   *redis.Client
	ttl   time.Duration
}

func NewCachedStore(inner Store, rdb *redis.Client, ttl time.Duration) *CachedStore {
	return &CachedStore{inner: inner, rdb: rdb, ttl: ttl}
}

func cacheKey(proof Proof) string {
	return "claim:" + proof.Hex()
}

func (s *CachedStore) Exists(ctx context.Context, proof Proof) (bool, error) {
	if cached, ok := s.lookup(ctx, proof); ok {
		return cached != nil, nil
	}
	return s.inner.Exists(ctx, proof)
}

func (s *CachedStore) Get(ctx context.Context, proof Proof) (*ProofRecord, error) {
	if cached, ok := s.lookup(ctx, proof); ok {
		if cached == nil {
			return nil, sentinel.ErrNotFound
		}
		return cached, nil
	}

	record, err := s.inner.Get(ctx, proof)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.store(ctx, proof, nil)
		}
		return nil, err
	}
	s.store(ctx, proof, record)
	return record, nil
}

func (s *CachedStore) Insert(ctx context.Context, proof Proof, record ProofRecord) error {
	if err := s.inner.Insert(ctx, proof, record); err != nil {
		return err
	}
	s.invalidate(ctx, proof)
	return nil
}

func (s *CachedStore) SetOwner(ctx context.Context, proof Proof, newOwner domain.AccountID) error {
	if err := s.inner.SetOwner(ctx, proof, newOwner); err != nil {
		return err
	}
	s.invalidate(ctx, proof)
	return nil
}

func (s *CachedStore) Remove(ctx context.Context, proof Proof) error {
	if err := s.inner.Remove(ctx, proof); err != nil {
		return err
	}
	s.invalidate(ctx, proof)
	return nil
}

// lookup returns (record, true) on a cache hit; record is nil for a cached
// negative. Any cache error counts as a miss.
func (s *CachedStore) lookup(ctx context.Context, proof Proof) (*ProofRecord, bool) {
	raw, err := s.rdb.Get(ctx, cacheKey(proof)).Result()
	if err != nil {
		return nil, false
	}
	if raw == negativeMarker {
		return nil, true
	}
	var record ProofRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return nil, false
	}
	return &record, true
}

func (s *CachedStore) store(ctx context.Context, proof Proof, record *ProofRecord) {
	value := negativeMarker
	if record != nil {
		b, err := json.Marshal(record)
		if err != nil {
			return
		}
		value = string(b)
	}
	s.rdb.Set(ctx, cacheKey(proof), value, s.ttl)
}

func (s *CachedStore) invalidate(ctx context.Context, proof Proof) {
	s.rdb.Del(ctx, cacheKey(proof))
}

// Health pings the cache so /healthz can report cache degradation.
func (s *CachedStore) Health(ctx context.Context) error {
	if err := s.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("claim cache ping: %w", err)
	}
	return nil
}
