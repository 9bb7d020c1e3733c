//go:build integration

package claim_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"proofmark/internal/claim"
	"proofmark/pkg/domain"
	"proofmark/pkg/platform/sentinel"
	"proofmark/pkg/testutil/containers"
)

type CachedStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	inner *claim.InMemoryStore
	store *claim.CachedStore
}

func TestCachedStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(CachedStoreSuite))
}

func (s *CachedStoreSuite) SetupSuite() {
	s.redis = containers.NewRedisContainer(s.T())
}

func (s *CachedStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
	s.inner = claim.NewInMemoryStore()
	s.store = claim.NewCachedStore(s.inner, s.redis.Client, time.Minute)
}

func (s *CachedStoreSuite) TestReadThrough() {
	ctx := context.Background()
	proof := claim.Proof("cached-proof")
	s.Require().NoError(s.inner.Insert(ctx, proof, claim.ProofRecord{Owner: "alice", CreatedAt: 4}))

	// First read populates the cache; a second read served from cache still
	// observes the same record even if the inner store changes underneath.
	record, err := s.store.Get(ctx, proof)
	s.Require().NoError(err)
	s.Equal(domain.AccountID("alice"), record.Owner)

	s.Require().NoError(s.inner.SetOwner(ctx, proof, "shadow"))

	record, err = s.store.Get(ctx, proof)
	s.Require().NoError(err)
	s.Equal(domain.AccountID("alice"), record.Owner)
}

func (s *CachedStoreSuite) TestNegativeCaching() {
	ctx := context.Background()
	proof := claim.Proof("never-claimed")

	_, err := s.store.Get(ctx, proof)
	s.ErrorIs(err, sentinel.ErrNotFound)

	exists, err := s.store.Exists(ctx, proof)
	s.NoError(err)
	s.False(exists)
}

func (s *CachedStoreSuite) TestMutationsInvalidate() {
	ctx := context.Background()
	proof := claim.Proof("invalidated")

	s.Run("insert clears a cached negative", func() {
		_, err := s.store.Get(ctx, proof)
		s.ErrorIs(err, sentinel.ErrNotFound)

		s.Require().NoError(s.store.Insert(ctx, proof, claim.ProofRecord{Owner: "alice", CreatedAt: 1}))

		record, err := s.store.Get(ctx, proof)
		s.Require().NoError(err)
		s.Equal(domain.AccountID("alice"), record.Owner)
	})

	s.Run("set owner is visible after a cached read", func() {
		_, err := s.store.Get(ctx, proof)
		s.Require().NoError(err)

		s.Require().NoError(s.store.SetOwner(ctx, proof, "bob"))

		record, err := s.store.Get(ctx, proof)
		s.Require().NoError(err)
		s.Equal(domain.AccountID("bob"), record.Owner)
	})

	s.Run("remove is visible after a cached read", func() {
		s.Require().NoError(s.store.Remove(ctx, proof))

		_, err := s.store.Get(ctx, proof)
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}
