package claim_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"proofmark/internal/claim"
	"proofmark/pkg/domain"
	"proofmark/pkg/platform/sentinel"
)

type InMemoryStoreSuite struct {
	suite.Suite
	store *claim.InMemoryStore
}

func TestInMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryStoreSuite))
}

func (s *InMemoryStoreSuite) SetupTest() {
	s.store = claim.NewInMemoryStore()
}

func (s *InMemoryStoreSuite) TestExists() {
	ctx := context.Background()
	proof := claim.Proof("fingerprint-a")

	s.Run("never-claimed proof does not exist", func() {
		exists, err := s.store.Exists(ctx, proof)
		s.NoError(err)
		s.False(exists)
	})

	s.Run("inserted proof exists", func() {
		err := s.store.Insert(ctx, proof, claim.ProofRecord{Owner: "alice", CreatedAt: 1})
		s.Require().NoError(err)

		exists, err := s.store.Exists(ctx, proof)
		s.NoError(err)
		s.True(exists)
	})
}

func (s *InMemoryStoreSuite) TestInsert() {
	ctx := context.Background()
	proof := claim.Proof("fingerprint-b")

	s.Run("insert on fresh key succeeds", func() {
		err := s.store.Insert(ctx, proof, claim.ProofRecord{Owner: "alice", CreatedAt: 7})
		s.NoError(err)

		record, err := s.store.Get(ctx, proof)
		s.Require().NoError(err)
		s.Equal(domain.AccountID("alice"), record.Owner)
		s.Equal(domain.Height(7), record.CreatedAt)
	})

	s.Run("insert on existing key is a conflict and leaves the record unchanged", func() {
		err := s.store.Insert(ctx, proof, claim.ProofRecord{Owner: "mallory", CreatedAt: 99})
		s.ErrorIs(err, sentinel.ErrConflict)

		record, err := s.store.Get(ctx, proof)
		s.Require().NoError(err)
		s.Equal(domain.AccountID("alice"), record.Owner)
		s.Equal(domain.Height(7), record.CreatedAt)
	})
}

func (s *InMemoryStoreSuite) TestSetOwner() {
	ctx := context.Background()
	proof := claim.Proof("fingerprint-c")

	s.Run("set owner on missing key fails", func() {
		err := s.store.SetOwner(ctx, proof, "bob")
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("set owner updates owner and preserves creation height", func() {
		s.Require().NoError(s.store.Insert(ctx, proof, claim.ProofRecord{Owner: "alice", CreatedAt: 42}))

		err := s.store.SetOwner(ctx, proof, "bob")
		s.NoError(err)

		record, err := s.store.Get(ctx, proof)
		s.Require().NoError(err)
		s.Equal(domain.AccountID("bob"), record.Owner)
		s.Equal(domain.Height(42), record.CreatedAt)
	})
}

func (s *InMemoryStoreSuite) TestRemove() {
	ctx := context.Background()
	proof := claim.Proof("fingerprint-d")

	s.Run("remove on missing key fails", func() {
		err := s.store.Remove(ctx, proof)
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("remove deletes the record and frees the key", func() {
		s.Require().NoError(s.store.Insert(ctx, proof, claim.ProofRecord{Owner: "alice", CreatedAt: 1}))

		s.NoError(s.store.Remove(ctx, proof))

		_, err := s.store.Get(ctx, proof)
		s.ErrorIs(err, sentinel.ErrNotFound)

		// The key is claimable again.
		s.NoError(s.store.Insert(ctx, proof, claim.ProofRecord{Owner: "bob", CreatedAt: 2}))
	})
}

func (s *InMemoryStoreSuite) TestGetReturnsCopy() {
	ctx := context.Background()
	proof := claim.Proof("fingerprint-e")
	s.Require().NoError(s.store.Insert(ctx, proof, claim.ProofRecord{Owner: "alice", CreatedAt: 5}))

	record, err := s.store.Get(ctx, proof)
	s.Require().NoError(err)
	record.Owner = "mallory"

	stored, err := s.store.Get(ctx, proof)
	s.Require().NoError(err)
	s.Equal(domain.AccountID("alice"), stored.Owner)
}
