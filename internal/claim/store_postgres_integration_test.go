//go:build integration

package claim_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"proofmark/internal/claim"
	"proofmark/pkg/domain"
	"proofmark/pkg/platform/sentinel"
	"proofmark/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	store *claim.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())
	s.store = claim.NewPostgresStore(s.pg.DB)
	s.Require().NoError(s.store.EnsureSchema(context.Background()))
}

func (s *PostgresStoreSuite) SetupTest() {
	_, err := s.pg.DB.ExecContext(context.Background(), "TRUNCATE proofs")
	s.Require().NoError(err)
}

func (s *PostgresStoreSuite) TestInsertAndGet() {
	ctx := context.Background()
	proof := claim.Proof("pg-proof-1")

	s.Run("missing proof is not found", func() {
		_, err := s.store.Get(ctx, proof)
		s.ErrorIs(err, sentinel.ErrNotFound)

		exists, err := s.store.Exists(ctx, proof)
		s.NoError(err)
		s.False(exists)
	})

	s.Run("insert round-trips", func() {
		err := s.store.Insert(ctx, proof, claim.ProofRecord{Owner: "alice", CreatedAt: 11})
		s.Require().NoError(err)

		record, err := s.store.Get(ctx, proof)
		s.Require().NoError(err)
		s.Equal(domain.AccountID("alice"), record.Owner)
		s.Equal(domain.Height(11), record.CreatedAt)
	})

	s.Run("duplicate insert conflicts and preserves the original", func() {
		err := s.store.Insert(ctx, proof, claim.ProofRecord{Owner: "mallory", CreatedAt: 99})
		s.ErrorIs(err, sentinel.ErrConflict)

		record, err := s.store.Get(ctx, proof)
		s.Require().NoError(err)
		s.Equal(domain.AccountID("alice"), record.Owner)
		s.Equal(domain.Height(11), record.CreatedAt)
	})
}

func (s *PostgresStoreSuite) TestSetOwner() {
	ctx := context.Background()
	proof := claim.Proof("pg-proof-2")

	s.Run("set owner on missing proof is not found", func() {
		s.ErrorIs(s.store.SetOwner(ctx, proof, "bob"), sentinel.ErrNotFound)
	})

	s.Run("set owner preserves creation height", func() {
		s.Require().NoError(s.store.Insert(ctx, proof, claim.ProofRecord{Owner: "alice", CreatedAt: 21}))

		s.NoError(s.store.SetOwner(ctx, proof, "bob"))

		record, err := s.store.Get(ctx, proof)
		s.Require().NoError(err)
		s.Equal(domain.AccountID("bob"), record.Owner)
		s.Equal(domain.Height(21), record.CreatedAt)
	})
}

func (s *PostgresStoreSuite) TestRemove() {
	ctx := context.Background()
	proof := claim.Proof("pg-proof-3")

	s.Run("remove of missing proof is not found", func() {
		s.ErrorIs(s.store.Remove(ctx, proof), sentinel.ErrNotFound)
	})

	s.Run("remove frees the key for a fresh claim", func() {
		s.Require().NoError(s.store.Insert(ctx, proof, claim.ProofRecord{Owner: "alice", CreatedAt: 1}))
		s.Require().NoError(s.store.Remove(ctx, proof))

		_, err := s.store.Get(ctx, proof)
		s.ErrorIs(err, sentinel.ErrNotFound)

		s.NoError(s.store.Insert(ctx, proof, claim.ProofRecord{Owner: "bob", CreatedAt: 2}))
	})
}
