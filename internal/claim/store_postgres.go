package claim

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"proofmark/pkg/domain"
	"proofmark/pkg/platform/sentinel"
)

// Schema creates the proofs table. Applied by EnsureSchema at startup;
// idempotent so replicas can race on it.
const Schema = `
CREATE TABLE IF NOT EXISTS proofs (
	proof      BYTEA PRIMARY KEY,
	owner      TEXT NOT NULL,
	created_at BIGINT NOT NULL,
	claimed_ts TIMESTAMPTZ NOT NULL DEFAULT now()
)
`

// PostgresStore persists proof records in PostgreSQL. The store invariants
// are enforced by the statements themselves (conditional insert,
// key-qualified update/delete), so a concurrent host cannot interleave
// inside a single-key mutation.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema applies the proofs table schema.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("ensure proofs schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Exists(ctx context.Context, proof Proof) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM proofs WHERE proof = $1)`, []byte(proof),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check proof existence: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) Get(ctx context.Context, proof Proof) (*ProofRecord, error) {
	var (
		owner     string
		createdAt int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT owner, created_at FROM proofs WHERE proof = $1`, []byte(proof),
	).Scan(&owner, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get proof record: %w", err)
	}
	return &ProofRecord{
		Owner:     domain.AccountID(owner),
		CreatedAt: domain.Height(createdAt),
	}, nil
}

func (s *PostgresStore) Insert(ctx context.Context, proof Proof, record ProofRecord) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO proofs (proof, owner, created_at) VALUES ($1, $2, $3)
		 ON CONFLICT (proof) DO NOTHING`,
		[]byte(proof), record.Owner.String(), int64(record.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert proof record: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert proof record: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrConflict
	}
	return nil
}

func (s *PostgresStore) SetOwner(ctx context.Context, proof Proof, newOwner domain.AccountID) error {
	// created_at is deliberately absent from the SET list: creation time is
	// immutable for the life of the record.
	res, err := s.db.ExecContext(ctx,
		`UPDATE proofs SET owner = $2 WHERE proof = $1`,
		[]byte(proof), newOwner.String(),
	)
	if err != nil {
		return fmt.Errorf("set proof owner: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set proof owner: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Remove(ctx context.Context, proof Proof) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM proofs WHERE proof = $1`, []byte(proof),
	)
	if err != nil {
		return fmt.Errorf("remove proof record: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("remove proof record: %w", err)
	}
	if rows == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
