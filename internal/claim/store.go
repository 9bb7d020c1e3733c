package claim

import (
	"context"

	"proofmark/pkg/domain"
)

//go:generate mockgen -destination=mocks/store.go -package=mocks proofmark/internal/claim Store,Publisher

// Store is the exclusive, authoritative owner of the proof-to-record
// mapping. All operations are single-key and synchronous, and have no side
// effects beyond the mapping itself; events are the service's concern.
//
// Stores return pkg/platform/sentinel errors for factual states
// (sentinel.ErrNotFound, sentinel.ErrConflict); the service translates them
// into domain errors.
type Store interface {
	// Exists reports whether a record is present for proof.
	Exists(ctx context.Context, proof Proof) (bool, error)
	// Get returns the record for proof, or sentinel.ErrNotFound.
	Get(ctx context.Context, proof Proof) (*ProofRecord, error)
	// Insert stores a new record. Returns sentinel.ErrConflict if a record
	// already exists: an existing claim may never be overwritten.
	Insert(ctx context.Context, proof Proof, record ProofRecord) error
	// SetOwner updates the owner of an existing record, leaving CreatedAt
	// untouched. Returns sentinel.ErrNotFound if no record exists.
	SetOwner(ctx context.Context, proof Proof, newOwner domain.AccountID) error
	// Remove deletes the record for proof. Returns sentinel.ErrNotFound if
	// no record exists.
	Remove(ctx context.Context, proof Proof) error
}
