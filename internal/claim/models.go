// Package claim holds the data model and store contract for the
// proof-of-existence registry: the binding of a content fingerprint to the
// identity that first submitted it and the logical time of submission.
package claim

import (
	"encoding/hex"
	"fmt"

	"proofmark/pkg/domain"
	dErrors "proofmark/pkg/domain-errors"
)

// DefaultMaxBytesInHash bounds proof length when the host does not configure
// one. 64 bytes covers any 512-bit digest.
const DefaultMaxBytesInHash = 64

// Proof is an opaque, length-bounded byte sequence acting as a content
// fingerprint and registry key. Equal byte sequences are the same proof
// regardless of when or by whom they were submitted; the registry never
// inspects proof content beyond length and equality.
type Proof []byte

// ParseProof decodes the hex form proofs travel in over the wire.
func ParseProof(s string) (Proof, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("proof is not valid hex: %w", err)
	}
	return Proof(b), nil
}

// Hex returns the wire representation of the proof.
func (p Proof) Hex() string {
	return hex.EncodeToString(p)
}

// Key returns the proof as a map/storage key.
func (p Proof) Key() string {
	return string(p)
}

func (p Proof) String() string {
	return p.Hex()
}

// Validate enforces the configured length bound. This is the single
// enforcement point for MaxBytesInHash: the service calls it before any
// store access, and no other layer re-checks.
func (p Proof) Validate(maxBytes int) error {
	if len(p) == 0 {
		return dErrors.New(dErrors.CodeBadRequest, "proof cannot be empty")
	}
	if len(p) > maxBytes {
		return dErrors.New(dErrors.CodeBadRequest,
			fmt.Sprintf("proof exceeds maximum length of %d bytes", maxBytes))
	}
	return nil
}

// ProofRecord is the value bound to a claimed proof.
//
// Invariants:
//   - Owner is never empty for a stored record
//   - CreatedAt is immutable after insertion: transfers change Owner only
//   - At most one record exists per proof; absence means never claimed or
//     since revoked
type ProofRecord struct {
	// Owner is the identity currently entitled to transfer or revoke the
	// proof.
	Owner domain.AccountID `json:"owner"`
	// CreatedAt is the logical time (sequence position) at which the record
	// was first created.
	CreatedAt domain.Height `json:"created_at"`
}

// Domain error constructors for the registry's three caller errors. All are
// detected before any mutation; none is retryable.

// ErrProofAlreadyClaimed reports a create on a proof that already has a
// record.
func ErrProofAlreadyClaimed() error {
	return dErrors.New(dErrors.CodeProofAlreadyClaimed, "proof has already been claimed")
}

// ErrNoSuchProof reports a transfer or revoke on a proof with no record.
func ErrNoSuchProof() error {
	return dErrors.New(dErrors.CodeNoSuchProof, "no claim exists for this proof")
}

// ErrNotProofOwner reports a transfer or revoke by a non-owner.
func ErrNotProofOwner() error {
	return dErrors.New(dErrors.CodeNotProofOwner, "caller does not own this proof")
}
