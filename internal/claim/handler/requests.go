package handler

import (
	"proofmark/internal/claim"
	"proofmark/pkg/domain"
	dErrors "proofmark/pkg/domain-errors"
)

// CreateClaimRequest claims a fingerprint for the authenticated sender.
type CreateClaimRequest struct {
	Proof string `json:"proof"`
}

// TransferClaimRequest hands a claimed fingerprint to another identity.
type TransferClaimRequest struct {
	Proof    string `json:"proof"`
	NewOwner string `json:"new_owner"`
}

// RevokeClaimRequest disowns a claimed fingerprint.
type RevokeClaimRequest struct {
	Proof string `json:"proof"`
}

// ClaimResponse is the public view of a proof record.
type ClaimResponse struct {
	Proof     string `json:"proof"`
	Owner     string `json:"owner"`
	CreatedAt uint64 `json:"created_at"`
}

func toClaimResponse(proof claim.Proof, record *claim.ProofRecord) ClaimResponse {
	return ClaimResponse{
		Proof:     proof.Hex(),
		Owner:     record.Owner.String(),
		CreatedAt: uint64(record.CreatedAt),
	}
}

// parseProof decodes the wire form. Length bounds are the service's
// concern; the handler only rejects what cannot be decoded at all.
func parseProof(s string) (claim.Proof, error) {
	if s == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "proof is required")
	}
	proof, err := claim.ParseProof(s)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "proof must be hex encoded")
	}
	return proof, nil
}

func parseNewOwner(s string) (domain.AccountID, error) {
	id, err := domain.ParseAccountID(s)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid new_owner")
	}
	return id, nil
}
