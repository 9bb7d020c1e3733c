package claim_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"proofmark/internal/claim"
	dErrors "proofmark/pkg/domain-errors"
)

func TestParseProof(t *testing.T) {
	t.Run("hex round-trips", func(t *testing.T) {
		proof, err := claim.ParseProof("deadbeef")
		require.NoError(t, err)
		assert.True(t, bytes.Equal([]byte{0xde, 0xad, 0xbe, 0xef}, proof))
		assert.Equal(t, "deadbeef", proof.Hex())
	})

	t.Run("non-hex input is rejected", func(t *testing.T) {
		_, err := claim.ParseProof("not-hex!")
		assert.Error(t, err)
	})
}

func TestProofValidate(t *testing.T) {
	t.Run("proof within bound passes", func(t *testing.T) {
		proof := claim.Proof(bytes.Repeat([]byte{0xab}, 32))
		assert.NoError(t, proof.Validate(32))
	})

	t.Run("empty proof is rejected", func(t *testing.T) {
		err := claim.Proof(nil).Validate(32)
		require.Error(t, err)
		assert.True(t, dErrors.Is(err, dErrors.CodeBadRequest))
	})

	t.Run("oversize proof is rejected", func(t *testing.T) {
		proof := claim.Proof(bytes.Repeat([]byte{0xab}, 33))
		err := proof.Validate(32)
		require.Error(t, err)
		assert.True(t, dErrors.Is(err, dErrors.CodeBadRequest))
	})
}

func TestDomainErrors(t *testing.T) {
	assert.True(t, dErrors.Is(claim.ErrProofAlreadyClaimed(), dErrors.CodeProofAlreadyClaimed))
	assert.True(t, dErrors.Is(claim.ErrNoSuchProof(), dErrors.CodeNoSuchProof))
	assert.True(t, dErrors.Is(claim.ErrNotProofOwner(), dErrors.CodeNotProofOwner))
}
