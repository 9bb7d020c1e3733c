package domainerrors_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	dErrors "proofmark/pkg/domain-errors"
)

func TestCodeOf(t *testing.T) {
	t.Run("coded error reports its code", func(t *testing.T) {
		err := dErrors.New(dErrors.CodeNoSuchProof, "nope")
		assert.Equal(t, dErrors.CodeNoSuchProof, dErrors.CodeOf(err))
		assert.True(t, dErrors.Is(err, dErrors.CodeNoSuchProof))
	})

	t.Run("wrapped cause stays reachable", func(t *testing.T) {
		cause := errors.New("disk on fire")
		err := dErrors.Wrap(cause, dErrors.CodeInternal, "store failed")
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, dErrors.CodeInternal, dErrors.CodeOf(err))
	})

	t.Run("uncoded error defaults to internal", func(t *testing.T) {
		assert.Equal(t, dErrors.CodeInternal, dErrors.CodeOf(errors.New("anything")))
	})

	t.Run("wrapping nil returns nil", func(t *testing.T) {
		assert.Nil(t, dErrors.Wrap(nil, dErrors.CodeInternal, "no-op"))
	})
}

func TestToHTTPStatus(t *testing.T) {
	cases := map[dErrors.Code]int{
		dErrors.CodeProofAlreadyClaimed: http.StatusConflict,
		dErrors.CodeNoSuchProof:         http.StatusNotFound,
		dErrors.CodeNotProofOwner:       http.StatusForbidden,
		dErrors.CodeBadRequest:          http.StatusBadRequest,
		dErrors.CodeUnauthorized:        http.StatusUnauthorized,
		dErrors.CodeUnavailable:         http.StatusServiceUnavailable,
		dErrors.CodeInvariantViolation:  http.StatusInternalServerError,
		dErrors.CodeInternal:            http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, dErrors.ToHTTPStatus(code), "code %s", code)
	}
}
