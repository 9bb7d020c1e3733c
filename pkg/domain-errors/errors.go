// Package domainerrors provides coded errors for domain and service layers.
// Stores return sentinel errors (pkg/platform/sentinel); services translate
// them into coded errors here so transports can map codes to status lines
// without inspecting error strings.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies a domain error. Codes are stable API: they appear in HTTP
// error envelopes and in emitted logs.
type Code string

const (
	// CodeProofAlreadyClaimed - create attempted on a proof that already has
	// a record. The caller must wait for the owner to revoke.
	CodeProofAlreadyClaimed Code = "proof_already_claimed"
	// CodeNoSuchProof - transfer/revoke attempted on a proof with no record.
	CodeNoSuchProof Code = "no_such_proof"
	// CodeNotProofOwner - transfer/revoke attempted by an identity that is
	// not the current owner.
	CodeNotProofOwner Code = "not_proof_owner"

	CodeBadRequest         Code = "bad_request"
	CodeUnauthorized       Code = "unauthorized"
	CodeNotFound           Code = "not_found"
	CodeConflict           Code = "conflict"
	CodeInvariantViolation Code = "invariant_violation"
	CodeUnavailable        Code = "unavailable"
	CodeInternal           Code = "internal"
)

// Error is a coded domain error. It optionally wraps a cause so callers can
// still errors.Is/As through it.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a coded error without a cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap annotates a cause with a code and message. A nil cause returns nil so
// call sites can wrap unconditionally.
func Wrap(err error, code Code, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, Err: err}
}

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, code Code) bool {
	return CodeOf(err) == code
}

// CodeOf extracts the code from an error chain, or CodeInternal when the
// error is not a coded one.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a code to its HTTP status. Unknown codes map to 500 so a
// missed mapping fails loud in dashboards rather than leaking a 200.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeProofAlreadyClaimed, CodeConflict:
		return http.StatusConflict
	case CodeNoSuchProof, CodeNotFound:
		return http.StatusNotFound
	case CodeNotProofOwner:
		return http.StatusForbidden
	case CodeBadRequest:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
