// Package domain holds the primitive identifier types shared across the
// registry. Construct them via the Parse functions at trust boundaries;
// direct casting bypasses validation.
package domain

import (
	"fmt"
	"strings"
)

// MaxAccountIDLength bounds account identifiers. Hosts supply opaque
// identities (addresses, subject claims); 256 is generous for any of them.
const MaxAccountIDLength = 256

// AccountID identifies an authenticated caller. The registry never
// interprets it beyond equality.
type AccountID string

// ParseAccountID validates and returns an AccountID.
func ParseAccountID(s string) (AccountID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("account id cannot be empty")
	}
	if len(s) > MaxAccountIDLength {
		return "", fmt.Errorf("account id exceeds %d characters", MaxAccountIDLength)
	}
	return AccountID(s), nil
}

// String returns the string representation of the account ID.
func (a AccountID) String() string {
	return string(a)
}

// IsNil returns true if the account ID is empty.
func (a AccountID) IsNil() bool {
	return a == ""
}

// Height is a logical timestamp: a monotonically increasing sequence
// position assigned by the host's sequencer. The registry stores it as an
// opaque creation time and never reinterprets it.
type Height uint64
