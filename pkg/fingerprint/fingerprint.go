// Package fingerprint derives content fingerprints for submission to the
// claim registry. The registry itself treats proofs as opaque bytes; this
// package is the client-side convention for producing them, so callers never
// have to ship the content itself.
package fingerprint

import (
	"encoding/hex"
	"fmt"
	"io"

	"golang.org/x/crypto/blake2b"
)

// Size is the digest length in bytes. BLAKE2b-256 keeps proofs well under
// any reasonable MaxBytesInHash setting.
const Size = blake2b.Size256

// Sum returns the BLAKE2b-256 fingerprint of content.
func Sum(content []byte) []byte {
	sum := blake2b.Sum256(content)
	return sum[:]
}

// SumReader fingerprints a stream without buffering it in memory.
func SumReader(r io.Reader) ([]byte, error) {
	h, err := blake2b.New256(nil)
	if err != nil {
		return nil, fmt.Errorf("init blake2b: %w", err)
	}
	if _, err := io.Copy(h, r); err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}
	return h.Sum(nil), nil
}

// Hex returns the fingerprint of content in the hex form the HTTP API
// accepts.
func Hex(content []byte) string {
	return hex.EncodeToString(Sum(content))
}
