package sigsum

import (
	"fmt"

	"github.com/opencontainers/go-digest"

	"github.com/tabbyrobin/sigsum/crypto"
)

// Checksum computes the SHA-256 checksum of data. This is the value a
// submission logs and a proof later verifies.
func Checksum(data []byte) Hash {
	return crypto.HashBytes(data)
}

// ParseChecksum parses a checksum from either bare hex
// ("50d858e0...") or digest notation ("sha256:50d858e0...").
// Only SHA-256 digests are accepted.
func ParseChecksum(s string) (Hash, error) {
	if h, err := crypto.HashFromHex(s); err == nil {
		return h, nil
	}
	d, err := digest.Parse(s)
	if err != nil {
		return Hash{}, fmt.Errorf("sigsum: invalid checksum %q: %w", s, err)
	}
	if d.Algorithm() != digest.SHA256 {
		return Hash{}, fmt.Errorf("sigsum: unsupported checksum algorithm %q", d.Algorithm())
	}
	return crypto.HashFromHex(d.Encoded())
}
