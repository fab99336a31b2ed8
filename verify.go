package sigsum

import (
	"github.com/tabbyrobin/sigsum/proof"
)

// ParseProof decodes a proof bundle from its stable ASCII form, as
// produced by Proof.Marshal.
func ParseProof(b []byte) (*Proof, error) {
	return proof.ParseBytes(b)
}

// Verify reports whether p proves that checksum was logged under the
// submitter key, to the standard of pol. It is local and total:
// malformed or untrusted proofs report false, never a panic.
func Verify(p *Proof, submitter PublicKey, checksum Hash, pol *Policy) bool {
	if p == nil {
		return false
	}
	return p.Verify(submitter, checksum, pol)
}

// VerifyMessage hashes message with SHA-256 and verifies p for the
// resulting checksum.
func VerifyMessage(p *Proof, submitter PublicKey, message []byte, pol *Policy) bool {
	return Verify(p, submitter, Checksum(message), pol)
}
