// Package submit prepares signed add-leaf requests and drives their
// submission to a Sigsum log: send, poll for sequencing, fetch the
// inclusion proof, collect witness cosignatures, and assemble the
// final proof bundle.
package submit

import (
	"bytes"
	"fmt"
	"io"

	"github.com/tabbyrobin/sigsum/crypto"
	"github.com/tabbyrobin/sigsum/internal/ascii"
	"github.com/tabbyrobin/sigsum/proof"
)

// leafNodeTag is the tag byte opening the canonical leaf preimage.
const leafNodeTag = 0x00

/// Request is a signed, unsubmitted claim about a checksum: the add-leaf
// request sent to the log.
type Request struct {
	// Checksum is the SHA-256 digest being logged.
	Checksum crypto.Hash

	// Signature is the submitter's signature over the canonical leaf
	// preimage of Checksum.
	Signature crypto.Signature

	// PublicKey is the submitter's public key.
	PublicKey crypto.PublicKey
}

// signedChecksumData is the canonical leaf preimage: the leaf node tag
// followed by the checksum. Both submission modes sign exactly these
// bytes, which is what makes them byte-identical.
func signedChecksumData(checksum crypto.Hash) []byte {
	return append([]byte{leafNodeTag}, checksum[:]...)
}

// Prepare creates and signs one add-leaf request per checksum, entirely
// locally. Output order matches input order, one-to-one.
func Prepare(signer crypto.Signer, checksums []crypto.Hash) ([]Request, error) {
	reqs := make([]Request, 0, len(checksums))
	pub := signer.Public()
	for _, checksum := range checksums {
		sig, err := signer.Sign(signedChecksumData(checksum))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSigning, err)
		}
		reqs = append(reqs, Request{Checksum: checksum, Signature: sig, PublicKey: pub})
	}
	return reqs, nil
}

// PrepareMessages hashes each message with SHA-256 and signs the
// resulting checksums. For any message m, PrepareMessages(s, [m])
// produces a request byte-identical to Prepare(s, [SHA-256(m)]).
func PrepareMessages(signer crypto.Signer, messages [][]byte) ([]Request, error) {
	checksums := make([]crypto.Hash, 0, len(messages))
	for _, msg := range messages {
		checksums = append(checksums, crypto.HashBytes(msg))
	}
	return Prepare(signer, checksums)
}

// Verify reports whether the request's signature is valid for its
// embedded checksum and public key. Submission refuses requests that
// fail this check.
func (r *Request) Verify() bool {
	return crypto.Verify(r.PublicKey, signedChecksumData(r.Checksum), r.Signature)
}

// KeyHash returns the submitter's public key hash.
func (r *Request) KeyHash() crypto.Hash {
	return crypto.HashBytes(r.PublicKey[:])
}

// LeafHash returns the Merkle leaf hash the log assigns to this request.
func (r *Request) LeafHash() crypto.Hash {
	return proof.LeafHash(r.Checksum, r.KeyHash())
}

// Marshal serializes the request in its stable ASCII form, which is
// also the add-leaf POST body.
func (r *Request) Marshal() []byte {
	var buf bytes.Buffer
	w := ascii.NewWriter(&buf)
	w.Line("message", r.Checksum.Hex())
	w.Line("signature", r.Signature.Hex())
	w.Line("public_key", r.PublicKey.Hex())
	return buf.Bytes()
}

// String returns the ASCII serialization.
func (r *Request) String() string {
	return string(r.Marshal())
}

// ParseRequest decodes a request from its ASCII form.
func ParseRequest(rd io.Reader) (*Request, error) {
	lines, err := ascii.Parse(rd)
	if err != nil {
		return nil, fmt.Errorf("submit: %w", err)
	}
	var r Request
	seen := make(map[string]bool)
	for _, line := range lines {
		if seen[line.Key] {
			return nil, fmt.Errorf("submit: duplicate %q record", line.Key)
		}
		seen[line.Key] = true
		switch line.Key {
		case "message":
			r.Checksum, err = crypto.HashFromHex(line.Value)
		case "signature":
			r.Signature, err = crypto.SignatureFromHex(line.Value)
		case "public_key":
			r.PublicKey, err = crypto.PublicKeyFromHex(line.Value)
		default:
			return nil, fmt.Errorf("submit: unknown record %q", line.Key)
		}
		if err != nil {
			return nil, fmt.Errorf("submit: %w", err)
		}
	}
	for _, required := range []string{"message", "signature", "public_key"} {
		if !seen[required] {
			return nil, fmt.Errorf("submit: missing %q record", required)
		}
	}
	return &r, nil
}

// ParseRequestBytes decodes a request from a byte slice.
func ParseRequestBytes(b []byte) (*Request, error) {
	return ParseRequest(bytes.NewReader(b))
}
