// Package proof defines the proof-of-logging bundle a submitter
// collects from a log and its witnesses, and its local verification
// against a trust policy.
//
// A proof bundle carries the log's cosigned tree head, the leaf's
// inclusion path, and the witnesses' cosignatures. Verification is pure
// and total: it touches no network and returns false, never a fault,
// for any malformed or untrusted input.
package proof

import (
	"bytes"

	"github.com/tabbyrobin/sigsum/crypto"
	"github.com/tabbyrobin/sigsum/internal/ascii"
	"github.com/tabbyrobin/sigsum/merkle"
)

// Namespaces providing domain separation for the signatures in a proof.
const (
	NamespaceTreeHead    = "sigsum.org/v1/tree-head"
	NamespaceCosignature = "sigsum.org/v1/cosignature"
)

// TreeHead is a summary of a log's state: its size in leaves and the
// root hash over them.
type TreeHead struct {
	Size     uint64
	RootHash crypto.Hash
}

// SignedTreeHead is a tree head together with the log's signature over
// it.
type SignedTreeHead struct {
	TreeHead
	Signature crypto.Signature
}

// Cosignature is a witness's signature over a tree head, attesting that
// the witness observed that head for a given log.
type Cosignature struct {
	// KeyHash identifies the witness by its public key hash.
	KeyHash crypto.Hash

	// Timestamp is the witness's UNIX time at cosigning.
	Timestamp uint64

	Signature crypto.Signature
}

// CosignedTreeHead is a signed tree head with any number of witness
// cosignatures attached.
type CosignedTreeHead struct {
	SignedTreeHead
	Cosignatures []Cosignature
}

// InclusionProof proves a leaf's membership under a tree head: the
// leaf's index and the sibling hashes reducing it to the root.
type InclusionProof struct {
	LeafIndex uint64
	Path      []crypto.Hash
}

// Proof is the complete evidence that a leaf was logged and cosigned.
type Proof struct {
	// LogKeyHash identifies which log issued the tree head.
	LogKeyHash crypto.Hash

	TreeHead  CosignedTreeHead
	Inclusion InclusionProof
}

// LeafHash computes the Merkle leaf hash for a logged checksum: the
// leaf node tag followed by the checksum and the submitter's public key
// hash.
func LeafHash(checksum, submitterKeyHash crypto.Hash) crypto.Hash {
	leaf := make([]byte, 0, 2*crypto.HashSize)
	leaf = append(leaf, checksum[:]...)
	leaf = append(leaf, submitterKeyHash[:]...)
	return merkle.HashLeafNode(leaf)
}

// SignedData returns the bytes a log signs for this tree head.
func (th *TreeHead) SignedData() []byte {
	var buf bytes.Buffer
	buf.WriteString(NamespaceTreeHead)
	buf.WriteByte('\n')
	w := ascii.NewWriter(&buf)
	w.Uint64("size", th.Size)
	w.Line("root_hash", th.RootHash.Hex())
	return buf.Bytes()
}

// Sign produces the log's signature over the tree head.
func (th TreeHead) Sign(signer crypto.Signer) (SignedTreeHead, error) {
	sig, err := signer.Sign(th.SignedData())
	if err != nil {
		return SignedTreeHead{}, err
	}
	return SignedTreeHead{TreeHead: th, Signature: sig}, nil
}

// Verify reports whether the tree head carries a valid signature by the
// given log key.
func (sth *SignedTreeHead) Verify(logKey crypto.PublicKey) bool {
	return crypto.Verify(logKey, sth.SignedData(), sth.Signature)
}

// CosignedData returns the bytes a witness signs when cosigning a tree
// head issued by the log identified by logKeyHash.
func (th *TreeHead) CosignedData(logKeyHash crypto.Hash, timestamp uint64) []byte {
	var buf bytes.Buffer
	buf.WriteString(NamespaceCosignature)
	buf.WriteByte('\n')
	w := ascii.NewWriter(&buf)
	w.Uint64("timestamp", timestamp)
	w.Line("log", logKeyHash.Hex())
	w.Uint64("size", th.Size)
	w.Line("root_hash", th.RootHash.Hex())
	return buf.Bytes()
}

// Cosign produces a witness cosignature over the tree head.
func (th TreeHead) Cosign(signer crypto.Signer, logKeyHash crypto.Hash, timestamp uint64) (Cosignature, error) {
	sig, err := signer.Sign(th.CosignedData(logKeyHash, timestamp))
	if err != nil {
		return Cosignature{}, err
	}
	return Cosignature{
		KeyHash:   crypto.HashBytes(signerPublic(signer)),
		Timestamp: timestamp,
		Signature: sig,
	}, nil
}

// Verify reports whether the cosignature is a valid attestation of th
// by the witness holding witnessKey.
func (cs *Cosignature) Verify(witnessKey crypto.PublicKey, logKeyHash crypto.Hash, th TreeHead) bool {
	return crypto.Verify(witnessKey, th.CosignedData(logKeyHash, cs.Timestamp), cs.Signature)
}

func signerPublic(signer crypto.Signer) []byte {
	pub := signer.Public()
	return pub[:]
}
