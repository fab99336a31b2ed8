// Package testlog provides an in-process transparency log and witness
// double for exercising the submission client without a network.
package testlog

import (
	"context"
	"fmt"
	"sync"

	"github.com/tabbyrobin/sigsum/crypto"
	"github.com/tabbyrobin/sigsum/key"
	"github.com/tabbyrobin/sigsum/merkle"
	"github.com/tabbyrobin/sigsum/policy"
	"github.com/tabbyrobin/sigsum/proof"
	"github.com/tabbyrobin/sigsum/submit"
	"github.com/tabbyrobin/sigsum/token"
)

// Log is a deterministic in-memory transparency log implementing
// submit.Transport. Leaves are sequenced on the AddLeaf call after
// PendingRounds resubmissions, and every tree head is signed with the
// log's key and cosigned by the attached witnesses.
type Log struct {
	mu sync.Mutex

	keys      *key.KeyPair
	leaves    []crypto.Hash
	indexOf   map[crypto.Hash]uint64
	pending   map[crypto.Hash]int
	witnesses []*Witness

	// PendingRounds is how many AddLeaf calls return unsequenced
	// before a leaf is admitted to the tree. Zero sequences at once.
	PendingRounds int

	// RequireToken, when set, rejects AddLeaf calls whose submit
	// token is missing or does not verify against this key.
	RequireToken *crypto.PublicKey

	// AddLeafErr, when set, is returned by every AddLeaf call.
	AddLeafErr error

	// Timestamp is the cosignature timestamp witnesses report.
	Timestamp uint64
}

// New creates a log with a fresh key pair.
func New() (*Log, error) {
	keys, err := key.Generate()
	if err != nil {
		return nil, err
	}
	return &Log{
		keys:      keys,
		indexOf:   make(map[crypto.Hash]uint64),
		pending:   make(map[crypto.Hash]int),
		Timestamp: 1700000000,
	}, nil
}

// treeAt rebuilds the Merkle tree over the first size leaves, so proofs
// stay consistent with the tree head they were requested for even when
// leaves were appended in between.
func (l *Log) treeAt(size uint64) *merkle.Tree {
	tree := merkle.NewTree()
	for _, leaf := range l.leaves[:size] {
		tree.AddLeaf(leaf)
	}
	return tree
}

// PublicKey returns the log's signing key.
func (l *Log) PublicKey() crypto.PublicKey {
	return l.keys.Public()
}

// KeyHash returns the SHA-256 fingerprint of the log's signing key.
func (l *Log) KeyHash() crypto.Hash {
	return key.PublicKeyHash(l.keys.Public())
}

// AttachWitness registers a witness whose cosignature is attached to
// every tree head the log serves.
func (l *Log) AttachWitness(w *Witness) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.witnesses = append(l.witnesses, w)
}

// AddLeaf implements submit.Transport.
func (l *Log) AddLeaf(ctx context.Context, req submit.Request, header *token.SubmitHeader) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.AddLeafErr != nil {
		return false, l.AddLeafErr
	}
	if l.RequireToken != nil {
		if header == nil {
			return false, fmt.Errorf("%w: submit token required", submit.ErrRateLimited)
		}
		if err := token.Verify(header, l.keys.Public(), *l.RequireToken); err != nil {
			return false, fmt.Errorf("%w: %v", submit.ErrRateLimited, err)
		}
	}
	if !req.Verify() {
		return false, fmt.Errorf("%w: bad leaf signature", submit.ErrRejected)
	}

	leafHash := req.LeafHash()
	if _, ok := l.indexOf[leafHash]; ok {
		return true, nil
	}
	if l.pending[leafHash] < l.PendingRounds {
		l.pending[leafHash]++
		return false, nil
	}
	delete(l.pending, leafHash)
	l.indexOf[leafHash] = uint64(len(l.leaves))
	l.leaves = append(l.leaves, leafHash)
	return true, nil
}

// GetTreeHead implements submit.Transport.
func (l *Log) GetTreeHead(ctx context.Context) (proof.CosignedTreeHead, error) {
	if err := ctx.Err(); err != nil {
		return proof.CosignedTreeHead{}, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	tree := l.treeAt(uint64(len(l.leaves)))
	th := proof.TreeHead{Size: tree.Size(), RootHash: tree.Root()}
	sth, err := th.Sign(l.keys.Signer())
	if err != nil {
		return proof.CosignedTreeHead{}, err
	}
	cth := proof.CosignedTreeHead{SignedTreeHead: sth}
	logKeyHash := key.PublicKeyHash(l.keys.Public())
	for _, w := range l.witnesses {
		cs, err := w.cosign(logKeyHash, th, l.Timestamp)
		if err != nil {
			continue
		}
		cth.Cosignatures = append(cth.Cosignatures, cs)
	}
	return cth, nil
}

// GetInclusionProof implements submit.Transport.
func (l *Log) GetInclusionProof(ctx context.Context, size uint64, leafHash crypto.Hash) (proof.InclusionProof, error) {
	if err := ctx.Err(); err != nil {
		return proof.InclusionProof{}, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	index, ok := l.indexOf[leafHash]
	if !ok || index >= size || size > uint64(len(l.leaves)) {
		return proof.InclusionProof{}, submit.ErrNotIncluded
	}
	path, err := l.treeAt(size).InclusionPath(index)
	if err != nil {
		return proof.InclusionProof{}, err
	}
	return proof.InclusionProof{LeafIndex: index, Path: path}, nil
}

// Witness is an in-memory cosigning witness implementing
// submit.WitnessTransport for itself.
type Witness struct {
	keys *key.KeyPair

	// Silent stops the witness from cosigning, both when attached to
	// a log and when contacted directly.
	Silent bool

	// Timestamp is the cosignature timestamp for direct requests.
	Timestamp uint64
}

// NewWitness creates a witness with a fresh key pair.
func NewWitness() (*Witness, error) {
	keys, err := key.Generate()
	if err != nil {
		return nil, err
	}
	return &Witness{keys: keys, Timestamp: 1700000000}, nil
}

// PublicKey returns the witness's signing key.
func (w *Witness) PublicKey() crypto.PublicKey {
	return w.keys.Public()
}

// KeyHash returns the SHA-256 fingerprint of the witness's signing key.
func (w *Witness) KeyHash() crypto.Hash {
	return key.PublicKeyHash(w.keys.Public())
}

func (w *Witness) cosign(logKeyHash crypto.Hash, th proof.TreeHead, timestamp uint64) (proof.Cosignature, error) {
	if w.Silent {
		return proof.Cosignature{}, fmt.Errorf("witness is silent")
	}
	return th.Cosign(w.keys.Signer(), logKeyHash, timestamp)
}

// AddTreeHead implements submit.WitnessTransport. The witness set is a
// single witness; requests addressed to any other entity fail.
func (w *Witness) AddTreeHead(ctx context.Context, witness policy.Entity, logKeyHash crypto.Hash, sth proof.SignedTreeHead) (proof.Cosignature, error) {
	if err := ctx.Err(); err != nil {
		return proof.Cosignature{}, err
	}
	if witness.KeyHash != w.KeyHash() {
		return proof.Cosignature{}, fmt.Errorf("unknown witness %s", witness.Name)
	}
	return w.cosign(logKeyHash, sth.TreeHead, w.Timestamp)
}

// WitnessSet routes submit.WitnessTransport requests to the matching
// witness by key hash.
type WitnessSet struct {
	Members []*Witness
}

// AddTreeHead implements submit.WitnessTransport.
func (s *WitnessSet) AddTreeHead(ctx context.Context, witness policy.Entity, logKeyHash crypto.Hash, sth proof.SignedTreeHead) (proof.Cosignature, error) {
	for _, w := range s.Members {
		if w.KeyHash() == witness.KeyHash {
			return w.AddTreeHead(ctx, witness, logKeyHash, sth)
		}
	}
	return proof.Cosignature{}, fmt.Errorf("unknown witness %s", witness.Name)
}
