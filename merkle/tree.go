package merkle

import (
	"fmt"

	"github.com/tabbyrobin/sigsum/crypto"
)

// Tree is a minimal in-memory Merkle tree over already-hashed leaves.
// It recomputes roots and inclusion paths on demand, which is adequate
// for the small trees used by test doubles and in-process logs.
type Tree struct {
	leaves []crypto.Hash
}

// NewTree returns an empty tree.
func NewTree() *Tree {
	return &Tree{}
}

// AddLeaf appends a leaf hash and returns its index.
func (t *Tree) AddLeaf(leafHash crypto.Hash) uint64 {
	t.leaves = append(t.leaves, leafHash)
	return uint64(len(t.leaves) - 1)
}

// Size returns the number of leaves.
func (t *Tree) Size() uint64 {
	return uint64(len(t.leaves))
}

// Root returns the tree head root hash. The empty tree hashes to
// SHA-256 of the empty string, per RFC 6962.
func (t *Tree) Root() crypto.Hash {
	return subtreeRoot(t.leaves)
}

// InclusionPath returns the audit path for the leaf at index, ordered
// bottom-up.
func (t *Tree) InclusionPath(index uint64) ([]crypto.Hash, error) {
	if index >= t.Size() {
		return nil, fmt.Errorf("merkle: index %d out of range for tree of size %d", index, t.Size())
	}
	return subtreePath(t.leaves, index), nil
}

func subtreeRoot(leaves []crypto.Hash) crypto.Hash {
	switch len(leaves) {
	case 0:
		return crypto.HashBytes(nil)
	case 1:
		return leaves[0]
	}
	k := splitPoint(len(leaves))
	return HashInteriorNode(subtreeRoot(leaves[:k]), subtreeRoot(leaves[k:]))
}

func subtreePath(leaves []crypto.Hash, index uint64) []crypto.Hash {
	if len(leaves) <= 1 {
		return nil
	}
	k := uint64(splitPoint(len(leaves)))
	if index < k {
		return append(subtreePath(leaves[:k], index), subtreeRoot(leaves[k:]))
	}
	return append(subtreePath(leaves[k:], index-k), subtreeRoot(leaves[:k]))
}

// splitPoint returns the largest power of two strictly less than n.
func splitPoint(n int) int {
	k := 1
	for k*2 < n {
		k *= 2
	}
	return k
}
