// Package merkle implements the tree hashing used by Sigsum logs:
// RFC 6962 style SHA-256 with distinct prefixes for leaf and interior
// nodes, plus verification of inclusion (audit) paths.
package merkle

import (
	"github.com/tabbyrobin/sigsum/crypto"
)

// Node prefixes, per RFC 6962.
const (
	prefixLeafNode     = 0x00
	prefixInteriorNode = 0x01
)

// maxPathLength bounds inclusion path sizes; a 64-level tree covers any
// uint64 leaf count.
const maxPathLength = 64

// HashLeafNode hashes a leaf's serialized content into a tree leaf hash.
func HashLeafNode(leaf []byte) crypto.Hash {
	buf := make([]byte, 0, 1+len(leaf))
	buf = append(buf, prefixLeafNode)
	buf = append(buf, leaf...)
	return crypto.HashBytes(buf)
}

// HashInteriorNode hashes the concatenation of two child hashes.
func HashInteriorNode(left, right crypto.Hash) crypto.Hash {
	var buf [1 + 2*crypto.HashSize]byte
	buf[0] = prefixInteriorNode
	copy(buf[1:], left[:])
	copy(buf[1+crypto.HashSize:], right[:])
	return crypto.HashBytes(buf[:])
}

// VerifyInclusion reports whether path proves that leafHash is the leaf
// at index in a tree of the given size with the given root. It is total:
// malformed inputs (index out of range, wrong path length) yield false.
//
// The reduction follows the standard audit-path algorithm: siblings are
// combined bottom-up, with ordering decided by the parity of the leaf
// index at each level.
func VerifyInclusion(leafHash crypto.Hash, index, size uint64, path []crypto.Hash, root crypto.Hash) bool {
	if size == 0 || index >= size {
		return false
	}
	if len(path) > maxPathLength {
		return false
	}

	fn := index
	sn := size - 1
	r := leafHash
	for _, sibling := range path {
		if sn == 0 {
			return false
		}
		if fn%2 == 1 || fn == sn {
			r = HashInteriorNode(sibling, r)
			if fn%2 == 0 {
				for fn%2 == 0 && fn != 0 {
					fn >>= 1
					sn >>= 1
				}
			}
		} else {
			r = HashInteriorNode(r, sibling)
		}
		fn >>= 1
		sn >>= 1
	}
	return sn == 0 && r == root
}
