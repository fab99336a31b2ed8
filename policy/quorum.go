package policy

import (
	"github.com/tabbyrobin/sigsum/crypto"
)

// Quorum is a boolean expression over the set of witnesses that
// cosigned a tree head. Evaluation is deterministic and monotonic:
// adding a cosigning witness can only turn an unsatisfied quorum into a
// satisfied one, never the reverse.
type Quorum interface {
	IsSatisfied(cosigned map[crypto.Hash]bool) bool
}

// quorumNone requires no cosignatures at all.
type quorumNone struct{}

func (quorumNone) IsSatisfied(map[crypto.Hash]bool) bool {
	return true
}

// quorumWitness requires a cosignature from one specific witness.
type quorumWitness struct {
	keyHash crypto.Hash
}

func (q quorumWitness) IsSatisfied(cosigned map[crypto.Hash]bool) bool {
	return cosigned[q.keyHash]
}

// quorumThreshold requires at least k of its members to be satisfied.
// ANY groups have k=1, ALL groups have k=len(members).
type quorumThreshold struct {
	k       int
	members []Quorum
}

func (q quorumThreshold) IsSatisfied(cosigned map[crypto.Hash]bool) bool {
	n := 0
	for _, m := range q.members {
		if m.IsSatisfied(cosigned) {
			n++
			if n >= q.k {
				return true
			}
		}
	}
	return n >= q.k
}
