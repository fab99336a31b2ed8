package proof

import (
	"github.com/tabbyrobin/sigsum/crypto"
	"github.com/tabbyrobin/sigsum/merkle"
	"github.com/tabbyrobin/sigsum/policy"
)

// Verify checks the proof against a trust policy, a submitter public
// key and the logged checksum:
//
//  1. the leaf hash recomputed from the checksum and submitter key hash
//     must reduce through the inclusion path to the tree head's root,
//  2. the tree head must carry a valid signature by a log the policy
//     trusts,
//  3. cosignatures are checked against the declared witness keys
//     (cosignatures from unlisted witnesses are ignored, and invalid
//     ones simply do not count), and
//  4. the set of witnesses with a valid cosignature must satisfy the
//     policy's quorum expression.
//
// An untrusted or malformed proof yields false; Verify never panics and
// performs no I/O. Rejection is an expected business outcome, not an
// error condition.
func (p *Proof) Verify(submitter crypto.PublicKey, checksum crypto.Hash, pol *policy.Policy) bool {
	if p == nil || pol == nil {
		return false
	}
	log, ok := pol.Log(p.LogKeyHash)
	if !ok {
		return false
	}

	leafHash := LeafHash(checksum, crypto.HashBytes(submitter[:]))
	th := p.TreeHead.TreeHead
	if !merkle.VerifyInclusion(leafHash, p.Inclusion.LeafIndex, th.Size, p.Inclusion.Path, th.RootHash) {
		return false
	}
	if !p.TreeHead.Verify(log.PublicKey) {
		return false
	}

	cosigned := make(map[crypto.Hash]bool)
	for _, cs := range p.TreeHead.Cosignatures {
		witness, ok := pol.Witness(cs.KeyHash)
		if !ok {
			continue
		}
		if cs.Verify(witness.PublicKey, log.KeyHash, th) {
			cosigned[cs.KeyHash] = true
		}
	}
	return pol.QuorumSatisfied(cosigned)
}
