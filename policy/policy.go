// Package policy parses and evaluates trust policies: the set of logs
// and witnesses a client trusts, and the quorum rule proofs must
// satisfy.
//
// A policy is a line-oriented text document. Blank lines and lines
// starting with '#' are ignored; record order is irrelevant except that
// exactly one quorum record must name a declared witness or group:
//
//	log     <public-key-hex> [url]
//	witness <name> <public-key-hex> [url]
//	group   <name> <any|all|k> <member>...
//	quorum  <name|none>
package policy

import (
	"errors"

	"github.com/tabbyrobin/sigsum/crypto"
)

// Sentinel errors for policy handling.
var (
	// ErrParse is returned for malformed policy syntax.
	ErrParse = errors.New("policy: parse error")

	// ErrReference is returned when a quorum or group references an
	// undeclared witness or group, or when group references form a cycle.
	ErrReference = errors.New("policy: undefined reference")
)

// Entity is a trusted party declared by a policy: a log or a witness.
type Entity struct {
	// Name is the witness's declared name; empty for logs.
	Name string

	// PublicKey is the party's Ed25519 public key.
	PublicKey crypto.PublicKey

	// KeyHash is the SHA-256 fingerprint of PublicKey.
	KeyHash crypto.Hash

	// URL is the party's endpoint, if declared.
	URL string
}

// Policy is a parsed trust policy. It is immutable after Parse and safe
// for concurrent use.
type Policy struct {
	logs      []Entity
	witnesses []Entity
	byHash    map[crypto.Hash]Entity
	quorum    Quorum
}

// Logs returns the trusted logs in declaration order.
func (p *Policy) Logs() []Entity {
	return p.logs
}

// Log looks up a trusted log by its key hash.
func (p *Policy) Log(keyHash crypto.Hash) (Entity, bool) {
	for _, l := range p.logs {
		if l.KeyHash == keyHash {
			return l, true
		}
	}
	return Entity{}, false
}

// SubmitLog returns the first log with a declared endpoint.
func (p *Policy) SubmitLog() (Entity, error) {
	for _, l := range p.logs {
		if l.URL != "" {
			return l, nil
		}
	}
	return Entity{}, errors.New("policy: no log with an endpoint")
}

// Witnesses returns the trusted witnesses in declaration order.
func (p *Policy) Witnesses() []Entity {
	return p.witnesses
}

// Witness looks up a trusted witness by its key hash.
func (p *Policy) Witness(keyHash crypto.Hash) (Entity, bool) {
	w, ok := p.byHash[keyHash]
	return w, ok
}

// Quorum returns the policy's quorum expression.
func (p *Policy) Quorum() Quorum {
	return p.quorum
}

// QuorumSatisfied reports whether the set of witnesses that cosigned,
// keyed by key hash, satisfies the policy's quorum expression.
func (p *Policy) QuorumSatisfied(cosigned map[crypto.Hash]bool) bool {
	return p.quorum.IsSatisfied(cosigned)
}
