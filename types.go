package sigsum

import (
	"github.com/tabbyrobin/sigsum/crypto"
	"github.com/tabbyrobin/sigsum/key"
	"github.com/tabbyrobin/sigsum/policy"
	"github.com/tabbyrobin/sigsum/proof"
	"github.com/tabbyrobin/sigsum/submit"
)

// Aliases for the common types, so simple use of the root package
// needs no subpackage imports.
type (
	// Hash is a SHA-256 digest.
	Hash = crypto.Hash

	// PublicKey is an Ed25519 public key.
	PublicKey = crypto.PublicKey

	// Signature is an Ed25519 signature.
	Signature = crypto.Signature

	// Signer produces Ed25519 signatures.
	Signer = crypto.Signer

	// KeyPair is a submitter's Ed25519 key pair.
	KeyPair = key.KeyPair

	// Policy is a parsed trust policy.
	Policy = policy.Policy

	// Request is a signed add-leaf request.
	Request = submit.Request

	// Result is the per-request outcome of a batch submission.
	Result = submit.Result

	// Proof is a verifiable proof of logging.
	Proof = proof.Proof
)
