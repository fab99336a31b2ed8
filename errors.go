package sigsum

import (
	"github.com/tabbyrobin/sigsum/key"
	"github.com/tabbyrobin/sigsum/policy"
	"github.com/tabbyrobin/sigsum/submit"
	"github.com/tabbyrobin/sigsum/token"
)

// Sentinel errors re-exported from the subpackages, so callers can
// match with errors.Is against a single import.
var (
	// ErrKeyGeneration is returned when generating an Ed25519 key
	// pair fails.
	ErrKeyGeneration = key.ErrKeyGeneration

	// ErrInvalidKey is returned for malformed key material: bad hex,
	// wrong length, or an unsupported key type.
	ErrInvalidKey = key.ErrInvalidKey

	// ErrPolicyParse is returned for malformed trust policy syntax.
	ErrPolicyParse = policy.ErrParse

	// ErrPolicyReference is returned when a policy's quorum or group
	// references an undeclared witness or group.
	ErrPolicyReference = policy.ErrReference

	// ErrSigning is returned when producing a signature fails.
	ErrSigning = submit.ErrSigning

	// ErrRateLimited is returned when the log refuses a submission
	// for rate-limiting reasons. Retrying without a submit token will
	// not succeed.
	ErrRateLimited = submit.ErrRateLimited

	// ErrSubmissionTimeout is returned when a submission's overall
	// deadline expires before the log sequences the leaf.
	ErrSubmissionTimeout = submit.ErrSubmissionTimeout

	// ErrQuorumUnsatisfied is returned when too few trusted witnesses
	// cosigned the tree head to satisfy the policy's quorum.
	ErrQuorumUnsatisfied = submit.ErrQuorumUnsatisfied

	// ErrTransport is returned for network-level failures talking to
	// the log or a witness.
	ErrTransport = submit.ErrTransport

	// ErrRejected is returned when the log permanently refuses a
	// request.
	ErrRejected = submit.ErrRejected

	// ErrInvalidToken is returned for malformed or unverifiable
	// submit tokens.
	ErrInvalidToken = token.ErrInvalidToken
)
