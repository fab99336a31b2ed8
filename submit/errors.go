package submit

import "errors"

// Sentinel errors for request preparation and submission.
var (
	// ErrSigning is returned when the secret key is malformed or the
	// signing primitive fails.
	ErrSigning = errors.New("submit: signing failed")

	// ErrRateLimited is returned when the log enforces domain-based
	// rate limiting and the request carried no acceptable submit token.
	// It is fatal for the affected request; supply a token and retry.
	ErrRateLimited = errors.New("submit: rate limited by log")

	// ErrSubmissionTimeout is returned when a leaf was not sequenced
	// and proven within the submission deadline.
	ErrSubmissionTimeout = errors.New("submit: submission deadline exceeded")

	// ErrQuorumUnsatisfied is returned when too few witnesses
	// cosigned the tree head to satisfy the policy's quorum.
	ErrQuorumUnsatisfied = errors.New("submit: witness quorum unsatisfied")

	// ErrTransport is returned for network and server failures from
	// the log transport; such failures are retried until the
	// submission deadline.
	ErrTransport = errors.New("submit: transport failure")

	// ErrRejected is returned when the log rejects a request as
	// invalid. Unlike ErrTransport, rejection is not retried.
	ErrRejected = errors.New("submit: request rejected by log")

	// ErrNotIncluded is returned by the log transport when the leaf is
	// not (yet) included under the requested tree head.
	ErrNotIncluded = errors.New("submit: leaf not included in tree")
)
