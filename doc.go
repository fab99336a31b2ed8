// Package sigsum is a client library for Sigsum transparency logs: it
// prepares signed add-leaf requests for SHA-256 checksums, submits them
// to a log, collects witness cosignatures until a trust policy's quorum
// is met, and verifies the resulting proof bundles offline.
//
// The root package is the high-level surface. A Client couples a
// submitter key with a trust policy:
//
//	pol, err := policy.ParseFile("trust_policy")
//	if err != nil { ... }
//
//	keys, err := key.Generate()
//	if err != nil { ... }
//
//	client, err := sigsum.New(pol, keys.Signer())
//	if err != nil { ... }
//
//	pr, err := client.SubmitMessage(ctx, []byte("hello"))
//	if err != nil { ... }
//
//	ok := client.VerifyMessage(pr, []byte("hello"))
//
// Proof verification is local and total: no network access, and
// malformed or untrusted proofs report false rather than panicking.
//
// The mechanics live in subpackages: key (key pairs and encodings),
// policy (trust policies and quorum rules), submit (request
// preparation and the submission state machine), proof (proof bundles
// and tree heads), token (rate-limit submit tokens), and merkle
// (tree hashing and inclusion verification). The root package
// re-exports the common types and errors so simple use needs no
// subpackage imports.
package sigsum
