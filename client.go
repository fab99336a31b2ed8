package sigsum

import (
	"context"
	"errors"
	"log/slog"

	"github.com/tabbyrobin/sigsum/crypto"
	"github.com/tabbyrobin/sigsum/policy"
	"github.com/tabbyrobin/sigsum/submit"
)

// Client couples a submitter key with a trust policy: it signs
// checksums into add-leaf requests, submits them to the policy's log,
// and verifies proofs against the policy.
//
// A Client is safe for concurrent use.
type Client struct {
	signer crypto.Signer
	pol    *policy.Policy
	logger *slog.Logger

	submitOpts []submit.Option
	submitter  *submit.Client
}

// New creates a client that submits under signer's key and trusts the
// logs, witnesses and quorum that pol declares.
func New(pol *Policy, signer Signer, opts ...Option) (*Client, error) {
	if pol == nil {
		return nil, errors.New("sigsum: nil policy")
	}
	if signer == nil {
		return nil, errors.New("sigsum: nil signer")
	}
	c := &Client{signer: signer, pol: pol}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if c.logger != nil {
		c.submitOpts = append(c.submitOpts, submit.WithLogger(c.logger))
	}
	submitter, err := submit.New(pol, c.submitOpts...)
	if err != nil {
		return nil, err
	}
	c.submitter = submitter
	return c, nil
}

// PublicKey returns the submitter public key proofs verify against.
func (c *Client) PublicKey() PublicKey {
	return c.signer.Public()
}

// Submit signs each checksum into an add-leaf request and submits the
// batch. Results match the input order one-to-one, and a failing
// checksum never discards its siblings' proofs.
func (c *Client) Submit(ctx context.Context, checksums []Hash) ([]Result, error) {
	reqs, err := submit.Prepare(c.signer, checksums)
	if err != nil {
		return nil, err
	}
	return c.submitter.Submit(ctx, reqs), nil
}

// SubmitMessages hashes each message with SHA-256 and submits the
// checksums. It is byte-for-byte equivalent to hashing the messages
// yourself and calling Submit.
func (c *Client) SubmitMessages(ctx context.Context, messages [][]byte) ([]Result, error) {
	reqs, err := submit.PrepareMessages(c.signer, messages)
	if err != nil {
		return nil, err
	}
	return c.submitter.Submit(ctx, reqs), nil
}

// SubmitChecksum submits a single checksum and returns its proof.
func (c *Client) SubmitChecksum(ctx context.Context, checksum Hash) (*Proof, error) {
	results, err := c.Submit(ctx, []Hash{checksum})
	if err != nil {
		return nil, err
	}
	if results[0].Err != nil {
		return nil, results[0].Err
	}
	return results[0].Proof, nil
}

// SubmitMessage hashes message with SHA-256, submits the checksum and
// returns its proof.
func (c *Client) SubmitMessage(ctx context.Context, message []byte) (*Proof, error) {
	return c.SubmitChecksum(ctx, Checksum(message))
}

// Verify reports whether p proves that checksum was logged under the
// client's key, to the standard of the client's trust policy. It is
// local and total: no network access, and malformed proofs report
// false.
func (c *Client) Verify(p *Proof, checksum Hash) bool {
	return p.Verify(c.signer.Public(), checksum, c.pol)
}

// VerifyMessage hashes message with SHA-256 and verifies p for the
// resulting checksum.
func (c *Client) VerifyMessage(p *Proof, message []byte) bool {
	return c.Verify(p, Checksum(message))
}
