package submit

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/sync/errgroup"

	"github.com/tabbyrobin/sigsum/crypto"
	"github.com/tabbyrobin/sigsum/merkle"
	"github.com/tabbyrobin/sigsum/policy"
	"github.com/tabbyrobin/sigsum/proof"
	"github.com/tabbyrobin/sigsum/token"
)

// Defaults for submission tuning.
const (
	DefaultWorkers         = 4
	DefaultTimeout         = 45 * time.Second
	DefaultPollInterval    = 1 * time.Second
	DefaultMaxPollInterval = 10 * time.Second
	DefaultWitnessTimeout  = 10 * time.Second
)

// errNotSequenced drives the polling loop: the log accepted the leaf
// but has not sequenced it yet.
var errNotSequenced = errors.New("submit: leaf not yet sequenced")

// Result is the outcome for one request in a batch: exactly one of
// Proof and Err is set.
type Result struct {
	Proof *proof.Proof
	Err   error
}

// Client submits prepared requests to the log named by a trust policy
// and assembles proof bundles.
//
// A Client is safe for concurrent use. Each request in a batch is
// driven by its own task with its own retry schedule; requests share
// only the read-only policy and configuration.
type Client struct {
	policy    *policy.Policy
	logEntity policy.Entity

	transport Transport
	witnesses WitnessTransport

	logger *slog.Logger

	workers         int
	timeout         time.Duration
	pollInterval    time.Duration
	maxPollInterval time.Duration
	witnessTimeout  time.Duration

	tokenSigner crypto.Signer
	tokenDomain string

	httpOpts []HTTPOption
}

// New creates a submission client for the given trust policy.
//
// Unless overridden with WithTransport, the log transport is an HTTP
// client for the first policy log that declares an endpoint.
func New(pol *policy.Policy, opts ...Option) (*Client, error) {
	if pol == nil {
		return nil, errors.New("submit: nil policy")
	}
	c := &Client{
		policy:          pol,
		workers:         DefaultWorkers,
		timeout:         DefaultTimeout,
		pollInterval:    DefaultPollInterval,
		maxPollInterval: DefaultMaxPollInterval,
		witnessTimeout:  DefaultWitnessTimeout,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	if c.transport == nil {
		logEntity, err := pol.SubmitLog()
		if err != nil {
			return nil, err
		}
		c.logEntity = logEntity
		c.transport = NewHTTPLog(logEntity.URL, c.httpOpts...)
	} else if c.logEntity == (policy.Entity{}) {
		logs := pol.Logs()
		if len(logs) == 0 {
			return nil, errors.New("submit: policy declares no logs")
		}
		c.logEntity = logs[0]
	}
	if c.witnesses == nil {
		c.witnesses = NewHTTPWitnesses(c.httpOpts...)
	}
	return c, nil
}

// log returns the logger, falling back to a discard logger if nil.
func (c *Client) log() *slog.Logger {
	if c.logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c.logger
}

// Submit sends each request to the log, polls until sequenced, collects
// witness cosignatures and assembles one proof bundle per request.
//
// Results match the input order one-to-one. Failures are isolated: one
// failing request never discards proofs already obtained for its
// siblings, and cancelling ctx still returns the results finished so
// far (the unfinished ones fail with the cancellation cause).
func (c *Client) Submit(ctx context.Context, reqs []Request) []Result {
	results := make([]Result, len(reqs))

	var header *token.SubmitHeader
	if c.tokenSigner != nil {
		var err error
		header, err = token.Create(c.tokenSigner, c.logEntity.PublicKey, c.tokenDomain)
		if err != nil {
			for i := range results {
				results[i] = Result{Err: err}
			}
			return results
		}
	}

	var eg errgroup.Group
	eg.SetLimit(c.workers)
	for i := range reqs {
		i := i
		eg.Go(func() error {
			results[i] = c.submitOne(ctx, header, reqs[i])
			return nil
		})
	}
	_ = eg.Wait()
	return results
}

// submitOne owns one request's state machine from UNSUBMITTED to
// PROOF_READY or FAILED.
func (c *Client) submitOne(ctx context.Context, header *token.SubmitHeader, req Request) Result {
	logger := c.log().With("leaf_hash", req.LeafHash().Hex())
	state := StateUnsubmitted
	setState := func(next State) {
		logger.Debug("submission state", "from", state.String(), "to", next.String())
		state = next
	}
	fail := func(err error) Result {
		setState(StateFailed)
		logger.Warn("submission failed", "error", err.Error())
		return Result{Err: err}
	}

	if !req.Verify() {
		return fail(fmt.Errorf("%w: request signature does not verify", ErrSigning))
	}

	sctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	// Send, then poll by resubmitting until the log reports the leaf
	// sequenced.
	setState(StateSent)
	err := c.retry(sctx, logger, &state, setState, func() error {
		sequenced, err := c.transport.AddLeaf(sctx, req, header)
		if err != nil {
			if errors.Is(err, ErrRateLimited) || errors.Is(err, ErrRejected) {
				return backoff.Permanent(err)
			}
			return err
		}
		if !sequenced {
			setState(StatePolling)
			return errNotSequenced
		}
		return nil
	})
	if err != nil {
		return fail(c.mapTimeout(ctx, err))
	}
	setState(StateSequenced)

	// Fetch the cosigned tree head and the leaf's inclusion proof;
	// the leaf may not be covered by a public tree head immediately.
	var cth proof.CosignedTreeHead
	var incl proof.InclusionProof
	leafHash := req.LeafHash()
	err = c.retry(sctx, logger, &state, setState, func() error {
		th, err := c.transport.GetTreeHead(sctx)
		if err != nil {
			if errors.Is(err, ErrRejected) {
				return backoff.Permanent(err)
			}
			return err
		}
		if !th.Verify(c.logEntity.PublicKey) {
			return backoff.Permanent(fmt.Errorf("%w: tree head signature does not verify", ErrRejected))
		}
		ip, err := c.transport.GetInclusionProof(sctx, th.Size, leafHash)
		if err != nil {
			if errors.Is(err, ErrRejected) {
				return backoff.Permanent(err)
			}
			return err
		}
		if !merkle.VerifyInclusion(leafHash, ip.LeafIndex, th.Size, ip.Path, th.RootHash) {
			return backoff.Permanent(fmt.Errorf("%w: inclusion proof does not verify", ErrRejected))
		}
		cth = th
		incl = ip
		return nil
	})
	if err != nil {
		return fail(c.mapTimeout(ctx, err))
	}

	setState(StateCosigning)
	cosigs, cosigned := c.collectCosignatures(sctx, logger, cth)
	if !c.policy.QuorumSatisfied(cosigned) {
		return fail(fmt.Errorf("%w: %d verified cosignatures", ErrQuorumUnsatisfied, len(cosigs)))
	}

	setState(StateProofReady)
	return Result{Proof: &proof.Proof{
		LogKeyHash: c.logEntity.KeyHash,
		TreeHead: proof.CosignedTreeHead{
			SignedTreeHead: cth.SignedTreeHead,
			Cosignatures:   cosigs,
		},
		Inclusion: incl,
	}}
}

// collectCosignatures verifies the cosignatures already attached to the
// tree head and, if the quorum is still short, asks the remaining
// policy witnesses directly. A witness that does not answer within its
// timeout is treated as absent, not as an error.
func (c *Client) collectCosignatures(ctx context.Context, logger *slog.Logger, cth proof.CosignedTreeHead) ([]proof.Cosignature, map[crypto.Hash]bool) {
	cosigned := make(map[crypto.Hash]bool)
	var cosigs []proof.Cosignature

	for _, cs := range cth.Cosignatures {
		witness, ok := c.policy.Witness(cs.KeyHash)
		if !ok {
			logger.Debug("ignoring cosignature from unlisted witness", "key_hash", cs.KeyHash.Hex())
			continue
		}
		if cosigned[cs.KeyHash] || !cs.Verify(witness.PublicKey, c.logEntity.KeyHash, cth.TreeHead) {
			continue
		}
		cosigned[cs.KeyHash] = true
		cosigs = append(cosigs, cs)
	}
	if c.policy.QuorumSatisfied(cosigned) {
		return cosigs, cosigned
	}

	for _, witness := range c.policy.Witnesses() {
		if cosigned[witness.KeyHash] || witness.URL == "" {
			continue
		}
		wctx, cancel := context.WithTimeout(ctx, c.witnessTimeout)
		cs, err := c.witnesses.AddTreeHead(wctx, witness, c.logEntity.KeyHash, cth.SignedTreeHead)
		cancel()
		if err != nil {
			logger.Debug("witness did not cosign", "witness", witness.Name, "error", err.Error())
			continue
		}
		if cs.KeyHash != witness.KeyHash || !cs.Verify(witness.PublicKey, c.logEntity.KeyHash, cth.TreeHead) {
			logger.Debug("discarding invalid cosignature", "witness", witness.Name)
			continue
		}
		cosigned[witness.KeyHash] = true
		cosigs = append(cosigs, cs)
	}
	return cosigs, cosigned
}

// retry runs op under bounded exponential backoff with jitter until it
// succeeds, fails permanently, or ctx expires.
func (c *Client) retry(ctx context.Context, logger *slog.Logger, state *State, setState func(State), op func() error) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.pollInterval
	bo.MaxInterval = c.maxPollInterval
	bo.MaxElapsedTime = 0 // the context's deadline bounds the loop

	resume := StateUnsubmitted
	return backoff.RetryNotify(op, backoff.WithContext(bo, ctx),
		func(err error, delay time.Duration) {
			resume = *state
			setState(StateRetryWait)
			logger.Debug("retrying", "delay", delay.String(), "cause", err.Error())
			setState(resume)
		})
}

// mapTimeout translates a retry-loop failure into the error reported
// for the request: an exhausted deadline becomes ErrSubmissionTimeout
// unless the whole batch was cancelled.
func (c *Client) mapTimeout(parent context.Context, err error) error {
	switch {
	case errors.Is(err, ErrRateLimited),
		errors.Is(err, ErrRejected),
		errors.Is(err, ErrQuorumUnsatisfied):
		return err
	case parent.Err() != nil:
		return parent.Err()
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%w: %v", ErrSubmissionTimeout, err)
	case errors.Is(err, errNotSequenced):
		return fmt.Errorf("%w: %v", ErrSubmissionTimeout, err)
	default:
		return err
	}
}
