package submit

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/tabbyrobin/sigsum/crypto"
	"github.com/tabbyrobin/sigsum/policy"
)

// Option configures a Client.
type Option func(*Client) error

// WithLogger sets the logger for submission progress. Without it the
// client is silent.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) error {
		c.logger = logger
		return nil
	}
}

// WithWorkers bounds how many requests of a batch are in flight at once.
func WithWorkers(n int) Option {
	return func(c *Client) error {
		if n < 1 {
			return errors.New("submit: workers must be at least 1")
		}
		c.workers = n
		return nil
	}
}

// WithSubmissionTimeout bounds how long a single request may spend in
// the submission state machine before it fails with ErrSubmissionTimeout.
func WithSubmissionTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return errors.New("submit: submission timeout must be positive")
		}
		c.timeout = d
		return nil
	}
}

// WithPollInterval sets the initial delay between polls of the log.
func WithPollInterval(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return errors.New("submit: poll interval must be positive")
		}
		c.pollInterval = d
		return nil
	}
}

// WithMaxPollInterval caps the delay the backoff schedule may grow to.
func WithMaxPollInterval(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return errors.New("submit: max poll interval must be positive")
		}
		c.maxPollInterval = d
		return nil
	}
}

// WithWitnessTimeout bounds each direct witness request. A witness that
// misses the deadline is skipped, it does not fail the submission.
func WithWitnessTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return errors.New("submit: witness timeout must be positive")
		}
		c.witnessTimeout = d
		return nil
	}
}

// WithHTTPClient sets the http.Client used for log and witness traffic.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		if hc == nil {
			return errors.New("submit: nil http client")
		}
		c.httpOpts = append(c.httpOpts, WithClient(hc))
		return nil
	}
}

// WithUserAgentString sets the User-Agent header on log and witness
// requests.
func WithUserAgentString(ua string) Option {
	return func(c *Client) error {
		c.httpOpts = append(c.httpOpts, WithUserAgent(ua))
		return nil
	}
}

// WithTransport replaces the log transport, primarily for tests. The
// log entity used for signature checks is the policy's submit log, or
// explicit via WithLogEntity.
func WithTransport(t Transport) Option {
	return func(c *Client) error {
		if t == nil {
			return errors.New("submit: nil transport")
		}
		c.transport = t
		return nil
	}
}

// WithWitnessTransport replaces the witness transport, primarily for
// tests.
func WithWitnessTransport(w WitnessTransport) Option {
	return func(c *Client) error {
		if w == nil {
			return errors.New("submit: nil witness transport")
		}
		c.witnesses = w
		return nil
	}
}

// WithLogEntity pins the log whose signatures the client checks. The
// default is the policy's submit log.
func WithLogEntity(e policy.Entity) Option {
	return func(c *Client) error {
		c.logEntity = e
		return nil
	}
}

// WithRateLimitToken attaches a submit token to every add-leaf request.
// The signer's public key must be published in DNS under domain.
func WithRateLimitToken(signer crypto.Signer, domain string) Option {
	return func(c *Client) error {
		if signer == nil {
			return errors.New("submit: nil token signer")
		}
		if domain == "" {
			return errors.New("submit: empty token domain")
		}
		c.tokenSigner = signer
		c.tokenDomain = domain
		return nil
	}
}
