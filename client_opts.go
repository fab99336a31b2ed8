package sigsum

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/tabbyrobin/sigsum/submit"
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

// WithWorkers bounds how many requests of a batch are in flight at
// once. The default is submit.DefaultWorkers.
func WithWorkers(n int) Option {
	return forward(submit.WithWorkers(n))
}

// WithSubmissionTimeout bounds how long a single request may spend
// being submitted before it fails with ErrSubmissionTimeout.
func WithSubmissionTimeout(d time.Duration) Option {
	return forward(submit.WithSubmissionTimeout(d))
}

// WithPollInterval sets the initial delay between polls of the log.
func WithPollInterval(d time.Duration) Option {
	return forward(submit.WithPollInterval(d))
}

// WithMaxPollInterval caps the delay the poll schedule may grow to.
func WithMaxPollInterval(d time.Duration) Option {
	return forward(submit.WithMaxPollInterval(d))
}

// WithHTTPClient sets the http.Client used for log and witness
// traffic.
func WithHTTPClient(hc *http.Client) Option {
	return forward(submit.WithHTTPClient(hc))
}

// WithUserAgent sets the User-Agent header on log and witness
// requests.
func WithUserAgent(ua string) Option {
	return forward(submit.WithUserAgentString(ua))
}

// WithRateLimitToken attaches a submit token to every add-leaf
// request. The signer's public key must be published in DNS under
// domain; see token.Record for the zone line.
func WithRateLimitToken(signer Signer, domain string) Option {
	return forward(submit.WithRateLimitToken(signer, domain))
}

// WithSubmitOptions passes options through to the underlying
// submission client, for tuning the root surface does not cover.
func WithSubmitOptions(opts ...submit.Option) Option {
	return func(c *Client) error {
		c.submitOpts = append(c.submitOpts, opts...)
		return nil
	}
}

func forward(opt submit.Option) Option {
	return func(c *Client) error {
		c.submitOpts = append(c.submitOpts, opt)
		return nil
	}
}
