package submit

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/tabbyrobin/sigsum/crypto"
	"github.com/tabbyrobin/sigsum/internal/ascii"
	"github.com/tabbyrobin/sigsum/policy"
	"github.com/tabbyrobin/sigsum/proof"
	"github.com/tabbyrobin/sigsum/token"
)

// Transport is the log side of the Sigsum wire protocol, expressed as
// an interface so tests can substitute deterministic in-process
// doubles for the HTTP implementation.
type Transport interface {
	// AddLeaf submits a request. It reports true once the log has
	// sequenced the leaf; false means accepted but not yet sequenced,
	// and the caller should poll by resubmitting.
	AddLeaf(ctx context.Context, req Request, header *token.SubmitHeader) (bool, error)

	// GetTreeHead fetches the log's current cosigned tree head.
	GetTreeHead(ctx context.Context) (proof.CosignedTreeHead, error)

	// GetInclusionProof fetches the inclusion proof for a leaf under
	// the tree head of the given size. ErrNotIncluded means the leaf
	// is not (yet) covered.
	GetInclusionProof(ctx context.Context, size uint64, leafHash crypto.Hash) (proof.InclusionProof, error)
}

// WitnessTransport requests cosignatures directly from witnesses when
// the log's tree head does not already carry enough of them.
type WitnessTransport interface {
	AddTreeHead(ctx context.Context, witness policy.Entity, logKeyHash crypto.Hash, sth proof.SignedTreeHead) (proof.Cosignature, error)
}

// Endpoint is a named HTTP API endpoint.
type Endpoint string

// Endpoints of the log and witness wire protocols.
const (
	EndpointAddLeaf           Endpoint = "add-leaf"
	EndpointGetTreeHead       Endpoint = "get-tree-head"
	EndpointGetInclusionProof Endpoint = "get-inclusion-proof"
	EndpointAddTreeHead       Endpoint = "add-tree-head"
)

// URL joins a base URL and path components into a full endpoint URL.
func (e Endpoint) URL(base string, components ...string) string {
	parts := append([]string{strings.TrimRight(base, "/"), string(e)}, components...)
	return strings.Join(parts, "/")
}

// httpConfig holds settings shared by the HTTP transports.
type httpConfig struct {
	client    *http.Client
	userAgent string
}

// HTTPOption configures the HTTP transports.
type HTTPOption func(*httpConfig)

// WithClient sets the HTTP client used for requests.
func WithClient(client *http.Client) HTTPOption {
	return func(cfg *httpConfig) {
		if client != nil {
			cfg.client = client
		}
	}
}

// WithUserAgent sets the User-Agent header on each request.
func WithUserAgent(ua string) HTTPOption {
	return func(cfg *httpConfig) {
		cfg.userAgent = ua
	}
}

func newHTTPConfig(opts []HTTPOption) httpConfig {
	cfg := httpConfig{client: http.DefaultClient}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// HTTPLog speaks the log wire protocol over HTTP(S).
type HTTPLog struct {
	baseURL string
	cfg     httpConfig
}

// NewHTTPLog creates a log transport for the given base URL.
func NewHTTPLog(baseURL string, opts ...HTTPOption) *HTTPLog {
	return &HTTPLog{baseURL: baseURL, cfg: newHTTPConfig(opts)}
}

// AddLeaf implements Transport.
func (l *HTTPLog) AddLeaf(ctx context.Context, req Request, header *token.SubmitHeader) (bool, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		EndpointAddLeaf.URL(l.baseURL), bytes.NewReader(req.Marshal()))
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	httpReq.Header.Set("Content-Type", "text/plain")
	if header != nil {
		httpReq.Header.Set(token.HeaderName, header.String())
	}
	l.cfg.setUserAgent(httpReq)

	resp, err := l.cfg.client.Do(httpReq)
	if err != nil {
		return false, fmt.Errorf("%w: add-leaf: %v", ErrTransport, err)
	}
	defer drainAndClose(resp.Body)

	switch resp.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusAccepted:
		return false, nil
	case http.StatusTooManyRequests:
		return false, fmt.Errorf("%w: %s", ErrRateLimited, resp.Status)
	default:
		return false, statusError("add-leaf", resp.StatusCode, resp.Status)
	}
}

// GetTreeHead implements Transport.
func (l *HTTPLog) GetTreeHead(ctx context.Context) (proof.CosignedTreeHead, error) {
	body, err := l.get(ctx, EndpointGetTreeHead.URL(l.baseURL), "get-tree-head")
	if err != nil {
		return proof.CosignedTreeHead{}, err
	}
	defer drainAndClose(body)

	cth, err := proof.ParseCosignedTreeHead(body)
	if err != nil {
		return proof.CosignedTreeHead{}, fmt.Errorf("%w: get-tree-head: %v", ErrTransport, err)
	}
	return *cth, nil
}

// GetInclusionProof implements Transport.
func (l *HTTPLog) GetInclusionProof(ctx context.Context, size uint64, leafHash crypto.Hash) (proof.InclusionProof, error) {
	url := EndpointGetInclusionProof.URL(l.baseURL, strconv.FormatUint(size, 10), leafHash.Hex())
	body, err := l.get(ctx, url, "get-inclusion-proof")
	if err != nil {
		return proof.InclusionProof{}, err
	}
	defer drainAndClose(body)

	ip, err := proof.ParseInclusionProof(body)
	if err != nil {
		return proof.InclusionProof{}, fmt.Errorf("%w: get-inclusion-proof: %v", ErrTransport, err)
	}
	return *ip, nil
}

func (l *HTTPLog) get(ctx context.Context, url, operation string) (io.ReadCloser, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	l.cfg.setUserAgent(httpReq)

	resp, err := l.cfg.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTransport, operation, err)
	}
	switch {
	case resp.StatusCode == http.StatusOK:
		return resp.Body, nil
	case resp.StatusCode == http.StatusNotFound && operation == "get-inclusion-proof":
		drainAndClose(resp.Body)
		return nil, ErrNotIncluded
	default:
		drainAndClose(resp.Body)
		return nil, statusError(operation, resp.StatusCode, resp.Status)
	}
}

// HTTPWitnesses speaks the witness wire protocol over HTTP(S), posting
// to each witness's declared endpoint.
type HTTPWitnesses struct {
	cfg httpConfig
}

// NewHTTPWitnesses creates a witness transport.
func NewHTTPWitnesses(opts ...HTTPOption) *HTTPWitnesses {
	return &HTTPWitnesses{cfg: newHTTPConfig(opts)}
}

// AddTreeHead implements WitnessTransport.
func (w *HTTPWitnesses) AddTreeHead(ctx context.Context, witness policy.Entity, logKeyHash crypto.Hash, sth proof.SignedTreeHead) (proof.Cosignature, error) {
	var buf bytes.Buffer
	aw := ascii.NewWriter(&buf)
	aw.Line("key_hash", logKeyHash.Hex())
	aw.Uint64("size", sth.Size)
	aw.Line("root_hash", sth.RootHash.Hex())
	aw.Line("signature", sth.Signature.Hex())

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		EndpointAddTreeHead.URL(witness.URL), &buf)
	if err != nil {
		return proof.Cosignature{}, fmt.Errorf("%w: %v", ErrTransport, err)
	}
	httpReq.Header.Set("Content-Type", "text/plain")
	w.cfg.setUserAgent(httpReq)

	resp, err := w.cfg.client.Do(httpReq)
	if err != nil {
		return proof.Cosignature{}, fmt.Errorf("%w: add-tree-head: %v", ErrTransport, err)
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return proof.Cosignature{}, statusError("add-tree-head", resp.StatusCode, resp.Status)
	}
	cs, err := proof.ParseCosignatureResponse(resp.Body)
	if err != nil {
		return proof.Cosignature{}, fmt.Errorf("%w: add-tree-head: %v", ErrTransport, err)
	}
	return cs, nil
}

func (cfg *httpConfig) setUserAgent(req *http.Request) {
	if cfg.userAgent != "" {
		req.Header.Set("User-Agent", cfg.userAgent)
	}
}

// statusError classifies an unexpected HTTP status: client errors are
// rejections (not retried), anything else is a transport failure.
func statusError(operation string, code int, status string) error {
	if code >= 400 && code < 500 {
		return fmt.Errorf("%w: %s: %s", ErrRejected, operation, status)
	}
	return fmt.Errorf("%w: %s: %s", ErrTransport, operation, status)
}

func drainAndClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, body)
	_ = body.Close()
}
