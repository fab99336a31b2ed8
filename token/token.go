// Package token implements Sigsum submit tokens, the rate-limit
// credential attached to add-leaf requests on logs that enforce
// domain-based rate limiting.
//
// A token is an Ed25519 signature over the log's public key, bound to a
// DNS domain where the corresponding public key is registered in a TXT
// record. The log resolves the domain, fetches the registered key and
// checks the signature.
package token

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tabbyrobin/sigsum/crypto"
)

// Namespace provides domain separation for submit-token signatures.
const Namespace = "sigsum.org/v1/submit-token"

// HeaderName is the HTTP header carrying the token on add-leaf requests.
const HeaderName = "Sigsum-Token"

// DNSLabel is the label under which the token public key must be
// registered, e.g. _sigsum_v1.example.org.
const DNSLabel = "_sigsum_v1"

// ErrInvalidToken is returned when a submit token fails verification.
var ErrInvalidToken = errors.New("token: invalid submit token")

// SubmitHeader is the parsed value of a Sigsum-Token header: the
// domain whose DNS record holds the signer's public key, and the
// signature over the target log's key.
type SubmitHeader struct {
	Domain    string
	Signature crypto.Signature
}

// String formats the header value as sent on the wire.
func (h *SubmitHeader) String() string {
	return fmt.Sprintf("%s %s", h.Domain, h.Signature.Hex())
}

// ParseHeader parses a Sigsum-Token header value.
func ParseHeader(value string) (*SubmitHeader, error) {
	domain, sigHex, ok := strings.Cut(strings.TrimSpace(value), " ")
	if !ok || domain == "" {
		return nil, fmt.Errorf("%w: want \"<domain> <signature>\"", ErrInvalidToken)
	}
	sig, err := crypto.SignatureFromHex(sigHex)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return &SubmitHeader{Domain: domain, Signature: sig}, nil
}

// signedData returns the bytes signed for a submit token targeting the
// given log key.
func signedData(logKey crypto.PublicKey) []byte {
	return []byte(Namespace + "\n" + logKey.Hex() + "\n")
}

// Create signs a submit token for the given log with the rate-limit
// key, producing a header value for the domain where the corresponding
// public key is registered.
func Create(signer crypto.Signer, logKey crypto.PublicKey, domain string) (*SubmitHeader, error) {
	if domain == "" {
		return nil, fmt.Errorf("%w: empty domain", ErrInvalidToken)
	}
	sig, err := signer.Sign(signedData(logKey))
	if err != nil {
		return nil, fmt.Errorf("token: sign: %w", err)
	}
	return &SubmitHeader{Domain: domain, Signature: sig}, nil
}

// Verify checks a submit token against the log key it should target and
// the public key registered in DNS for the header's domain. DNS
// resolution itself is the caller's concern.
func Verify(h *SubmitHeader, logKey, registered crypto.PublicKey) error {
	if h == nil {
		return fmt.Errorf("%w: no token", ErrInvalidToken)
	}
	if !crypto.Verify(registered, signedData(logKey), h.Signature) {
		return fmt.Errorf("%w: signature check failed for domain %q", ErrInvalidToken, h.Domain)
	}
	return nil
}

// Record formats the DNS TXT record, in zone file format, that
// registers a token public key:
//
//	_sigsum_v1 IN TXT "<public key hex>"
func Record(pub crypto.PublicKey) string {
	return fmt.Sprintf("%s IN TXT %q", DNSLabel, pub.Hex())
}
