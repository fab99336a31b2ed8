package crypto

import (
	"crypto/ed25519"
	"fmt"
)

// Signer is the local signing capability consumed by the rest of the
// module. Sign produces an Ed25519 signature over msg.
type Signer interface {
	Public() PublicKey
	Sign(msg []byte) (Signature, error)
}

// Ed25519Signer is an in-memory Signer backed by an Ed25519 private key.
type Ed25519Signer struct {
	priv ed25519.PrivateKey
}

// NewEd25519Signer wraps an Ed25519 private key. The key must be a full
// 64-byte expanded private key as produced by crypto/ed25519.
func NewEd25519Signer(priv ed25519.PrivateKey) (*Ed25519Signer, error) {
	if len(priv) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("crypto: bad private key length %d", len(priv))
	}
	return &Ed25519Signer{priv: priv}, nil
}

// Public returns the signer's public key.
func (s *Ed25519Signer) Public() PublicKey {
	var pub PublicKey
	copy(pub[:], s.priv.Public().(ed25519.PublicKey))
	return pub
}

// Sign signs msg with the underlying private key.
func (s *Ed25519Signer) Sign(msg []byte) (Signature, error) {
	var sig Signature
	copy(sig[:], ed25519.Sign(s.priv, msg))
	return sig, nil
}

// Private returns the underlying private key bytes.
func (s *Ed25519Signer) Private() ed25519.PrivateKey {
	return s.priv
}

// Verify reports whether sig is a valid signature over msg by pub.
func Verify(pub PublicKey, msg []byte, sig Signature) bool {
	return ed25519.Verify(pub[:], msg, sig[:])
}
