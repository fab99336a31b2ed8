// Package key manages Ed25519 signing identities: generation, the
// OpenSSH file encodings used to persist them, hex encodings of public
// keys, public key hashes, and signed-note verifier ("vkey") lines.
package key

import (
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/tabbyrobin/sigsum/crypto"
)

// Sentinel errors for key operations.
var (
	// ErrKeyGeneration is returned when the underlying entropy or
	// signing primitive is unavailable.
	ErrKeyGeneration = errors.New("key: key generation failed")

	// ErrInvalidKey is returned when key material is malformed.
	ErrInvalidKey = errors.New("key: invalid key")
)

// KeyPair is an Ed25519 signing identity. The private key never leaves
// the process except through the explicit Encode methods.
type KeyPair struct {
	private ed25519.PrivateKey
	public  crypto.PublicKey
}

// Generate creates a fresh key pair from the operating system's
// cryptographically secure random source.
func Generate() (*KeyPair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrKeyGeneration, err)
	}
	return newKeyPair(priv, pub), nil
}

func newKeyPair(priv ed25519.PrivateKey, pub ed25519.PublicKey) *KeyPair {
	kp := &KeyPair{private: priv}
	copy(kp.public[:], pub)
	return kp
}

// FromPrivate wraps an existing Ed25519 private key.
func FromPrivate(priv ed25519.PrivateKey) (*KeyPair, error) {
	if len(priv) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("%w: bad private key length %d", ErrInvalidKey, len(priv))
	}
	return newKeyPair(priv, priv.Public().(ed25519.PublicKey)), nil
}

// Public returns the public half of the key pair.
func (kp *KeyPair) Public() crypto.PublicKey {
	return kp.public
}

// Signer returns the signing capability bound to this key pair.
func (kp *KeyPair) Signer() crypto.Signer {
	s, _ := crypto.NewEd25519Signer(kp.private)
	return s
}

// Sign signs msg with the private key.
func (kp *KeyPair) Sign(msg []byte) (crypto.Signature, error) {
	return kp.Signer().Sign(msg)
}

// PublicKeyHash returns the deterministic 32-byte fingerprint of a
// public key: its SHA-256 digest.
func PublicKeyHash(pub crypto.PublicKey) crypto.Hash {
	return crypto.HashBytes(pub[:])
}

// ToHex encodes a public key as 64 lowercase hex characters.
func ToHex(pub crypto.PublicKey) string {
	return pub.Hex()
}

// FromHex decodes a public key from its hex encoding. It is the inverse
// of ToHex: FromHex(ToHex(k)) == k for all valid keys.
func FromHex(s string) (crypto.PublicKey, error) {
	pub, err := crypto.PublicKeyFromHex(s)
	if err != nil {
		return crypto.PublicKey{}, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return pub, nil
}
