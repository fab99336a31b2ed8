// Package crypto provides the primitive types shared across the module:
// fixed-size hashes, Ed25519 keys and signatures, and their hex
// encodings.
//
// The signing capability is expressed as the [Signer] interface so that
// callers can substitute hardware tokens or deterministic test doubles
// for the default in-memory Ed25519 implementation.
package crypto

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Sizes of the primitive types, in bytes.
const (
	HashSize      = sha256.Size
	PublicKeySize = ed25519.PublicKeySize
	SignatureSize = ed25519.SignatureSize
)

// Hash is a SHA-256 digest.
type Hash [HashSize]byte

// PublicKey is an Ed25519 public key.
type PublicKey [PublicKeySize]byte

// Signature is an Ed25519 signature.
type Signature [SignatureSize]byte

// HashBytes returns the SHA-256 digest of b.
func HashBytes(b []byte) Hash {
	return sha256.Sum256(b)
}

// Hex returns the lowercase hex encoding of the hash.
func (h Hash) Hex() string {
	return hex.EncodeToString(h[:])
}

// Hex returns the lowercase hex encoding of the key.
func (k PublicKey) Hex() string {
	return hex.EncodeToString(k[:])
}

// Hex returns the lowercase hex encoding of the signature.
func (s Signature) Hex() string {
	return hex.EncodeToString(s[:])
}

// HashFromHex decodes a 64-character hex string into a Hash.
func HashFromHex(s string) (Hash, error) {
	var h Hash
	if err := decodeFixedHex(h[:], s); err != nil {
		return Hash{}, fmt.Errorf("crypto: invalid hash: %w", err)
	}
	return h, nil
}

// PublicKeyFromHex decodes a 64-character hex string into a PublicKey.
func PublicKeyFromHex(s string) (PublicKey, error) {
	var k PublicKey
	if err := decodeFixedHex(k[:], s); err != nil {
		return PublicKey{}, fmt.Errorf("crypto: invalid public key: %w", err)
	}
	return k, nil
}

// SignatureFromHex decodes a 128-character hex string into a Signature.
func SignatureFromHex(s string) (Signature, error) {
	var sig Signature
	if err := decodeFixedHex(sig[:], s); err != nil {
		return Signature{}, fmt.Errorf("crypto: invalid signature: %w", err)
	}
	return sig, nil
}

func decodeFixedHex(dst []byte, s string) error {
	if len(s) != 2*len(dst) {
		return fmt.Errorf("got %d hex characters, want %d", len(s), 2*len(dst))
	}
	_, err := hex.Decode(dst, []byte(s))
	return err
}
