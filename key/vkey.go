package key

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"strings"

	"golang.org/x/mod/sumdb/note"

	"github.com/tabbyrobin/sigsum/crypto"
)

// algEd25519 is the signed-note algorithm identifier for Ed25519.
const algEd25519 = 1

// ToVerifier encodes a public key as a signed-note verifier line
// binding a human-readable name to the key:
//
//	<name>+<keyhash-prefix>+<base64(alg||key)>
//
// The result is accepted by golang.org/x/mod/sumdb/note verifiers.
func ToVerifier(pub crypto.PublicKey, name string) (string, error) {
	if name == "" || strings.ContainsAny(name, "+ \t\n") {
		return "", fmt.Errorf("%w: invalid verifier name %q", ErrInvalidKey, name)
	}
	keyData := append([]byte{algEd25519}, pub[:]...)
	line := fmt.Sprintf("%s+%08x+%s", name, verifierID(name, keyData),
		base64.StdEncoding.EncodeToString(keyData))

	// Self-check against the reference parser.
	if _, err := note.NewVerifier(line); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return line, nil
}

// FromVerifier decodes a verifier line, returning the bound name and
// the public key.
func FromVerifier(line string) (string, crypto.PublicKey, error) {
	line = strings.TrimSpace(line)
	v, err := note.NewVerifier(line)
	if err != nil {
		return "", crypto.PublicKey{}, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}

	// Base64 key data may itself contain '+', so split on the first
	// two separators only.
	parts := strings.SplitN(line, "+", 3)
	if len(parts) != 3 {
		return "", crypto.PublicKey{}, fmt.Errorf("%w: malformed verifier line", ErrInvalidKey)
	}
	keyData, err := base64.StdEncoding.DecodeString(parts[2])
	if err != nil {
		return "", crypto.PublicKey{}, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	if len(keyData) != 1+crypto.PublicKeySize || keyData[0] != algEd25519 {
		return "", crypto.PublicKey{}, fmt.Errorf("%w: not an Ed25519 verifier", ErrInvalidKey)
	}
	var pub crypto.PublicKey
	copy(pub[:], keyData[1:])
	return v.Name(), pub, nil
}

// verifierID computes the 32-bit key identifier embedded in a verifier
// line: the first four bytes of SHA-256(name || "\n" || keydata).
func verifierID(name string, keyData []byte) uint32 {
	h := sha256.New()
	h.Write([]byte(name))
	h.Write([]byte("\n"))
	h.Write(keyData)
	return binary.BigEndian.Uint32(h.Sum(nil))
}
