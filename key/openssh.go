package key

import (
	"crypto/ed25519"
	"encoding/pem"
	"fmt"

	"golang.org/x/crypto/ssh"

	"github.com/tabbyrobin/sigsum/crypto"
)

// EncodePrivate serializes the private key in OpenSSH PEM format, the
// same representation sigsum-key writes to disk.
func (kp *KeyPair) EncodePrivate() (string, error) {
	block, err := ssh.MarshalPrivateKey(kp.private, "")
	if err != nil {
		return "", fmt.Errorf("key: encode private key: %w", err)
	}
	return string(pem.EncodeToMemory(block)), nil
}

// EncodePublic serializes the public key as a single OpenSSH
// authorized_keys line.
func (kp *KeyPair) EncodePublic() (string, error) {
	return EncodePublic(kp.public)
}

// EncodePublic serializes a public key as an OpenSSH authorized_keys line.
func EncodePublic(pub crypto.PublicKey) (string, error) {
	sshPub, err := ssh.NewPublicKey(ed25519.PublicKey(pub[:]))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	return string(ssh.MarshalAuthorizedKey(sshPub)), nil
}

// ParsePrivate loads a key pair from an OpenSSH PEM private key.
func ParsePrivate(text string) (*KeyPair, error) {
	raw, err := ssh.ParseRawPrivateKey([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	priv, ok := raw.(*ed25519.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("%w: not an Ed25519 key", ErrInvalidKey)
	}
	return FromPrivate(*priv)
}

// ParsePublic loads a public key from an OpenSSH authorized_keys line.
func ParsePublic(text string) (crypto.PublicKey, error) {
	sshPub, _, _, _, err := ssh.ParseAuthorizedKey([]byte(text))
	if err != nil {
		return crypto.PublicKey{}, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	cryptoPub, ok := sshPub.(ssh.CryptoPublicKey)
	if !ok {
		return crypto.PublicKey{}, fmt.Errorf("%w: unsupported key type %s", ErrInvalidKey, sshPub.Type())
	}
	edPub, ok := cryptoPub.CryptoPublicKey().(ed25519.PublicKey)
	if !ok {
		return crypto.PublicKey{}, fmt.Errorf("%w: not an Ed25519 key", ErrInvalidKey)
	}
	var pub crypto.PublicKey
	copy(pub[:], edPub)
	return pub, nil
}
