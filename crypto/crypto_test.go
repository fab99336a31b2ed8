package crypto

import (
	"crypto/ed25519"
	"crypto/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashBytes(t *testing.T) {
	t.Parallel()

	h := HashBytes([]byte("foo"))
	assert.Equal(t, "2c26b46b68ffc68ff99b453c1d30413413422d706483bfa0f98a5e886266e7ae", h.Hex())

	empty := HashBytes(nil)
	assert.Equal(t, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855", empty.Hex())
}

func TestHexRoundTrip(t *testing.T) {
	t.Parallel()

	h := HashBytes([]byte("round trip"))
	got, err := HashFromHex(h.Hex())
	require.NoError(t, err)
	assert.Equal(t, h, got)
}

func TestHexErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"short", "2c26b46b"},
		{"long", strings.Repeat("ab", 33)},
		{"not hex", strings.Repeat("zz", 32)},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := HashFromHex(tt.input)
			assert.Error(t, err)

			_, err = PublicKeyFromHex(tt.input)
			assert.Error(t, err)
		})
	}

	_, err := SignatureFromHex(strings.Repeat("ab", 32))
	assert.Error(t, err, "signature hex must be 128 chars")
}

func TestEd25519Signer(t *testing.T) {
	t.Parallel()

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	signer, err := NewEd25519Signer(priv)
	require.NoError(t, err)
	signerPub := signer.Public()
	assert.Equal(t, []byte(pub), signerPub[:])

	msg := []byte("attest this")
	sig, err := signer.Sign(msg)
	require.NoError(t, err)

	assert.True(t, Verify(signer.Public(), msg, sig))
	assert.False(t, Verify(signer.Public(), []byte("something else"), sig))

	var tampered Signature
	copy(tampered[:], sig[:])
	tampered[0] ^= 0x01
	assert.False(t, Verify(signer.Public(), msg, tampered))
}

func TestNewEd25519SignerRejectsBadKey(t *testing.T) {
	t.Parallel()

	_, err := NewEd25519Signer(make([]byte, 7))
	assert.Error(t, err)
}
