package submit

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabbyrobin/sigsum/crypto"
	"github.com/tabbyrobin/sigsum/key"
	"github.com/tabbyrobin/sigsum/proof"
)

func TestPrepare(t *testing.T) {
	t.Parallel()

	kp, err := key.Generate()
	require.NoError(t, err)

	checksums := []crypto.Hash{
		crypto.HashBytes([]byte("foo")),
		crypto.HashBytes([]byte("bar")),
	}
	reqs, err := Prepare(kp.Signer(), checksums)
	require.NoError(t, err)
	require.Len(t, reqs, 2)

	for i, r := range reqs {
		assert.Equal(t, checksums[i], r.Checksum, "output order matches input order")
		assert.Equal(t, kp.Public(), r.PublicKey)
		assert.True(t, r.Verify())
	}
}

func TestPrepareModesAgree(t *testing.T) {
	t.Parallel()

	kp, err := key.Generate()
	require.NoError(t, err)

	messages := [][]byte{[]byte("foo"), []byte("bar")}
	checksums := []crypto.Hash{
		crypto.HashBytes(messages[0]),
		crypto.HashBytes(messages[1]),
	}

	fromHashes, err := Prepare(kp.Signer(), checksums)
	require.NoError(t, err)
	fromMessages, err := PrepareMessages(kp.Signer(), messages)
	require.NoError(t, err)

	require.Len(t, fromMessages, len(fromHashes))
	for i := range fromHashes {
		assert.Equal(t, fromHashes[i].Marshal(), fromMessages[i].Marshal(),
			"raw-hash and hash-message submissions must be byte-identical")
	}
}

func TestRequestVerify(t *testing.T) {
	t.Parallel()

	kp, err := key.Generate()
	require.NoError(t, err)

	reqs, err := Prepare(kp.Signer(), []crypto.Hash{crypto.HashBytes([]byte("foo"))})
	require.NoError(t, err)
	r := reqs[0]
	require.True(t, r.Verify())

	tampered := r
	tampered.Checksum[0] ^= 0x01
	assert.False(t, tampered.Verify())

	forged := r
	forged.Signature[0] ^= 0x01
	assert.False(t, forged.Verify())
}

func TestRequestLeafHash(t *testing.T) {
	t.Parallel()

	kp, err := key.Generate()
	require.NoError(t, err)

	checksum := crypto.HashBytes([]byte("foo"))
	reqs, err := Prepare(kp.Signer(), []crypto.Hash{checksum})
	require.NoError(t, err)

	r := reqs[0]
	assert.Equal(t, key.PublicKeyHash(kp.Public()), r.KeyHash())
	assert.Equal(t, proof.LeafHash(checksum, r.KeyHash()), r.LeafHash())
}

func TestRequestMarshalRoundTrip(t *testing.T) {
	t.Parallel()

	kp, err := key.Generate()
	require.NoError(t, err)

	reqs, err := Prepare(kp.Signer(), []crypto.Hash{crypto.HashBytes([]byte("foo"))})
	require.NoError(t, err)

	got, err := ParseRequestBytes(reqs[0].Marshal())
	require.NoError(t, err)
	assert.Equal(t, reqs[0], *got)
	assert.True(t, got.Verify())
}

func TestParseRequestErrors(t *testing.T) {
	t.Parallel()

	kp, err := key.Generate()
	require.NoError(t, err)
	reqs, err := Prepare(kp.Signer(), []crypto.Hash{crypto.HashBytes([]byte("foo"))})
	require.NoError(t, err)
	valid := reqs[0].String()

	tests := []struct {
		name string
		doc  string
	}{
		{"empty", ""},
		{"missing signature", strings.Replace(valid, "signature=", "sig=", 1)},
		{"duplicate message", valid + strings.SplitN(valid, "\n", 2)[0] + "\n"},
		{"bad checksum hex", "message=zz\nsignature=" + reqs[0].Signature.Hex() + "\npublic_key=" + reqs[0].PublicKey.Hex() + "\n"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ParseRequestBytes([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}
