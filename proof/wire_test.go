package proof

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabbyrobin/sigsum/crypto"
)

func TestCosignedTreeHeadWire(t *testing.T) {
	t.Parallel()

	cth := &CosignedTreeHead{
		SignedTreeHead: SignedTreeHead{
			TreeHead: TreeHead{Size: 11, RootHash: crypto.HashBytes([]byte("root"))},
		},
		Cosignatures: []Cosignature{
			{KeyHash: crypto.HashBytes([]byte("w")), Timestamp: 1700000000},
		},
	}

	got, err := ParseCosignedTreeHead(bytes.NewReader(cth.Marshal()))
	require.NoError(t, err)
	assert.Equal(t, cth, got)

	_, err = ParseCosignedTreeHead(strings.NewReader("size=1\n"))
	assert.Error(t, err, "root_hash and signature are required")
}

func TestInclusionProofWire(t *testing.T) {
	t.Parallel()

	ip := &InclusionProof{
		LeafIndex: 3,
		Path:      []crypto.Hash{crypto.HashBytes([]byte("sibling"))},
	}

	got, err := ParseInclusionProof(bytes.NewReader(ip.Marshal()))
	require.NoError(t, err)
	assert.Equal(t, ip, got)

	_, err = ParseInclusionProof(strings.NewReader("node_hash=" + crypto.HashBytes(nil).Hex() + "\n"))
	assert.Error(t, err, "leaf_index is required")
}

func TestCosignatureResponseWire(t *testing.T) {
	t.Parallel()

	cs := Cosignature{KeyHash: crypto.HashBytes([]byte("w")), Timestamp: 1234}
	got, err := ParseCosignatureResponse(bytes.NewReader(MarshalCosignature(cs)))
	require.NoError(t, err)
	assert.Equal(t, cs, got)

	_, err = ParseCosignatureResponse(strings.NewReader("unrelated=1\n"))
	assert.Error(t, err)
}
