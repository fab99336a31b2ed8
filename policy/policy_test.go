package policy

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabbyrobin/sigsum/crypto"
	"github.com/tabbyrobin/sigsum/key"
)

// testKey generates a key pair and returns its public key hex and hash.
func testKey(t *testing.T) (string, crypto.Hash) {
	t.Helper()
	kp, err := key.Generate()
	require.NoError(t, err)
	pub := kp.Public()
	return key.ToHex(pub), crypto.HashBytes(pub[:])
}

func TestParse(t *testing.T) {
	t.Parallel()

	logHex, logHash := testKey(t)
	w1Hex, w1Hash := testKey(t)
	w2Hex, w2Hash := testKey(t)

	doc := fmt.Sprintf(`
# Test policy with a demo log and two witnesses.
log %s https://poc.sigsum.org/jellyfish
witness poc.sigsum.org/nisse %s
witness rgdd.se/poc-witness %s https://poc.sigsum.org/witness

group demo-quorum-rule any poc.sigsum.org/nisse rgdd.se/poc-witness
quorum demo-quorum-rule
`, logHex, w1Hex, w2Hex)

	pol, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)

	require.Len(t, pol.Logs(), 1)
	log, ok := pol.Log(logHash)
	require.True(t, ok)
	assert.Equal(t, "https://poc.sigsum.org/jellyfish", log.URL)

	submitLog, err := pol.SubmitLog()
	require.NoError(t, err)
	assert.Equal(t, logHash, submitLog.KeyHash)

	require.Len(t, pol.Witnesses(), 2)
	w1, ok := pol.Witness(w1Hash)
	require.True(t, ok)
	assert.Equal(t, "poc.sigsum.org/nisse", w1.Name)
	assert.Empty(t, w1.URL)
	w2, ok := pol.Witness(w2Hash)
	require.True(t, ok)
	assert.Equal(t, "https://poc.sigsum.org/witness", w2.URL)

	assert.False(t, pol.QuorumSatisfied(nil))
	assert.True(t, pol.QuorumSatisfied(map[crypto.Hash]bool{w1Hash: true}))
	assert.True(t, pol.QuorumSatisfied(map[crypto.Hash]bool{w2Hash: true}))
}

func TestParseQuorumNone(t *testing.T) {
	t.Parallel()

	logHex, _ := testKey(t)
	doc := fmt.Sprintf("log %s\nquorum none\n", logHex)

	pol, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)
	assert.True(t, pol.QuorumSatisfied(nil))
}

func TestParseDirectWitnessQuorum(t *testing.T) {
	t.Parallel()

	logHex, _ := testKey(t)
	wHex, wHash := testKey(t)
	doc := fmt.Sprintf("log %s\nwitness w1 %s\nquorum w1\n", logHex, wHex)

	pol, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)
	assert.False(t, pol.QuorumSatisfied(nil))
	assert.True(t, pol.QuorumSatisfied(map[crypto.Hash]bool{wHash: true}))
}

func TestQuorumAll(t *testing.T) {
	t.Parallel()

	logHex, _ := testKey(t)
	w1Hex, w1Hash := testKey(t)
	w2Hex, w2Hash := testKey(t)
	_, strangerHash := testKey(t)

	doc := fmt.Sprintf(`
log %s
witness w1 %s
witness w2 %s
group both all w1 w2
quorum both
`, logHex, w1Hex, w2Hex)

	pol, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)

	assert.False(t, pol.QuorumSatisfied(nil))
	assert.False(t, pol.QuorumSatisfied(map[crypto.Hash]bool{w1Hash: true}))
	assert.False(t, pol.QuorumSatisfied(map[crypto.Hash]bool{w2Hash: true}))
	assert.True(t, pol.QuorumSatisfied(map[crypto.Hash]bool{w1Hash: true, w2Hash: true}))

	// Monotonic: extra cosigners never unsatisfy a quorum.
	assert.True(t, pol.QuorumSatisfied(map[crypto.Hash]bool{
		w1Hash: true, w2Hash: true, strangerHash: true,
	}))
}

func TestQuorumThreshold(t *testing.T) {
	t.Parallel()

	logHex, _ := testKey(t)
	w1Hex, w1Hash := testKey(t)
	w2Hex, w2Hash := testKey(t)
	w3Hex, w3Hash := testKey(t)

	doc := fmt.Sprintf(`
log %s
witness w1 %s
witness w2 %s
witness w3 %s
group two-of-three 2 w1 w2 w3
quorum two-of-three
`, logHex, w1Hex, w2Hex, w3Hex)

	pol, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)

	assert.False(t, pol.QuorumSatisfied(map[crypto.Hash]bool{w1Hash: true}))
	assert.True(t, pol.QuorumSatisfied(map[crypto.Hash]bool{w1Hash: true, w3Hash: true}))
	assert.True(t, pol.QuorumSatisfied(map[crypto.Hash]bool{w1Hash: true, w2Hash: true, w3Hash: true}))
}

func TestNestedGroups(t *testing.T) {
	t.Parallel()

	logHex, _ := testKey(t)
	w1Hex, w1Hash := testKey(t)
	w2Hex, w2Hash := testKey(t)
	w3Hex, w3Hash := testKey(t)

	// The inner group is referenced before it is declared; order must
	// not matter.
	doc := fmt.Sprintf(`
log %s
witness w1 %s
witness w2 %s
witness w3 %s
group outer all w1 inner
group inner any w2 w3
quorum outer
`, logHex, w1Hex, w2Hex, w3Hex)

	pol, err := Parse(strings.NewReader(doc))
	require.NoError(t, err)

	assert.False(t, pol.QuorumSatisfied(map[crypto.Hash]bool{w1Hash: true}))
	assert.True(t, pol.QuorumSatisfied(map[crypto.Hash]bool{w1Hash: true, w2Hash: true}))
	assert.True(t, pol.QuorumSatisfied(map[crypto.Hash]bool{w1Hash: true, w3Hash: true}))
	assert.False(t, pol.QuorumSatisfied(map[crypto.Hash]bool{w2Hash: true, w3Hash: true}))
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	logHex, _ := testKey(t)
	wHex, _ := testKey(t)

	tests := []struct {
		name string
		doc  string
		want error
	}{
		{
			"unknown record",
			"frobnicate yes\nquorum none\n",
			ErrParse,
		},
		{
			"bad log key",
			"log nothex\nquorum none\n",
			ErrParse,
		},
		{
			"witness missing key",
			fmt.Sprintf("log %s\nwitness lonely\nquorum none\n", logHex),
			ErrParse,
		},
		{
			"duplicate witness name",
			fmt.Sprintf("log %s\nwitness w %s\nwitness w %s\nquorum none\n", logHex, wHex, wHex),
			ErrParse,
		},
		{
			"reserved name",
			fmt.Sprintf("log %s\nwitness none %s\nquorum none\n", logHex, wHex),
			ErrParse,
		},
		{
			"missing quorum",
			fmt.Sprintf("log %s\nwitness w %s\n", logHex, wHex),
			ErrParse,
		},
		{
			"duplicate quorum",
			fmt.Sprintf("log %s\nwitness w %s\nquorum w\nquorum w\n", logHex, wHex),
			ErrParse,
		},
		{
			"bad combinator",
			fmt.Sprintf("log %s\nwitness w %s\ngroup g zero w\nquorum g\n", logHex, wHex),
			ErrParse,
		},
		{
			"undeclared quorum reference",
			fmt.Sprintf("log %s\nwitness w %s\nquorum ghost\n", logHex, wHex),
			ErrReference,
		},
		{
			"undeclared group member",
			fmt.Sprintf("log %s\nwitness w %s\ngroup g any w ghost\nquorum g\n", logHex, wHex),
			ErrReference,
		},
		{
			"threshold exceeds members",
			fmt.Sprintf("log %s\nwitness w %s\ngroup g 2 w\nquorum g\n", logHex, wHex),
			ErrReference,
		},
		{
			"reference cycle",
			fmt.Sprintf("log %s\nwitness w %s\ngroup a any b\ngroup b any a\nquorum a\n", logHex, wHex),
			ErrReference,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse(strings.NewReader(tt.doc))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
