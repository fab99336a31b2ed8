package token

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tabbyrobin/sigsum/key"
)

func TestCreateVerify(t *testing.T) {
	t.Parallel()

	rateLimitKeys, err := key.Generate()
	require.NoError(t, err)
	logKeys, err := key.Generate()
	require.NoError(t, err)

	h, err := Create(rateLimitKeys.Signer(), logKeys.Public(), "example.org")
	require.NoError(t, err)
	assert.Equal(t, "example.org", h.Domain)

	require.NoError(t, Verify(h, logKeys.Public(), rateLimitKeys.Public()))

	t.Run("wrong registered key", func(t *testing.T) {
		t.Parallel()
		other, err := key.Generate()
		require.NoError(t, err)
		assert.ErrorIs(t, Verify(h, logKeys.Public(), other.Public()), ErrInvalidToken)
	})

	t.Run("wrong log", func(t *testing.T) {
		t.Parallel()
		other, err := key.Generate()
		require.NoError(t, err)
		assert.ErrorIs(t, Verify(h, other.Public(), rateLimitKeys.Public()), ErrInvalidToken)
	})

	t.Run("missing token", func(t *testing.T) {
		t.Parallel()
		assert.ErrorIs(t, Verify(nil, logKeys.Public(), rateLimitKeys.Public()), ErrInvalidToken)
	})
}

func TestCreateEmptyDomain(t *testing.T) {
	t.Parallel()

	keys, err := key.Generate()
	require.NoError(t, err)
	_, err = Create(keys.Signer(), keys.Public(), "")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestHeaderRoundTrip(t *testing.T) {
	t.Parallel()

	keys, err := key.Generate()
	require.NoError(t, err)
	h, err := Create(keys.Signer(), keys.Public(), "example.org")
	require.NoError(t, err)

	got, err := ParseHeader(h.String())
	require.NoError(t, err)
	assert.Equal(t, h, got)
}

func TestParseHeaderErrors(t *testing.T) {
	t.Parallel()

	for _, value := range []string{"", "nodomainsig", "example.org nothex"} {
		_, err := ParseHeader(value)
		assert.ErrorIs(t, err, ErrInvalidToken, "value %q", value)
	}
}

func TestRecord(t *testing.T) {
	t.Parallel()

	keys, err := key.Generate()
	require.NoError(t, err)
	pub := keys.Public()
	assert.Equal(t, fmt.Sprintf("_sigsum_v1 IN TXT %q", pub.Hex()), Record(pub))
}
