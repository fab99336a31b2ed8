package sigsum

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChecksum(t *testing.T) {
	t.Parallel()

	h := Checksum([]byte("foo"))
	assert.Equal(t, "2c26b46b68ffc68ff99b453c1d30413413422d706483bfa0f98a5e886266e7ae", h.Hex())
}

func TestParseChecksum(t *testing.T) {
	t.Parallel()

	want := Checksum([]byte("foo"))

	t.Run("bare hex", func(t *testing.T) {
		t.Parallel()
		got, err := ParseChecksum(want.Hex())
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("digest notation", func(t *testing.T) {
		t.Parallel()
		got, err := ParseChecksum("sha256:" + want.Hex())
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("rejects other algorithms", func(t *testing.T) {
		t.Parallel()
		_, err := ParseChecksum("sha512:" + want.Hex() + want.Hex())
		assert.Error(t, err)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		t.Parallel()
		for _, s := range []string{"", "abc", "sha256:zz", "not a checksum"} {
			_, err := ParseChecksum(s)
			assert.Error(t, err, "input %q", s)
		}
	})
}
