package ascii

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	lines, err := Parse(strings.NewReader("size=17\n\nroot_hash=abc=def\n"))
	require.NoError(t, err)
	assert.Equal(t, []Line{
		{Key: "size", Value: "17"},
		{Key: "root_hash", Value: "abc=def"},
	}, lines)
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	_, err := Parse(strings.NewReader("no separator here\n"))
	assert.Error(t, err)

	_, err = Parse(strings.NewReader("=value without key\n"))
	assert.Error(t, err)
}

func TestWriterRoundTrip(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.Line("leaf", "deadbeef")
	w.Uint64("size", 42)
	require.NoError(t, w.Err())

	assert.Equal(t, "leaf=deadbeef\nsize=42\n", buf.String())

	lines, err := Parse(&buf)
	require.NoError(t, err)
	assert.Equal(t, []Line{{Key: "leaf", Value: "deadbeef"}, {Key: "size", Value: "42"}}, lines)
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestWriterStickyError(t *testing.T) {
	t.Parallel()

	w := NewWriter(failWriter{})
	w.Line("a", "b")
	w.Uint64("n", 1)
	assert.Error(t, w.Err())
}

func TestParseUint64(t *testing.T) {
	t.Parallel()

	n, err := ParseUint64("18446744073709551615")
	require.NoError(t, err)
	assert.Equal(t, uint64(18446744073709551615), n)

	_, err = ParseUint64("-1")
	assert.Error(t, err)
	_, err = ParseUint64("0x10")
	assert.Error(t, err)
}
