package prompt

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLine(t *testing.T) {
	var out bytes.Buffer
	p := New(strings.NewReader("first\r\nsecret\nlast"), &out)

	a, err := p.Line("One? ")
	require.NoError(t, err)
	require.Equal(t, "first", a)

	// Not a terminal, so Secret falls back to Line.
	b, err := p.Secret("Two? ")
	require.NoError(t, err)
	require.Equal(t, "secret", b)

	c, err := p.Line("Three? ")
	require.NoError(t, err)
	require.Equal(t, "last", c)

	_, err = p.Line("Four? ")
	require.ErrorIs(t, err, io.EOF)

	require.Equal(t, "One? Two? Three? Four? ", out.String())
}

func TestEmptyLine(t *testing.T) {
	p := New(strings.NewReader("\n"), io.Discard)

	a, err := p.Line("? ")
	require.NoError(t, err)
	require.Empty(t, a)
}
