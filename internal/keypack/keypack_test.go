package keypack

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	for _, key := range []string{
		"",
		"key",
		"test",
		"correct horse battery staple",
		"clé secrète 日本語 🔑",
		strings.Repeat("abc", 5000),
	} {
		token, err := Pack(key)
		require.NoError(t, err)
		require.NotContains(t, token, "\n")

		have, err := Unpack(token)
		require.NoError(t, err)
		require.Equal(t, key, have)
	}
}

// Produced by base64.b64encode(lzma.compress("clé secrète".encode())).
const lzmaToken = "/Td6WFoAAATm1rRGAgAhARYAAAB0L+WjAQAMY2zDqSBzZWNyw6h0ZQAAAABl+ueXtuMyFQABJQ1xGcS2H7bzfQEAAAAABFla"

func TestUnpackLZMAToken(t *testing.T) {
	key, err := Unpack(lzmaToken)
	require.NoError(t, err)
	require.Equal(t, "clé secrète", key)
}

func TestUnpackTrimsSpace(t *testing.T) {
	token, err := Pack("key")
	require.NoError(t, err)

	have, err := Unpack("  " + token + "\n")
	require.NoError(t, err)
	require.Equal(t, "key", have)
}

func TestUnpackMalformed(t *testing.T) {
	valid, err := Pack("some key")
	require.NoError(t, err)
	raw, err := base64.StdEncoding.DecodeString(valid)
	require.NoError(t, err)

	truncated := base64.StdEncoding.EncodeToString(raw[:len(raw)/2])
	notXZ := base64.StdEncoding.EncodeToString([]byte("plain text, not xz"))

	for name, token := range map[string]string{
		"not base64": "!!!",
		"not xz":     notXZ,
		"truncated":  truncated,
	} {
		_, err := Unpack(token)
		require.ErrorIs(t, err, ErrMalformed, name)
	}
}
