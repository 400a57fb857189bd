package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"curve/internal/curve"
	"curve/internal/keypack"
)

func TestPackedKey(t *testing.T) {
	packed, err := keypack.Pack("key")
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{packed, "Whllt,", "Ztvlq!"}, nil, &out))
	require.Equal(t, "Hello, World!\n", out.String())

	out.Reset()
	require.NoError(t, run(context.Background(), []string{packed}, strings.NewReader("Whllt, Ztvlq!\nkpc\xe9\n"), &out))
	require.Equal(t, "Hello, World!\ncaf\xe9\n", out.String())
}

func TestCurveArgument(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"-curve", "PXKQHCNWIDULGOTYBVFERAZMSJ", "Whllt, Ztvlq!"}, nil, &out))
	require.Equal(t, "Hello, World!\n", out.String())

	out.Reset()
	require.NoError(t, run(context.Background(), []string{"-curve", "ckdngsfevtmjxhyuzpliqraowb"}, strings.NewReader("Ciicdm ci ncah."), &out))
	require.Equal(t, "Attack at dawn.", out.String())
}

func TestBadArguments(t *testing.T) {
	for _, args := range [][]string{
		{"-curve"},
		{"-curve", "ABC"},
		{"-curve", "AACDEFGHIJKLMNOPQRSTUVWXYZ"},
		{"-curve", "ABCDEFGHIJKLMNOPQRSTUVWXY1"},
	} {
		var out bytes.Buffer
		err := run(context.Background(), args, strings.NewReader("abc"), &out)
		require.Error(t, err, "%q", args)
		if len(args) > 1 {
			require.ErrorIs(t, err, curve.ErrMalformedPermutation, "%q", args)
		}
		require.Empty(t, out.String())
	}

	err := run(context.Background(), []string{"not a token"}, strings.NewReader("abc"), &bytes.Buffer{})
	require.ErrorIs(t, err, keypack.ErrMalformed)
}
