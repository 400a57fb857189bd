package plot

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"curve/internal/curve"
)

func TestText(t *testing.T) {
	p := curve.Generate("test")

	var buf bytes.Buffer
	require.NoError(t, Text(&buf, p))

	lines := strings.Split(buf.String(), "\n")
	// 26 grid rows, axis, labels, blank, mapping, trailing newline
	require.Len(t, lines, curve.Size+5)

	// Row for "Z" (top) has its mark above the column of the letter mapped to Z.
	require.True(t, strings.HasPrefix(lines[0], "Z |"))
	require.Equal(t, 1, strings.Count(lines[0], "*"))
	for _, row := range lines[:curve.Size] {
		require.Equal(t, 1, strings.Count(row, "*"), row)
	}

	mapping := lines[curve.Size+3]
	require.True(t, strings.HasPrefix(mapping, "A→C B→K C→D"), mapping)
	require.True(t, strings.HasSuffix(mapping, "Z→B"), mapping)
}

func TestTextMalformed(t *testing.T) {
	var buf bytes.Buffer
	require.ErrorIs(t, Text(&buf, curve.Permutation{0}), curve.ErrMalformedPermutation)
	require.Zero(t, buf.Len())
}

func TestWriteToSVG(t *testing.T) {
	var buf bytes.Buffer
	n, err := WriteTo(&buf, curve.Generate("key"), "svg")
	require.NoError(t, err)
	require.EqualValues(t, buf.Len(), n)
	require.Contains(t, buf.String(), "<svg")
}

func TestSave(t *testing.T) {
	file := filepath.Join(t.TempDir(), "curve.png")
	require.NoError(t, Save(curve.Generate("key"), file))

	info, err := os.Stat(file)
	require.NoError(t, err)
	require.NotZero(t, info.Size())
}

func TestSaveMalformed(t *testing.T) {
	file := filepath.Join(t.TempDir(), "curve.png")
	require.ErrorIs(t, Save(curve.Permutation{1, 1}, file), curve.ErrMalformedPermutation)
}
