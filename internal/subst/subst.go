// Package subst applies a key's curve to text.
//
// Only ASCII letters are substituted; their case is kept. Every other byte,
// accented letters and invalid UTF-8 included, is copied through verbatim.
// Decrypting with the wrong key is not detected and yields letters of the
// same shape as the plaintext.
package subst

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"curve/internal/curve"
	"curve/internal/letter"
)

// Table returns the mapping used for key in direction d.
func Table(key string, d Direction) (curve.Permutation, error) {
	p := curve.Generate(key)
	switch d {
	case Encrypt:
		return p, nil
	case Decrypt:
		return p.Inverse(), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrInvalidDirection, d)
}

// Transform encrypts or decrypts text with key. An unknown direction leaves
// text unchanged.
func Transform(text, key string, d Direction) string {
	table, err := Table(key, d)
	if err != nil {
		return text
	}
	return apply(text, table)
}

// Encode encrypts text with key.
func Encode(text, key string) string {
	return Transform(text, key, Encrypt)
}

// Decode decrypts text with key.
func Decode(text, key string) string {
	return Transform(text, key, Decrypt)
}

// Apply substitutes text through an explicit table, which is validated first.
func Apply(text string, table curve.Permutation) (string, error) {
	if err := table.Validate(); err != nil {
		return "", err
	}
	return apply(text, table), nil
}

func apply(text string, table curve.Permutation) string {
	new := &strings.Builder{}
	new.Grow(len(text))

	// Multibyte UTF-8 sequences never contain ASCII bytes.
	for i := 0; i < len(text); i++ {
		b := text[i]
		if n, upper, ok := letter.Index(rune(b)); ok {
			b = byte(letter.Rune(table[n], upper))
		}
		new.WriteByte(b)
	}
	return new.String()
}

// Copy streams src to dst through key's curve, line by line. The curve is
// derived once for the whole stream.
func Copy(ctx context.Context, dst io.Writer, src io.Reader, key string, d Direction) (int64, error) {
	table, err := Table(key, d)
	if err != nil {
		return 0, err
	}
	return copyTable(ctx, dst, src, table)
}

// CopyTable streams src to dst through an explicit table, which is validated
// first.
func CopyTable(ctx context.Context, dst io.Writer, src io.Reader, table curve.Permutation) (int64, error) {
	if err := table.Validate(); err != nil {
		return 0, err
	}
	return copyTable(ctx, dst, src, table)
}

func copyTable(ctx context.Context, dst io.Writer, src io.Reader, table curve.Permutation) (int64, error) {
	r := bufio.NewReader(src)
	var n int64
	for {
		if err := ctx.Err(); err != nil {
			return n, err
		}

		line, rerr := r.ReadString('\n')
		if len(line) > 0 {
			w, err := io.WriteString(dst, apply(line, table))
			n += int64(w)
			if err != nil {
				return n, fmt.Errorf("subst: write: %w", err)
			}
		}

		if rerr == io.EOF {
			return n, nil
		}
		if rerr != nil {
			return n, fmt.Errorf("subst: read: %w", rerr)
		}
	}
}
