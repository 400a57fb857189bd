// Package keypack turns a key into a printable token for sharing and back.
//
// A token is the key's UTF-8 bytes in an xz container, base64 encoded with
// the standard padded alphabet. Python's lzma.compress writes the same
// container, so tokens made with base64(lzma.compress(key)) unpack here too.
package keypack

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/ulikunitz/xz"
)

var ErrMalformed = errors.New("malformed packed key")

// maxKeyBytes bounds decompression of untrusted tokens.
const maxKeyBytes = 1 << 20

func Pack(key string) (string, error) {
	buf := &bytes.Buffer{}

	w, err := xz.NewWriter(buf)
	if err != nil {
		return "", fmt.Errorf("keypack: create xz writer: %w", err)
	}
	if _, err := io.WriteString(w, key); err != nil {
		return "", fmt.Errorf("keypack: compress: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("keypack: close xz writer: %w", err)
	}

	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func Unpack(token string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(token))
	if err != nil {
		return "", fmt.Errorf("keypack: %w: base64: %v", ErrMalformed, err)
	}

	r, err := xz.NewReader(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("keypack: %w: xz header: %v", ErrMalformed, err)
	}

	data, err := io.ReadAll(io.LimitReader(r, maxKeyBytes+1))
	if err != nil {
		return "", fmt.Errorf("keypack: %w: xz stream: %v", ErrMalformed, err)
	}
	if len(data) > maxKeyBytes {
		return "", fmt.Errorf("keypack: %w: key longer than %d bytes", ErrMalformed, maxKeyBytes)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("keypack: %w: key is not valid UTF-8", ErrMalformed)
	}

	return string(data), nil
}
