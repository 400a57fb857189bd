package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"curve/internal/ctxlog"
)

func TestRunMissingConfig(t *testing.T) {
	err := run(ctxlog.Discard(context.Background()), filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestRunIncompleteConfig(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte("server:\n  port: 8080\n"), 0644))

	err := run(ctxlog.Discard(context.Background()), file)
	require.ErrorContains(t, err, "server: antidosBuckets is required")
}
