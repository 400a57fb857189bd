package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"curve/internal/ctxlog"
)

func write(t *testing.T, content string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(file, []byte(content), 0644))
	return file
}

func TestLoad(t *testing.T) {
	file := write(t, `
server:
  port: 8080
  host: cipher.example
  adminKey: s3cret
  antidosBuckets: 64
  antidosPeriod: 50ms
  renderBuckets: 16
  renderPeriod: 200ms
  renderMaxConcurrent: 2
  maxBodyBytes: 65536
  shutdownTimeout: 10s
db:
  file: data/keys.db
`)

	c, err := Load(ctxlog.Discard(context.Background()), file)
	require.NoError(t, err)
	require.Equal(t, 8080, c.Server.Port)
	require.Equal(t, "cipher.example", c.Server.Host)
	require.Equal(t, 50*time.Millisecond, c.Server.AntidosPeriod)
	require.Equal(t, 10*time.Second, c.Server.ShutdownTimeout)
	require.EqualValues(t, 65536, c.Server.MaxBodyBytes)
	require.Equal(t, "data/keys.db", c.DB.File)
}

func TestLoadStrict(t *testing.T) {
	file := write(t, "server:\n  port: 1\n  colour: blue\n")

	_, err := Load(ctxlog.Discard(context.Background()), file)
	require.Error(t, err)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(ctxlog.Discard(context.Background()), filepath.Join(t.TempDir(), "none.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
