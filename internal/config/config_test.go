package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, content string) string {
	t.Helper()
	name := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(name, []byte(content), 0600))
	return name
}

func TestLoad(t *testing.T) {
	name := write(t, `
log:
  dir: log
  level: debug
journal:
  file: data/journal.bolt
  timeout: 5s
server:
  port: 8080
  antidosBuckets: 16
  antidosPeriod: 10ms
  maxBodyBytes: 4096
  shutdownTimeout: 3s
workers: 4
`)

	c, err := Load(context.Background(), name)
	require.NoError(t, err)

	assert.Equal(t, "log", c.Log.Dir)
	assert.Equal(t, slog.LevelDebug, c.Log.Level)
	assert.Equal(t, "data/journal.bolt", c.Journal.File)
	assert.Equal(t, 5*time.Second, c.Journal.Timeout)
	assert.Equal(t, 8080, c.Server.Port)
	assert.Equal(t, 16, c.Server.AntidosBuckets)
	assert.Equal(t, 10*time.Millisecond, c.Server.AntidosPeriod)
	assert.Equal(t, int64(4096), c.Server.MaxBodyBytes)
	assert.Equal(t, 3*time.Second, c.Server.ShutdownTimeout)
	assert.Equal(t, 4, c.Workers)
}

func TestLoadStrict(t *testing.T) {
	name := write(t, "server:\n  port: 1\n  unknown: true\n")

	_, err := Load(context.Background(), name)
	assert.Error(t, err)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
