package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jotter/jotter/pkg/logger"
)

func TestLoadDefaultsWhenDefaultFileMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "ws://127.0.0.1:8000", cfg.Endpoint)
	assert.Equal(t, 20, cfg.WordsPerMinute)
	assert.Equal(t, 3*time.Second, cfg.ToastDuration)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, "127.0.0.1:8000", cfg.Server.Listen)
	assert.Equal(t, filepath.Join(Dir(), "session.yaml"), cfg.SessionFile)
}

func TestLoadExplicitMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	t.Setenv("NOTES_HOST", "notes.example.com")
	require.NoError(t, os.WriteFile(path, []byte(`
endpoint: https://${NOTES_HOST}
words_per_minute: 200
toast_duration: 1500ms
server:
  listen: 0.0.0.0:9000
  token_ttl: 1h
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://notes.example.com", cfg.Endpoint)
	assert.Equal(t, 200, cfg.WordsPerMinute)
	assert.Equal(t, 1500*time.Millisecond, cfg.ToastDuration)
	assert.Equal(t, "0.0.0.0:9000", cfg.Server.Listen)
	assert.Equal(t, time.Hour, cfg.Server.TokenTTL)
	assert.Equal(t, 30*time.Second, cfg.Timeout, "unset keys keep defaults")
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("endpoint: ws://file:8000\n"), 0o600))

	t.Setenv("JOTTER_ENDPOINT", "http://env:8000")
	t.Setenv("JOTTER_WPM", "42")
	t.Setenv("JOTTER_TIMEOUT", "5s")
	t.Setenv("JOTTER_DB", ":memory:")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://env:8000", cfg.Endpoint)
	assert.Equal(t, 42, cfg.WordsPerMinute)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, ":memory:", cfg.Server.Database)
}

func TestBadEnv(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("JOTTER_WPM", "fast")
	_, err := Load("")
	assert.ErrorContains(t, err, "JOTTER_WPM")
}

func TestValidate(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	cfg.Endpoint = "ftp://127.0.0.1"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.WordsPerMinute = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.LogFormat = "xml"
	assert.ErrorContains(t, cfg.Validate(), "log_format")
}

func TestLogFormat(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, logger.FormatZerolog, cfg.LogFormat)

	t.Setenv("JOTTER_LOG_FORMAT", "slog")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, logger.FormatSlog, cfg.LogFormat)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	cfg := Default()
	cfg.Endpoint = "wss://notes.example.com"
	cfg.ToastDuration = 2 * time.Second
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
