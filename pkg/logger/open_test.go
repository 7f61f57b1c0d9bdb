package logger_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jotter/jotter/pkg/logger"
)

func TestOpenFormats(t *testing.T) {
	cases := []struct {
		format string
		msgKey string
		level  string
	}{
		{"", "message", "warn"},
		{logger.FormatZerolog, "message", "warn"},
		{logger.FormatSlog, "msg", "WARN"},
	}

	for _, tc := range cases {
		t.Run("format="+tc.format, func(t *testing.T) {
			var buf bytes.Buffer
			l, closeLog, err := logger.Open(logger.Options{Format: tc.format, Level: "warn", Writer: &buf})
			require.NoError(t, err)
			defer func() { require.NoError(t, closeLog()) }()

			l.Info("dropped")
			require.Zero(t, buf.Len())

			l.Warn("fetch notes failed", "note_id", "n1")

			var line map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
			assert.Equal(t, "fetch notes failed", line[tc.msgKey])
			assert.Equal(t, tc.level, line["level"])
			assert.Equal(t, "n1", line["note_id"])
		})
	}
}

func TestOpenSlogToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jotter.log")
	l, closeLog, err := logger.Open(logger.Options{Format: logger.FormatSlog, Path: path})
	require.NoError(t, err)

	l.Error("boom", "code", 7)
	require.NoError(t, closeLog())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"boom"`)
}

func TestOpenUnknownFormat(t *testing.T) {
	_, _, err := logger.Open(logger.Options{Format: "xml"})
	assert.ErrorContains(t, err, `unknown log format "xml"`)
}
