package slog_test

import (
	"bytes"
	"encoding/json"
	rawslog "log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jotter/jotter/pkg/logger/slog"
)

type line struct {
	Level  string `json:"level"`
	Msg    string `json:"msg"`
	NoteID string `json:"note_id"`
}

func newJSON(buf *bytes.Buffer, level string) *slog.Logger {
	return slog.New(rawslog.NewJSONHandler(buf, &rawslog.HandlerOptions{Level: slog.ParseLevel(level)}))
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []line {
	t.Helper()
	var out []line
	for _, raw := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if raw == "" {
			continue
		}
		var l line
		require.NoError(t, json.Unmarshal([]byte(raw), &l))
		out = append(out, l)
	}
	return out
}

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	l := newJSON(&buf, "debug")

	for _, tc := range []struct {
		fn    func(msg string, args ...any)
		level rawslog.Level
	}{
		{l.Error, rawslog.LevelError},
		{l.Warn, rawslog.LevelWarn},
		{l.Info, rawslog.LevelInfo},
		{l.Debug, rawslog.LevelDebug},
	} {
		t.Run(tc.level.String(), func(t *testing.T) {
			buf.Reset()
			tc.fn("fetched notes", "note_id", "n1")

			got := decodeLines(t, &buf)
			require.Len(t, got, 1)
			assert.Equal(t, line{Level: tc.level.String(), Msg: "fetched notes", NoteID: "n1"}, got[0])
		})
	}
}

func TestHandlerLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := newJSON(&buf, "warn")

	l.Debug("dropped")
	l.Info("dropped")
	l.Warn("kept")

	got := decodeLines(t, &buf)
	require.Len(t, got, 1)
	assert.Equal(t, "kept", got[0].Msg)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, rawslog.LevelDebug, slog.ParseLevel("DEBUG"))
	assert.Equal(t, rawslog.LevelWarn, slog.ParseLevel("warning"))
	assert.Equal(t, rawslog.LevelError, slog.ParseLevel("error"))
	assert.Equal(t, rawslog.LevelInfo, slog.ParseLevel(""))
	assert.Equal(t, rawslog.LevelInfo, slog.ParseLevel("loud"))
}
