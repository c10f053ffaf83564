package logger

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("chatty"))
}

func TestNew_AutoIsJSONOffTerminal(t *testing.T) {
	buf := &bytes.Buffer{}
	l := New(buf, "info", FormatAuto)
	l.Debug("hidden")
	l.Warn("ignored keyword", "keyword", "format")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	require.True(t, strings.HasPrefix(out, "{"), out)
	assert.Contains(t, out, `"keyword":"format"`)
	assert.Contains(t, out, `"level":"WARN"`)
}

func TestNew_DevAndText(t *testing.T) {
	buf := &bytes.Buffer{}
	New(buf, "debug", FormatDev).Debug("compiled", "file", "a.json")
	assert.Contains(t, buf.String(), "DBG")
	assert.Contains(t, buf.String(), "file=a.json")
	assert.NotContains(t, buf.String(), "\x1b[")

	buf.Reset()
	New(buf, "info", FormatText).Info("hello")
	assert.Contains(t, buf.String(), "msg=hello")
}

func TestContext(t *testing.T) {
	buf := &bytes.Buffer{}
	l := New(buf, "info", FormatJSON)
	ctx := WithContext(context.Background(), l)
	From(ctx).Info("through context")
	assert.Contains(t, buf.String(), "through context")

	assert.NotNil(t, From(context.Background()))
}
