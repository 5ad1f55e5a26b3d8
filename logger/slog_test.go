package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlogLogger_JSON(t *testing.T) {
	require := require.New(t)
	t.Setenv("ENV", "")

	var buf bytes.Buffer
	l := NewSlogWithWriter(&buf, InfoLevel, false)

	l.Debug("hidden")
	require.Zero(buf.Len())

	l.With("session", "abc").Info("connected", "addr", "localhost:33576")

	var rec map[string]any
	require.NoError(json.Unmarshal(buf.Bytes(), &rec))
	require.Equal("connected", rec["msg"])
	require.Equal("abc", rec["session"])
	require.Equal("localhost:33576", rec["addr"])
	require.Contains(rec, "ts")
	require.NotContains(rec, "time")
}

func TestSlogLogger_Level(t *testing.T) {
	require := require.New(t)

	var buf bytes.Buffer
	l := NewSlogWithWriter(&buf, WarnLevel, false)
	require.Equal(WarnLevel, l.Level())

	child := l.With("k", "v")
	l.SetLevel(DebugLevel)
	require.Equal(DebugLevel, child.Level())

	child.Debug("visible")
	require.Contains(buf.String(), "visible")
}

func TestParseLevel(t *testing.T) {
	require := require.New(t)

	require.Equal(DebugLevel, ParseLevel("debug"))
	require.Equal(WarnLevel, ParseLevel("warn"))
	require.Equal(ErrorLevel, ParseLevel("error"))
	require.Equal(FatalLevel, ParseLevel("fatal"))
	require.Equal(InfoLevel, ParseLevel("verbose"))
}

func TestSetLogger(t *testing.T) {
	require := require.New(t)
	t.Setenv("ENV", "")

	prev := GetLogger()
	t.Cleanup(func() { SetLogger(prev) })

	var buf bytes.Buffer
	l := NewSlogWithWriter(&buf, InfoLevel, false)
	SetLogger(l)
	require.Same(l, GetLogger())

	SetLogger(nil)
	require.Same(l, GetLogger())

	Info("through default", "k", "v")
	require.Contains(buf.String(), "through default")
}
