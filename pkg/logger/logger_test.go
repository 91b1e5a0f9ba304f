package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func capture(t *testing.T, level string) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	Init(level)
	SetOutput(&buf)
	t.Cleanup(func() {
		Init("info")
		SetOutput(os.Stdout)
	})
	return &buf
}

func TestInitParsesLevels(t *testing.T) {
	for in, want := range map[string]string{
		"debug":    "debug",
		"WARN":     "warn",
		"warning":  "warn",
		" Error ":  "error",
		"fatal":    "fatal",
		"trace":    "info",
		"nonsense": "info",
		"":         "info",
	} {
		Init(in)
		require.Equal(t, want, LevelString(), in)
	}
	Init("info")
}

func TestLevelFiltering(t *testing.T) {
	buf := capture(t, "warn")

	Debugf("debug-msg")
	Infof("info-msg")
	Warnf("remote save failed after %d attempts", 3)
	Errorf("local save failed")

	out := buf.String()
	require.NotContains(t, out, "debug-msg")
	require.NotContains(t, out, "info-msg")
	require.Contains(t, out, "remote save failed after 3 attempts")
	require.Contains(t, out, "local save failed")
	require.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 2)
}

func TestSetOutputKeepsLevel(t *testing.T) {
	buf := capture(t, "debug")
	SetOutput(buf)
	Debugf("still here")
	require.Contains(t, buf.String(), "still here")
}

func TestLinesAreJSON(t *testing.T) {
	buf := capture(t, "info")
	Warnf("workspace %q loaded from %s", "carpetaDigital", "local")

	var line map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &line), buf.String())
	require.Equal(t, "warn", line["level"])
	require.Equal(t, `workspace "carpetaDigital" loaded from local`, line["message"])
	require.Contains(t, line, "time")
}
