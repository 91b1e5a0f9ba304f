package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/carpeta/organizer/internal/config"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func testConfig() *config.Config {
	return &config.Config{Sync: config.SyncConfig{
		LocalKey:      "carpetaDigital",
		LocalPath:     "organizer.db",
		RemoteTimeout: time.Second,
	}}
}

// run executes one CLI invocation against the database at path.
func run(t *testing.T, path string, args ...string) string {
	t.Helper()
	root := newRootCmd(testConfig())
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--local", path}, args...))
	require.NoError(t, root.Execute(), out.String())
	return out.String()
}

func TestCLI_WorkspaceSurvivesRestarts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ws.db")

	out := run(t, path, "folders")
	require.Contains(t, out, "My Documents")

	out = run(t, path, "folder", "add", "Physics")
	require.Contains(t, out, "Created folder")

	out = run(t, path, "doc", "new", "-f", "physics", "Kinematics")
	require.Contains(t, out, "Kinematics in Physics")

	out = run(t, path, "doc", "list", "-f", "Physics")
	require.Contains(t, out, "Kinematics")
	require.Contains(t, out, "Today")
	id := strings.Fields(strings.Split(out, "\n")[1])[0]

	run(t, path, "doc", "save", "-f", "Physics", id, "--content", "v = d/t")
	out = run(t, path, "doc", "show", "-f", "Physics", id)
	require.Contains(t, out, "v = d/t")

	out = run(t, path, "doc", "list")
	require.Contains(t, out, "No documents in My Documents")

	run(t, path, "event", "add", "Final", "--date", "2025-06-20", "--time", "09:00", "--type", "exam")
	out = run(t, path, "events", "2025-06-20")
	require.Contains(t, out, "[Exam] Final")
	out = run(t, path, "events", "2025-06-21")
	require.Contains(t, out, "No events on 2025-06-21")

	out = run(t, path, "calendar", "2025-06")
	require.Contains(t, out, "June 2025")
	require.Contains(t, out, "20E")
	out = run(t, path, "calendar", "2025-12", "--shift", "1")
	require.Contains(t, out, "January 2026")

	out = run(t, path, "export", "--format", "yaml")
	var doc map[string]interface{}
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	require.Len(t, doc["folders"], 2)
	require.Len(t, doc["events"], 1)

	out = run(t, path, "export")
	require.Contains(t, out, `"title": "Kinematics"`)
}

func TestCLI_Errors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ws.db")
	for _, args := range [][]string{
		{"doc", "new", "-f", "nope", "x"},
		{"event", "add", "Bad", "--date", "2025-02-30"},
		{"event", "add", "Bad", "--time", "25:00"},
		{"event", "rm", "missing"},
		{"event", "rm", ""},
		{"remote", "events", "2025-6", "40"},
		{"calendar", "June"},
		{"export", "--format", "xml"},
		{"remote", "documents"},
	} {
		root := newRootCmd(testConfig())
		var out bytes.Buffer
		root.SetOut(&out)
		root.SetErr(&out)
		root.SetArgs(append([]string{"--local", path, "--remote", ""}, args...))
		require.Error(t, root.Execute(), args)
	}
}

func TestCLI_EventRemoveNeedsAnExactReference(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ws.db")
	run(t, path, "event", "add", "Keep", "--date", "2025-06-20")
	run(t, path, "event", "add", "Other", "--date", "2025-06-20")

	root := newRootCmd(testConfig())
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"--local", path, "event", "rm", ""})
	require.Error(t, root.Execute())
	require.NotContains(t, out.String(), "Deleted")

	out2 := run(t, path, "events", "2025-06-20")
	require.Contains(t, out2, "Keep")
	require.Contains(t, out2, "Other")

	root = newRootCmd(testConfig())
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"--local", path, "remote", "events", "2025-6", "31"})
	err := root.Execute()
	require.Error(t, err)
	require.Contains(t, err.Error(), "day")
}
