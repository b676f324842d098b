// Package testutil runs the built jirahhh binary against isolated config
// directories and a fake Jira server.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// TestWorkspace is a throwaway HOME with its own config file and file
// keyring. Nothing from the caller's environment leaks into commands run
// through it.
type TestWorkspace struct {
	t          *testing.T
	Dir        string
	ConfigPath string
	env        map[string]string
}

// NewWorkspace creates an empty workspace under t.TempDir().
func NewWorkspace(t *testing.T) *TestWorkspace {
	t.Helper()
	dir := t.TempDir()
	w := &TestWorkspace{
		t:          t,
		Dir:        dir,
		ConfigPath: filepath.Join(dir, ".config", "jirahhh", "config.yaml"),
	}
	w.env = map[string]string{
		"HOME":                    dir,
		"JIRAHHH_CONFIG":          w.ConfigPath,
		"JIRAHHH_KEYRING_BACKEND": "file",
		"JIRAHHH_KEYRING_DIR":     filepath.Join(dir, "keyring"),
		"JIRAHHH_CONVERTER":       "builtin",
		"NO_COLOR":                "1",
	}
	return w
}

// WriteConfig writes the workspace config file.
func (w *TestWorkspace) WriteConfig(yaml string) *TestWorkspace {
	w.t.Helper()
	if err := os.MkdirAll(filepath.Dir(w.ConfigPath), 0o700); err != nil {
		w.t.Fatalf("creating config dir: %v", err)
	}
	if err := os.WriteFile(w.ConfigPath, []byte(yaml), 0o600); err != nil {
		w.t.Fatalf("writing config: %v", err)
	}
	return w
}

// WriteFile writes content to relPath inside the workspace and returns the
// absolute path.
func (w *TestWorkspace) WriteFile(relPath, content string) string {
	w.t.Helper()
	full := filepath.Join(w.Dir, relPath)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		w.t.Fatalf("creating directory for %s: %v", relPath, err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		w.t.Fatalf("writing %s: %v", relPath, err)
	}
	return full
}

// Setenv sets a variable for every later command run in the workspace.
func (w *TestWorkspace) Setenv(key, value string) *TestWorkspace {
	w.env[key] = value
	return w
}

// environ is the process environment for a command, with the caller's Jira
// and jirahhh variables removed.
func (w *TestWorkspace) environ() []string {
	var out []string
	for _, kv := range os.Environ() {
		if hasAnyPrefix(kv, "JIRA_", "JIRAHHH_", "HOME=", "NO_COLOR=") {
			continue
		}
		out = append(out, kv)
	}
	for k, v := range w.env {
		out = append(out, k+"="+v)
	}
	return out
}

func hasAnyPrefix(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if len(s) >= len(p) && s[:len(p)] == p {
			return true
		}
	}
	return false
}
